package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func NewHolidaysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "holidays <year>",
		Short:         "List public holidays for --country",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, "invalid year", err)
			}
			holidays, err := rootOpts.api().Holidays(cmd.Context(), year, rootOpts.Country)
			if err != nil {
				return f.Fail(ExitFailure, "holiday lookup", err)
			}
			return f.Success(holidays, func(w io.Writer) {
				if len(holidays) == 0 {
					fmt.Fprintln(w, "No holidays")
					return
				}
				for _, h := range holidays {
					fmt.Fprintf(w, "%s  %-32s %s\n", h.Date, h.Name, h.Type)
				}
			})
		},
	}
}
