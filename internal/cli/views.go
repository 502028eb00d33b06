package cli

import (
	"fmt"
	"io"
	"time"

	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/client"
	"go-gin-calendar/internal/model"

	"github.com/spf13/cobra"
)

// NewViewCommand creates the month, week or day command.
func NewViewCommand(rootOpts *RootOptions, view calendar.View) *cobra.Command {
	var date string
	var offset int
	var noHolidays bool

	cmd := &cobra.Command{
		Use:           string(view),
		Short:         fmt.Sprintf("Show the %s view", view),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			opts, err := rootOpts.calendarOptions()
			if err != nil {
				return f.Fail(ExitCommandError, "invalid display options", err)
			}

			api := rootOpts.api()
			cache := client.NewEventCache(api)
			if err := cache.Load(cmd.Context()); err != nil {
				return f.Fail(ExitFailure, "load events", err)
			}
			f.VerboseLog("Loaded %d event(s) from %s", len(cache.Events()), rootOpts.Server)

			session := client.NewSession(cache, opts)
			if !noHolidays {
				session.WithHolidays(api, rootOpts.Country)
			}
			session.SetView(view)
			if date != "" {
				day, err := time.ParseInLocation(model.HolidayDateLayout, date, opts.Location)
				if err != nil {
					return f.Fail(ExitCommandError, "invalid --date", err)
				}
				session.GoTo(day)
			}
			for ; offset > 0; offset-- {
				session.Next()
			}
			for ; offset < 0; offset++ {
				session.Prev()
			}

			grid, err := session.Grid(cmd.Context())
			if err != nil {
				return f.Fail(ExitFailure, "build view", err)
			}
			title := session.Title()
			return f.Success(grid, func(w io.Writer) {
				fmt.Fprintln(w, title)
				if grid.Month != nil {
					renderMonth(w, grid.Month, opts)
				} else {
					renderTimeGrid(w, grid.Time, view, opts)
				}
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "anchor date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&offset, "offset", 0, fmt.Sprintf("%ss to move forward (negative: back)", view))
	cmd.Flags().BoolVar(&noHolidays, "no-holidays", false, "skip the holiday overlay")
	return cmd
}
