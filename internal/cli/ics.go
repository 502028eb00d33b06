package cli

import (
	"fmt"
	"io"
	"os"

	"go-gin-calendar/internal/client"
	"go-gin-calendar/internal/export"
	"go-gin-calendar/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ImportResult summarizes an ICS import.
type ImportResult struct {
	Created []model.Event `json:"created"`
	// Skipped lists UIDs already on the server, e.g. from an earlier import
	// of the same export.
	Skipped []string `json:"skipped,omitempty"`
	Failed  []string `json:"failed,omitempty"`
}

func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "import <file.ics>",
		Short:         "Create events from an iCalendar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			file, err := os.Open(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, "open file", err)
			}
			defer file.Close()

			drafts, err := export.ParseICS(file)
			if err != nil {
				return f.Fail(ExitCommandError, "parse file", err)
			}

			cache := client.NewEventCache(rootOpts.api())
			if err := cache.Load(cmd.Context()); err != nil {
				return f.Fail(ExitFailure, "load events", err)
			}
			result := ImportResult{Created: make([]model.Event, 0, len(drafts))}
			for _, d := range drafts {
				if d.EventID != uuid.Nil {
					if _, ok := cache.Get(d.EventID); ok {
						result.Skipped = append(result.Skipped, d.EventID.String())
						continue
					}
				}
				created, err := cache.Create(cmd.Context(), client.EventDraft{
					Title:       d.Title,
					Description: d.Description,
					Start:       d.Start,
					End:         d.End,
					Color:       d.Color,
				})
				if err != nil {
					result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", d.Title, err))
					continue
				}
				result.Created = append(result.Created, *created)
			}

			loc := rootOpts.location()
			if err := f.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d of %d event(s)\n", len(result.Created), len(drafts))
				if len(result.Skipped) > 0 {
					fmt.Fprintf(w, "Skipped %d already present\n", len(result.Skipped))
				}
				renderEventList(w, result.Created, loc)
				for _, msg := range result.Failed {
					fmt.Fprintf(w, "failed: %s\n", msg)
				}
			}); err != nil {
				return err
			}
			if len(result.Failed) > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d event(s) not imported", len(result.Failed)))
			}
			return nil
		},
	}
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Write events overlapping a window as iCalendar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			filter, err := parseWindow(from, to)
			if err != nil {
				return f.Fail(ExitCommandError, "invalid window", err)
			}

			cache := client.NewEventCache(rootOpts.api())
			if err := cache.Load(cmd.Context()); err != nil {
				return f.Fail(ExitFailure, "load events", err)
			}
			events := cache.Range(filter.From, filter.To)
			ptrs := make([]*model.Event, 0, len(events))
			for i := range events {
				ptrs = append(ptrs, &events[i])
			}

			w := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return f.Fail(ExitCommandError, "create file", err)
				}
				defer file.Close()
				w = file
			}
			if err := export.WriteICS(w, ptrs); err != nil {
				return f.Fail(ExitFailure, "write calendar", err)
			}
			f.VerboseLog("Exported %d event(s)", len(ptrs))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start (ISO 8601)")
	cmd.Flags().StringVar(&to, "to", "", "window end (ISO 8601)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}
