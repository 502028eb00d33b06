package cli

import (
	"fmt"
	"io"
	"time"

	"go-gin-calendar/internal/client"
	"go-gin-calendar/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List events overlapping a window",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			filter, err := parseWindow(from, to)
			if err != nil {
				return f.Fail(ExitCommandError, "invalid window", err)
			}
			events, err := rootOpts.api().List(cmd.Context(), filter)
			if err != nil {
				return f.Fail(ExitFailure, "list events", err)
			}
			loc := rootOpts.location()
			return f.Success(events, func(w io.Writer) { renderEventList(w, events, loc) })
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start (ISO 8601, date-only means UTC midnight)")
	cmd.Flags().StringVar(&to, "to", "", "window end (ISO 8601)")
	return cmd
}

func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var draft client.EventDraft
	var start, end string

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create an event",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			loc := rootOpts.location()
			var err error
			if draft.Start, err = parseInstant(start, loc); err != nil {
				return f.Fail(ExitCommandError, "invalid --start", err)
			}
			if draft.End, err = parseInstant(end, loc); err != nil {
				return f.Fail(ExitCommandError, "invalid --end", err)
			}
			created, err := rootOpts.api().Create(cmd.Context(), draft)
			if err != nil {
				return f.Fail(ExitFailure, "create event", err)
			}
			return f.Success(created, func(w io.Writer) {
				fmt.Fprintf(w, "Created %s\n", created.EventID)
				renderEventList(w, []model.Event{*created}, loc)
			})
		},
	}

	cmd.Flags().StringVarP(&draft.Title, "title", "t", "", "event title")
	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "event description")
	cmd.Flags().StringVar(&draft.Color, "color", "", "hex color, e.g. #1976d2")
	cmd.Flags().StringVar(&start, "start", "", "start (RFC 3339 or \"2006-01-02 15:04\" in --tz)")
	cmd.Flags().StringVar(&end, "end", "", "end (RFC 3339 or \"2006-01-02 15:04\" in --tz)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var title, description, color, start, end string

	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Update the given fields of an event",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			id, err := uuid.Parse(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, "invalid event id", err)
			}

			// 只送出有指定的旗標
			loc := rootOpts.location()
			var patch client.EventPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if flags.Changed("start") {
				t, err := parseInstant(start, loc)
				if err != nil {
					return f.Fail(ExitCommandError, "invalid --start", err)
				}
				patch.Start = &t
			}
			if flags.Changed("end") {
				t, err := parseInstant(end, loc)
				if err != nil {
					return f.Fail(ExitCommandError, "invalid --end", err)
				}
				patch.End = &t
			}

			updated, err := rootOpts.api().Update(cmd.Context(), id, patch)
			if err != nil {
				return f.Fail(ExitFailure, "update event", err)
			}
			return f.Success(updated, func(w io.Writer) {
				renderEventList(w, []model.Event{*updated}, loc)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "event title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "event description")
	cmd.Flags().StringVar(&color, "color", "", "hex color")
	cmd.Flags().StringVar(&start, "start", "", "start")
	cmd.Flags().StringVar(&end, "end", "", "end")
	return cmd
}

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an event",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			id, err := uuid.Parse(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, "invalid event id", err)
			}
			if err := rootOpts.api().Delete(cmd.Context(), id); err != nil {
				return f.Fail(ExitFailure, "delete event", err)
			}
			return f.Success(map[string]string{"message": "Event deleted"}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s\n", id)
			})
		},
	}
}

// Accepted --start/--end layouts besides RFC 3339; interpreted in --tz.
var localLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseInstant(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q", s)
}

func parseWindow(from, to string) (model.EventFilter, error) {
	var filter model.EventFilter
	if from != "" {
		t, err := model.ParseTimestamp(from)
		if err != nil {
			return filter, fmt.Errorf("--from: %w", err)
		}
		filter.From = &t
	}
	if to != "" {
		t, err := model.ParseTimestamp(to)
		if err != nil {
			return filter, fmt.Errorf("--to: %w", err)
		}
		filter.To = &t
	}
	return filter, nil
}
