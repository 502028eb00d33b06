// Package cli implements calctl, a terminal client for the calendar API.
package cli

import (
	"fmt"
	"os"
	"time"

	"go-gin-calendar/config"
	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/client"

	"github.com/spf13/cobra"
)

// API is what calctl needs from the server.
type API interface {
	client.EventAPI
	client.HolidayAPI
}

// ClientFactory builds the API client for a base URL.
type ClientFactory func(baseURL string) API

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Server    string
	Timezone  string
	WeekStart string
	Country   string
	MaxPerDay int

	newClient ClientFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates calctl talking to a real server over HTTP.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithClient(func(baseURL string) API {
		return client.NewHTTPClient(baseURL)
	})
}

// NewRootCommandWithClient creates calctl with a custom client factory.
func NewRootCommandWithClient(factory ClientFactory) *cobra.Command {
	opts := &RootOptions{newClient: factory}

	cmd := &cobra.Command{
		Use:   "calctl",
		Short: "calctl - calendar from the terminal",
		Long:  "Browse month, week and day views and manage events on a calendar server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := opts.calendarOptions(); err != nil {
				return err
			}
			return nil
		},
	}

	defaultServer := os.Getenv("CALCTL_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", defaultServer, "calendar server base URL")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", "", "IANA time zone for display (default: host zone)")
	cmd.PersistentFlags().StringVar(&opts.WeekStart, "week-start", "sunday", "first day of the week (sunday|monday|saturday)")
	cmd.PersistentFlags().StringVar(&opts.Country, "country", "IN", "holiday country code")
	cmd.PersistentFlags().IntVar(&opts.MaxPerDay, "max-per-day", calendar.DefaultMaxPerDay, "events shown per month cell")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewViewCommand(opts, calendar.ViewMonth))
	cmd.AddCommand(NewViewCommand(opts, calendar.ViewWeek))
	cmd.AddCommand(NewViewCommand(opts, calendar.ViewDay))
	cmd.AddCommand(NewHolidaysCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// calendarOptions resolves the display flags the same way the server
// resolves its calendar config section.
func (o *RootOptions) calendarOptions() (calendar.Options, error) {
	cc := config.CalendarConfig{WeekStart: o.WeekStart, Timezone: o.Timezone, MaxPerDay: o.MaxPerDay}
	ws, err := cc.WeekStartDay()
	if err != nil {
		return calendar.Options{}, err
	}
	loc, err := cc.Location()
	if err != nil {
		return calendar.Options{}, fmt.Errorf("invalid time zone %q: %w", o.Timezone, err)
	}
	return calendar.Options{WeekStart: ws, Location: loc, MaxPerDay: cc.MaxPerDay}, nil
}

func (o *RootOptions) api() API {
	return o.newClient(o.Server)
}

func (o *RootOptions) location() *time.Location {
	opts, err := o.calendarOptions()
	if err != nil {
		return time.Local
	}
	return opts.Location
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
