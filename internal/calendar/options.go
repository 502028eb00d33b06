// Package calendar lays out month, week and day views over a set of events.
//
// Everything here is pure: builders take the events already held by the
// caller and never touch the network or the store. Wall-clock math uses
// Options.Location, so a day is the local calendar day, not a UTC one.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
)

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMonth:
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

const (
	// DefaultMaxPerDay 月視圖每格最多顯示的活動數，其餘以 "+K more" 表示
	DefaultMaxPerDay = 2
	HoursPerDay      = 24
)

type Options struct {
	WeekStart time.Weekday
	// Location for wall-clock decomposition; nil means time.Local.
	Location *time.Location
	// MaxPerDay caps the events rendered per month cell; <= 0 uses DefaultMaxPerDay.
	MaxPerDay int
	// PadToSixWeeks extends short months so every month grid has six rows.
	PadToSixWeeks bool
	Holidays      []model.Holiday
	// Now marks the "today" cell; nil means time.Now.
	Now func() time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) maxPerDay() int {
	if o.MaxPerDay <= 0 {
		return DefaultMaxPerDay
	}
	return o.MaxPerDay
}

func (o Options) today() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return StartOfDay(now(), o.location())
}

// Grid is the renderable description of one view.
type Grid struct {
	View   View       `json:"view"`
	Anchor time.Time  `json:"anchor"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Month  *MonthGrid `json:"month,omitempty"`
	Time   *TimeGrid  `json:"time,omitempty"`
}

// Build dispatches to the builder for view.
func Build(view View, anchor time.Time, events []model.Event, opts Options) (*Grid, error) {
	grid := &Grid{View: view, Anchor: anchor}
	switch view {
	case ViewMonth:
		grid.Month = BuildMonth(anchor, events, opts)
		grid.Start, grid.End = grid.Month.Start, grid.Month.End
	case ViewWeek:
		grid.Time = BuildWeek(anchor, events, opts)
		grid.Start, grid.End = grid.Time.Start, grid.Time.End
	case ViewDay:
		grid.Time = BuildDay(anchor, events, opts)
		grid.Start, grid.End = grid.Time.Start, grid.Time.End
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}
	return grid, nil
}

// VisibleRange returns the closed instant window a view covers, suitable as
// the bounds of an overlap query.
func VisibleRange(view View, anchor time.Time, opts Options) (time.Time, time.Time, error) {
	loc := opts.location()
	var first, last time.Time
	switch view {
	case ViewMonth:
		first, last = monthBounds(anchor, opts)
	case ViewWeek:
		first = StartOfWeek(anchor, opts.WeekStart, loc)
		last = AddDays(first, 6, loc)
	case ViewDay:
		first = StartOfDay(anchor, loc)
		last = first
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown view %q", view)
	}
	return first, EndOfDay(last, loc), nil
}
