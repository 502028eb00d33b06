package calendar

import (
	"sort"
	"time"

	"go-gin-calendar/internal/model"
)

// StartOfDay is local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay is the last representable instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return nextDay(t, loc).Add(-time.Nanosecond)
}

func nextDay(t time.Time, loc *time.Location) time.Time {
	return AddDays(t, 1, loc)
}

// AddDays moves by calendar days, landing on local midnight.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, loc)
}

func StartOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return AddDays(day, -back, loc)
}

func EndOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	return EndOfDay(AddDays(StartOfWeek(t, weekStart, loc), 6, loc), loc)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// overlapsDay uses the same closed-interval rule as the overlap query:
// start <= endOfDay(day) && end >= startOfDay(day).
func overlapsDay(e *model.Event, day time.Time, loc *time.Location) bool {
	from := StartOfDay(day, loc)
	to := EndOfDay(day, loc)
	return e.Overlaps(&from, &to)
}

// EventsOnDay returns the events intersecting day, ordered by start.
func EventsOnDay(events []model.Event, day time.Time, loc *time.Location) []model.Event {
	out := make([]model.Event, 0)
	for i := range events {
		if overlapsDay(&events[i], day, loc) {
			out = append(out, events[i])
		}
	}
	SortByStart(out)
	return out
}

// SortByStart orders events by start; ties keep their input order.
func SortByStart(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

// FilterRange applies the overlap rule of the event list endpoint to an
// in-memory slice.
func FilterRange(events []model.Event, from, to *time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for i := range events {
		if events[i].Overlaps(from, to) {
			out = append(out, events[i])
		}
	}
	SortByStart(out)
	return out
}
