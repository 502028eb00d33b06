package calendar

import "time"

// Shift moves anchor by n views: months for the month view, weeks for the
// week view and days for the day view. Month shifts land on the first of the
// month so Jan 31 + 1 month is in February.
func Shift(view View, anchor time.Time, n int, loc *time.Location) time.Time {
	a := anchor.In(loc)
	switch view {
	case ViewMonth:
		return time.Date(a.Year(), a.Month()+time.Month(n), 1, 0, 0, 0, 0, loc)
	case ViewWeek:
		return AddDays(a, 7*n, loc)
	default:
		return AddDays(a, n, loc)
	}
}

// Title is the heading of a view, e.g. "June 2025" or "02 Jun 2025".
func Title(view View, anchor time.Time, opts Options) string {
	loc := opts.location()
	a := anchor.In(loc)
	switch view {
	case ViewMonth:
		return a.Format("January 2006")
	case ViewWeek:
		first := StartOfWeek(a, opts.WeekStart, loc)
		last := AddDays(first, 6, loc)
		return first.Format("02 Jan") + " - " + last.Format("02 Jan 2006")
	default:
		return a.Format("Monday, 02 Jan 2006")
	}
}

// Today is local midnight of the current day.
func Today(opts Options) time.Time {
	return opts.today()
}
