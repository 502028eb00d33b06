package calendar

import (
	"time"

	"go-gin-calendar/internal/model"
)

type MonthGrid struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Weeks [][]DayCell `json:"weeks"`
}

type DayCell struct {
	Date     time.Time       `json:"date"`
	InMonth  bool            `json:"inMonth"`
	Today    bool            `json:"today"`
	Events   []CellEvent     `json:"events"`
	Total    int             `json:"total"`
	Overflow int             `json:"overflow"`
	Holidays []model.Holiday `json:"holidays,omitempty"`
}

// CellEvent is an event as drawn inside one day cell.
type CellEvent struct {
	model.Event
	ContinuesBefore bool `json:"continuesBefore"`
	ContinuesAfter  bool `json:"continuesAfter"`
}

// Days flattens the grid row by row.
func (g *MonthGrid) Days() []DayCell {
	out := make([]DayCell, 0, len(g.Weeks)*7)
	for _, week := range g.Weeks {
		out = append(out, week...)
	}
	return out
}

// monthBounds returns the first and last grid day for anchor's month.
func monthBounds(anchor time.Time, opts Options) (time.Time, time.Time) {
	loc := opts.location()
	a := anchor.In(loc)
	firstOfMonth := time.Date(a.Year(), a.Month(), 1, 0, 0, 0, 0, loc)
	lastOfMonth := time.Date(a.Year(), a.Month()+1, 0, 0, 0, 0, 0, loc)

	first := StartOfWeek(firstOfMonth, opts.WeekStart, loc)
	last := AddDays(StartOfWeek(lastOfMonth, opts.WeekStart, loc), 6, loc)

	if opts.PadToSixWeeks {
		for weeks := daysBetween(first, last, loc)/7 + 1; weeks < 6; weeks++ {
			last = AddDays(last, 7, loc)
		}
	}
	return first, last
}

// daysBetween counts calendar days from a to b, ignoring DST hour shifts.
func daysBetween(a, b time.Time, loc *time.Location) int {
	a, b = a.In(loc), b.In(loc)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// BuildMonth lays out complete weeks covering anchor's month. Cells outside
// the month are kept and flagged with InMonth=false.
func BuildMonth(anchor time.Time, events []model.Event, opts Options) *MonthGrid {
	loc := opts.location()
	a := anchor.In(loc)
	first, last := monthBounds(anchor, opts)
	today := opts.today()
	limit := opts.maxPerDay()

	holidays := make(map[string][]model.Holiday)
	for _, h := range opts.Holidays {
		holidays[h.Date] = append(holidays[h.Date], h)
	}

	grid := &MonthGrid{
		Year:  a.Year(),
		Month: a.Month(),
		Start: first,
		End:   EndOfDay(last, loc),
	}

	total := daysBetween(first, last, loc) + 1
	week := make([]DayCell, 0, 7)
	for i := 0; i < total; i++ {
		day := AddDays(first, i, loc)
		dayEvents := EventsOnDay(events, day, loc)

		cell := DayCell{
			Date:     day,
			InMonth:  day.Month() == a.Month() && day.Year() == a.Year(),
			Today:    day.Equal(today),
			Total:    len(dayEvents),
			Holidays: holidays[day.Format(model.HolidayDateLayout)],
		}

		// 超過上限只影響顯示，不影響快取中的資料
		shown := dayEvents
		if len(shown) > limit {
			shown = shown[:limit]
			cell.Overflow = len(dayEvents) - limit
		}
		dayStart := day
		dayEnd := EndOfDay(day, loc)
		cell.Events = make([]CellEvent, 0, len(shown))
		for _, ev := range shown {
			cell.Events = append(cell.Events, CellEvent{
				Event:           ev,
				ContinuesBefore: ev.Start.Before(dayStart),
				ContinuesAfter:  ev.End.After(dayEnd),
			})
		}

		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]DayCell, 0, 7)
		}
	}
	return grid
}
