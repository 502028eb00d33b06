package calendar

import (
	"math"
	"sort"
	"time"

	"go-gin-calendar/internal/model"
)

// TimeGrid is the week/day layout: one column per day, HoursPerDay rows.
type TimeGrid struct {
	Start   time.Time   `json:"start"`
	End     time.Time   `json:"end"`
	Hours   int         `json:"hours"`
	Columns []DayColumn `json:"columns"`
}

type DayColumn struct {
	Date     time.Time       `json:"date"`
	Today    bool            `json:"today"`
	Boxes    []EventBox      `json:"boxes"`
	Holidays []model.Holiday `json:"holidays,omitempty"`
}

// EventBox positions one event inside one day column. Top and Height are in
// hours from local midnight; multiply by the row height to get pixels.
type EventBox struct {
	Event           model.Event `json:"event"`
	Top             float64     `json:"top"`
	Height          float64     `json:"height"`
	FirstHour       int         `json:"firstHour"`
	LastHour        int         `json:"lastHour"`
	ContinuesBefore bool        `json:"continuesBefore"`
	ContinuesAfter  bool        `json:"continuesAfter"`
}

// Occupies reports whether the box covers hour row h.
func (b EventBox) Occupies(h int) bool {
	return h >= b.FirstHour && h <= b.LastHour
}

// EventsInHour returns the boxes occupying hour row h.
func (c DayColumn) EventsInHour(h int) []EventBox {
	out := make([]EventBox, 0)
	for _, b := range c.Boxes {
		if b.Occupies(h) {
			out = append(out, b)
		}
	}
	return out
}

// BuildWeek lays out seven columns starting at the configured week start.
func BuildWeek(anchor time.Time, events []model.Event, opts Options) *TimeGrid {
	loc := opts.location()
	first := StartOfWeek(anchor, opts.WeekStart, loc)
	return buildTimeGrid(first, 7, events, opts)
}

// BuildDay lays out the single day containing anchor.
func BuildDay(anchor time.Time, events []model.Event, opts Options) *TimeGrid {
	loc := opts.location()
	return buildTimeGrid(StartOfDay(anchor, loc), 1, events, opts)
}

func buildTimeGrid(first time.Time, days int, events []model.Event, opts Options) *TimeGrid {
	loc := opts.location()
	today := opts.today()

	holidays := make(map[string][]model.Holiday)
	for _, h := range opts.Holidays {
		holidays[h.Date] = append(holidays[h.Date], h)
	}

	grid := &TimeGrid{
		Start:   first,
		End:     EndOfDay(AddDays(first, days-1, loc), loc),
		Hours:   HoursPerDay,
		Columns: make([]DayColumn, 0, days),
	}
	for i := 0; i < days; i++ {
		day := AddDays(first, i, loc)
		column := DayColumn{
			Date:     day,
			Today:    day.Equal(today),
			Boxes:    make([]EventBox, 0),
			Holidays: holidays[day.Format(model.HolidayDateLayout)],
		}
		for j := range events {
			if box, ok := layoutBox(&events[j], day, loc); ok {
				column.Boxes = append(column.Boxes, box)
			}
		}
		sort.SliceStable(column.Boxes, func(a, b int) bool {
			if column.Boxes[a].Top != column.Boxes[b].Top {
				return column.Boxes[a].Top < column.Boxes[b].Top
			}
			return column.Boxes[a].Height > column.Boxes[b].Height
		})
		grid.Columns = append(grid.Columns, column)
	}
	return grid
}

// layoutBox clips ev to day. An event crossing midnight yields one box per
// day it touches rather than spanning columns.
func layoutBox(ev *model.Event, day time.Time, loc *time.Location) (EventBox, bool) {
	if !overlapsDay(ev, day, loc) {
		return EventBox{}, false
	}
	dayStart := StartOfDay(day, loc)
	next := nextDay(day, loc)

	// 跨日活動剛好在午夜結束，不在隔天畫出零高度的區塊
	if ev.Start.Before(ev.End) && !ev.End.After(dayStart) {
		return EventBox{}, false
	}

	box := EventBox{Event: *ev}

	top := 0.0
	if ev.Start.Before(dayStart) {
		box.ContinuesBefore = true
	} else {
		top = WallHours(ev.Start, loc)
	}

	bottom := float64(HoursPerDay)
	if ev.End.Before(next) {
		bottom = WallHours(ev.End, loc)
	} else if ev.End.After(next) {
		box.ContinuesAfter = true
	}

	box.Top = top
	box.Height = math.Max(0, bottom-top)
	box.FirstHour = clampHour(int(math.Floor(top)))
	box.LastHour = box.FirstHour
	if box.Height > 0 {
		box.LastHour = clampHour(int(math.Ceil(bottom)) - 1)
		if box.LastHour < box.FirstHour {
			box.LastHour = box.FirstHour
		}
	}
	return box, true
}

// WallHours is t's local time of day as fractional hours (9:30 -> 9.5).
func WallHours(t time.Time, loc *time.Location) float64 {
	t = t.In(loc)
	return float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/float64(time.Hour)
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > HoursPerDay-1 {
		return HoursPerDay - 1
	}
	return h
}
