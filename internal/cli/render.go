package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/model"
)

const cellWidth = 16

func renderEventList(w io.Writer, events []model.Event, loc *time.Location) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	for _, e := range events {
		start, end := e.Start.In(loc), e.End.In(loc)
		endLayout := "15:04"
		if !calendar.SameDay(start, end, loc) {
			endLayout = "2006-01-02 15:04"
		}
		fmt.Fprintf(w, "%s - %s  %-24s %s  %s\n",
			start.Format("2006-01-02 15:04"), end.Format(endLayout), e.Title, e.Color, e.EventID)
	}
}

func renderMonth(w io.Writer, g *calendar.MonthGrid, opts calendar.Options) {
	for i := 0; i < 7; i++ {
		day := (opts.WeekStart + time.Weekday(i)) % 7
		fmt.Fprint(w, pad(day.String()[:3], cellWidth))
	}
	fmt.Fprintln(w)

	limit := opts.MaxPerDay
	if limit <= 0 {
		limit = calendar.DefaultMaxPerDay
	}
	for _, week := range g.Weeks {
		var line strings.Builder
		for _, cell := range week {
			line.WriteString(pad(dayLabel(cell), cellWidth))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))

		for row := 0; row < limit; row++ {
			line.Reset()
			for _, cell := range week {
				text := ""
				if row < len(cell.Events) {
					text = cellEventLabel(cell.Events[row])
				}
				line.WriteString(pad(text, cellWidth))
			}
			if s := strings.TrimRight(line.String(), " "); s != "" {
				fmt.Fprintln(w, s)
			}
		}

		line.Reset()
		for _, cell := range week {
			text := ""
			if cell.Overflow > 0 {
				text = fmt.Sprintf("+%d more", cell.Overflow)
			}
			line.WriteString(pad(text, cellWidth))
		}
		if s := strings.TrimRight(line.String(), " "); s != "" {
			fmt.Fprintln(w, s)
		}
		fmt.Fprintln(w)
	}

	for _, cell := range g.Days() {
		for _, h := range cell.Holidays {
			fmt.Fprintf(w, "%s  %s (%s)\n", h.Date, h.Name, h.Type)
		}
	}
}

// dayLabel marks out-of-month days with a dot, today with *, holidays with H.
func dayLabel(cell calendar.DayCell) string {
	label := fmt.Sprintf("%2d", cell.Date.Day())
	if !cell.InMonth {
		label = "·" + label
	}
	if cell.Today {
		label += "*"
	}
	if len(cell.Holidays) > 0 {
		label += " H"
	}
	return label
}

func cellEventLabel(e calendar.CellEvent) string {
	prefix, suffix := "", ""
	if e.ContinuesBefore {
		prefix = "<"
	}
	if e.ContinuesAfter {
		suffix = ">"
	}
	return prefix + truncate(e.Title, cellWidth-2-len(prefix)-len(suffix)) + suffix
}

func renderTimeGrid(w io.Writer, g *calendar.TimeGrid, view calendar.View, opts calendar.Options) {
	loc := opts.Location
	if view == calendar.ViewDay && len(g.Columns) == 1 {
		col := g.Columns[0]
		for _, h := range col.Holidays {
			fmt.Fprintf(w, "Holiday: %s\n", h.Name)
		}
		for hour := 0; hour < g.Hours; hour++ {
			titles := make([]string, 0)
			for _, b := range col.EventsInHour(hour) {
				titles = append(titles, b.Event.Title)
			}
			fmt.Fprintf(w, "%02d:00 | %s\n", hour, strings.Join(titles, ", "))
		}
		return
	}

	for _, col := range g.Columns {
		header := col.Date.In(loc).Format("Mon 02 Jan")
		if col.Today {
			header += " *"
		}
		for _, h := range col.Holidays {
			header += "  [" + h.Name + "]"
		}
		fmt.Fprintln(w, header)
		if len(col.Boxes) == 0 {
			fmt.Fprintln(w, "  -")
			continue
		}
		for _, b := range col.Boxes {
			fmt.Fprintf(w, "  %s-%s %s\n", clock(b.Top, b.ContinuesBefore), clock(b.Top+b.Height, false), b.Event.Title)
		}
	}
}

// clock formats fractional hours as HH:MM; a box continuing from the
// previous day shows "..".
func clock(hours float64, continued bool) string {
	if continued {
		return "   .."
	}
	mins := int(hours*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
