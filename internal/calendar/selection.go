package calendar

import "time"

// DragState is the state of a month-view drag selection.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// Default business hours applied to a drag or click selection.
const (
	BusinessDayStartHour = 9
	BusinessDayEndHour   = 17
	SlotMinutes          = 60
)

// DayRange is an inclusive range of calendar days, normalized so First <= Last.
type DayRange struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

// Contains reports whether day falls within the range.
func (r DayRange) Contains(day time.Time, loc *time.Location) bool {
	d := StartOfDay(day, loc)
	return !d.Before(StartOfDay(r.First, loc)) && !d.After(StartOfDay(r.Last, loc))
}

// Interval is a candidate event interval for the create flow.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval turns the range into business hours: 09:00 on the first day to
// 17:00 on the last.
func (r DayRange) Interval(loc *time.Location) Interval {
	return Interval{
		Start: atHour(r.First, BusinessDayStartHour, loc),
		End:   atHour(r.Last, BusinessDayEndHour, loc),
	}
}

// DragSelection tracks a pointer drag across month cells:
//
//	idle --Begin(day)--> dragging{anchor, current}
//	dragging --Enter(day)--> dragging{anchor, day}
//	dragging --Release--> idle (yields the range)
//	dragging --Cancel--> idle
//
// Enter and Release are no-ops while idle. The zero value is idle.
type DragSelection struct {
	state   DragState
	anchor  time.Time
	current time.Time
	loc     *time.Location
}

func NewDragSelection(loc *time.Location) *DragSelection {
	return &DragSelection{loc: loc}
}

func (d *DragSelection) location() *time.Location {
	if d.loc == nil {
		return time.Local
	}
	return d.loc
}

func (d *DragSelection) State() DragState { return d.state }

// Begin starts a drag on day; a drag already in progress is restarted.
func (d *DragSelection) Begin(day time.Time) {
	start := StartOfDay(day, d.location())
	d.state = DragDragging
	d.anchor = start
	d.current = start
}

// Enter records the pointer entering day. It returns false while idle.
func (d *DragSelection) Enter(day time.Time) bool {
	if d.state != DragDragging {
		return false
	}
	d.current = StartOfDay(day, d.location())
	return true
}

// Preview returns the normalized range while dragging.
func (d *DragSelection) Preview() (DayRange, bool) {
	if d.state != DragDragging {
		return DayRange{}, false
	}
	return d.normalized(), true
}

// Release ends the drag wherever the pointer is and returns the selected
// range. The second result is false if no drag was active.
func (d *DragSelection) Release() (DayRange, bool) {
	if d.state != DragDragging {
		return DayRange{}, false
	}
	r := d.normalized()
	d.reset()
	return r, true
}

// Cancel drops an active drag without yielding a range.
func (d *DragSelection) Cancel() {
	d.reset()
}

func (d *DragSelection) reset() {
	d.state = DragIdle
	d.anchor = time.Time{}
	d.current = time.Time{}
}

func (d *DragSelection) normalized() DayRange {
	if d.current.Before(d.anchor) {
		return DayRange{First: d.current, Last: d.anchor}
	}
	return DayRange{First: d.anchor, Last: d.current}
}

// DayClickInterval is the default interval for clicking a month cell:
// 09:00 to 10:00 on that day.
func DayClickInterval(day time.Time, loc *time.Location) Interval {
	start := atHour(day, BusinessDayStartHour, loc)
	return Interval{Start: start, End: start.Add(SlotMinutes * time.Minute)}
}

// SlotInterval is the default interval for clicking hour row h of day.
func SlotInterval(day time.Time, hour int, loc *time.Location) Interval {
	start := atHour(day, clampHour(hour), loc)
	return Interval{Start: start, End: start.Add(SlotMinutes * time.Minute)}
}

func atHour(day time.Time, hour int, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
}
