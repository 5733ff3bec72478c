package scheduler

import (
	"math"
	"time"
)

// Calendar is the working-day oracle the scheduler runs against.
type Calendar interface {
	IsWorkingDay(t time.Time) bool
	NextWorkingDay(t time.Time) time.Time
}

// Cursor is the next available working slot: a working day and the hours still
// free on it. Cursors are values; every operation returns a new one.
type Cursor struct {
	Date      time.Time
	Remaining float64
}

// Window is a scheduled [Start, End] range of calendar days, both inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartCursor normalizes start to the first working day at or after it, with
// a full day available.
func StartCursor(cal Calendar, start time.Time) Cursor {
	return Cursor{Date: cal.NextWorkingDay(start), Remaining: HoursPerDay}
}

// Exhausted reports whether no hours are left on the cursor's day.
func (c Cursor) Exhausted() bool {
	return c.Remaining <= hoursEpsilon
}

// After reports whether c is a later slot than o. A later date wins; on the
// same date, fewer remaining hours is later in the day.
func (c Cursor) After(o Cursor) bool {
	if !c.Date.Equal(o.Date) {
		return c.Date.After(o.Date)
	}
	return c.Remaining < o.Remaining
}

// Later returns whichever of a and b is the later slot.
func Later(a, b Cursor) Cursor {
	if b.After(a) {
		return b
	}
	return a
}

// ForwardToAvailable rolls an exhausted cursor to the next working day with a
// full allotment. A cursor with hours left is returned as is.
func (c Cursor) ForwardToAvailable(cal Calendar) Cursor {
	if !c.Exhausted() {
		return c
	}
	return Cursor{Date: cal.NextWorkingDay(c.Date.AddDate(0, 0, 1)), Remaining: HoursPerDay}
}

// Consume allocates hours starting at c. The window starts on the first day
// hours are taken from and ends on the day the last chunk lands. Zero hours
// produce a window of c.Date and leave the cursor untouched.
func (c Cursor) Consume(cal Calendar, hours float64) (Window, Cursor) {
	if hours <= hoursEpsilon {
		return Window{Start: c.Date, End: c.Date}, c
	}
	cur := c
	left := hours
	var w Window
	first := true
	for left > hoursEpsilon {
		cur = cur.ForwardToAvailable(cal)
		if first {
			w.Start = cur.Date
			first = false
		}
		take := math.Min(cur.Remaining, left)
		cur.Remaining -= take
		left -= take
	}
	w.End = cur.Date
	return w, cur
}
