// Package calendar decides which days are working days and advances dates
// across weekends and holidays.
package calendar

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// KeyLayout is the layout of holiday set keys.
const KeyLayout = "2006-01-02"

// MonthDay is a holiday that falls on the same date every year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

// ParseMonthDay parses "MM-DD".
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("invalid holiday %q (expected MM-DD): %w", s, err)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// DefaultFixedHolidays are the eight fixed month-day holidays.
var DefaultFixedHolidays = []MonthDay{
	{time.January, 1},
	{time.May, 1},
	{time.May, 8},
	{time.July, 14},
	{time.August, 15},
	{time.November, 1},
	{time.November, 11},
	{time.December, 25},
}

// Calendar is a working calendar: Monday to Friday, minus fixed holidays and
// the last Monday of August.
type Calendar struct {
	fixed []MonthDay
	cache *HolidayCache
}

// New creates a Calendar with the given fixed holidays. A nil slice selects
// DefaultFixedHolidays; an empty non-nil slice disables fixed holidays.
func New(fixed []MonthDay) *Calendar {
	if fixed == nil {
		fixed = DefaultFixedHolidays
	}
	return &Calendar{
		fixed: append([]MonthDay(nil), fixed...),
		cache: NewHolidayCache(),
	}
}

// Default returns a Calendar using DefaultFixedHolidays.
func Default() *Calendar {
	return New(nil)
}

// FixedHolidays returns a copy of the configured fixed holidays.
func (c *Calendar) FixedHolidays() []MonthDay {
	return append([]MonthDay(nil), c.fixed...)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Key formats t as a holiday set key.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// LastMondayOfAugust scans backward from August 31 to the first Monday.
func LastMondayOfAugust(year int) time.Time {
	d := time.Date(year, time.August, 31, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// HolidaySet returns the holiday keys for every year in [fromYear, toYear].
func (c *Calendar) HolidaySet(fromYear, toYear int) map[string]bool {
	if toYear < fromYear {
		toYear = fromYear
	}
	return c.cache.get(fromYear, toYear, func() map[string]bool {
		set := make(map[string]bool, (toYear-fromYear+1)*(len(c.fixed)+1))
		for y := fromYear; y <= toYear; y++ {
			for _, md := range c.fixed {
				set[Key(time.Date(y, md.Month, md.Day, 0, 0, 0, 0, time.UTC))] = true
			}
			set[Key(LastMondayOfAugust(y))] = true
		}
		return set
	})
}

// Holidays lists the holidays in [fromYear, toYear] in date order.
func (c *Calendar) Holidays(fromYear, toYear int) []time.Time {
	set := c.HolidaySet(fromYear, toYear)
	out := make([]time.Time, 0, len(set))
	for k := range set {
		t, err := time.Parse(KeyLayout, k)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// span is a holiday set covering a bounded year range. Lookups outside the
// range fall back to the per-year cache.
type span struct {
	cal      *Calendar
	fromYear int
	toYear   int
	set      map[string]bool
}

// spanFor covers start.Year() through start.Year() + ceil(spanDays/365) + 1.
func (c *Calendar) spanFor(start time.Time, spanDays int) span {
	years := 0
	if spanDays > 0 {
		years = int(math.Ceil(float64(spanDays) / 365))
	}
	from := start.Year()
	to := from + years + 1
	return span{cal: c, fromYear: from, toYear: to, set: c.HolidaySet(from, to)}
}

func (s span) isWorkingDay(d time.Time) bool {
	if isWeekend(d) {
		return false
	}
	if d.Year() < s.fromYear || d.Year() > s.toYear {
		return !s.cal.HolidaySet(d.Year(), d.Year())[Key(d)]
	}
	return !s.set[Key(d)]
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay reports whether t's calendar date is neither a weekend nor a holiday.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	d := Day(t)
	return c.spanFor(d, 0).isWorkingDay(d)
}

// NextWorkingDay rounds t forward to a working day. A working day is
// returned unchanged (truncated to midnight).
func (c *Calendar) NextWorkingDay(t time.Time) time.Time {
	d := Day(t)
	s := c.spanFor(d, 0)
	for !s.isWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkingDays returns the totalDays-th working day counting from start,
// where day 1 is the first working day at or after start. Non-positive
// totalDays returns start unchanged.
func (c *Calendar) AddWorkingDays(start time.Time, totalDays int) time.Time {
	if totalDays <= 0 {
		return start
	}
	d := Day(start)
	s := c.spanFor(d, totalDays)
	count := 0
	for {
		if s.isWorkingDay(d) {
			count++
			if count == totalDays {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// WorkingDaysBetween counts working days in the inclusive range [from, to].
func (c *Calendar) WorkingDaysBetween(from, to time.Time) int {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return 0
	}
	s := c.spanFor(from, int(to.Sub(from).Hours()/24))
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if s.isWorkingDay(d) {
			n++
		}
	}
	return n
}
