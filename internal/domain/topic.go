package domain

import (
	"fmt"
	"math"
	"time"
)

// Topic is a unit of training work with a declared duration.
type Topic struct {
	ID            string
	Title         string
	TimeAllocated float64
	TimeUnit      TimeUnit

	// Effective relations written back by the scheduler.
	Prerequisites []string
	Corequisites  []string

	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TopicSchedule is the scheduler output persisted on a topic.
type TopicSchedule struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Prerequisites []string
	Corequisites  []string
}

// ValidateDuration checks that the declared duration can be scheduled.
func (t *Topic) ValidateDuration() error {
	if math.IsNaN(t.TimeAllocated) || math.IsInf(t.TimeAllocated, 0) || t.TimeAllocated <= 0 {
		return fmt.Errorf("topic %q: time allocated must be a positive number", t.ID)
	}
	if !ValidTimeUnits[string(t.TimeUnit)] {
		return fmt.Errorf("topic %q: time unit %q must be one of hours, days", t.ID, t.TimeUnit)
	}
	return nil
}

// SetDuration replaces the declared duration. Returns true when either the
// amount or the unit actually changed.
func (t *Topic) SetDuration(allocated float64, unit TimeUnit, now time.Time) bool {
	if t.TimeAllocated == allocated && t.TimeUnit == unit {
		return false
	}
	t.TimeAllocated = allocated
	t.TimeUnit = unit
	t.UpdatedAt = now
	return true
}

// ApplySchedule copies a computed schedule onto the topic.
func (t *Topic) ApplySchedule(s TopicSchedule, now time.Time) {
	t.StartDate = s.StartDate
	t.EndDate = s.EndDate
	t.Prerequisites = s.Prerequisites
	t.Corequisites = s.Corequisites
	t.UpdatedAt = now
}
