package domain

import (
	"slices"
	"time"
)

// Course is an ordered list of topics plus optional relation overrides keyed
// by topic ID. An explicit empty entry means "no relation" and overrides the
// sequential fallback.
type Course struct {
	ID                 string
	Title              string
	TopicIDs           []string
	TopicPrerequisites map[string][]string
	TopicCorequisites  map[string][]string

	TotalHours float64
	TotalDays  int
	StartAt    *time.Time
	EndAt      *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleTotals is the aggregate written back on courses and learning paths.
type ScheduleTotals struct {
	StartAt    *time.Time
	EndAt      *time.Time
	TotalHours float64
	TotalDays  int
}

// HasTopic reports whether the course's topic list contains topicID.
func (c *Course) HasTopic(topicID string) bool {
	return slices.Contains(c.TopicIDs, topicID)
}

// Totals returns the course's current aggregate.
func (c *Course) Totals() ScheduleTotals {
	return ScheduleTotals{StartAt: c.StartAt, EndAt: c.EndAt, TotalHours: c.TotalHours, TotalDays: c.TotalDays}
}

// ApplyTotals copies an aggregate onto the course.
func (c *Course) ApplyTotals(s ScheduleTotals, now time.Time) {
	c.StartAt = s.StartAt
	c.EndAt = s.EndAt
	c.TotalHours = s.TotalHours
	c.TotalDays = s.TotalDays
	c.UpdatedAt = now
}
