package domain

import (
	"slices"
	"time"
)

// LearningPath is an ordered list of courses.
type LearningPath struct {
	ID        string
	Title     string
	CourseIDs []string

	TotalHours float64
	TotalDays  int
	StartAt    *time.Time
	EndAt      *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *LearningPath) HasCourse(courseID string) bool {
	return slices.Contains(p.CourseIDs, courseID)
}

func (p *LearningPath) Totals() ScheduleTotals {
	return ScheduleTotals{StartAt: p.StartAt, EndAt: p.EndAt, TotalHours: p.TotalHours, TotalDays: p.TotalDays}
}

func (p *LearningPath) ApplyTotals(s ScheduleTotals, now time.Time) {
	p.StartAt = s.StartAt
	p.EndAt = s.EndAt
	p.TotalHours = s.TotalHours
	p.TotalDays = s.TotalDays
	p.UpdatedAt = now
}
