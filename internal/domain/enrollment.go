package domain

import (
	"fmt"
	"time"
)

// Enrollment ties a learner to a learning path. Its end date is derived from
// the start date and the path's total working days.
type Enrollment struct {
	ID             string
	LearningPathID string
	UserID         string
	Status         EnrollmentStatus
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reschedulable reports whether the end date can be re-derived.
func (e *Enrollment) Reschedulable() bool {
	return e.StartDate != nil && e.Status != EnrollmentWithdrawn
}

// Withdraw marks the enrollment as withdrawn. Completed enrollments are final.
func (e *Enrollment) Withdraw(now time.Time) error {
	if e.Status == EnrollmentCompleted {
		return fmt.Errorf("cannot withdraw completed enrollment %s", e.ID)
	}
	e.Status = EnrollmentWithdrawn
	e.UpdatedAt = now
	return nil
}

// Complete marks the enrollment as completed. Withdrawn enrollments stay withdrawn.
func (e *Enrollment) Complete(now time.Time) error {
	if e.Status == EnrollmentWithdrawn {
		return fmt.Errorf("cannot complete withdrawn enrollment %s", e.ID)
	}
	e.Status = EnrollmentCompleted
	e.UpdatedAt = now
	return nil
}
