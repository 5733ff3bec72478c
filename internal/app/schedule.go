package app

import (
	"time"

	"github.com/alexanderramin/curricula/internal/domain"
)

// ScheduleCourseRequest schedules one course. Nil TopicIDs or relation maps
// fall back to what the course already stores. The start date is the first
// non-nil of StartAtOverride, the course's StartAt and FallbackStartAt, then
// the current day.
type ScheduleCourseRequest struct {
	CourseID           string
	TopicIDs           []string
	TopicPrerequisites map[string][]string
	TopicCorequisites  map[string][]string
	StartAtOverride    *time.Time
	FallbackStartAt    *time.Time
	UpdatedBy          string
	RejectCycles       bool

	// DryRun computes the schedule without writing anything.
	DryRun bool
	Now    *time.Time
}

// SystemActor is recorded in the audit log when a request names no actor.
const SystemActor = "system"

func NewScheduleCourseRequest(courseID string) ScheduleCourseRequest {
	return ScheduleCourseRequest{CourseID: courseID, UpdatedBy: SystemActor}
}

type TopicScheduleView struct {
	TopicID       string
	Title         string
	Hours         float64
	StartDate     time.Time
	EndDate       time.Time
	Prerequisites []string
	Corequisites  []string

	// Fallback is set when the topic could only be placed by the fallback
	// pass, i.e. it sits on a prerequisite cycle.
	Fallback bool
}

type CourseScheduleResponse struct {
	CourseID   string
	Title      string
	StartAt    time.Time
	EndAt      time.Time
	TotalHours float64
	TotalDays  int

	// Topics are in placement order.
	Topics     []TopicScheduleView
	Groups     [][]string
	Unresolved []string
	Applied    bool
}

type ScheduleLearningPathRequest struct {
	LearningPathID string
	UpdatedBy      string
	RejectCycles   bool
	Now            *time.Time
}

func NewScheduleLearningPathRequest(pathID string) ScheduleLearningPathRequest {
	return ScheduleLearningPathRequest{LearningPathID: pathID, UpdatedBy: SystemActor}
}

type LearningPathScheduleResponse struct {
	LearningPathID     string
	Title              string
	StartAt            *time.Time
	EndAt              *time.Time
	TotalHours         float64
	TotalDays          int
	Courses            []CourseScheduleResponse
	EnrollmentsUpdated int
}

// CascadeRequest asks for every aggregate that depends on TopicID to be
// recomputed after its duration changed.
type CascadeRequest struct {
	TopicID   string
	UpdatedBy string
}

func NewCascadeRequest(topicID string) CascadeRequest {
	return CascadeRequest{TopicID: topicID, UpdatedBy: SystemActor}
}

// TotalsDelta is the before/after of one course or learning path.
type TotalsDelta struct {
	EntityType  domain.EntityType
	EntityID    string
	Title       string
	HoursBefore float64
	HoursAfter  float64
	DaysBefore  int
	DaysAfter   int
	EndBefore   *time.Time
	EndAfter    *time.Time
}

func (d TotalsDelta) Changed() bool {
	return d.HoursBefore != d.HoursAfter || d.DaysBefore != d.DaysAfter || !sameDay(d.EndBefore, d.EndAfter)
}

type CascadeResponse struct {
	TopicID            string
	Courses            []TotalsDelta
	Paths              []TotalsDelta
	EnrollmentsUpdated int
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
