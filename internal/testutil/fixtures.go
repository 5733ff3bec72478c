package testutil

import (
	"time"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/google/uuid"
)

func fixtureNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Date is a UTC calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date as a pointer.
func DatePtr(y int, m time.Month, d int) *time.Time {
	t := Date(y, m, d)
	return &t
}

type TopicOption func(*domain.Topic)

func WithHours(h float64) TopicOption {
	return func(t *domain.Topic) {
		t.TimeAllocated = h
		t.TimeUnit = domain.TimeUnitHours
	}
}

func WithDays(d float64) TopicOption {
	return func(t *domain.Topic) {
		t.TimeAllocated = d
		t.TimeUnit = domain.TimeUnitDays
	}
}

func WithTopicID(id string) TopicOption {
	return func(t *domain.Topic) {
		t.ID = id
	}
}

// NewTestTopic builds a one-day topic.
func NewTestTopic(title string, opts ...TopicOption) *domain.Topic {
	now := fixtureNow()
	t := &domain.Topic{
		ID:            uuid.New().String(),
		Title:         title,
		TimeAllocated: 1,
		TimeUnit:      domain.TimeUnitDays,
		Prerequisites: []string{},
		Corequisites:  []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type CourseOption func(*domain.Course)

func WithTopics(ids ...string) CourseOption {
	return func(c *domain.Course) {
		c.TopicIDs = ids
	}
}

func WithCourseStart(d time.Time) CourseOption {
	return func(c *domain.Course) {
		c.StartAt = &d
	}
}

// WithPrerequisites declares an explicit prerequisite entry; no ids means
// "explicitly none".
func WithPrerequisites(topicID string, prereqs ...string) CourseOption {
	return func(c *domain.Course) {
		if c.TopicPrerequisites == nil {
			c.TopicPrerequisites = map[string][]string{}
		}
		c.TopicPrerequisites[topicID] = append([]string{}, prereqs...)
	}
}

func WithCorequisites(topicID string, coreqs ...string) CourseOption {
	return func(c *domain.Course) {
		if c.TopicCorequisites == nil {
			c.TopicCorequisites = map[string][]string{}
		}
		c.TopicCorequisites[topicID] = append([]string{}, coreqs...)
	}
}

func NewTestCourse(title string, opts ...CourseOption) *domain.Course {
	now := fixtureNow()
	c := &domain.Course{
		ID:                 uuid.New().String(),
		Title:              title,
		TopicIDs:           []string{},
		TopicPrerequisites: map[string][]string{},
		TopicCorequisites:  map[string][]string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type PathOption func(*domain.LearningPath)

func WithCourses(ids ...string) PathOption {
	return func(p *domain.LearningPath) {
		p.CourseIDs = ids
	}
}

func WithPathStart(d time.Time) PathOption {
	return func(p *domain.LearningPath) {
		p.StartAt = &d
	}
}

func NewTestLearningPath(title string, opts ...PathOption) *domain.LearningPath {
	now := fixtureNow()
	p := &domain.LearningPath{
		ID:        uuid.New().String(),
		Title:     title,
		CourseIDs: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type EnrollmentOption func(*domain.Enrollment)

func WithEnrollmentStart(d time.Time) EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.StartDate = &d
	}
}

func WithEnrollmentStatus(s domain.EnrollmentStatus) EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.Status = s
	}
}

func NewTestEnrollment(pathID, userID string, opts ...EnrollmentOption) *domain.Enrollment {
	now := fixtureNow()
	e := &domain.Enrollment{
		ID:             uuid.New().String(),
		LearningPathID: pathID,
		UserID:         userID,
		Status:         domain.EnrollmentActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
