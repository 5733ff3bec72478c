package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Catalog is a converted schema, ready to persist in list order.
type Catalog struct {
	Topics      []*domain.Topic
	Courses     []*domain.Course
	Paths       []*domain.LearningPath
	Enrollments []*domain.Enrollment
	// IDs maps every ref to its generated id.
	IDs map[string]string
}

// Convert turns a validated schema into domain objects with fresh ids. Call
// ValidateCatalogSchema first.
func Convert(schema *CatalogSchema, now time.Time) (*Catalog, error) {
	cat := &Catalog{IDs: make(map[string]string)}
	resolve := func(kind, ref string) (string, error) {
		id, ok := cat.IDs[ref]
		if !ok {
			return "", fmt.Errorf("%s ref %q not found", kind, ref)
		}
		return id, nil
	}

	for _, t := range schema.Topics {
		topic := &domain.Topic{
			ID:            uuid.New().String(),
			Title:         t.Title,
			TimeAllocated: t.TimeAllocated,
			TimeUnit:      domain.TimeUnit(t.TimeUnit),
			Prerequisites: []string{},
			Corequisites:  []string{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := topic.ValidateDuration(); err != nil {
			return nil, err
		}
		cat.IDs[t.Ref] = topic.ID
		cat.Topics = append(cat.Topics, topic)
	}

	for _, c := range schema.Courses {
		course := &domain.Course{
			ID:        uuid.New().String(),
			Title:     c.Title,
			TopicIDs:  make([]string, 0, len(c.TopicRefs)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, ref := range c.TopicRefs {
			id, err := resolve("topic", ref)
			if err != nil {
				return nil, fmt.Errorf("course %q: %w", c.Ref, err)
			}
			course.TopicIDs = append(course.TopicIDs, id)
		}
		var err error
		if course.TopicPrerequisites, err = convertRelations(c.Prerequisites, cat.IDs); err != nil {
			return nil, fmt.Errorf("course %q prerequisites: %w", c.Ref, err)
		}
		if course.TopicCorequisites, err = convertRelations(c.Corequisites, cat.IDs); err != nil {
			return nil, fmt.Errorf("course %q corequisites: %w", c.Ref, err)
		}
		if course.StartAt, err = parseOptionalDate(c.StartAt); err != nil {
			return nil, fmt.Errorf("course %q start_at: %w", c.Ref, err)
		}
		cat.IDs[c.Ref] = course.ID
		cat.Courses = append(cat.Courses, course)
	}

	for _, p := range schema.LearningPaths {
		path := &domain.LearningPath{
			ID:        uuid.New().String(),
			Title:     p.Title,
			CourseIDs: make([]string, 0, len(p.CourseRefs)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, ref := range p.CourseRefs {
			id, err := resolve("course", ref)
			if err != nil {
				return nil, fmt.Errorf("learning path %q: %w", p.Ref, err)
			}
			path.CourseIDs = append(path.CourseIDs, id)
		}
		var err error
		if path.StartAt, err = parseOptionalDate(p.StartAt); err != nil {
			return nil, fmt.Errorf("learning path %q start_at: %w", p.Ref, err)
		}
		cat.IDs[p.Ref] = path.ID
		cat.Paths = append(cat.Paths, path)
	}

	for i, e := range schema.Enrollments {
		pathID, err := resolve("learning path", e.PathRef)
		if err != nil {
			return nil, fmt.Errorf("enrollments[%d]: %w", i, err)
		}
		status := domain.EnrollmentActive
		if e.Status != "" {
			status = domain.EnrollmentStatus(e.Status)
		}
		start, err := parseOptionalDate(e.StartDate)
		if err != nil {
			return nil, fmt.Errorf("enrollments[%d] start_date: %w", i, err)
		}
		cat.Enrollments = append(cat.Enrollments, &domain.Enrollment{
			ID:             uuid.New().String(),
			LearningPathID: pathID,
			UserID:         e.UserID,
			Status:         status,
			StartDate:      start,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return cat, nil
}

func convertRelations(rel map[string][]string, ids map[string]string) (map[string][]string, error) {
	out := make(map[string][]string, len(rel))
	for key, refs := range rel {
		keyID, ok := ids[key]
		if !ok {
			return nil, fmt.Errorf("topic ref %q not found", key)
		}
		converted := make([]string, 0, len(refs))
		for _, ref := range refs {
			id, ok := ids[ref]
			if !ok {
				return nil, fmt.Errorf("topic ref %q not found", ref)
			}
			converted = append(converted, id)
		}
		out[keyID] = converted
	}
	return out, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
