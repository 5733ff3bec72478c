// Package importer loads a JSON training catalog, validates it and converts
// it into domain objects.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogSchema is the top-level JSON document. Entities refer to each other
// by ref; refs are unique across the whole file.
type CatalogSchema struct {
	Topics        []TopicImport        `json:"topics" validate:"dive"`
	Courses       []CourseImport       `json:"courses" validate:"dive"`
	LearningPaths []LearningPathImport `json:"learning_paths,omitempty" validate:"dive"`
	Enrollments   []EnrollmentImport   `json:"enrollments,omitempty" validate:"dive"`
}

type TopicImport struct {
	Ref           string  `json:"ref" validate:"required"`
	Title         string  `json:"title" validate:"notblank"`
	TimeAllocated float64 `json:"time_allocated" validate:"gt=0"`
	TimeUnit      string  `json:"time_unit" validate:"required,oneof=hours days"`
}

// CourseImport lists topics in order. Prerequisites and corequisites are
// keyed by topic ref; an empty list is an explicit "none".
type CourseImport struct {
	Ref           string              `json:"ref" validate:"required"`
	Title         string              `json:"title" validate:"notblank"`
	TopicRefs     []string            `json:"topic_refs" validate:"dive,required"`
	Prerequisites map[string][]string `json:"prerequisites,omitempty"`
	Corequisites  map[string][]string `json:"corequisites,omitempty"`
	StartAt       *string             `json:"start_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type LearningPathImport struct {
	Ref        string   `json:"ref" validate:"required"`
	Title      string   `json:"title" validate:"notblank"`
	CourseRefs []string `json:"course_refs" validate:"dive,required"`
	StartAt    *string  `json:"start_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type EnrollmentImport struct {
	PathRef   string  `json:"path_ref" validate:"required"`
	UserID    string  `json:"user_id" validate:"notblank"`
	Status    string  `json:"status,omitempty" validate:"omitempty,oneof=active completed withdrawn"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoadCatalogSchema reads and parses a catalog file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogSchema(data)
}

func ParseCatalogSchema(data []byte) (*CatalogSchema, error) {
	var schema CatalogSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
