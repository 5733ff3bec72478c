package app

import (
	"context"

	"github.com/alexanderramin/curricula/internal/importer"
)

type ScheduleCourseUseCase interface {
	ScheduleCourse(ctx context.Context, req ScheduleCourseRequest) (*CourseScheduleResponse, error)
}

type ScheduleLearningPathUseCase interface {
	ScheduleLearningPath(ctx context.Context, req ScheduleLearningPathRequest) (*LearningPathScheduleResponse, error)
}

type CascadeUseCase interface {
	RecalculateForTopic(ctx context.Context, req CascadeRequest) (*CascadeResponse, error)
}

type ImportResult struct {
	TopicCount      int
	CourseCount     int
	PathCount       int
	EnrollmentCount int

	// IDs maps catalog refs to the generated ids.
	IDs       map[string]string
	Schedules []CourseScheduleResponse
}

type ImportCatalogUseCase interface {
	ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
}
