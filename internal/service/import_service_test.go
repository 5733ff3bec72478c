package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/curricula/internal/app"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/importer"
	"github.com/alexanderramin/curricula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

func sampleCatalog() *importer.CatalogSchema {
	return &importer.CatalogSchema{
		Topics: []importer.TopicImport{
			{Ref: "t1", Title: "Syntax", TimeAllocated: 4, TimeUnit: "hours"},
			{Ref: "t2", Title: "Tooling", TimeAllocated: 4, TimeUnit: "hours"},
			{Ref: "t3", Title: "Concurrency", TimeAllocated: 1, TimeUnit: "days"},
		},
		Courses: []importer.CourseImport{
			{
				Ref:          "c1",
				Title:        "Basics",
				TopicRefs:    []string{"t1", "t2"},
				Corequisites: map[string][]string{"t1": {"t2"}},
				StartAt:      ptrStr("2025-01-06"),
			},
			{Ref: "c2", Title: "Advanced", TopicRefs: []string{"t3"}},
		},
		LearningPaths: []importer.LearningPathImport{
			{Ref: "p1", Title: "Go track", CourseRefs: []string{"c1", "c2"}, StartAt: ptrStr("2025-01-06")},
		},
		Enrollments: []importer.EnrollmentImport{
			{PathRef: "p1", UserID: "alice", StartDate: ptrStr("2025-01-06")},
		},
	}
}

func TestImportCatalog_InsertsAndSchedules(t *testing.T) {
	env := newTestEnv(t)
	obs := &recordingObserver{}
	svc := NewImportService(env.uow, env.cal, "importer", obs)

	result, err := svc.ImportCatalogFromSchema(context.Background(), sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, 3, result.TopicCount)
	assert.Equal(t, 2, result.CourseCount)
	assert.Equal(t, 1, result.PathCount)
	assert.Equal(t, 1, result.EnrollmentCount)
	assert.Len(t, result.IDs, 6)

	require.Len(t, result.Schedules, 2)
	for _, cs := range result.Schedules {
		assertDay(t, monday, &cs.StartAt)
		assertDay(t, monday, &cs.EndAt)
		assert.True(t, cs.Applied)
	}

	t1 := env.reloadTopic(t, result.IDs["t1"])
	assertDay(t, monday, t1.StartDate)
	assert.Equal(t, []string{result.IDs["t2"]}, t1.Corequisites)

	path := env.reloadPath(t, result.IDs["p1"])
	assert.Equal(t, 16.0, path.TotalHours)
	assert.Equal(t, 2, path.TotalDays)

	enrollments, err := env.repos.Enrollments.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assertDay(t, testutil.Date(2025, 1, 7), enrollments[0].EndDate)

	courseAudit := env.auditFor(t, domain.EntityCourse, result.IDs["c1"])
	assert.True(t, hasAction(courseAudit, domain.ActionCatalogImported))
	assert.Equal(t, "importer", courseAudit[0].ActorID)

	event := obs.last(t)
	assert.Equal(t, "import-catalog", event.Name)
	assert.Equal(t, 2, event.Fields["course_count"])
	assert.Empty(t, event.Warning)
}

func TestImportCatalog_ValidationErrorsInsertNothing(t *testing.T) {
	env := newTestEnv(t)
	schema := sampleCatalog()
	schema.Topics[0].TimeUnit = "weeks"
	schema.Courses[1].TopicRefs = []string{"t9"}

	_, err := NewImportService(env.uow, env.cal, "").ImportCatalogFromSchema(context.Background(), schema)
	requireCode(t, app.ErrBadRequest, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")

	topics, err := env.repos.Topics.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestImportCatalog_RollsBackOnInsertFailure(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("constraint")
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 1, Match: "INSERT INTO enrollments", Err: boom}

	_, err := NewImportService(uow, env.cal, "").ImportCatalogFromSchema(context.Background(), sampleCatalog())
	require.ErrorIs(t, err, boom)
	requireCode(t, app.ErrExternalService, err)

	topics, err := env.repos.Topics.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, topics)
	courses, err := env.repos.Courses.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestImportCatalog_FromFile(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "catalog.json")
	data := `{
		"topics": [
			{"ref": "a", "title": "A", "time_allocated": 2, "time_unit": "days"},
			{"ref": "b", "title": "B", "time_allocated": 1, "time_unit": "days"}
		],
		"courses": [
			{"ref": "c", "title": "Course", "topic_refs": ["a", "b"], "start_at": "2025-01-06"}
		]
	}`
	require.NoError(t, os.WriteFile(file, []byte(data), 0o644))

	result, err := NewImportService(env.uow, env.cal, "").ImportCatalog(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, result.Schedules, 1)
	assert.Equal(t, 3, result.Schedules[0].TotalDays)
	assertDay(t, testutil.Date(2025, 1, 8), &result.Schedules[0].EndAt)
	assert.Equal(t, []string{result.IDs["a"]}, env.reloadTopic(t, result.IDs["b"]).Prerequisites)
}

func TestImportCatalog_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewImportService(env.uow, env.cal, "").ImportCatalog(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	requireCode(t, app.ErrBadRequest, err)
}
