package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/curricula/internal/calendar"
	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/service"
	"github.com/alexanderramin/curricula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	cal := calendar.Default()

	return &App{
		Topics:      service.NewTopicService(repository.NewSQLiteTopicRepo(database), uow, cal),
		Courses:     service.NewCourseService(repository.NewSQLiteCourseRepo(database), uow),
		Paths:       service.NewLearningPathService(repository.NewSQLiteLearningPathRepo(database), uow, cal),
		Enrollments: service.NewEnrollmentService(repository.NewSQLiteEnrollmentRepo(database), uow, cal),
		Schedule:    service.NewScheduleService(uow, cal),
		Audit:       service.NewAuditService(repository.NewSQLiteAuditRepo(database)),
		Import:      service.NewImportService(uow, cal, "cli-test"),
		Calendar:    cal,
		Actor:       "cli-test",
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// executeCmd runs a cobra command and captures stdout/stderr without colors.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func assertDay(t *testing.T, want string, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want, got.Format(formatter.DateLayout))
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// seedCourse creates two topics (one day, then two days) in a course
// starting Monday 2025-01-06.
func seedCourse(t *testing.T, app *App) {
	t.Helper()
	mustExecute(t, app, "topic", "create", "--id", "t-syntax", "--title", "Syntax", "--time", "8")
	mustExecute(t, app, "topic", "create", "--id", "t-types", "--title", "Types", "--time", "2", "--unit", "days")
	mustExecute(t, app, "course", "create", "--id", "c-go", "--title", "Go Basics",
		"--topics", "t-syntax,t-types", "--start", "2025-01-06")
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "curricula")
	assert.Contains(t, out, "schedule")
}

// --- topic ---

func TestTopicCreate_AndList(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "topic", "create", "--id", "t-1", "--title", "Intro", "--time", "1.5", "--unit", "days")
	assert.Contains(t, out, "Created topic Intro (t-1)")

	out = mustExecute(t, app, "topic", "list")
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "12h")
}

func TestTopicList_Empty(t *testing.T) {
	out := mustExecute(t, testApp(t), "topic", "list")
	assert.Contains(t, out, "No topics found.")
}

func TestTopicCreate_InvalidUnit(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "topic", "create", "--title", "X", "--time", "1", "--unit", "weeks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unit")
}

func TestTopicCreate_NonPositiveTime(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "topic", "create", "--title", "X", "--time", "0")
	require.Error(t, err)
	code, ok := contract.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, contract.ErrBadRequest, code)
}

func TestTopicShow_ListsCourses(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	out := mustExecute(t, app, "topic", "show", "t-syn")
	assert.Contains(t, out, "Syntax")
	assert.Contains(t, out, "Go Basics")
}

func TestTopicRename(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	mustExecute(t, app, "topic", "rename", "t-syntax", "Go Syntax")
	got, err := app.Topics.GetByID(context.Background(), "t-syntax")
	require.NoError(t, err)
	assert.Equal(t, "Go Syntax", got.Title)
}

func TestTopicSetDuration_CascadesToCourse(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "schedule", "course", "c-go")

	out := mustExecute(t, app, "topic", "set-duration", "t-syntax", "--time", "16")
	assert.Contains(t, out, "Topic Syntax now takes 16 hours")
	assert.Contains(t, out, "24h → 32h")
	assert.Contains(t, out, "3 → 4")

	c, err := app.Courses.GetByID(context.Background(), "c-go")
	require.NoError(t, err)
	assert.Equal(t, 32.0, c.TotalHours)
	assert.Equal(t, 4, c.TotalDays)
	assertDay(t, "2025-01-09", c.EndAt)
}

func TestTopicSetDuration_KeepsCurrentUnit(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	mustExecute(t, app, "topic", "set-duration", "t-types", "--time", "3")
	got, err := app.Topics.GetByID(context.Background(), "t-types")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.TimeAllocated)
	assert.Equal(t, "days", string(got.TimeUnit))
}

func TestTopicSetDuration_NeedsTimeWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	_, err := executeCmd(t, app, "topic", "set-duration", "t-syntax")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--time is required")
}

func TestTopicDelete_RequiresConfirmation(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "topic", "create", "--id", "t-1", "--title", "Intro", "--time", "1")

	_, err := executeCmd(t, app, "topic", "delete", "t-1")
	require.ErrorIs(t, err, errNeedsConfirmation)

	mustExecute(t, app, "topic", "delete", "t-1", "--yes")
	_, err = app.Topics.GetByID(context.Background(), "t-1")
	code, _ := contract.CodeOf(err)
	assert.Equal(t, contract.ErrNotFound, code)
}

func TestTopicDelete_RefusedWhileUsed(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	_, err := executeCmd(t, app, "topic", "delete", "t-syntax", "-y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used by 1 course")
}

// --- course ---

func TestCourseCreate_UnknownTopic(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "course", "create", "--title", "X", "--topics", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `topic not found: "nope"`)
}

func TestCourseCreate_RelationFlags(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "topic", "create", "--id", "t-a", "--title", "A", "--time", "4")
	mustExecute(t, app, "topic", "create", "--id", "t-b", "--title", "B", "--time", "4")
	mustExecute(t, app, "course", "create", "--id", "c-1", "--title", "Pair",
		"--topics", "t-a,t-b", "--prereq", "t-b:", "--coreq", "t-b:t-a")

	c, err := app.Courses.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, c.TopicPrerequisites["t-b"])
	assert.Equal(t, []string{"t-a"}, c.TopicCorequisites["t-b"])
}

func TestCourseListAndShow(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	out := mustExecute(t, app, "course", "list")
	assert.Contains(t, out, "Go Basics")

	out = mustExecute(t, app, "course", "show", "c-go")
	assert.Contains(t, out, "Syntax")
	assert.Contains(t, out, "Types")
}

func TestCourseShow_TUIRefusedWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	_, err := executeCmd(t, app, "course", "show", "c-go", "--tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

// --- schedule ---

func TestScheduleCourse_WritesSchedule(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	out := mustExecute(t, app, "schedule", "course", "c-go")
	assert.Contains(t, out, "2025-01-06 Mon")
	assert.Contains(t, out, "2025-01-08 Wed")
	assert.Contains(t, out, "24h over 3 days")
	assert.NotContains(t, out, "dry run")

	types, err := app.Topics.GetByID(context.Background(), "t-types")
	require.NoError(t, err)
	assertDay(t, "2025-01-07", types.StartDate)
	assertDay(t, "2025-01-08", types.EndDate)
}

func TestScheduleCourse_DryRunWritesNothing(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	out := mustExecute(t, app, "schedule", "course", "c-go", "--dry-run", "--start", "2025-01-13")
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "2025-01-13 Mon")

	c, err := app.Courses.GetByID(context.Background(), "c-go")
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.TotalHours)
	assert.Nil(t, c.EndAt)
}

func TestScheduleCourse_InvalidStartFlag(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	_, err := executeCmd(t, app, "schedule", "course", "c-go", "--start", "06/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestScheduleCourse_CycleWarnsOrFails(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "topic", "create", "--id", "t-a", "--title", "A", "--time", "8")
	mustExecute(t, app, "topic", "create", "--id", "t-b", "--title", "B", "--time", "8")
	mustExecute(t, app, "course", "create", "--id", "c-loop", "--title", "Loop",
		"--topics", "t-a,t-b", "--prereq", "t-a:t-b", "--prereq", "t-b:t-a", "--start", "2025-01-06")

	out := mustExecute(t, app, "schedule", "course", "c-loop")
	assert.Contains(t, out, "prerequisite cycle")

	_, err := executeCmd(t, app, "schedule", "course", "c-loop", "--strict")
	require.Error(t, err)
	code, _ := contract.CodeOf(err)
	assert.Equal(t, contract.ErrCyclicDependency, code)
}

func TestSchedulePath_ReschedulesEnrollments(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "path", "create", "--id", "p-go", "--title", "Go Track",
		"--courses", "c-go", "--start", "2025-01-06")
	mustExecute(t, app, "enrollment", "add", "--path", "p-go", "--user", "alice", "--start", "2025-01-13")

	out := mustExecute(t, app, "schedule", "path", "p-go")
	assert.Contains(t, out, "Go Track")
	assert.Contains(t, out, "1 enrollment(s) rescheduled")

	out = mustExecute(t, app, "enrollment", "list", "--path", "p-go")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2025-01-15 Wed")

	out = mustExecute(t, app, "path", "show", "p-go")
	assert.Contains(t, out, "Go Basics")
	assert.Contains(t, out, "alice")
}

func TestScheduleTopic_Recalculates(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)

	out := mustExecute(t, app, "schedule", "topic", "t-types")
	assert.Contains(t, out, "Go Basics")

	entries, err := app.Audit.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "cli-test", entries[0].ActorID)
}

func TestScheduleCourse_AmbiguousPrefix(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "course", "create", "--id", "c-gx", "--title", "Other", "--topics", "t-syntax")

	_, err := executeCmd(t, app, "schedule", "course", "c-g")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

// --- path & enrollment ---

func TestPathUpdate_ClearStartFollowsCourses(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "path", "create", "--id", "p-1", "--title", "Track", "--courses", "c-go", "--start", "2025-01-13")

	out := mustExecute(t, app, "path", "update", "p-1", "--title", "Renamed", "--clear-start")
	assert.Contains(t, out, "Updated learning path p-1")
	assert.Contains(t, out, "Go Basics")

	p, err := app.Paths.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)
	assert.Equal(t, []string{"c-go"}, p.CourseIDs)
	assertDay(t, "2025-01-06", p.StartAt)
	assertDay(t, "2025-01-08", p.EndAt)
}

func TestPathUpdate_NewStartReschedules(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "path", "create", "--id", "p-1", "--title", "Track", "--courses", "c-go", "--start", "2025-01-06")
	mustExecute(t, app, "schedule", "path", "p-1")

	mustExecute(t, app, "path", "update", "p-1", "--start", "2025-02-03")

	p, err := app.Paths.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assertDay(t, "2025-02-03", p.StartAt)
	assertDay(t, "2025-02-05", p.EndAt)

	c, err := app.Courses.GetByID(context.Background(), "c-go")
	require.NoError(t, err)
	assertDay(t, "2025-02-03", c.StartAt)
}

func TestPathUpdate_TitleOnlyPrintsNoSchedule(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "path", "create", "--id", "p-1", "--title", "Track", "--courses", "c-go")

	out := mustExecute(t, app, "path", "update", "p-1", "--title", "Renamed")
	assert.Contains(t, out, "Updated learning path p-1")
	assert.NotContains(t, out, "Go Basics")
}

func TestEnrollment_WithdrawThenCompleteFails(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "path", "create", "--id", "p-1", "--title", "Track", "--courses", "c-go")
	mustExecute(t, app, "enrollment", "add", "--path", "p-1", "--user", "bob")

	list, err := app.Enrollments.ListByUser(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out := mustExecute(t, app, "enrollment", "withdraw", id)
	assert.Contains(t, out, "Withdrew enrollment")

	_, err = executeCmd(t, app, "enrollment", "complete", id)
	require.Error(t, err)

	out = mustExecute(t, app, "enrollment", "list", "--user", "bob")
	assert.Contains(t, out, "Withdrawn")
}

func TestEnrollmentList_RequiresPathOrUser(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "enrollment", "list")
	require.Error(t, err)
}

// --- calendar ---

func TestCalendarCheck(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "calendar", "check", "2025-01-04")
	assert.Contains(t, out, "not a working day")
	assert.Contains(t, out, "2025-01-06 Mon")

	out = mustExecute(t, app, "calendar", "check", "2025-01-06")
	assert.NotContains(t, out, "not a working day")
}

func TestCalendarAdd_SkipsChristmas(t *testing.T) {
	out := mustExecute(t, testApp(t), "calendar", "add", "2025-12-24", "3")
	assert.Contains(t, out, "end on 2025-12-29 Mon")
}

func TestCalendarHolidays_IncludesLastMondayOfAugust(t *testing.T) {
	out := mustExecute(t, testApp(t), "calendar", "holidays", "--from", "2025")
	assert.Contains(t, out, "2025-08-25 Mon")
	assert.Contains(t, out, "2025-12-25 Thu")
}

func TestCalendarInfo(t *testing.T) {
	out := mustExecute(t, testApp(t), "calendar", "info")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "12-25")
}

// --- import & audit ---

const catalogJSON = `{
  "topics": [
    {"ref": "t1", "title": "Syntax", "time_allocated": 4, "time_unit": "hours"},
    {"ref": "t2", "title": "Tooling", "time_allocated": 1, "time_unit": "days"}
  ],
  "courses": [
    {"ref": "c1", "title": "Basics", "topic_refs": ["t1", "t2"], "start_at": "2025-01-06"}
  ]
}`

func TestImport_FromFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))

	out := mustExecute(t, app, "import", path)
	assert.Contains(t, out, "2 topics, 1 courses, 0 learning paths, 0 enrollments")
	assert.Contains(t, out, "Basics")

	out = mustExecute(t, app, "audit")
	assert.Contains(t, out, "catalog_imported")
}

func TestImport_MissingFile(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestAudit_ByEntity(t *testing.T) {
	app := testApp(t)
	seedCourse(t, app)
	mustExecute(t, app, "schedule", "course", "c-go")

	out := mustExecute(t, app, "audit", "--entity", "course", "--id", "c-go")
	assert.Contains(t, out, "schedule_recalculated")
	assert.Contains(t, out, "cli-test")

	_, err := executeCmd(t, app, "audit", "--entity", "planet", "--id", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entity")
}
