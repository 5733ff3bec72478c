package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRepo_RelationsSurviveStorage(t *testing.T) {
	repo := NewSQLiteCourseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	course := testutil.NewTestCourse("Onboarding",
		testutil.WithTopics("t1", "t2", "t3"),
		testutil.WithPrerequisites("t3", "t1"),
		testutil.WithPrerequisites("t2"),
		testutil.WithCorequisites("t1", "t2"),
		testutil.WithCourseStart(testutil.Date(2025, 1, 6)),
	)
	require.NoError(t, repo.Create(ctx, course))

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, got.TopicIDs)
	assert.Equal(t, []string{"t1"}, got.TopicPrerequisites["t3"])

	empty, ok := got.TopicPrerequisites["t2"]
	assert.True(t, ok, "explicit empty entry is kept")
	assert.Empty(t, empty)
	_, ok = got.TopicPrerequisites["t1"]
	assert.False(t, ok)

	assert.Equal(t, []string{"t2"}, got.TopicCorequisites["t1"])
	require.NotNil(t, got.StartAt)
	assert.Equal(t, testutil.Date(2025, 1, 6), *got.StartAt)
	assert.Nil(t, got.EndAt)
}

func TestCourseRepo_ListContainingTopic(t *testing.T) {
	repo := NewSQLiteCourseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	c1 := testutil.NewTestCourse("One", testutil.WithTopics("t1", "t2"))
	c2 := testutil.NewTestCourse("Two", testutil.WithTopics("t2", "t3"))
	c3 := testutil.NewTestCourse("Three", testutil.WithTopics("t10"))
	for _, c := range []*domain.Course{c1, c2, c3} {
		require.NoError(t, repo.Create(ctx, c))
	}

	got, err := repo.ListContainingTopic(ctx, "t2")
	require.NoError(t, err)
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{c1.ID, c2.ID}, ids)

	got, err = repo.ListContainingTopic(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 1, "t1 must not match t10")
	assert.Equal(t, c1.ID, got[0].ID)
}

func TestCourseRepo_UpdateSchedule(t *testing.T) {
	repo := NewSQLiteCourseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	course := testutil.NewTestCourse("One")
	require.NoError(t, repo.Create(ctx, course))

	totals := domain.ScheduleTotals{
		StartAt:    testutil.DatePtr(2025, 1, 6),
		EndAt:      testutil.DatePtr(2025, 1, 8),
		TotalHours: 20,
		TotalDays:  3,
	}
	require.NoError(t, repo.UpdateSchedule(ctx, course.ID, totals))

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, totals, got.Totals())

	assert.ErrorIs(t, repo.UpdateSchedule(ctx, "ghost", totals), ErrNotFound)
}

func TestCourseRepo_Update(t *testing.T) {
	repo := NewSQLiteCourseRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	course := testutil.NewTestCourse("One", testutil.WithTopics("t1"))
	require.NoError(t, repo.Create(ctx, course))

	course.Title = "One (rev)"
	course.TopicIDs = []string{"t1", "t2"}
	course.TopicCorequisites = map[string][]string{"t2": {"t1"}}
	require.NoError(t, repo.Update(ctx, course))

	got, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "One (rev)", got.Title)
	assert.Equal(t, []string{"t1", "t2"}, got.TopicIDs)
	assert.Equal(t, []string{"t1"}, got.TopicCorequisites["t2"])

	require.NoError(t, repo.Delete(ctx, course.ID))
	_, err = repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
