package cli

import (
	"testing"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValue(t *testing.T) {
	var d dateValue
	assert.Nil(t, d.Time())
	assert.Equal(t, "", d.String())

	require.NoError(t, d.Set("2025-01-06"))
	require.NotNil(t, d.Time())
	assert.Equal(t, "2025-01-06", d.String())
	assert.Equal(t, "date", d.Type())

	err := d.Set("2025-13-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
	assert.Equal(t, "2025-01-06", d.String())
}

func TestUnitValue(t *testing.T) {
	u := newUnitValue(domain.TimeUnitHours)
	assert.Equal(t, "hours", u.String())

	require.NoError(t, u.Set(" Days "))
	assert.Equal(t, domain.TimeUnitDays, u.unit)

	assert.Error(t, u.Set("weeks"))
	assert.Equal(t, domain.TimeUnitDays, u.unit)
}

func TestRelationsValue(t *testing.T) {
	var r relationsValue
	require.NoError(t, r.Set("b:a"))
	require.NoError(t, r.Set("c: a , b"))
	require.NoError(t, r.Set("d:"))
	require.NoError(t, r.Set("b:x"))

	assert.Equal(t, map[string][]string{
		"b": {"a", "x"},
		"c": {"a", "b"},
		"d": {},
	}, r.Map())

	assert.Error(t, r.Set("no-colon"))
	assert.Error(t, r.Set(":a"))
}

func TestMatchID(t *testing.T) {
	ids := []string{"c-go", "c-gx", "c-rust"}

	id, err := matchID("course", "c-go", ids)
	require.NoError(t, err)
	assert.Equal(t, "c-go", id)

	id, err = matchID("course", "c-r", ids)
	require.NoError(t, err)
	assert.Equal(t, "c-rust", id)

	_, err = matchID("course", "c-g", ids)
	assert.ErrorContains(t, err, "ambiguous (2 matches)")

	_, err = matchID("course", "x", ids)
	assert.ErrorContains(t, err, `course not found: "x"`)

	_, err = matchID("course", " ", ids)
	assert.ErrorContains(t, err, "course ID is required")
}

func TestResolveRelations(t *testing.T) {
	ids := []string{"topic-alpha", "topic-beta"}

	got, err := resolveRelations(map[string][]string{"topic-b": {"topic-a"}, "topic-a": {}}, ids)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"topic-beta":  {"topic-alpha"},
		"topic-alpha": {},
	}, got)

	got, err = resolveRelations(nil, ids)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = resolveRelations(map[string][]string{"topic-b": {"gamma"}}, ids)
	assert.Error(t, err)
}
