package scheduler

import (
	"math"
	"testing"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToWorkingHours(t *testing.T) {
	cases := []struct {
		name      string
		allocated float64
		unit      domain.TimeUnit
		want      float64
	}{
		{"hours unchanged", 3, domain.TimeUnitHours, 3},
		{"days times eight", 2, domain.TimeUnitDays, 16},
		{"fractional days", 0.5, domain.TimeUnitDays, 4},
		{"unknown unit treated as hours", 5, domain.TimeUnit("weeks"), 5},
		{"zero", 0, domain.TimeUnitHours, 0},
		{"negative", -4, domain.TimeUnitDays, 0},
		{"nan", math.NaN(), domain.TimeUnitHours, 0},
		{"inf", math.Inf(1), domain.TimeUnitDays, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToWorkingHours(tc.allocated, tc.unit))
		})
	}
}

func TestToWorkingDays(t *testing.T) {
	assert.Equal(t, 0, ToWorkingDays(0))
	assert.Equal(t, 1, ToWorkingDays(1), "one hour still takes a day")
	assert.Equal(t, 1, ToWorkingDays(8))
	assert.Equal(t, 2, ToWorkingDays(8.5))
	assert.Equal(t, 3, ToWorkingDays(20))
	assert.Equal(t, 0, ToWorkingDays(-3))
	assert.Equal(t, 1, ToWorkingDays(0.1+0.2+7.7), "float residue does not add a day")
}

func TestTotals(t *testing.T) {
	topics := []domain.Topic{
		{ID: "a", TimeAllocated: 2, TimeUnit: domain.TimeUnitDays},
		{ID: "b", TimeAllocated: 3, TimeUnit: domain.TimeUnitHours},
		{ID: "c", TimeAllocated: 1, TimeUnit: domain.TimeUnitHours},
	}
	hours, days := Totals(topics)
	assert.Equal(t, 20.0, hours)
	assert.Equal(t, 3, days)

	hours, days = Totals(nil)
	assert.Equal(t, 0.0, hours)
	assert.Equal(t, 0, days)
}
