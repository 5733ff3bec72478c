package scheduler

import (
	"math"

	"github.com/alexanderramin/curricula/internal/domain"
)

// HoursPerDay is the length of one working day.
const HoursPerDay = 8.0

// hoursEpsilon absorbs float residue when hours are split across days.
const hoursEpsilon = 1e-9

// ToWorkingHours converts a declared duration to working hours. Days are
// multiplied by HoursPerDay; any other unit is taken as hours. Non-positive or
// non-finite input yields 0.
func ToWorkingHours(allocated float64, unit domain.TimeUnit) float64 {
	if math.IsNaN(allocated) || math.IsInf(allocated, 0) || allocated <= 0 {
		return 0
	}
	if unit == domain.TimeUnitDays {
		return allocated * HoursPerDay
	}
	return allocated
}

// ToWorkingDays returns ceil(totalHours / HoursPerDay); 0 hours is 0 days and
// any positive remainder occupies a full day.
func ToWorkingDays(totalHours float64) int {
	if math.IsNaN(totalHours) || math.IsInf(totalHours, 0) || totalHours <= hoursEpsilon {
		return 0
	}
	return int(math.Ceil(totalHours/HoursPerDay - hoursEpsilon))
}

// TopicHours returns the working hours of a topic.
func TopicHours(t domain.Topic) float64 {
	return ToWorkingHours(t.TimeAllocated, t.TimeUnit)
}

// Totals sums topic hours and derives the day count.
func Totals(topics []domain.Topic) (float64, int) {
	var total float64
	for _, t := range topics {
		total += TopicHours(t)
	}
	return total, ToWorkingDays(total)
}
