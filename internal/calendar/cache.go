package calendar

import "sync"

type yearRange struct {
	from, to int
}

// HolidayCache memoizes holiday sets by year range. Sets are built once and
// never mutated afterwards, so they can be shared across callers.
type HolidayCache struct {
	mu   sync.Mutex
	sets map[yearRange]map[string]bool
}

func NewHolidayCache() *HolidayCache {
	return &HolidayCache{sets: make(map[yearRange]map[string]bool)}
}

func (c *HolidayCache) get(from, to int, build func() map[string]bool) map[string]bool {
	key := yearRange{from: from, to: to}
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.sets[key]; ok {
		return set
	}
	set := build()
	c.sets[key] = set
	return set
}

// Len returns the number of cached year ranges.
func (c *HolidayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}
