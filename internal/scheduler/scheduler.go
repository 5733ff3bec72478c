// Package scheduler turns topic durations and prerequisite/corequisite
// relations into calendar windows. It does no I/O.
package scheduler

import (
	"math"
	"sort"
	"time"
)

// Input is one course worth of topics.
type Input struct {
	TopicIDs []string

	// Hours are working hours per topic; missing or non-positive means 0.
	Hours         map[string]float64
	Prerequisites map[string][]string
	Corequisites  map[string][]string
	Start         time.Time
}

type Options struct {
	// RejectCycles fails with *CyclicDependencyError instead of placing
	// stalled groups with the fallback pass.
	RejectCycles bool
}

// Schedule is the result of Compute.
type Schedule struct {
	Topics map[string]Window

	// Order lists topics in the order they were placed.
	Order          []string
	Start          time.Time
	End            time.Time
	TrailingCursor Cursor
	Groups         []Group
	Relations      Relations

	// Unresolved lists topics placed by the fallback pass, in list order.
	Unresolved []string
	TotalHours float64
	TotalDays  int
}

// Compute schedules every topic in in.TopicIDs.
//
// Groups are placed in passes: a pending group is placed once all of its
// prerequisite groups have an end cursor, starting at the later of the
// normalized start and those end cursors. When a pass places nothing, the
// remaining groups are placed in FirstIndex order from the trailing cursor,
// widened by whatever prerequisite end cursors are known.
func Compute(cal Calendar, in Input, opts Options) (*Schedule, error) {
	ids := UniqueIDs(in.TopicIDs)
	groups := GroupTopics(ids, in.Corequisites)
	rel := ResolveRelations(ids, groups, in.Prerequisites, in.Corequisites)
	deps := prerequisiteGroups(groups, rel)

	start := StartCursor(cal, in.Start)
	s := &Schedule{
		Topics:     make(map[string]Window, len(ids)),
		Order:      make([]string, 0, len(ids)),
		Groups:     groups,
		Relations:  rel,
		Unresolved: []string{},
	}
	for _, id := range ids {
		s.TotalHours += hoursFor(in.Hours, id)
	}
	s.TotalDays = ToWorkingDays(s.TotalHours)

	ends := make([]Cursor, len(groups))
	resolved := make([]bool, len(groups))
	trailing := start

	place := func(gi int, c Cursor) {
		for _, id := range groups[gi].MemberIDs {
			var w Window
			w, c = c.Consume(cal, hoursFor(in.Hours, id))
			s.Topics[id] = w
			s.Order = append(s.Order, id)
		}
		ends[gi] = c
		resolved[gi] = true
		trailing = Later(trailing, c)
	}

	for progress := true; progress; {
		progress = false
		for gi := range groups {
			if resolved[gi] || !allResolved(deps[gi], resolved) {
				continue
			}
			c := start
			for _, d := range deps[gi] {
				c = Later(c, ends[d])
			}
			place(gi, c)
			progress = true
		}
	}

	var stalled []int
	for gi := range groups {
		if !resolved[gi] {
			stalled = append(stalled, gi)
		}
	}
	if len(stalled) > 0 {
		var pending []string
		for _, gi := range stalled {
			pending = append(pending, groups[gi].MemberIDs...)
		}
		sortByPosition(pending, ids)
		if opts.RejectCycles {
			return nil, &CyclicDependencyError{TopicIDs: pending}
		}
		s.Unresolved = pending

		for _, gi := range stalled {
			c := Later(trailing, start)
			for _, d := range deps[gi] {
				if resolved[d] {
					c = Later(c, ends[d])
				}
			}
			place(gi, c)
		}
	}

	s.TrailingCursor = trailing
	s.Start, s.End = start.Date, start.Date
	if span, ok := Span(windows(s)); ok {
		s.Start, s.End = span.Start, span.End
		if trailing.Date.After(s.End) {
			s.End = trailing.Date
		}
	}
	return s, nil
}

// Span returns the earliest start and latest end over ws. ok is false when ws
// is empty.
func Span(ws []Window) (Window, bool) {
	if len(ws) == 0 {
		return Window{}, false
	}
	out := ws[0]
	for _, w := range ws[1:] {
		if w.Start.Before(out.Start) {
			out.Start = w.Start
		}
		if w.End.After(out.End) {
			out.End = w.End
		}
	}
	return out, true
}

func windows(s *Schedule) []Window {
	out := make([]Window, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Topics[id])
	}
	return out
}

// prerequisiteGroups maps each group to the other groups holding its
// members' effective prerequisites, in ascending group order.
func prerequisiteGroups(groups []Group, rel Relations) [][]int {
	groupOf := make(map[string]int)
	for gi, g := range groups {
		for _, id := range g.MemberIDs {
			groupOf[id] = gi
		}
	}
	deps := make([][]int, len(groups))
	for gi, g := range groups {
		seen := make(map[int]bool)
		for _, id := range g.MemberIDs {
			for _, p := range rel.Prerequisites[id] {
				pg, ok := groupOf[p]
				if !ok || pg == gi || seen[pg] {
					continue
				}
				seen[pg] = true
				deps[gi] = append(deps[gi], pg)
			}
		}
		sort.Ints(deps[gi])
	}
	return deps
}

func allResolved(deps []int, resolved []bool) bool {
	for _, d := range deps {
		if !resolved[d] {
			return false
		}
	}
	return true
}

func hoursFor(hours map[string]float64, id string) float64 {
	h := hours[id]
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0
	}
	return h
}

func sortByPosition(ids, order []string) {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	sort.Slice(ids, func(i, j int) bool { return pos[ids[i]] < pos[ids[j]] })
}
