package scheduler

// Relations holds the effective prerequisite and corequisite lists used for
// scheduling. Every topic has an entry in both maps, possibly empty.
type Relations struct {
	Prerequisites map[string][]string
	Corequisites  map[string][]string
}

// ResolveRelations computes effective relations for ids, which must already
// be unique. An explicit entry, even an empty one, is used as declared.
// Without one, a topic depends on every member of the previous group, which
// for singleton groups is the topic just before it in list order. Topics in
// the first group depend on nothing. Corequisites are never inferred.
//
// References to ids outside the list and self references are dropped.
func ResolveRelations(ids []string, groups []Group, prerequisites, corequisites map[string][]string) Relations {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}

	rel := Relations{
		Prerequisites: make(map[string][]string, len(ids)),
		Corequisites:  make(map[string][]string, len(ids)),
	}
	for gi, g := range groups {
		for _, id := range g.MemberIDs {
			if explicit, ok := prerequisites[id]; ok {
				rel.Prerequisites[id] = filterRefs(id, explicit, pos)
			} else {
				rel.Prerequisites[id] = fallbackPrerequisites(gi, groups)
			}
			rel.Corequisites[id] = filterRefs(id, corequisites[id], pos)
		}
	}
	return rel
}

func fallbackPrerequisites(gi int, groups []Group) []string {
	if gi == 0 {
		return []string{}
	}
	return append([]string{}, groups[gi-1].MemberIDs...)
}

func filterRefs(self string, refs []string, pos map[string]int) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if r == self || seen[r] {
			continue
		}
		if _, ok := pos[r]; !ok {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
