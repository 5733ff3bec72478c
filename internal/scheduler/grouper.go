package scheduler

// Group is a maximal set of topics joined by corequisite edges. Members keep
// their topic-list order and share one cursor when scheduled.
type Group struct {
	RepresentativeID string
	MemberIDs        []string
	FirstIndex       int
}

// unionFind is a disjoint-set forest over topic list indices.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(i int) int {
	root := i
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[i] != root {
		next := u.parent[i]
		u.parent[i] = root
		i = next
	}
	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}

// UniqueIDs drops empty and repeated ids, keeping first occurrences in order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// GroupTopics merges topics connected by corequisite edges. Edges naming an
// id outside topicIDs are ignored, and declarations need not be symmetric.
// Groups come back ordered by FirstIndex; the representative is the group's
// first member.
func GroupTopics(topicIDs []string, corequisites map[string][]string) []Group {
	ids := UniqueIDs(topicIDs)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	uf := newUnionFind(len(ids))
	for _, id := range ids {
		a := index[id]
		for _, other := range corequisites[id] {
			if b, ok := index[other]; ok {
				uf.union(a, b)
			}
		}
	}

	byRoot := make(map[int]int, len(ids))
	var groups []Group
	for i, id := range ids {
		root := uf.find(i)
		gi, ok := byRoot[root]
		if !ok {
			gi = len(groups)
			byRoot[root] = gi
			groups = append(groups, Group{RepresentativeID: id, FirstIndex: i})
		}
		groups[gi].MemberIDs = append(groups[gi].MemberIDs, id)
	}
	return groups
}
