package cluster

// unionFind is a classic disjoint-set over dense integer indices with path
// compression and union by size. Using an explicit structure instead of
// splicing live group slices keeps merging O(pairs) and free of aliasing
// surprises.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets holding a and b. The smaller set joins the larger;
// on equal sizes the lower root index wins so results do not depend on pair
// order.
func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] || (uf.size[ra] == uf.size[rb] && rb < ra) {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// BuildGroups merges similarity pairs into connected components. Two
// identifiers share a group exactly when a chain of pairs links them.
// Groups are ordered by the first appearance of any member in the pair
// stream and members keep first-seen order; singleton components cannot
// occur because every identifier enters via a pair. An empty pair list
// yields no groups.
func (e *Engine) BuildGroups(pairs []Pair) []Group {
	if len(pairs) == 0 {
		return nil
	}

	index := make(map[string]int)
	var ids []string
	idOf := func(id string) int {
		if idx, ok := index[id]; ok {
			return idx
		}
		idx := len(ids)
		index[id] = idx
		ids = append(ids, id)
		return idx
	}

	uf := newUnionFind(0)
	for _, p := range pairs {
		a, b := idOf(p.A), idOf(p.B)
		for len(uf.parent) < len(ids) {
			uf.parent = append(uf.parent, len(uf.parent))
			uf.size = append(uf.size, 1)
		}
		uf.union(a, b)
	}

	members := make(map[int][]string, len(ids))
	var rootOrder []int
	for idx, id := range ids {
		root := uf.find(idx)
		if _, seen := members[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		members[root] = append(members[root], id)
	}

	groups := make([]Group, 0, len(rootOrder))
	for _, root := range rootOrder {
		if group := members[root]; len(group) >= 2 {
			groups = append(groups, Group(group))
		}
	}
	return groups
}
