package cluster

import (
	"sort"

	"photosift/internal/logging"
)

// SplitOversized breaks up groups larger than the configured cap. Oversized
// groups usually form through chains of transitive matches that do not imply
// every member resembles every other, so they are decomposed into denser
// sub-clusters; groups at or below the cap pass through unchanged.
func (e *Engine) SplitOversized(groups []Group, pairs []Pair) []Group {
	out := make([]Group, 0, len(groups))
	for _, group := range groups {
		if len(group) <= e.maxGroupSize {
			out = append(out, group)
			continue
		}
		subs := e.splitGroup(group, pairs)
		e.logger.Debug("split oversized group",
			logging.Int("members", len(group)),
			logging.Int("sub_clusters", len(subs)))
		out = append(out, subs...)
	}
	return out
}

// splitGroup decomposes one oversized group by highest-degree seed growth:
// members are visited in descending internal-degree order (ties keep the
// group's member order, which is first-seen order from the pair stream) and
// each unvisited member seeds a sub-cluster of itself plus its unvisited
// direct neighbors. The expansion is deliberately one hop, not another
// transitive closure, to force small dense clusters. The heuristic makes no
// attempt at optimal dense clustering; it only has to beat "one giant
// group" for review purposes.
func (e *Engine) splitGroup(group Group, pairs []Pair) []Group {
	memberSet := make(map[string]struct{}, len(group))
	for _, id := range group {
		memberSet[id] = struct{}{}
	}

	degree := make(map[string]int, len(group))
	adjacency := make(map[string][]string, len(group))
	for _, p := range pairs {
		if _, ok := memberSet[p.A]; !ok {
			continue
		}
		if _, ok := memberSet[p.B]; !ok {
			continue
		}
		degree[p.A]++
		degree[p.B]++
		adjacency[p.A] = append(adjacency[p.A], p.B)
		adjacency[p.B] = append(adjacency[p.B], p.A)
	}

	ordered := make([]string, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return degree[ordered[i]] > degree[ordered[j]]
	})

	visited := make(map[string]struct{}, len(group))
	var clusters []Group
	var leftoverSeeds map[string]struct{}

	for _, seed := range ordered {
		if _, ok := visited[seed]; ok {
			continue
		}
		sub := Group{seed}
		visited[seed] = struct{}{}
		for _, neighbor := range adjacency[seed] {
			if _, ok := visited[neighbor]; ok {
				continue
			}
			sub = append(sub, neighbor)
			visited[neighbor] = struct{}{}
		}
		if len(sub) >= 2 {
			clusters = append(clusters, sub)
			continue
		}
		// A seed with no unvisited neighbors stays available for the
		// final leftover cluster.
		if leftoverSeeds == nil {
			leftoverSeeds = make(map[string]struct{})
		}
		leftoverSeeds[seed] = struct{}{}
	}

	if len(leftoverSeeds) >= 2 {
		leftover := make(Group, 0, len(leftoverSeeds))
		for _, id := range group {
			if _, ok := leftoverSeeds[id]; ok {
				leftover = append(leftover, id)
			}
		}
		clusters = append(clusters, leftover)
	}

	// Pathological case: an oversized group with no internal pairs yields
	// nothing above. Hand the group back unsplit rather than dropping it.
	if len(clusters) == 0 {
		return []Group{group}
	}
	return clusters
}
