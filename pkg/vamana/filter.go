package vamana

import "sort"

// FilterRegistry is the set of categorical labels present in a point
// store, plus a per-label membership view used by the filtered medoid
// finder and the filtered builders.
type FilterRegistry struct {
	labels  []uint32 // sorted, unique
	members map[uint32][]int
}

// NewFilterRegistry derives the registry from the labels actually
// present in store; points with NoLabel are excluded.
func NewFilterRegistry(store *PointStore) *FilterRegistry {
	members := make(map[uint32][]int)
	for _, p := range store.All() {
		if p.Label == NoLabel {
			continue
		}
		members[p.Label] = append(members[p.Label], p.Index)
	}
	labels := make([]uint32, 0, len(members))
	for l := range members {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return &FilterRegistry{labels: labels, members: members}
}

// Labels returns the known labels in ascending order.
func (r *FilterRegistry) Labels() []uint32 { return r.labels }

// Members returns the point indices carrying label f, in ascending
// index order (the order they were appended during NewFilterRegistry,
// which iterates the store in index order).
func (r *FilterRegistry) Members(f uint32) []int { return r.members[f] }

// Compatible reports whether point label matches the query filter set
// fq: an empty fq means every point is eligible, while a single-label
// fq={f} requires an exact label match.
func Compatible(pointLabel uint32, fq []uint32) bool {
	if len(fq) == 0 {
		return true
	}
	for _, f := range fq {
		if pointLabel == f {
			return true
		}
	}
	return false
}
