package vamana

import "sort"

// candidate pairs a point index with its distance to the active query,
// the (distance, index) key every ordering in this package sorts by.
// Ties are always broken by the lower index.
type candidate struct {
	idx  int
	dist float32
}

func sortCandidates(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].dist != c[j].dist {
			return c[i].dist < c[j].dist
		}
		return c[i].idx < c[j].idx
	})
}

// closest returns the k closest candidates to the query, sorted
// ascending by (distance, index). If len(c) < k, all of c is returned.
func closest(c []candidate, k int) []candidate {
	sortCandidates(c)
	if k > len(c) {
		k = len(c)
	}
	out := make([]candidate, k)
	copy(out, c[:k])
	return out
}

// candidateSet is a duplicate-free, index-addressable working set used
// by GreedySearch to track the current candidate pool C. It is backed
// by a map for O(1) membership tests; sorting only happens when the
// caller asks for it, since the pool-size bound check sorts anyway.
type candidateSet struct {
	byIdx map[int]float32
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byIdx: make(map[int]float32)}
}

func (s *candidateSet) add(idx int, dist float32) {
	s.byIdx[idx] = dist
}

func (s *candidateSet) has(idx int) bool {
	_, ok := s.byIdx[idx]
	return ok
}

func (s *candidateSet) remove(idx int) {
	delete(s.byIdx, idx)
}

func (s *candidateSet) list() []candidate {
	out := make([]candidate, 0, len(s.byIdx))
	for idx, d := range s.byIdx {
		out = append(out, candidate{idx: idx, dist: d})
	}
	return out
}

func (s *candidateSet) size() int { return len(s.byIdx) }

// truncateToClosest keeps only the L closest entries to the query,
// breaking ties by lowest index.
func (s *candidateSet) truncateToClosest(l int) {
	if s.size() <= l {
		return
	}
	kept := closest(s.list(), l)
	s.byIdx = make(map[int]float32, len(kept))
	for _, c := range kept {
		s.byIdx[c.idx] = c.dist
	}
}
