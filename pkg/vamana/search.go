package vamana

import "sort"

// GreedySearch is the unfiltered best-first graph traversal: starting
// from s, it repeatedly expands the closest unvisited candidate until
// the candidate pool is exhausted, keeping at most L candidates (the L
// closest to xq) at every step. Returns the k closest points reached
// (ties broken by lowest index) and the full visited set.
func GreedySearch(g *Graph, store *PointStore, src DistanceSource, s int, xq []float32, k, l int) (topK []int, visited []int, err error) {
	return greedySearch(g, store, src, []int{s}, xq, k, l, nil)
}

// FilteredGreedySearch is the label-aware variant: it seeds the
// candidate pool from the caller's start nodes (one per label in the
// query filter set, or the plain medoid when fq is empty), and only
// admits a neighbor into the candidate pool C when its label is
// compatible with fq. The visited set V is every point expanded during
// the search: the start nodes, whatever their label, plus compatible
// points reached from them. It is the provenance set RobustPrune
// consumes.
func FilteredGreedySearch(g *Graph, store *PointStore, src DistanceSource, starts []int, xq []float32, k, l int, fq []uint32) (topK []int, visited []int, err error) {
	return greedySearch(g, store, src, starts, xq, k, l, fq)
}

func greedySearch(g *Graph, store *PointStore, src DistanceSource, starts []int, xq []float32, k, l int, fq []uint32) ([]int, []int, error) {
	if g.Size() == 0 {
		return nil, nil, ErrEmptyGraph
	}

	candidates := newCandidateSet()
	visitedSet := make(map[int]bool)
	visitedOrder := make([]int, 0)

	for _, s := range starts {
		d, err := src.DistanceToQuery(s, xq)
		if err != nil {
			return nil, nil, err
		}
		candidates.add(s, d)
	}

	for {
		// p* = argmin over C \ V of distance to xq, ties by lowest index.
		var pStar int
		found := false
		var pStarDist float32
		for _, c := range candidates.list() {
			if visitedSet[c.idx] {
				continue
			}
			if !found || c.dist < pStarDist || (c.dist == pStarDist && c.idx < pStar) {
				pStar, pStarDist, found = c.idx, c.dist, true
			}
		}
		if !found {
			break
		}

		visitedSet[pStar] = true
		visitedOrder = append(visitedOrder, pStar)

		neighbors, err := g.Neighbors(pStar)
		if err != nil {
			return nil, nil, err
		}
		for _, j := range neighbors {
			if !Compatible(store.At(j).Label, fq) {
				continue
			}
			d, err := src.DistanceToQuery(j, xq)
			if err != nil {
				return nil, nil, err
			}
			candidates.add(j, d)
		}

		if candidates.size() > l {
			candidates.truncateToClosest(l)
		}
	}

	top := closest(candidates.list(), k)
	topIdx := make([]int, len(top))
	for i, c := range top {
		topIdx[i] = c.idx
	}

	sort.Ints(visitedOrder)
	return topIdx, visitedOrder, nil
}
