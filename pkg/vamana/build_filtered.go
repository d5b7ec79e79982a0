package vamana

// BuildFilteredVamana runs the label-aware construction algorithm:
// every node still gets random out-edges (unless p.Mode is ModeEmpty)
// and the graph still shares one global medoid (the start node for
// unlabeled points), but the per-label start points computed by
// FilteredMedoid seed FilteredGreedySearch for each node's own label,
// and both the initial prune and the back-propagation step use
// FilteredRobustPrune, whose elimination rule is label-aware. Edges
// between different labels are not forbidden: random seed edges and
// candidates FilteredRobustPrune keeps can cross labels.
func BuildFilteredVamana(store *PointStore, registry *FilterRegistry, src DistanceSource, rng *BuildRNG, p BuildParams, medoidSampleSize, tau int) (*Graph, int, map[uint32]int, error) {
	n := store.Len()
	if n == 0 {
		return nil, 0, nil, ErrEmptyInput
	}

	g := NewGraph(n)
	if p.Mode != ModeEmpty {
		if err := seedRandomEdges(g, rng.RandomEdges, p.R); err != nil {
			return nil, 0, nil, err
		}
	}

	medoid, err := ApproximateMedoid(store, src, rng.MedoidSample, medoidSampleSize)
	if err != nil {
		return nil, 0, nil, err
	}
	starts := FilteredMedoid(registry, rng.FilteredSample, tau)

	sigma := randomPermutation(rng.Permutation, n)
	for _, i := range sigma {
		x := store.At(i)

		var s []int
		var fq []uint32
		if x.Label == NoLabel {
			s = []int{medoid}
		} else if start, ok := starts[x.Label]; ok {
			s = []int{start}
			fq = []uint32{x.Label}
		} else {
			s = []int{medoid}
		}

		_, visited, err := FilteredGreedySearch(g, store, src, s, x.Vector, 0, p.L, fq)
		if err != nil {
			return nil, 0, nil, err
		}
		if err := FilteredRobustPrune(g, store, src, i, visited, p.Alpha, p.R); err != nil {
			return nil, 0, nil, err
		}
		if err := backPropagate(g, store, src, i, p, true); err != nil {
			return nil, 0, nil, err
		}
	}

	return g, medoid, starts, nil
}
