package vamana

// StitchedBuildParams separates the per-label sub-graph parameters
// from the final stitched-graph degree bound: three distinct knobs
// (LSmall, RSmall, RStitched) instead of the single L/R pair the other
// two builders use.
type StitchedBuildParams struct {
	Alpha     float64
	LSmall    int
	RSmall    int
	RStitched int
}

// BuildStitchedVamana builds the stitched-graph construction: for
// every label, build an ordinary (unfiltered) Vamana graph over just
// that label's points, then copy every edge from that sub-graph back
// into the shared main graph using the original global indices. Each
// labeled point belongs to exactly one label's sub-graph, so its
// stitched neighbor set is that sub-graph's (at most RSmall entries);
// points without a label are in no sub-graph and get no edges. Once
// every label has been stitched in, every node's neighbor set is
// reduced with a single FilteredRobustPrune pass bounded to RStitched.
func BuildStitchedVamana(store *PointStore, registry *FilterRegistry, src DistanceSource, rng *BuildRNG, p StitchedBuildParams, medoidSampleSize int) (*Graph, error) {
	n := store.Len()
	if n == 0 {
		return nil, ErrEmptyInput
	}

	g := NewGraph(n)

	for _, label := range registry.Labels() {
		globalIdx := registry.Members(label)
		if len(globalIdx) == 0 {
			continue
		}

		subVectors := make([][]float32, len(globalIdx))
		for i, gi := range globalIdx {
			subVectors[i] = store.At(gi).Vector
		}
		subStore, err := NewPointStore(subVectors)
		if err != nil {
			return nil, err
		}
		// Route sub-graph distance lookups through the shared src (which
		// may be backed by a DistanceCache spanning the full point store)
		// instead of recomputing on a fresh per-label store.
		subSrc := newSubgraphSource(globalIdx, src)

		subParams := BuildParams{Alpha: p.Alpha, L: p.LSmall, R: p.RSmall}
		subGraph, _, err := BuildVamana(subStore, subSrc, rng, subParams, medoidSampleSize)
		if err != nil {
			return nil, err
		}

		for local := 0; local < subGraph.Size(); local++ {
			neighbors, err := subGraph.Neighbors(local)
			if err != nil {
				return nil, err
			}
			for _, localNeighbor := range neighbors {
				if _, err := g.Connect(globalIdx[local], globalIdx[localNeighbor]); err != nil {
					return nil, err
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		neighbors, err := g.Neighbors(i)
		if err != nil {
			return nil, err
		}
		if err := FilteredRobustPrune(g, store, src, i, neighbors, p.Alpha, p.RStitched); err != nil {
			return nil, err
		}
	}

	return g, nil
}
