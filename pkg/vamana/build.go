package vamana

import "math/rand"

// ConnectionMode selects whether a builder seeds its graph with random
// out-edges before the main construction loop runs. The original
// source exposes this as a boolean "empty" flag on
// FilteredVamanaIndex::createGraph. StitchedVamana's per-label
// sub-builds always use ModeFilled, since a sparse sub-graph with no
// random seeding struggles to converge on small label partitions.
type ConnectionMode int

const (
	// ModeFilled seeds every node with up to R random out-edges before
	// construction, same as the unfiltered builder always did.
	ModeFilled ConnectionMode = iota
	// ModeEmpty skips random-edge seeding; construction relies solely on
	// GreedySearch/RobustPrune traversal to discover edges.
	ModeEmpty
)

// BuildParams bundles the construction knobs common to all three
// Vamana variants: alpha is the RobustPrune slack factor, L is the
// candidate pool bound used during construction search, and R is the
// out-degree cap enforced on every node.
type BuildParams struct {
	Alpha float64
	L     int
	R     int
	Mode  ConnectionMode
}

// BuildVamana runs the unfiltered Vamana construction algorithm: seed
// every node with up to R random out-edges (skipped in ModeEmpty), locate the dataset's
// approximate medoid as the universal search entry point, then visit
// every node in a random order, replacing its neighbor list with a
// GreedySearch/RobustPrune pass and back-propagating the new edge to
// each of its neighbors (re-pruning them if the added edge would push
// them over R). Returns the finished graph and the medoid used to
// build it (needed again at query time).
func BuildVamana(store *PointStore, src DistanceSource, rng *BuildRNG, p BuildParams, medoidSampleSize int) (*Graph, int, error) {
	n := store.Len()
	if n == 0 {
		return nil, 0, ErrEmptyInput
	}

	g := NewGraph(n)
	if p.Mode != ModeEmpty {
		if err := seedRandomEdges(g, rng.RandomEdges, p.R); err != nil {
			return nil, 0, err
		}
	}

	medoid, err := ApproximateMedoid(store, src, rng.MedoidSample, medoidSampleSize)
	if err != nil {
		return nil, 0, err
	}

	sigma := randomPermutation(rng.Permutation, n)
	for _, i := range sigma {
		_, visited, err := GreedySearch(g, store, src, medoid, store.At(i).Vector, 1, p.L)
		if err != nil {
			return nil, 0, err
		}
		if err := RobustPrune(g, store, src, i, visited, p.Alpha, p.R); err != nil {
			return nil, 0, err
		}
		if err := backPropagate(g, store, src, i, p, false); err != nil {
			return nil, 0, err
		}
	}

	return g, medoid, nil
}

// seedRandomEdges gives every node up to maxEdges distinct random
// out-neighbors (never itself), the random R-regular initialization
// every ModeFilled build starts from, including the stitched per-label
// sub-builds.
func seedRandomEdges(g *Graph, r *rand.Rand, maxEdges int) error {
	n := g.Size()
	for i := 0; i < n; i++ {
		for _, j := range randomDistinctIndices(r, n, i, maxEdges) {
			if _, err := g.Connect(i, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// backPropagate implements the "for j in N_out(sigma_i)" step shared
// by the unfiltered and filtered builders: each neighbor j of the
// just-pruned node i either simply gains i as a neighbor, or (if that
// would push j over R) is itself re-pruned against its current
// neighbors plus i.
func backPropagate(g *Graph, store *PointStore, src DistanceSource, i int, p BuildParams, filtered bool) error {
	neighbors, err := g.Neighbors(i)
	if err != nil {
		return err
	}
	// Neighbors(i) is mutated by Connect/ReplaceNeighbors during this
	// loop's later iterations only through j's own list, never i's, so
	// copying here is solely to decouple iteration from g's internal
	// slice.
	js := make([]int, len(neighbors))
	copy(js, neighbors)

	for _, j := range js {
		jn, err := g.Neighbors(j)
		if err != nil {
			return err
		}
		outgoing := unionWithSelf(jn, i)
		if len(outgoing) > p.R {
			if filtered {
				if err := FilteredRobustPrune(g, store, src, j, outgoing, p.Alpha, p.R); err != nil {
					return err
				}
			} else if err := RobustPrune(g, store, src, j, outgoing, p.Alpha, p.R); err != nil {
				return err
			}
		} else if _, err := g.Connect(j, i); err != nil {
			return err
		}
	}
	return nil
}

func unionWithSelf(existing []int, self int) []int {
	seen := make(map[int]bool, len(existing)+1)
	out := make([]int, 0, len(existing)+1)
	for _, x := range existing {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	if !seen[self] {
		out = append(out, self)
	}
	return out
}
