package vamana

import "math/rand"

// BuildRNG holds one *rand.Rand per build phase, all derived from a
// single master seed. Splitting the generators this way, rather than
// sharing one *rand.Rand across random-edges, permutation, and medoid
// sampling, means the sequence each phase draws does not depend on how
// many draws an earlier phase happened to make, which is what makes a
// build bit-identical for a fixed seed even if a phase's algorithm
// changes slightly.
type BuildRNG struct {
	RandomEdges    *rand.Rand
	Permutation    *rand.Rand
	MedoidSample   *rand.Rand
	FilteredSample *rand.Rand
}

// NewBuildRNG derives the per-phase generators from seed.
func NewBuildRNG(seed int64) *BuildRNG {
	return &BuildRNG{
		RandomEdges:    rand.New(rand.NewSource(seed)),
		Permutation:    rand.New(rand.NewSource(seed + 1)),
		MedoidSample:   rand.New(rand.NewSource(seed + 2)),
		FilteredSample: rand.New(rand.NewSource(seed + 3)),
	}
}

// randomPermutation returns a uniformly random permutation of 0..n-1
// using a Fisher-Yates shuffle driven by r.
func randomPermutation(r *rand.Rand, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	r.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}

// randomDistinctIndices draws length unique indices in [0, max),
// excluding exclude, using rejection sampling. Used to seed a node's
// random out-edges.
func randomDistinctIndices(r *rand.Rand, max, exclude, length int) []int {
	if length > max-1 {
		length = max - 1
	}
	if length < 0 {
		length = 0
	}
	seen := make(map[int]bool, length)
	out := make([]int, 0, length)
	for len(out) < length {
		idx := r.Intn(max)
		if idx == exclude || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}
