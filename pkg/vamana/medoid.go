package vamana

import "math/rand"

// ApproximateMedoid draws a uniform sample of points (the whole set,
// if sampleSize exceeds it), computes the pairwise distance matrix
// restricted to the sample, and returns the sampled point with the
// lowest average distance to the rest of the sample. Ties are broken
// by lowest point index.
func ApproximateMedoid(store *PointStore, src DistanceSource, r *rand.Rand, sampleSize int) (int, error) {
	n := store.Len()
	if n == 0 {
		return 0, ErrEmptyInput
	}
	if sampleSize > n {
		sampleSize = n
	}
	if sampleSize <= 1 {
		return randomPermutation(r, n)[0], nil
	}

	sampled := randomPermutation(r, n)[:sampleSize]
	sums := make([]float64, sampleSize)
	for i := 0; i < sampleSize; i++ {
		for j := i + 1; j < sampleSize; j++ {
			d, err := src.Distance(sampled[i], sampled[j])
			if err != nil {
				return 0, err
			}
			sums[i] += float64(d)
			sums[j] += float64(d)
		}
	}

	best := 0
	bestAvg := sums[0]
	for i := 1; i < sampleSize; i++ {
		if sums[i] < bestAvg || (sums[i] == bestAvg && sampled[i] < sampled[best]) {
			best, bestAvg = i, sums[i]
		}
	}
	return sampled[best], nil
}

// FilteredMedoid picks a per-label start node: for every label in the
// registry, it draws a sample of up to tau members, picks the member
// with the lowest running load count (ties broken by lowest point
// index), records it as that label's start node, and increments its
// load count, so later labels are biased away from reusing an
// already-popular start node.
func FilteredMedoid(registry *FilterRegistry, r *rand.Rand, tau int) map[uint32]int {
	load := make(map[int]int)
	starts := make(map[uint32]int, len(registry.Labels()))

	for _, f := range registry.Labels() {
		members := registry.Members(f)
		if len(members) == 0 {
			continue
		}
		size := tau
		if size > len(members) {
			size = len(members)
		}
		perm := randomPermutation(r, len(members))

		pStar := members[perm[0]]
		for i := 1; i < size; i++ {
			idx := members[perm[i]]
			if load[idx] < load[pStar] || (load[idx] == load[pStar] && idx < pStar) {
				pStar = idx
			}
		}

		starts[f] = pStar
		load[pStar]++
	}
	return starts
}
