package vamana

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CacheMode selects whether a builder precomputes all pairwise
// distances into a DistanceCache (MATRIX) or computes them on demand
// from the point store (NONE). Callers choose the budget: MATRIX costs
// N*(N-1)/2 times sizeof(float32) bytes.
type CacheMode int

const (
	CacheNone CacheMode = iota
	CacheMatrix
)

// DistanceCache is a dense, symmetric, zero-diagonal N×N matrix of
// pairwise Euclidean distances, stored as a flat upper-triangular
// float32 slice to keep the memory budget at half an N squared times
// sizeof(float32) matrix rather than doubling it with a float64 matrix
// (gonum's mat.SymDense was considered and rejected for exactly this
// reason, see DESIGN.md).
type DistanceCache struct {
	n     int
	flat  []float32 // upper triangle, row-major, index via packedIndex
}

func packedIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	// Row i starts after i*(n) - i*(i+1)/2 entries of the upper triangle
	// excluding the diagonal (which is always zero and not stored).
	return i*n - i*(i+1)/2 + (j - i - 1)
}

// NewDistanceCache allocates an (uninitialized) cache for n points.
func NewDistanceCache(n int) *DistanceCache {
	size := 0
	if n > 1 {
		size = n * (n - 1) / 2
	}
	return &DistanceCache{n: n, flat: make([]float32, size)}
}

// Get returns the cached distance between i and j. i == j returns 0
// without a lookup, matching the zero-diagonal invariant.
func (c *DistanceCache) Get(i, j int) float32 {
	if i == j {
		return 0
	}
	return c.flat[packedIndex(c.n, i, j)]
}

func (c *DistanceCache) set(i, j int, d float32) {
	if i == j {
		return
	}
	c.flat[packedIndex(c.n, i, j)] = d
}

// Fill computes every pairwise distance between points in store and
// stores it in the cache. workers > 1 parallelizes the fill across
// that many goroutines, each owning a disjoint, contiguous range of
// rows. A worker only writes to rows it owns, so no locking is needed.
func (c *DistanceCache) Fill(store *PointStore, workers int) error {
	n := store.Len()
	if n != c.n {
		return fmt.Errorf("vamana: distance cache sized for %d points, store has %d: %w", c.n, n, ErrInvalidArgument)
	}
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || n < 2 {
		return c.fillRows(store, 0, n)
	}

	g, _ := errgroup.WithContext(context.Background())
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			return c.fillRows(store, start, end)
		})
	}
	return g.Wait()
}

// fillRows computes distances for rows [start, end) against all
// columns > i, leaving the lower triangle implicit (Get mirrors i/j).
func (c *DistanceCache) fillRows(store *PointStore, start, end int) error {
	scratch := newScratch64(store.Dimension())
	for i := start; i < end; i++ {
		pi := store.At(i)
		for j := i + 1; j < c.n; j++ {
			pj := store.At(j)
			d, err := scratch.distance(pi.Vector, pj.Vector)
			if err != nil {
				return err
			}
			c.set(i, j, float32(d))
		}
	}
	return nil
}

// DistanceSource resolves the distance between two points addressed by
// their stable PointStore index. Builders and search/prune routines
// depend on this interface rather than on PointStore or DistanceCache
// directly, so they run identically whether or not a cache is active.
type DistanceSource interface {
	Distance(i, j int) (float32, error)
	DistanceToQuery(i int, q []float32) (float32, error)
}

// onDemandSource computes every distance directly from the point store.
type onDemandSource struct {
	store   *PointStore
	scratch *scratch64
}

func newOnDemandSource(store *PointStore) *onDemandSource {
	return &onDemandSource{store: store, scratch: newScratch64(store.Dimension())}
}

func (s *onDemandSource) Distance(i, j int) (float32, error) {
	d, err := s.scratch.distance(s.store.At(i).Vector, s.store.At(j).Vector)
	return float32(d), err
}

// DistanceToQuery uses per-call buffers rather than s.scratch, so
// concurrent query workers (ComputeGroundtruth with workers > 1) never
// share scratch space.
func (s *onDemandSource) DistanceToQuery(i int, q []float32) (float32, error) {
	return Distance(s.store.At(i).Vector, q)
}

// cachedSource resolves base-to-base distances from a precomputed
// DistanceCache and falls back to on-demand computation for queries,
// which are never base points and so are never in the cache.
type cachedSource struct {
	store *PointStore
	cache *DistanceCache
	query *onDemandSource
}

func newCachedSource(store *PointStore, cache *DistanceCache) *cachedSource {
	return &cachedSource{store: store, cache: cache, query: newOnDemandSource(store)}
}

func (s *cachedSource) Distance(i, j int) (float32, error) {
	return s.cache.Get(i, j), nil
}

func (s *cachedSource) DistanceToQuery(i int, q []float32) (float32, error) {
	return s.query.DistanceToQuery(i, q)
}

// NewDistanceSource builds the DistanceSource a builder should use for
// the given cache mode. When mode is CacheMatrix, cache must already be
// filled via DistanceCache.Fill.
func NewDistanceSource(store *PointStore, mode CacheMode, cache *DistanceCache) DistanceSource {
	if mode == CacheMatrix && cache != nil {
		return newCachedSource(store, cache)
	}
	return newOnDemandSource(store)
}

// subgraphSource lets a per-label sub-build reuse a parent
// DistanceSource (which may be backed by a DistanceCache spanning the
// full point store) by translating the sub-store's local indices back
// to the parent's global indices before every lookup.
type subgraphSource struct {
	globalIdx []int
	parent    DistanceSource
}

func newSubgraphSource(globalIdx []int, parent DistanceSource) *subgraphSource {
	return &subgraphSource{globalIdx: globalIdx, parent: parent}
}

func (s *subgraphSource) Distance(i, j int) (float32, error) {
	return s.parent.Distance(s.globalIdx[i], s.globalIdx[j])
}

func (s *subgraphSource) DistanceToQuery(i int, q []float32) (float32, error) {
	return s.parent.DistanceToQuery(s.globalIdx[i], q)
}
