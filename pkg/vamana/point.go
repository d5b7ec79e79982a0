package vamana

import "fmt"

// NoLabel marks a point (or query) that carries no categorical filter
// label. The original C++ source uses a sentinel of -1 for this; since
// Go labels are unsigned here we reserve the maximum uint32 instead.
const NoLabel uint32 = ^uint32(0)

// Point is a single base vector, addressed by a stable index that is
// set once at ingest and never mutated. Label and Timestamp are only
// meaningful for the filtered variants; unfiltered stores set them to
// NoLabel and 0.
type Point struct {
	Index     int
	Vector    []float32
	Label     uint32
	Timestamp float32
}

// QueryKind selects which base points are eligible candidates for a
// query. Only the two kinds named here are supported; others are
// rejected with ErrUnsupportedQueryKind.
type QueryKind int

const (
	// QueryUnfiltered matches every base point.
	QueryUnfiltered QueryKind = iota
	// QuerySingleLabel matches base points whose Label equals Query.Value.
	QuerySingleLabel
)

// Query is a transient search request: a vector plus the filter under
// which the search runs.
type Query struct {
	Vector []float32
	Kind   QueryKind
	Value  uint32
}

// PointStore is an immutable, index-addressable array of base points.
// Every point in a store shares a uniform dimension.
type PointStore struct {
	points    []Point
	dimension int
}

// NewPointStore builds a point store from vectors with no labels or
// timestamps attached (the unfiltered variant). Index i is assigned in
// order, i.e. points[i].Index == i.
func NewPointStore(vectors [][]float32) (*PointStore, error) {
	points := make([]Point, len(vectors))
	for i, v := range vectors {
		points[i] = Point{Index: i, Vector: v, Label: NoLabel}
	}
	return newPointStoreFromPoints(points)
}

// NewFilteredPointStore builds a point store from vectors paired with a
// categorical label and timestamp per point, as read from the filtered
// base-vector file format.
func NewFilteredPointStore(vectors [][]float32, labels []uint32, timestamps []float32) (*PointStore, error) {
	if len(vectors) != len(labels) || len(vectors) != len(timestamps) {
		return nil, fmt.Errorf("vamana: vectors/labels/timestamps length mismatch: %w", ErrInvalidArgument)
	}
	points := make([]Point, len(vectors))
	for i, v := range vectors {
		points[i] = Point{Index: i, Vector: v, Label: labels[i], Timestamp: timestamps[i]}
	}
	return newPointStoreFromPoints(points)
}

func newPointStoreFromPoints(points []Point) (*PointStore, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("vamana: point store has no points: %w", ErrEmptyInput)
	}
	dim := len(points[0].Vector)
	for _, p := range points {
		if len(p.Vector) != dim {
			return nil, fmt.Errorf("vamana: point %d has dimension %d, want %d: %w", p.Index, len(p.Vector), dim, ErrDimensionMismatch)
		}
	}
	return &PointStore{points: points, dimension: dim}, nil
}

// Len returns the number of points in the store.
func (s *PointStore) Len() int { return len(s.points) }

// Dimension returns the uniform vector dimension of every point.
func (s *PointStore) Dimension() int { return s.dimension }

// At returns the i-th point. Panics if i is out of range; callers in
// this package always bound-check first via Len().
func (s *PointStore) At(i int) Point { return s.points[i] }

// All returns the underlying point slice; callers must not mutate it.
func (s *PointStore) All() []Point { return s.points }

// HasLabel reports whether any point in the store carries a label
// other than NoLabel, i.e. whether this store is the filtered variant.
func (s *PointStore) HasLabel() bool {
	for _, p := range s.points {
		if p.Label != NoLabel {
			return true
		}
	}
	return false
}
