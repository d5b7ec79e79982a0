package vamana

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// scratch64 holds the two []float64 buffers a distance computation
// widens its inputs into, so a long-lived owner (onDemandSource's
// base-to-base lookups, one DistanceCache.Fill worker) can reuse them
// instead of allocating on every call. It is not safe for concurrent
// use.
type scratch64 struct {
	a, b []float64
}

func newScratch64(dim int) *scratch64 {
	return &scratch64{a: make([]float64, dim), b: make([]float64, dim)}
}

func (s *scratch64) distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vamana: comparing vectors of dimension %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	for i, v := range a {
		s.a[i] = float64(v)
	}
	for i, v := range b {
		s.b[i] = float64(v)
	}
	// floats.Distance with p=2 computes the Euclidean (L2) norm of the
	// element-wise difference, accumulating in double precision.
	return floats.Distance(s.a[:len(a)], s.b[:len(b)], 2), nil
}

// Distance computes the Euclidean (L2) distance between two vectors in
// double precision, narrowed to float32 on return. Fails with
// ErrDimensionMismatch when the vectors have unequal length.
func Distance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vamana: comparing vectors of dimension %d and %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	s := newScratch64(len(a))
	d, err := s.distance(a, b)
	if err != nil {
		return 0, err
	}
	return float32(d), nil
}

// MustDistance is Distance that panics on dimension mismatch, for
// callers that have already validated the dimension (e.g. every vector
// came from the same PointStore).
func MustDistance(a, b []float32) float32 {
	d, err := Distance(a, b)
	if err != nil {
		panic(err)
	}
	return d
}
