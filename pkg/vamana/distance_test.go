package vamana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	d, err := Distance([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	require.InDelta(t, float32(5), d, 1e-5)
}

func TestDistanceSymmetric(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 1, -2}
	d1, err := Distance(a, b)
	require.NoError(t, err)
	d2, err := Distance(b, a)
	require.NoError(t, err)
	require.InDelta(t, d1, d2, 1e-6)
}

func TestDistanceDimensionMismatch(t *testing.T) {
	_, err := Distance([]float32{1, 2}, []float32{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMustDistancePanicsOnMismatch(t *testing.T) {
	require.Panics(t, func() {
		MustDistance([]float32{1}, []float32{1, 2})
	})
}

func TestDistanceCacheMatchesOnDemand(t *testing.T) {
	store, err := NewPointStore([][]float32{{0, 0}, {3, 4}, {6, 8}})
	require.NoError(t, err)

	cache := NewDistanceCache(store.Len())
	require.NoError(t, cache.Fill(store, 2))

	onDemand := newOnDemandSource(store)
	for i := 0; i < store.Len(); i++ {
		for j := 0; j < store.Len(); j++ {
			want, err := onDemand.Distance(i, j)
			require.NoError(t, err)
			require.InDelta(t, want, cache.Get(i, j), 1e-5)
		}
	}
}
