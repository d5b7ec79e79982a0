package vamana

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomVectors(r *rand.Rand, n, dim int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		v := make([]float32, dim)
		for d := range v {
			v[d] = r.Float32()
		}
		vectors[i] = v
	}
	return vectors
}

func TestBuildVamanaReturnsValidMedoidAndRespectsOutDegreeCap(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	store, err := NewPointStore(randomVectors(r, 200, 8))
	require.NoError(t, err)
	src := newOnDemandSource(store)

	g, medoid, err := BuildVamana(store, src, NewBuildRNG(1), BuildParams{Alpha: 1.2, L: 30, R: 10}, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, medoid, 0)
	require.Less(t, medoid, store.Len())

	for i := 0; i < g.Size(); i++ {
		deg, err := g.OutDegree(i)
		require.NoError(t, err)
		require.LessOrEqual(t, deg, 10)
	}
}

func TestBuildVamanaIsDeterministicForFixedSeed(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	vectors := randomVectors(r, 64, 4)
	store, err := NewPointStore(vectors)
	require.NoError(t, err)
	src := newOnDemandSource(store)
	params := BuildParams{Alpha: 1.2, L: 20, R: 8}

	g1, m1, err := BuildVamana(store, src, NewBuildRNG(123), params, 32)
	require.NoError(t, err)
	g2, m2, err := BuildVamana(store, src, NewBuildRNG(123), params, 32)
	require.NoError(t, err)

	require.Equal(t, m1, m2)
	for i := 0; i < store.Len(); i++ {
		n1, err := g1.Neighbors(i)
		require.NoError(t, err)
		n2, err := g2.Neighbors(i)
		require.NoError(t, err)
		require.Equal(t, n1, n2, "identical seeds must produce identical graphs")
	}
}

func TestBuildVamanaRejectsEmptyStore(t *testing.T) {
	store := &PointStore{}
	_, _, err := BuildVamana(store, newOnDemandSource(store), NewBuildRNG(1), BuildParams{Alpha: 1.2, L: 10, R: 4}, 10)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildFilteredVamanaRespectsOutDegreeCap(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	vectors := randomVectors(r, 120, 6)
	labels := make([]uint32, 120)
	for i := range labels {
		labels[i] = uint32(i % 3)
	}
	store, err := NewFilteredPointStore(vectors, labels, make([]float32, 120))
	require.NoError(t, err)
	src := newOnDemandSource(store)
	registry := NewFilterRegistry(store)

	g, medoid, starts, err := BuildFilteredVamana(store, registry, src, NewBuildRNG(5), BuildParams{Alpha: 1.2, L: 20, R: 8}, 32, 32)
	require.NoError(t, err)
	require.Len(t, starts, 3)
	require.GreaterOrEqual(t, medoid, 0)

	for i := 0; i < g.Size(); i++ {
		deg, err := g.OutDegree(i)
		require.NoError(t, err)
		require.LessOrEqual(t, deg, 8)
	}
}

func TestBuildStitchedVamanaRespectsFinalOutDegreeCap(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	vectors := randomVectors(r, 90, 5)
	labels := make([]uint32, 90)
	for i := range labels {
		labels[i] = uint32(i % 4)
	}
	store, err := NewFilteredPointStore(vectors, labels, make([]float32, 90))
	require.NoError(t, err)
	src := newOnDemandSource(store)
	registry := NewFilterRegistry(store)

	params := StitchedBuildParams{Alpha: 1.2, LSmall: 15, RSmall: 6, RStitched: 10}
	g, err := BuildStitchedVamana(store, registry, src, NewBuildRNG(11), params, 32)
	require.NoError(t, err)

	for i := 0; i < g.Size(); i++ {
		deg, err := g.OutDegree(i)
		require.NoError(t, err)
		require.LessOrEqual(t, deg, 10)
	}
}

// TestEndToEndRecallIsReasonable builds a small unfiltered index and
// checks GreedySearch recovers the true nearest neighbor for most
// queries drawn from the base set itself (a query equal to a base
// point is its own nearest neighbor, at distance 0).
func TestEndToEndRecallIsReasonable(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	vectors := randomVectors(r, 300, 16)
	store, err := NewPointStore(vectors)
	require.NoError(t, err)
	src := newOnDemandSource(store)

	g, medoid, err := BuildVamana(store, src, NewBuildRNG(77), BuildParams{Alpha: 1.2, L: 60, R: 16}, 64)
	require.NoError(t, err)

	hits := 0
	const probes = 30
	for i := 0; i < probes; i++ {
		top, _, err := GreedySearch(g, store, src, medoid, vectors[i], 1, 60)
		require.NoError(t, err)
		if len(top) == 1 && top[0] == i {
			hits++
		}
	}
	require.Greater(t, hits, probes/2, "self-query recall should be well above chance")
}
