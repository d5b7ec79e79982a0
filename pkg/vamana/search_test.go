package vamana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildLineGraph returns a 5-point store laid out on a line at x =
// 0,1,2,3,4 with a path graph 0-1-2-3-4 (bidirectional).
func buildLineGraph(t *testing.T) (*PointStore, *Graph, DistanceSource) {
	t.Helper()
	vectors := [][]float32{{0}, {1}, {2}, {3}, {4}}
	store, err := NewPointStore(vectors)
	require.NoError(t, err)

	g := NewGraph(5)
	for i := 0; i < 4; i++ {
		_, err := g.Connect(i, i+1)
		require.NoError(t, err)
		_, err = g.Connect(i+1, i)
		require.NoError(t, err)
	}
	return store, g, newOnDemandSource(store)
}

func TestGreedySearchFindsClosest(t *testing.T) {
	store, g, src := buildLineGraph(t)
	top, visited, err := GreedySearch(g, store, src, 0, []float32{3.1}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, []int{3}, top)
	require.Contains(t, visited, 0)
	require.Contains(t, visited, 3)
}

func TestGreedySearchEmptyGraph(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}})
	require.NoError(t, err)
	g := NewGraph(0)
	_, _, err = GreedySearch(g, store, newOnDemandSource(store), 0, []float32{0}, 1, 5)
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestGreedySearchBoundsCandidatePool(t *testing.T) {
	store, g, src := buildLineGraph(t)
	// L=1 forces truncation every step; the search must still terminate
	// and return a result within the graph.
	top, _, err := GreedySearch(g, store, src, 0, []float32{4}, 1, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

func TestFilteredGreedySearchOnlyAdmitsCompatibleLabels(t *testing.T) {
	vectors := [][]float32{{0}, {1}, {2}, {3}}
	labels := []uint32{1, 2, 1, 2}
	store, err := NewFilteredPointStore(vectors, labels, make([]float32, 4))
	require.NoError(t, err)

	g := NewGraph(4)
	for i := 0; i < 3; i++ {
		_, err := g.Connect(i, i+1)
		require.NoError(t, err)
	}
	src := newOnDemandSource(store)

	_, visited, err := FilteredGreedySearch(g, store, src, []int{0}, []float32{3}, 0, 10, []uint32{1})
	require.NoError(t, err)
	// Node 1 carries label 2, incompatible with the query filter {1}, so
	// it is never admitted into the candidate pool; traversal can only
	// reach the seed node 0, never node 2 beyond it.
	require.Equal(t, []int{0}, visited)
}
