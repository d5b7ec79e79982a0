package vamana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRobustPruneCapsOutDegree(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}, {1}, {2}, {3}, {4}})
	require.NoError(t, err)
	src := newOnDemandSource(store)

	g := NewGraph(5)
	err = RobustPrune(g, store, src, 0, []int{1, 2, 3, 4}, 1.0, 2)
	require.NoError(t, err)

	deg, err := g.OutDegree(0)
	require.NoError(t, err)
	require.LessOrEqual(t, deg, 2)

	neighbors, err := g.Neighbors(0)
	require.NoError(t, err)
	require.Contains(t, neighbors, 1, "closest candidate must survive pruning")
}

func TestRobustPruneRejectsBadParams(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}, {1}})
	require.NoError(t, err)
	src := newOnDemandSource(store)
	g := NewGraph(2)

	err = RobustPrune(g, store, src, 0, []int{1}, 0.9, 2)
	require.ErrorIs(t, err, ErrInvalidArgument)

	err = RobustPrune(g, store, src, 0, []int{1}, 1.2, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFilteredRobustPruneRespectsLabels(t *testing.T) {
	// p is label 1; candidates: same-label neighbor close by, and a
	// NoLabel pivot between them should not silently eliminate the
	// same-label candidate unless the pivot itself shares that label.
	vectors := [][]float32{{0}, {1.1}, {1}, {5}}
	labels := []uint32{1, 1, NoLabel, 1}
	store, err := NewFilteredPointStore(vectors, labels, make([]float32, 4))
	require.NoError(t, err)
	src := newOnDemandSource(store)

	g := NewGraph(4)
	err = FilteredRobustPrune(g, store, src, 0, []int{1, 2, 3}, 1.0, 3)
	require.NoError(t, err)

	neighbors, err := g.Neighbors(0)
	require.NoError(t, err)
	require.NotEmpty(t, neighbors)
	require.Contains(t, neighbors, 1, "the NoLabel pivot must not eliminate the same-label candidate")
}
