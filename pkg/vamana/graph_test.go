package vamana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraphConnectAndNeighbors(t *testing.T) {
	g := NewGraph(3)
	added, err := g.Connect(0, 1)
	require.NoError(t, err)
	require.True(t, added)

	added, err = g.Connect(0, 1)
	require.NoError(t, err)
	require.False(t, added, "duplicate edge must not be re-added")

	added, err = g.Connect(0, 0)
	require.NoError(t, err)
	require.False(t, added, "self-loops are never created")

	neighbors, err := g.Neighbors(0)
	require.NoError(t, err)
	require.Equal(t, []int{1}, neighbors)
}

func TestGraphOutOfRange(t *testing.T) {
	g := NewGraph(2)
	_, err := g.Neighbors(5)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = g.Connect(-1, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestGraphReplaceAndClearNeighbors(t *testing.T) {
	g := NewGraph(4)
	require.NoError(t, g.ReplaceNeighbors(0, []int{1, 2, 3}))
	deg, err := g.OutDegree(0)
	require.NoError(t, err)
	require.Equal(t, 3, deg)

	require.NoError(t, g.ClearNeighbors(0))
	deg, err = g.OutDegree(0)
	require.NoError(t, err)
	require.Equal(t, 0, deg)
}

func TestGraphReplaceNeighborsCopiesInput(t *testing.T) {
	g := NewGraph(2)
	list := []int{1}
	require.NoError(t, g.ReplaceNeighbors(0, list))
	list[0] = 99
	neighbors, err := g.Neighbors(0)
	require.NoError(t, err)
	require.Equal(t, []int{1}, neighbors, "ReplaceNeighbors must copy, not alias, its input")
}

func TestGraphDisconnect(t *testing.T) {
	g := NewGraph(3)
	_, err := g.Connect(0, 1)
	require.NoError(t, err)
	_, err = g.Connect(0, 2)
	require.NoError(t, err)

	require.NoError(t, g.Disconnect(0, 1))
	neighbors, err := g.Neighbors(0)
	require.NoError(t, err)
	require.Equal(t, []int{2}, neighbors)
}
