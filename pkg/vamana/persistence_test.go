package vamana

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadIndexRoundTripUnfiltered(t *testing.T) {
	store, err := NewPointStore([][]float32{{0, 0}, {1, 1}, {2, 2}})
	require.NoError(t, err)
	g := NewGraph(3)
	_, err = g.Connect(0, 1)
	require.NoError(t, err)
	_, err = g.Connect(1, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveIndex(&buf, g, store, false))

	loadedGraph, loadedStore, err := LoadIndex(&buf)
	require.NoError(t, err)
	require.Equal(t, store.Len(), loadedStore.Len())
	for i := 0; i < store.Len(); i++ {
		require.Equal(t, store.At(i).Vector, loadedStore.At(i).Vector)
		n1, err := g.Neighbors(i)
		require.NoError(t, err)
		n2, err := loadedGraph.Neighbors(i)
		require.NoError(t, err)
		require.Equal(t, n1, n2)
	}
}

func TestSaveLoadIndexRoundTripFiltered(t *testing.T) {
	store, err := NewFilteredPointStore(
		[][]float32{{0, 0}, {1, 1}},
		[]uint32{9, NoLabel},
		[]float32{1.5, 2.5},
	)
	require.NoError(t, err)
	g := NewGraph(2)
	_, err = g.Connect(0, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveIndex(&buf, g, store, true))

	_, loadedStore, err := LoadIndex(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(9), loadedStore.At(0).Label)
	require.Equal(t, NoLabel, loadedStore.At(1).Label)
	require.InDelta(t, float32(1.5), loadedStore.At(0).Timestamp, 1e-6)
}

func TestLoadIndexRejectsBadMagic(t *testing.T) {
	_, _, err := LoadIndex(bytes.NewBufferString("notvamana 1 0\n1 1\n0\n0\n"))
	require.ErrorIs(t, err, ErrCorruptIndex)
}

func TestLoadIndexRejectsTruncatedInput(t *testing.T) {
	_, _, err := LoadIndex(bytes.NewBufferString("vamana 1 0\n"))
	require.Error(t, err)
}

func TestSaveLoadSaveIsByteIdentical(t *testing.T) {
	store, err := NewFilteredPointStore(
		[][]float32{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}, {3, 3, 4}},
		[]uint32{9, NoLabel, 3, 9},
		[]float32{1.5, 2.5, 0, 7},
	)
	require.NoError(t, err)
	g := NewGraph(4)
	_, err = g.Connect(0, 1)
	require.NoError(t, err)
	_, err = g.Connect(0, 2)
	require.NoError(t, err)
	_, err = g.Connect(3, 0)
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, SaveIndex(&first, g, store, true))

	loadedGraph, loadedStore, err := LoadIndex(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, SaveIndex(&second, loadedGraph, loadedStore, true))

	require.Equal(t, first.Bytes(), second.Bytes(), "save -> load -> save must produce byte-identical output")
}
