package vamana

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeGroundtruthUnfiltered(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}, {1}, {2}, {10}})
	require.NoError(t, err)
	src := newOnDemandSource(store)

	queries := []Query{{Vector: []float32{0.1}, Kind: QueryUnfiltered}}
	rows, err := ComputeGroundtruth(store, src, queries, 2, 1)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1}}, rows)
}

func TestComputeGroundtruthSingleLabel(t *testing.T) {
	store, err := NewFilteredPointStore(
		[][]float32{{0}, {1}, {2}, {3}},
		[]uint32{1, 2, 1, 2},
		make([]float32, 4),
	)
	require.NoError(t, err)
	src := newOnDemandSource(store)

	queries := []Query{{Vector: []float32{0}, Kind: QuerySingleLabel, Value: 1}}
	rows, err := ComputeGroundtruth(store, src, queries, 5, 1)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, rows[0], "only label-1 points (0 and 2) are eligible")
}

func TestComputeGroundtruthParallelMatchesSequential(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}, {5}, {2}, {9}, {1}})
	require.NoError(t, err)
	src := newOnDemandSource(store)
	queries := []Query{
		{Vector: []float32{0}, Kind: QueryUnfiltered},
		{Vector: []float32{9}, Kind: QueryUnfiltered},
		{Vector: []float32{4}, Kind: QueryUnfiltered},
	}

	seq, err := ComputeGroundtruth(store, src, queries, 3, 1)
	require.NoError(t, err)
	par, err := ComputeGroundtruth(store, src, queries, 3, 4)
	require.NoError(t, err)
	require.Equal(t, seq, par)
}

func TestComputeGroundtruthSkipsUnsupportedKind(t *testing.T) {
	store, err := NewPointStore([][]float32{{0}, {1}, {2}})
	require.NoError(t, err)
	src := newOnDemandSource(store)

	queries := []Query{
		{Vector: []float32{0}, Kind: QueryUnfiltered},
		{Vector: []float32{0}, Kind: QueryKind(99)},
	}
	rows, err := ComputeGroundtruth(store, src, queries, 2, 1)
	require.NoError(t, err, "an unsupported query kind is skipped, not fatal")
	require.Equal(t, []int{0, 1}, rows[0])
	require.Nil(t, rows[1])
}

func TestSaveLoadGroundtruthRoundTrip(t *testing.T) {
	rows := [][]int{{3, 1, 4}, {}, {0}}
	var buf bytes.Buffer
	require.NoError(t, SaveGroundtruth(&buf, rows))

	loaded, err := LoadGroundtruth(&buf)
	require.NoError(t, err)
	require.Equal(t, rows, loaded)
}
