package vamana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterRegistryExcludesNoLabel(t *testing.T) {
	store, err := NewFilteredPointStore(
		[][]float32{{0}, {1}, {2}, {3}},
		[]uint32{5, NoLabel, 5, 7},
		[]float32{0, 0, 0, 0},
	)
	require.NoError(t, err)

	reg := NewFilterRegistry(store)
	require.Equal(t, []uint32{5, 7}, reg.Labels())
	require.Equal(t, []int{0, 2}, reg.Members(5))
	require.Equal(t, []int{3}, reg.Members(7))
	require.Nil(t, reg.Members(NoLabel))
}

func TestCompatible(t *testing.T) {
	require.True(t, Compatible(5, nil))
	require.True(t, Compatible(5, []uint32{5}))
	require.False(t, Compatible(5, []uint32{6}))
	require.False(t, Compatible(NoLabel, []uint32{6}))
}
