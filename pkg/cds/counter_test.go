package cds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterMatrixIncrementAndGet(t *testing.T) {
	m := NewCounterMatrix(4)
	m.Increment(0, 2, 3)
	require.Equal(t, uint32(3), m.Get(0, 2))
	require.Equal(t, uint32(3), m.Get(2, 0), "counter access must be symmetric")
	require.Equal(t, uint32(0), m.Get(1, 3))
}

func TestCounterMatrixSelfPairIsAlwaysZero(t *testing.T) {
	m := NewCounterMatrix(3)
	m.Increment(1, 1, 5)
	require.Equal(t, uint32(0), m.Get(1, 1))
}

func TestGraphCoveringCountsAccumulatesOverSample(t *testing.T) {
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	sample := [][]LiteralId{{1, 2}, {1, 2}, {1, 3}}
	counts := graphCoveringCounts(g, sample)

	require.Equal(t, uint32(2), edgeCoverCount(g, counts, NewEdge(1, 2)))
	require.Equal(t, uint32(1), edgeCoverCount(g, counts, NewEdge(1, 3)))
	require.Equal(t, uint32(0), edgeCoverCount(g, counts, NewEdge(2, 3)))
}
