package cds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreedyCdsProducesValidCds(t *testing.T) {
	g, err := FromConflicts(5, nil)
	require.NoError(t, err)
	gc := NewGreedyCds(g, nil)
	sol, err := gc.Optimize(nil, newRng())
	require.NoError(t, err)
	require.True(t, g.AreAllCliqueDisjoint(sol))

	seen := make(map[Edge]bool)
	for _, e := range sol {
		require.False(t, seen[e], "duplicate edge in greedy solution")
		seen[e] = true
	}
}

func TestGreedyCdsRespectsSubgraph(t *testing.T) {
	g, err := FromConflicts(4, nil)
	require.NoError(t, err)
	subgraph := []Edge{NewEdge(1, 2), NewEdge(3, 4)}
	gc := NewGreedyCds(g, nil)
	sol, err := gc.Optimize(subgraph, newRng())
	require.NoError(t, err)
	allowed := edgeSet(subgraph)
	for _, e := range sol {
		_, ok := allowed[e]
		require.True(t, ok, "greedy solution must stay within the supplied subgraph")
	}
}

func TestGreedyCdsPrefersUnderCoveredPairs(t *testing.T) {
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	sample := [][]LiteralId{{1, 2}, {1, 2}, {1, 3}}
	gc := NewGreedyCds(g, sample)
	require.NotNil(t, gc.counts)
	sol, err := gc.Optimize(nil, newRng())
	require.NoError(t, err)
	require.True(t, g.AreAllCliqueDisjoint(sol))
}
