package cds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromConflictsS1Trivial(t *testing.T) {
	// S1: n_concrete=1, conflicts=[]. Graph has exactly one edge {-1,+1}.
	g, err := FromConflicts(1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, g.NEdges())
	adj, err := g.HasEdge(-1, 1)
	require.NoError(t, err)
	require.True(t, adj)
}

func TestFromConflictsS2ForcedDisjointPair(t *testing.T) {
	// S2: n_concrete=2, conflicts=[{+1,+2},{-1,-2}].
	g, err := FromConflicts(2, []Edge{NewEdge(1, 2), NewEdge(-1, -2)})
	require.NoError(t, err)
	expectEdges := []Edge{NewEdge(1, -2), NewEdge(-1, 2), NewEdge(-1, 1), NewEdge(-2, 2)}
	for _, e := range expectEdges {
		adj, err := g.HasEdge(e.A, e.B)
		require.NoError(t, err)
		require.True(t, adj, "expected edge %v present", e)
	}
	for _, e := range []Edge{NewEdge(1, 2), NewEdge(-1, -2)} {
		adj, err := g.HasEdge(e.A, e.B)
		require.NoError(t, err)
		require.False(t, adj, "expected conflict %v absent", e)
	}

	e1, e2 := NewEdge(1, -2), NewEdge(-1, 2)
	require.True(t, g.AreEdgesCliqueDisjoint(e1, e2))
}

func TestFromConflictsS3CompleteK4Obstruction(t *testing.T) {
	// S3: n_concrete=2, conflicts=[]. All six edges present; max CDS is 1.
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	require.Equal(t, 6, g.NEdges())

	all := g.AllEdges()
	require.Len(t, all, 6)
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			require.False(t, g.AreEdgesCliqueDisjoint(all[i], all[j]),
				"every pair of edges in K4 over 4 literals should be clique-bound")
		}
	}
}

func TestAreEdgesCliqueDisjointSharedEndpoint(t *testing.T) {
	// S4 setup: n_concrete=3, conflicts=empty, so (+2,+3) is an edge.
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	e1 := NewEdge(1, 2)
	e2 := NewEdge(1, 3)
	require.False(t, g.AreEdgesCliqueDisjoint(e1, e2), "shared endpoint with adjacent others is not disjoint")
}

func TestAreEdgesCliqueDisjointIdenticalEdge(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	e := NewEdge(1, 2)
	require.False(t, g.AreEdgesCliqueDisjoint(e, e))
}

func TestHasEdgeRejectsInvalidLiteral(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	_, err = g.HasEdge(0, 1)
	require.ErrorIs(t, err, ErrInvalidLiteral)
}

func TestHasEdgeRejectsSelfLoop(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	_, err = g.HasEdge(1, 1)
	require.ErrorIs(t, err, ErrSelfLoopQuery)
}

func TestComplementTwiceIsIdentity(t *testing.T) {
	g, err := FromConflicts(3, []Edge{NewEdge(1, 2)})
	require.NoError(t, err)
	twice := g.Complement().Complement()
	require.True(t, g.matrix.Equal(twice.matrix))
	require.Equal(t, g.NEdges(), twice.NEdges())
}

func TestNumEdgesEqualsPopCount(t *testing.T) {
	g, err := FromConflicts(4, []Edge{NewEdge(1, 2), NewEdge(-3, 4)})
	require.NoError(t, err)
	require.Equal(t, g.matrix.PopCount(), g.NEdges())
}

func TestAddEdgeIdempotent(t *testing.T) {
	g, err := FromConflicts(2, []Edge{NewEdge(1, 2)})
	require.NoError(t, err)
	before := g.NEdges()
	added, err := g.AddEdge(1, 2)
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, before+1, g.NEdges())
	added, err = g.AddEdge(1, 2)
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, before+1, g.NEdges())
}

func TestComplementCliqueHeuristicProducesIndependentSets(t *testing.T) {
	g, err := FromConflicts(6, nil)
	require.NoError(t, err)
	cliques := g.ComplementCliqueHeuristic(newRng())
	require.LessOrEqual(t, len(cliques), complementCliqueHeuristicCap)
	for _, clique := range cliques {
		for i := 0; i < len(clique); i++ {
			for j := i + 1; j < len(clique); j++ {
				adj, _ := g.HasEdge(clique[i], clique[j])
				require.False(t, adj, "clique members must be pairwise non-adjacent in G")
			}
		}
	}
	for i := 1; i < len(cliques); i++ {
		require.GreaterOrEqual(t, len(cliques[i-1]), len(cliques[i]), "cliques must be sorted descending by size")
	}
}
