package cds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMisNodeSelectorFeedbackInstallsOnlyWhenLarger(t *testing.T) {
	sel := NewMisNodeSelector()
	sel.current = CDS{NewEdge(1, 2)}

	sel.Feedback(Neighborhood{}, CDS{}, 0, 0)
	require.Len(t, sel.current, 1, "a smaller solution must not replace the current working set")

	bigger := CDS{NewEdge(1, 2), NewEdge(3, 4)}
	sel.Feedback(Neighborhood{}, bigger, 0, 0)
	require.True(t, sel.current.Equal(bigger))
}

func TestMisNodeSelectorClearHighCollisionRateEdgesHalves(t *testing.T) {
	sel := NewMisNodeSelector()
	sel.current = CDS{NewEdge(1, 2), NewEdge(3, 4), NewEdge(5, 6), NewEdge(7, 8)}
	sel.reportCollision(NewEdge(5, 6))
	sel.reportCollision(NewEdge(7, 8))
	sel.reportCollision(NewEdge(7, 8))

	sel.clearHighCollisionRateEdges()
	require.Len(t, sel.current, 2, "clearing drops exactly half of the working set")
	require.Equal(t, uint32(0), sel.countCollisions(NewEdge(7, 8)), "collision counters reset on the dropped half")
}

func TestMisNodeSelectorNextReturnsFixedOnlyNeighborhood(t *testing.T) {
	sel := NewMisNodeSelector()
	sel.current = CDS{NewEdge(1, 2)}
	nb, err := sel.Next()
	require.NoError(t, err)
	require.Empty(t, nb.Free)
}

func TestMisHeuristicCdsOptimizeNeighborhoodProducesValidCds(t *testing.T) {
	g, err := FromConflicts(6, nil)
	require.NoError(t, err)
	h := NewMisHeuristicCds(g)
	h.SetBestSolutionProvider(func() CDS { return nil })

	sol, err := h.OptimizeNeighborhood(Neighborhood{}, 2*time.Second)
	require.NoError(t, err)
	require.True(t, g.AreAllCliqueDisjoint(sol))
}

func TestMisHeuristicCdsLocalNeighborhoodIsCached(t *testing.T) {
	g, err := FromConflicts(6, nil)
	require.NoError(t, err)
	h := NewMisHeuristicCds(g)

	first, err := h.localNeighborhoodCds(1, time.Second)
	require.NoError(t, err)
	second, err := h.localNeighborhoodCds(1, time.Second)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
	require.Contains(t, h.cache, LiteralId(1))
}
