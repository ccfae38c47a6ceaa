package cds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFacadeS1Trivial(t *testing.T) {
	g, err := FromConflicts(1, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	sol, err := f.Optimize(nil, 1, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, CDS{NewEdge(-1, 1)}, sol)
	require.True(t, f.HasOptimalSolution())
}

func TestFacadeS2ForcedDisjointPair(t *testing.T) {
	g, err := FromConflicts(2, []Edge{NewEdge(1, 2), NewEdge(-1, -2)})
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	sol, err := f.Optimize(nil, 5, time.Second, false)
	require.NoError(t, err)
	require.Len(t, sol, 2)
	require.True(t, g.AreAllCliqueDisjoint(sol))
	require.True(t, f.HasOptimalSolution())
}

func TestFacadeS3CompleteK4MaxIsOne(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	sol, err := f.Optimize(nil, 5, time.Second, false)
	require.NoError(t, err)
	require.Len(t, sol, 1)
	require.True(t, f.HasOptimalSolution())
}

func TestFacadeS4SubgraphRestriction(t *testing.T) {
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	subgraph := []Edge{NewEdge(1, 2), NewEdge(1, 3)}
	f, err := NewCDSSolverInterface(g, subgraph, nil, nil)
	require.NoError(t, err)

	sol, err := f.Optimize(nil, 5, time.Second, false)
	require.NoError(t, err)
	require.Len(t, sol, 1)
	for _, e := range sol {
		require.Contains(t, subgraph, e)
	}
}

func TestFacadeS6SeedPathShortCircuitFixesZeroEdges(t *testing.T) {
	// n_concrete=4 => 8 literals, 8*7/2=28 edges, well under the default
	// max_free_edges=1000 budget, so the first Next() short-circuits
	// and returns the whole graph as Free with nothing Fixed.
	g, err := FromConflicts(4, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	_, err = f.Optimize(nil, 1, time.Second, false)
	require.NoError(t, err)

	stats := f.IterationStatistics()
	require.Len(t, stats, 1)
	require.EqualValues(t, 0, stats[0].NbhdFixedSize)
}

func TestFacadeS6SeedPathFixesExactlyOneEdge(t *testing.T) {
	// n_concrete=23 => 46 literals, 46*45/2=1035 edges, above the default
	// max_free_edges=1000 budget, so the short-circuit does NOT fire:
	// the seed-single-edge path must fix exactly the one seeded edge
	// before the first iteration runs.
	g, err := FromConflicts(23, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	_, err = f.Optimize(nil, 1, time.Second, false)
	require.NoError(t, err)

	stats := f.IterationStatistics()
	require.Len(t, stats, 1)
	require.EqualValues(t, 1, stats[0].NbhdFixedSize,
		"the seed-one-edge path must publish its edge to the selector before Next() runs")
}

func TestFacadeEmptyGraphShortCircuits(t *testing.T) {
	g, err := FromConflicts(0, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	sol, err := f.Optimize(nil, 10, time.Second, false)
	require.NoError(t, err)
	require.Empty(t, sol)
}

func TestFacadeRejectsInvalidInitialSolution(t *testing.T) {
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)

	_, err = f.Optimize(CDS{NewEdge(1, 2), NewEdge(2, 3)}, 1, time.Second, false)
	require.ErrorIs(t, err, ErrInvalidInitialSolution)
}
