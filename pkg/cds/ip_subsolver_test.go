package cds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCdsIpSubsolverEmptyFreeEdges(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	sub := NewCdsIpSubsolver(g)
	sol, status, err := sub.Solve(nil, time.Second, nil)
	require.NoError(t, err)
	require.Equal(t, GrbStatusOptimal, status)
	require.Empty(t, sol)
}

func TestCdsIpSubsolverK4MaxIsOne(t *testing.T) {
	g, err := FromConflicts(2, nil) // S3: complete K4 over 4 literals
	require.NoError(t, err)
	sub := NewCdsIpSubsolver(g)
	sol, status, err := sub.Solve(g.AllEdges(), time.Second, nil)
	require.NoError(t, err)
	require.Equal(t, GrbStatusOptimal, status)
	require.Len(t, sol, 1)
}

func TestCdsIpSubsolverNonPositiveTimeoutReturnsHint(t *testing.T) {
	g, err := FromConflicts(3, nil)
	require.NoError(t, err)
	sub := NewCdsIpSubsolver(g)
	sol, status, err := sub.Solve(g.AllEdges(), 0, nil)
	require.NoError(t, err)
	require.Equal(t, GrbStatusTimeout, status)
	require.Empty(t, sol)
}
