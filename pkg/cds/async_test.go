package cds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsyncDriverS5SnapshotsAlwaysValidAndRestart(t *testing.T) {
	g, err := FromConflicts(6, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)
	d := NewAsyncDriver(f, nil)

	ok := d.Start(nil, 500*time.Millisecond)
	require.True(t, ok)

	for i := 0; i < 20; i++ {
		snap, err := d.Snapshot()
		require.NoError(t, err)
		require.True(t, g.AreAllCliqueDisjoint(snap))
		time.Sleep(5 * time.Millisecond)
	}

	d.Stop()

	require.True(t, d.Start(nil, 500*time.Millisecond), "a subsequent start after stop must succeed")
	d.Stop()
}

func TestAsyncDriverStartTwiceReturnsFalse(t *testing.T) {
	g, err := FromConflicts(8, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)
	d := NewAsyncDriver(f, nil)

	require.True(t, d.Start(nil, 2*time.Second))
	require.False(t, d.Start(nil, 2*time.Second), "a worker is already live")
	d.Stop()
}

func TestAsyncDriverStopWithoutStartIsNoOp(t *testing.T) {
	g, err := FromConflicts(2, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)
	d := NewAsyncDriver(f, nil)

	d.Stop()
	require.True(t, d.Start(nil, time.Second))
	d.Stop()
}

func TestAsyncDriverSnapshotBeforeAnySolutionIsEmptyAndValid(t *testing.T) {
	g, err := FromConflicts(4, nil)
	require.NoError(t, err)
	f, err := NewCDSSolverInterface(g, nil, nil, nil)
	require.NoError(t, err)
	d := NewAsyncDriver(f, nil)

	snap, err := d.Snapshot()
	require.NoError(t, err)
	require.Empty(t, snap)
}
