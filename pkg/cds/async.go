package cds

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// AsyncDriver (C11) runs a CDSSolverInterface on a background worker
// with cooperative cancellation, publishing best-so-far snapshots
// under a mutex. Exactly one worker may be live at a time, enforced by
// a weight-1 semaphore.
type AsyncDriver struct {
	solver       *CDSSolverInterface
	runningGuard *semaphore.Weighted
	stopFlag     atomic.Bool
	timeLimit    atomic.Int64 // nanoseconds

	snapshotMu   sync.RWMutex
	bestSnapshot CDS

	log zerolog.Logger
}

// NewAsyncDriver wraps solver behind a start/stop/snapshot interface.
func NewAsyncDriver(solver *CDSSolverInterface, log *zerolog.Logger) *AsyncDriver {
	d := &AsyncDriver{
		solver:       solver,
		runningGuard: semaphore.NewWeighted(1),
		log:          logger(log),
	}
	solver.OnBetterSolution(d.publishSnapshot)
	return d
}

// Start attempts to acquire the running guard without blocking,
// returning false if a worker is already live. On success it resets
// the stop flag, sets the iteration time limit, and spawns a detached
// worker goroutine.
func (d *AsyncDriver) Start(initial CDS, iterationTimelimit time.Duration) bool {
	if !d.runningGuard.TryAcquire(1) {
		return false
	}
	d.stopFlag.Store(false)
	d.timeLimit.Store(int64(iterationTimelimit))

	runID := uuid.New()
	log := d.log.With().Str("run_id", runID.String()).Logger()
	go d.worker(initial, log)
	return true
}

// worker loops optimizing one iteration at a time until stopped or the
// solver proves optimality, releasing the running guard on exit.
// initial is the caller's seed; subsequent iterations use the solver's
// internally retained best-known solution (the facade only bootstraps
// when neither exists).
func (d *AsyncDriver) worker(initial CDS, log zerolog.Logger) {
	defer d.runningGuard.Release(1)
	log.Info().Msg("async driver worker started")

	for !d.stopFlag.Load() && !d.solver.HasOptimalSolution() {
		timeLimit := time.Duration(d.timeLimit.Load())
		if _, err := d.solver.Optimize(initial, 1, timeLimit, false); err != nil {
			log.Error().Err(err).Msg("async driver iteration failed, stopping worker")
			return
		}
	}

	log.Info().Bool("optimal", d.solver.HasOptimalSolution()).Msg("async driver worker stopped")
}

// publishSnapshot writes sol into best_snapshot under the snapshot
// mutex, the better-solution callback wired at construction.
func (d *AsyncDriver) publishSnapshot(sol CDS) {
	d.snapshotMu.Lock()
	d.bestSnapshot = sol.Clone()
	d.snapshotMu.Unlock()
}

// Stop is a no-op if no worker is running. Otherwise it sets the stop
// flag, waits on the running guard to observe the worker's release,
// then releases it again so a subsequent Start may succeed.
func (d *AsyncDriver) Stop() {
	if d.runningGuard.TryAcquire(1) {
		d.runningGuard.Release(1)
		return // nothing was running
	}
	d.stopFlag.Store(true)
	_ = d.runningGuard.Acquire(context.Background(), 1)
	d.runningGuard.Release(1)
}

// Snapshot returns a copy of the best-so-far solution, failing with
// ErrCorruptedSnapshot if it does not validate as clique-disjoint.
func (d *AsyncDriver) Snapshot() (CDS, error) {
	d.snapshotMu.RLock()
	snap := d.bestSnapshot.Clone()
	d.snapshotMu.RUnlock()

	if !d.solver.Graph().AreAllCliqueDisjoint(snap) {
		return nil, fmt.Errorf("%w", ErrCorruptedSnapshot)
	}
	return snap, nil
}

// IterationStatistics returns every recorded per-iteration statistic.
func (d *AsyncDriver) IterationStatistics() []IterationStats {
	return d.solver.IterationStatistics()
}
