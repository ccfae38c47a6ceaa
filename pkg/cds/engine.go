package cds

import (
	"time"
)

// NeighborhoodSelector is the capability a selector must provide to
// drive an LnsEngine: pick the next neighborhood, absorb feedback
// after each iteration, and learn about strictly-better solutions.
// CdsNeighborhoodSelector (C8) and MisNodeSelector (C6's sibling) both
// implement it.
type NeighborhoodSelector interface {
	Next() (Neighborhood, error)
	Feedback(nb Neighborhood, sol CDS, tUtil, nbUtil float64)
	BetterSolutionCallback(sol CDS)
}

// EngineCallbacks is the capability record the engine is generic over,
// replacing the original class hierarchy (ModularLNS <- LowerBoundLNS
// <- CdsSolver) per §9's design note: a small set of capabilities
// (score, is-optimal, optimize-neighborhood, new-solution) injected
// into one engine rather than expressed as an inheritance chain.
type EngineCallbacks struct {
	// Score returns the objective value of a solution.
	Score func(sol CDS) int64
	// IsOptimal reports whether sol is known to be the global optimum.
	IsOptimal func(sol CDS) bool
	// OptimizeNeighborhood solves one LNS sub-move.
	OptimizeNeighborhood func(nb Neighborhood, timeout time.Duration) (CDS, error)
	// NewSolutionCallback fires unconditionally once per iteration,
	// regardless of whether sol improved on the incumbent — the
	// lower-bound-variant preset wires this into a monotone lb update.
	NewSolutionCallback func(sol CDS)
	// OracleStatus, if non-nil, is polled right after
	// OptimizeNeighborhood returns to fill the iteration record's
	// grb_status field (§6). CdsSolver wires this to the oracle status
	// code of the iteration's optimizeNeighborhood call; a generic
	// engine with no embedded oracle leaves it nil.
	OracleStatus func() int64
}

// LnsEngine is the generic Large-Neighborhood-Search loop: it owns a
// selector, the best-known solution, a monotone lower bound, a list of
// better-solution callbacks, and the per-iteration statistics log.
type LnsEngine struct {
	selector    NeighborhoodSelector
	callbacks   EngineCallbacks
	best        CDS
	lb          int64
	optimal     bool
	betterFuncs []func(sol CDS)
	stats       []IterationStats
}

// NewLnsEngine constructs an engine with the given selector and
// capability record. initial seeds the best-known solution and lb.
func NewLnsEngine(selector NeighborhoodSelector, callbacks EngineCallbacks, initial CDS) *LnsEngine {
	e := &LnsEngine{
		selector:  selector,
		callbacks: callbacks,
		best:      initial.Clone(),
	}
	if initial != nil {
		e.lb = callbacks.Score(initial)
	}
	return e
}

// AddSolution installs sol as the engine's best-known solution if it
// strictly improves on the current one; ties keep the existing best
// per the "add_solution(s) followed by add_solution(s') with
// |s'|<=|s| preserves best" round-trip law. On improvement it notifies
// the selector and every registered better-solution callback, matching
// ModularLNS::add_solution (lns.hpp) — this is how the facade's
// single-edge seed (facade.go's seedSingleEdge/bootstrapWithMisHeuristic)
// reaches the selector's best_solution before the first Next() call.
func (e *LnsEngine) AddSolution(sol CDS) {
	score := e.callbacks.Score(sol)
	if e.best == nil || score > e.lb {
		e.best = sol.Clone()
		e.lb = score
		e.selector.BetterSolutionCallback(sol)
		for _, f := range e.betterFuncs {
			f(sol)
		}
	}
}

// Best returns the engine's current best-known solution.
func (e *LnsEngine) Best() CDS { return e.best.Clone() }

// LowerBound returns the engine's monotone lower bound.
func (e *LnsEngine) LowerBound() int64 { return e.lb }

// IsOptimal reports whether the engine has proven optimality.
func (e *LnsEngine) IsOptimal() bool { return e.optimal }

// OnBetterSolution registers a callback invoked whenever an iteration
// strictly improves on the incumbent.
func (e *LnsEngine) OnBetterSolution(f func(sol CDS)) {
	e.betterFuncs = append(e.betterFuncs, f)
}

// IterationStatistics returns every recorded per-iteration statistic,
// in iteration order.
func (e *LnsEngine) IterationStatistics() []IterationStats {
	out := make([]IterationStats, len(e.stats))
	copy(out, e.stats)
	return out
}

// nowMillis returns the current epoch time in milliseconds, the unit
// mandated for iteration statistic timestamps.
func nowMillis() int64 { return time.Now().UnixMilli() }

// Optimize runs at most maxIterations iterations, each bounded by
// iterationTimelimit, stopping early once the engine proves
// optimality. Implements the per-iteration contract of §4.8.
func (e *LnsEngine) Optimize(maxIterations int, iterationTimelimit time.Duration) error {
	for i := 0; i < maxIterations && !e.optimal; i++ {
		var rec IterationStats
		rec.IterStart = nowMillis()

		rec.NbhdStart = nowMillis()
		nb, err := e.selector.Next()
		if err != nil {
			return err
		}
		rec.NbhdStop = nowMillis()
		tNbhd := float64(rec.NbhdStop-rec.NbhdStart) / 1000.0

		rec.OptimizeStart = nowMillis()
		sol, err := e.callbacks.OptimizeNeighborhood(nb, iterationTimelimit)
		if err != nil {
			return err
		}
		rec.OptimizeStop = nowMillis()
		tTotal := float64(rec.OptimizeStop-rec.OptimizeStart) / 1000.0

		var tUtil, nbUtil float64
		if iterationTimelimit > 0 {
			tUtil = tTotal / iterationTimelimit.Seconds()
		}
		if tTotal > 0 {
			nbUtil = tNbhd / tTotal
		}

		score := e.callbacks.Score(sol)
		if score > e.lb {
			e.best = sol.Clone()
			e.lb = score
			e.selector.BetterSolutionCallback(sol)
			for _, f := range e.betterFuncs {
				f(sol)
			}
		}

		e.callbacks.NewSolutionCallback(sol)

		if e.callbacks.IsOptimal(sol) {
			e.optimal = true
		}

		rec.NbhdFixedSize = int64(len(nb.Fixed))
		rec.NbhdFreeSize = int64(len(nb.Free))
		rec.FoundSolutionSize = int64(len(sol))
		rec.GlobalLb = e.lb
		rec.ProvenOptimal = boolToInt64(e.optimal)
		if e.callbacks.OracleStatus != nil {
			rec.GrbStatus = e.callbacks.OracleStatus()
		}

		if !e.optimal {
			e.selector.Feedback(nb, sol, tUtil, nbUtil)
		}

		rec.IterStop = nowMillis()
		e.stats = append(e.stats, rec)
	}
	return nil
}
