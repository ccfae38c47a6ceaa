package cds

import (
	"time"

	"github.com/rs/zerolog"
)

// CdsSolver (C10) glues CdsNeighborhoodSelector (C8) and CdsIpSubsolver
// (C7) into a CDS-specific LnsEngine instantiation and exposes
// optimality status.
type CdsSolver struct {
	graph    *TransactionGraph
	engine   *LnsEngine
	selector *CdsNeighborhoodSelector
	ip       *CdsIpSubsolver

	oracleTimeLimit time.Duration
	provenOptimal   bool
	lastGrbStatus   int64
	log             zerolog.Logger
}

// NewCdsSolver constructs a CdsSolver over g, optionally restricted to
// subgraph, seeded with initial, sized and bounded by cfg.
func NewCdsSolver(g *TransactionGraph, subgraph []Edge, initial CDS, cfg Config, log *zerolog.Logger) (*CdsSolver, error) {
	selector, err := NewCdsNeighborhoodSelector(g, subgraph, initial, cfg)
	if err != nil {
		return nil, err
	}

	s := &CdsSolver{
		graph:           g,
		selector:        selector,
		ip:              NewCdsIpSubsolver(g),
		oracleTimeLimit: cfg.OracleTimeLimit,
		log:             logger(log),
	}

	callbacks := EngineCallbacks{
		Score:                func(sol CDS) int64 { return int64(len(sol)) },
		IsOptimal:            func(sol CDS) bool { return s.provenOptimal },
		OptimizeNeighborhood: s.optimizeNeighborhood,
		NewSolutionCallback:  func(sol CDS) {},
		OracleStatus:         func() int64 { return s.lastGrbStatus },
	}
	s.engine = NewLnsEngine(selector, callbacks, initial)
	return s, nil
}

// optimizeNeighborhood implements §4.8's CdsSolver specialization:
// invoke the IP oracle on the free edges, fail hard on a non-disjoint
// result, and detect global optimality when the oracle proves
// optimality over an unrestricted (no fixed edges) neighborhood.
func (s *CdsSolver) optimizeNeighborhood(nb Neighborhood, timeout time.Duration) (CDS, error) {
	// The oracle never gets more than the smaller of the caller's
	// iteration budget and the configured oracle time limit.
	if s.oracleTimeLimit > 0 && s.oracleTimeLimit < timeout {
		timeout = s.oracleTimeLimit
	}

	// initial_hint is always empty here (Open Question 2: the original
	// warm-start hints are constructed but commented out upstream).
	sol, status, err := s.ip.Solve(nb.Free, timeout, nil)
	if err != nil {
		return nil, err
	}
	s.lastGrbStatus = int64(status)

	if len(sol) == 0 {
		return nb.Fixed.Clone(), nil
	}

	merged := append(append(CDS(nil), nb.Fixed...), sol...)
	if err := validateCds(s.graph, merged); err != nil {
		return nil, err
	}

	if len(nb.Fixed) == 0 && status == GrbStatusOptimal {
		s.provenOptimal = true
	}

	return merged, nil
}

// AddSolution installs sol as the engine's best-known solution if it
// strictly improves on the current one.
func (s *CdsSolver) AddSolution(sol CDS) { s.engine.AddSolution(sol) }

// OnBetterSolution registers a callback invoked whenever an iteration
// strictly improves on the incumbent.
func (s *CdsSolver) OnBetterSolution(cb func(CDS)) { s.engine.OnBetterSolution(cb) }

// Best returns the solver's current best-known CDS.
func (s *CdsSolver) Best() CDS { return s.engine.Best() }

// HasOptimalSolution reports whether optimality has been proven.
func (s *CdsSolver) HasOptimalSolution() bool { return s.engine.IsOptimal() }

// Optimize runs the engine for up to maxIterations iterations of
// iterationTimelimit each.
func (s *CdsSolver) Optimize(maxIterations int, iterationTimelimit time.Duration) error {
	return s.engine.Optimize(maxIterations, iterationTimelimit)
}

// IterationStatistics returns every recorded per-iteration statistic.
func (s *CdsSolver) IterationStatistics() []IterationStats { return s.engine.IterationStatistics() }
