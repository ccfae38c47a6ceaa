package cds

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bootstrapIterations and bootstrapPerIterTimeout bound the §4.9 step
// 4 heuristic bootstrap: "a small bounded budget (e.g. 3 iterations x
// 10s)".
const (
	bootstrapIterations     = 3
	bootstrapPerIterTimeout = 10 * time.Second
)

// CDSSolverInterface is the top-level synchronous facade
// (CDSSolverInterface, §4.9): a single instance may be driven by one
// concurrent caller at a time via optimize(), serialized through an
// internal mutex (not for graph correctness — for engine state
// serialization, per §5).
type CDSSolverInterface struct {
	graph    *TransactionGraph
	subgraph []Edge
	cfg      Config

	mu     sync.Mutex
	solver *CdsSolver
	log    zerolog.Logger
}

// NewCDSSolverInterface constructs a facade over g. subgraph may be
// nil for no restriction. cfg may be nil, in which case DefaultConfig
// is used; cfg.UseHeuristicBoot enables the C6 bootstrap path and
// cfg's stagnation/pool/free-edges/oracle-timeout knobs size the
// selector and oracle (§4.7, §4.4).
func NewCDSSolverInterface(g *TransactionGraph, subgraph []Edge, cfg *Config, log *zerolog.Logger) (*CDSSolverInterface, error) {
	resolved := DefaultConfig()
	if cfg != nil {
		resolved = *cfg
	}
	solver, err := NewCdsSolver(g, subgraph, nil, resolved, log)
	if err != nil {
		return nil, err
	}
	return &CDSSolverInterface{
		graph:    g,
		subgraph: append([]Edge(nil), subgraph...),
		cfg:      resolved,
		solver:   solver,
		log:      logger(log),
	}, nil
}

// Optimize runs the engine for up to maxIterations iterations of
// timeLimit each, per §4.9's seven-step contract.
func (f *CDSSolverInterface) Optimize(initial CDS, maxIterations int, timeLimit time.Duration, verbose bool) (CDS, error) {
	// 1. Empty graph short-circuits without touching the oracle.
	if f.graph.NEdges() == 0 {
		return CDS{}, nil
	}

	// 2. Serialize re-entrant calls on this instance.
	f.mu.Lock()
	defer f.mu.Unlock()

	runID := uuid.New()
	log := f.log.With().Str("run_id", runID.String()).Logger()

	// 3. Validate a caller-supplied initial solution.
	if len(initial) > 0 {
		if err := f.validateInitialSolution(initial); err != nil {
			return nil, err
		}
	}

	// 4. Bootstrap when neither the engine nor initial has a solution.
	if len(f.solver.Best()) == 0 && len(initial) == 0 {
		if f.cfg.UseHeuristicBoot && len(f.subgraph) == 0 {
			log.Debug().Msg("bootstrapping initial solution via MIS heuristic")
			initial = bootstrapWithMisHeuristic(f.graph, bootstrapIterations, bootstrapPerIterTimeout)
		} else {
			initial = seedSingleEdge(f.graph, f.subgraph)
		}
	}

	// 5. Canonicalize.
	initial = canonicalizeCds(initial)

	// 6. Publish and run.
	f.solver.AddSolution(initial)
	if err := f.solver.Optimize(maxIterations, timeLimit); err != nil {
		return nil, err
	}

	// 7. Return the best-known solution (proven_optimal is exposed via
	// HasOptimalSolution()).
	return f.solver.Best(), nil
}

// HasOptimalSolution reports whether the wrapped engine has proven
// global optimality.
func (f *CDSSolverInterface) HasOptimalSolution() bool { return f.solver.HasOptimalSolution() }

// Graph returns the owning transaction graph, used by AsyncDriver to
// validate snapshots.
func (f *CDSSolverInterface) Graph() *TransactionGraph { return f.graph }

// OnBetterSolution registers a callback invoked whenever an iteration
// strictly improves on the incumbent, used by AsyncDriver to publish
// best-so-far snapshots.
func (f *CDSSolverInterface) OnBetterSolution(cb func(CDS)) { f.solver.OnBetterSolution(cb) }

// IterationStatistics returns every recorded per-iteration statistic.
func (f *CDSSolverInterface) IterationStatistics() []IterationStats {
	return f.solver.IterationStatistics()
}

// validateInitialSolution checks that initial is a valid CDS in the
// graph (and, when a subgraph is active, contained in it).
func (f *CDSSolverInterface) validateInitialSolution(initial CDS) error {
	if !f.graph.AreAllCliqueDisjoint(initial) {
		return fmt.Errorf("%w: edges are not pairwise clique-disjoint", ErrInvalidInitialSolution)
	}
	for _, e := range initial {
		if adj, _ := f.graph.HasEdge(e.A, e.B); !adj {
			return fmt.Errorf("%w: %v is not an edge of the graph", ErrInvalidInitialSolution, e)
		}
	}
	if len(f.subgraph) > 0 {
		allowed := edgeSet(f.subgraph)
		for _, e := range initial {
			if _, ok := allowed[e]; !ok {
				return fmt.Errorf("%w: %v", ErrInitialSolutionOutsideSubgraph, e)
			}
		}
	}
	return nil
}

// canonicalizeCds re-canonicalizes every edge (swap so A<B); Edge
// values built via NewEdge already satisfy this, but callers may hand
// in raw struct literals.
func canonicalizeCds(s CDS) CDS {
	out := make(CDS, len(s))
	for i, e := range s {
		out[i] = NewEdge(e.A, e.B)
	}
	return out
}

// seedSingleEdge implements §4.9 step 4's fallback seed: scan concrete
// features in ascending order, take the first whose neighbor list is
// nonempty, shuffle it, and fix one arbitrary neighbor.
func seedSingleEdge(g *TransactionGraph, subgraph []Edge) CDS {
	var allowed map[Edge]struct{}
	if len(subgraph) > 0 {
		allowed = edgeSet(subgraph)
	}
	rng := newRng()
	for v := 1; v <= g.NConcrete(); v++ {
		lit := LiteralId(v)
		neighbors, err := g.Neighbors(lit)
		if err != nil || len(neighbors) == 0 {
			continue
		}
		rng.Shuffle(len(neighbors), func(i, j int) { neighbors[i], neighbors[j] = neighbors[j], neighbors[i] })
		for _, n := range neighbors {
			e := NewEdge(lit, n)
			if allowed != nil {
				if _, ok := allowed[e]; !ok {
					continue
				}
			}
			return CDS{e}
		}
	}
	return CDS{}
}

// bootstrapWithMisHeuristic runs MisHeuristicCds (C6) for a small
// bounded budget to produce an initial solution.
func bootstrapWithMisHeuristic(g *TransactionGraph, iterations int, perIterTimeout time.Duration) CDS {
	heuristic := NewMisHeuristicCds(g)
	engine := NewLnsEngine(heuristic.Selector(), EngineCallbacks{
		Score:                heuristic.GetSolutionScore,
		IsOptimal:            func(CDS) bool { return false },
		OptimizeNeighborhood: heuristic.OptimizeNeighborhood,
		NewSolutionCallback:  func(CDS) {},
	}, nil)
	heuristic.SetBestSolutionProvider(engine.Best)
	if err := engine.Optimize(iterations, perIterTimeout); err != nil {
		return CDS{}
	}
	return engine.Best()
}
