package cds

import (
	"fmt"
	"sort"
)

const (
	// FreeEdgesLowCap is the floor max_free_edges never shrinks below.
	FreeEdgesLowCap = 250
	// StagnationThreshold is the number of non-improving iterations
	// before the selector escapes to a random pool entry.
	StagnationThreshold = 5
	// SolutionPoolSize is the bounded solution pool's capacity.
	SolutionPoolSize = 20

	initialMaxFreeEdges  = 1000
	initialEdgesToAddSeq = 1
)

// CdsNeighborhoodSelector is the adaptive neighborhood selector (C8):
// it partitions edges into fixed/free, adapts the free-edge budget to
// observed time and neighborhood utilization, and escapes stagnation
// by diversifying from a bounded solution pool.
type CdsNeighborhoodSelector struct {
	graph    *TransactionGraph
	subgraph []Edge // nil/empty means "no subgraph restriction"

	stagnationThreshold int
	solutionPoolSize    int
	freeEdgesLowCap     int

	bestSolution  CDS
	pool          []CDS
	maxFreeEdges  int
	edgesToAddSeq int
	stagnation    int
}

// NewCdsNeighborhoodSelector constructs a selector seeded with
// initial, optionally restricted to subgraph, sized from cfg's
// StagnationThreshold/SolutionPoolSize/FreeEdgesLowCap (§4.7). Fails
// with ErrInvalidSubgraph if subgraph contains an edge absent from g,
// or ErrInitialSolutionOutsideSubgraph if initial references an edge
// outside an active subgraph.
func NewCdsNeighborhoodSelector(g *TransactionGraph, subgraph []Edge, initial CDS, cfg Config) (*CdsNeighborhoodSelector, error) {
	if len(subgraph) > 0 {
		allowed := edgeSet(subgraph)
		for _, e := range subgraph {
			if adj, _ := g.HasEdge(e.A, e.B); !adj {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSubgraph, e)
			}
		}
		for _, e := range initial {
			if _, ok := allowed[e]; !ok {
				return nil, fmt.Errorf("%w: %v", ErrInitialSolutionOutsideSubgraph, e)
			}
		}
	}
	return &CdsNeighborhoodSelector{
		graph:               g,
		subgraph:            append([]Edge(nil), subgraph...),
		stagnationThreshold: cfg.StagnationThreshold,
		solutionPoolSize:    cfg.SolutionPoolSize,
		freeEdgesLowCap:     cfg.FreeEdgesLowCap,
		bestSolution:        initial.Clone(),
		maxFreeEdges:        initialMaxFreeEdges,
		edgesToAddSeq:       initialEdgesToAddSeq,
	}, nil
}

func edgeSet(edges []Edge) map[Edge]struct{} {
	set := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return set
}

// candidateUniverse returns the subgraph if active, else every graph
// edge.
func (s *CdsNeighborhoodSelector) candidateUniverse() []Edge {
	if len(s.subgraph) > 0 {
		return s.subgraph
	}
	return s.graph.AllEdges()
}

func (s *CdsNeighborhoodSelector) universeSize() int {
	if len(s.subgraph) > 0 {
		return len(s.subgraph)
	}
	return s.graph.NEdges()
}

// Next selects the next neighborhood per §4.7.
func (s *CdsNeighborhoodSelector) Next() (Neighborhood, error) {
	rng := newRng()

	// 1. Short-circuit: the whole candidate universe fits the budget.
	if s.maxFreeEdges >= s.universeSize() {
		return Neighborhood{Fixed: nil, Free: append(CDS(nil), s.candidateUniverse()...)}, nil
	}

	// 2. Seed.
	var init CDS
	if s.stagnation < s.stagnationThreshold {
		init = s.bestSolution.Clone()
	} else if len(s.pool) > 0 {
		init = s.pool[rng.IntN(len(s.pool))].Clone()
	} else {
		init = s.bestSolution.Clone()
	}

	// 3. Shuffle.
	rng.Shuffle(len(init), func(i, j int) { init[i], init[j] = init[j], init[i] })

	// 4. Fix edges.
	fixed := make(CDS, 0)
	var remaining []Edge
	if len(s.subgraph) == 0 {
		if len(init) > 0 {
			fixed = append(fixed, init[0])
			init = init[1:]
		}
		remaining = s.graph.EdgesWhere(func(e Edge) bool {
			return cliqueDisjointWithAll(s.graph, e, fixed)
		})
	} else {
		remaining = append([]Edge(nil), s.subgraph...)
	}

	// 5. Growth loop.
	for len(remaining) > s.maxFreeEdges && len(init) > 0 {
		remainingPrev := append([]Edge(nil), remaining...)

		take := s.edgesToAddSeq
		if take > len(init) {
			take = len(init)
		}
		popped := append(CDS(nil), init[:take]...)
		fixed = append(fixed, popped...)
		init = init[take:]

		remaining = filterOutConflicting(s.graph, remaining, popped)

		// 6. Restore the penultimate step if remaining collapsed.
		if len(remaining) == 0 {
			init = append(popped, init...)
			fixed = fixed[:len(fixed)-len(popped)]
			remaining = remainingPrev
			break
		}
	}

	// 7. Trim to the free-edge budget, always keeping init candidates.
	if len(remaining) > s.maxFreeEdges {
		initSet := edgeSet(init)
		trimmed := make([]Edge, 0, len(remaining))
		removed := 0
		for _, e := range remaining {
			if _, ok := initSet[e]; ok {
				removed++
				continue
			}
			trimmed = append(trimmed, e)
		}
		if removed != len(init) {
			return Neighborhood{}, fmt.Errorf("%w: trim removed %d init edges, expected %d", ErrInternalInvariantBroken, removed, len(init))
		}
		rng.Shuffle(len(trimmed), func(i, j int) { trimmed[i], trimmed[j] = trimmed[j], trimmed[i] })
		keep := s.maxFreeEdges - len(init)
		if keep < 0 {
			keep = 0
		}
		if keep > len(trimmed) {
			keep = len(trimmed)
		}
		remaining = append(trimmed[:keep], init...)
	}

	// 8.
	s.stagnation++
	return Neighborhood{Fixed: fixed, Free: append(CDS(nil), remaining...)}, nil
}

// cliqueDisjointWithAll reports whether e is clique-disjoint with
// every edge currently in fixed.
func cliqueDisjointWithAll(g *TransactionGraph, e Edge, fixed []Edge) bool {
	for _, f := range fixed {
		if !g.AreEdgesCliqueDisjoint(e, f) {
			return false
		}
	}
	return true
}

// filterOutConflicting removes from candidates every edge that
// conflicts with any edge in newlyFixed.
func filterOutConflicting(g *TransactionGraph, candidates []Edge, newlyFixed []Edge) []Edge {
	out := candidates[:0:0]
	for _, c := range candidates {
		keep := true
		for _, f := range newlyFixed {
			if c == f || !g.AreEdgesCliqueDisjoint(c, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

// Feedback adapts max_free_edges/edges_to_add_seq from observed
// utilization and folds sol into the solution pool, per §4.7.
func (s *CdsNeighborhoodSelector) Feedback(nb Neighborhood, sol CDS, tUtil, nbUtil float64) {
	s.addSolutionToPool(sol)

	switch {
	case tUtil < 0.5:
		s.maxFreeEdges += s.maxFreeEdges / 10
	case tUtil > 0.95:
		shrunk := s.maxFreeEdges - s.maxFreeEdges/10
		if shrunk < s.freeEdgesLowCap {
			shrunk = s.freeEdgesLowCap
		}
		s.maxFreeEdges = shrunk
	}

	if tUtil >= 0.1 && nbUtil >= 0.5 {
		s.edgesToAddSeq++
	}
}

// addSolutionToPool inserts sol into the bounded pool, deduplicated,
// kept sorted by size descending, truncated to solutionPoolSize.
func (s *CdsNeighborhoodSelector) addSolutionToPool(sol CDS) {
	for _, existing := range s.pool {
		if existing.Equal(sol) {
			return
		}
	}
	s.pool = append(s.pool, sol.Clone())
	sort.SliceStable(s.pool, func(i, j int) bool { return len(s.pool[i]) > len(s.pool[j]) })
	if len(s.pool) > s.solutionPoolSize {
		s.pool = s.pool[:s.solutionPoolSize]
	}
}

// BetterSolutionCallback adopts sol as the new best_solution and
// resets stagnation tracking.
func (s *CdsNeighborhoodSelector) BetterSolutionCallback(sol CDS) {
	if target := len(sol) / 100; target > s.edgesToAddSeq {
		s.edgesToAddSeq = target
	}
	s.bestSolution = sol.Clone()
	s.stagnation = 0
}
