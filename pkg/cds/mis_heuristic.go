package cds

import (
	"fmt"
	"sort"
	"time"
)

// MisNodeSelector is C6's sibling selector: each call to Next()
// chooses between two shake strategies on the current working set —
// 70% of the time it clears the set entirely, otherwise it drops the
// half of edges with the highest collision counts.
type MisNodeSelector struct {
	current    CDS
	collisions map[Edge]uint32
}

// NewMisNodeSelector constructs a selector with an empty working set.
func NewMisNodeSelector() *MisNodeSelector {
	return &MisNodeSelector{collisions: make(map[Edge]uint32)}
}

// Next implements NeighborhoodSelector.
func (s *MisNodeSelector) Next() (Neighborhood, error) {
	rng := newRng()
	if rng.IntN(100) < 70 {
		s.clearSolution()
	} else {
		s.clearHighCollisionRateEdges()
	}
	return Neighborhood{Fixed: s.current.Clone(), Free: nil}, nil
}

func (s *MisNodeSelector) clearSolution() {
	s.current = nil
	s.collisions = make(map[Edge]uint32)
}

func (s *MisNodeSelector) clearHighCollisionRateEdges() {
	sort.SliceStable(s.current, func(i, j int) bool {
		return s.countCollisions(s.current[i]) < s.countCollisions(s.current[j])
	})
	for i := len(s.current) / 2; i < len(s.current); i++ {
		s.resetCollisions(s.current[i])
	}
	s.current = s.current[:len(s.current)/2]
}

func (s *MisNodeSelector) reportCollision(e Edge) { s.collisions[e]++ }

func (s *MisNodeSelector) countCollisions(e Edge) uint32 { return s.collisions[e] }

func (s *MisNodeSelector) resetCollisions(e Edge) { delete(s.collisions, e) }

// Feedback installs sol as the new working set iff it is strictly
// larger than the current one.
func (s *MisNodeSelector) Feedback(nb Neighborhood, sol CDS, tUtil, nbUtil float64) {
	if len(sol) > len(s.current) {
		s.current = sol.Clone()
	}
}

// BetterSolutionCallback is a no-op for MisNodeSelector: §4.6 only
// specifies Feedback's "install if larger" rule, and the engine's own
// lower bound already tracks the global best solution.
func (s *MisNodeSelector) BetterSolutionCallback(sol CDS) {}

// MisHeuristicCds (C6) is the LNS whose sub-move computes an exact MIS
// around a pivot literal and merges the resulting star into the
// current CDS, coordinated over complement-graph cliques.
type MisHeuristicCds struct {
	graph     *TransactionGraph
	misSolver *MisSubsolver
	selector  *MisNodeSelector
	cache     map[LiteralId]CDS
	cliques   [][]LiteralId

	// bestSolutionProvider, when set, supplies the engine's global
	// best solution for the "merge engine's best" step (§4.6 step 3).
	// It is wired by the caller after engine construction, since the
	// engine does not exist yet when this heuristic is built.
	bestSolutionProvider func() CDS
}

// NewMisHeuristicCds constructs the heuristic over g.
func NewMisHeuristicCds(g *TransactionGraph) *MisHeuristicCds {
	return &MisHeuristicCds{
		graph:     g,
		misSolver: NewMisSubsolver(g),
		selector:  NewMisNodeSelector(),
		cache:     make(map[LiteralId]CDS),
	}
}

// SetBestSolutionProvider wires the heuristic to the engine's best
// solution accessor.
func (h *MisHeuristicCds) SetBestSolutionProvider(f func() CDS) { h.bestSolutionProvider = f }

// Selector exposes the coupled MisNodeSelector for engine wiring.
func (h *MisHeuristicCds) Selector() *MisNodeSelector { return h.selector }

// GetSolutionScore returns |sol|, the objective used by this heuristic.
func (h *MisHeuristicCds) GetSolutionScore(sol CDS) int64 { return int64(len(sol)) }

// OptimizeNeighborhood implements §4.6's per-call state machine.
func (h *MisHeuristicCds) OptimizeNeighborhood(nb Neighborhood, timeout time.Duration) (CDS, error) {
	restart := len(nb.Fixed) == 0
	current := nb.Fixed.Clone()
	deadline := time.Now().Add(timeout)

	if restart {
		h.updateCliques()
	}

	nodesOptimized := 0
	for _, clique := range h.cliques {
		if time.Now().After(deadline) {
			break
		}

		ordered := append([]LiteralId(nil), clique...)
		rng := newRng()
		rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
		sort.SliceStable(ordered, func(i, j int) bool {
			_, iCached := h.cache[ordered[i]]
			_, jCached := h.cache[ordered[j]]
			return iCached && !jCached
		})

		for _, pivot := range ordered {
			if time.Now().After(deadline) {
				break
			}
			remaining := time.Until(deadline)
			local, err := h.localNeighborhoodCds(pivot, remaining)
			if err != nil {
				return nil, err
			}
			nodesOptimized++
			current, err = h.addEdgesToGlobalCds(local, current)
			if err != nil {
				return nil, err
			}
		}
	}

	if nodesOptimized >= 2 && h.bestSolutionProvider != nil {
		best := h.bestSolutionProvider()
		var err error
		current, err = h.addEdgesToGlobalCds(best, current)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

// localNeighborhoodCds computes (or retrieves, cached) the exact MIS
// around pivot merged with pivot into an induced-subgraph CDS.
func (h *MisHeuristicCds) localNeighborhoodCds(pivot LiteralId, timeout time.Duration) (CDS, error) {
	if cached, ok := h.cache[pivot]; ok {
		return cached, nil
	}
	neighbors, err := h.graph.Neighbors(pivot)
	if err != nil {
		return nil, err
	}
	selected, err := h.misSolver.Solve(neighbors, timeout, nil)
	if err != nil {
		return nil, err
	}
	nodes := append(append([]LiteralId(nil), selected...), pivot)
	local := h.graph.InducedSubgraphEdges(nodes)

	if !h.graph.AreAllCliqueDisjoint(local) {
		return nil, fmt.Errorf("%w: local CDS found by MIS oracle is not disjoint", ErrInternalInvariantBroken)
	}
	h.cache[pivot] = local
	return local, nil
}

// addEdgesToGlobalCds implements the merge rule shared with the
// selector's post-IP merges (§4.6): for each candidate edge in
// insertion order, append it iff clique-disjoint with every edge
// already accumulated; otherwise report a collision on the conflicting
// edge and skip it.
func (h *MisHeuristicCds) addEdgesToGlobalCds(edges CDS, current CDS) (CDS, error) {
	out := current.Clone()
	for _, e := range edges {
		disjoint := true
		for _, f := range out {
			if !h.graph.AreEdgesCliqueDisjoint(e, f) {
				h.selector.reportCollision(f)
				disjoint = false
			}
		}
		if disjoint {
			out = append(out, e)
		}
	}
	if err := validateCds(h.graph, out); err != nil {
		return nil, err
	}
	return out, nil
}

// updateCliques recomputes the complement cliques and keeps them only
// if the new largest clique strictly exceeds the previous largest.
func (h *MisHeuristicCds) updateCliques() {
	candidate := h.graph.ComplementCliqueHeuristic(newRng())
	if maxCliqueSize(candidate) > maxCliqueSize(h.cliques) {
		h.cliques = candidate
	}
}

func maxCliqueSize(cliques [][]LiteralId) int {
	max := 0
	for _, c := range cliques {
		if len(c) > max {
			max = len(c)
		}
	}
	return max
}
