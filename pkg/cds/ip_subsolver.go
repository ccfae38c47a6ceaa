package cds

import (
	"fmt"
	"time"

	"github.com/cdslns/transet/internal/oracle"
)

// CdsIpSubsolver solves, to optimality within a time budget, the
// maximum CDS over a free-edge subgraph: one binary per edge,
// x_e1 + x_e2 <= 1 for every pair that is not clique-disjoint (this is
// exactly the union of the IP formulation's parallel-edge/4-clique and
// triangle constraint families — both describe "these two edges are
// not clique-disjoint" — so AreEdgesCliqueDisjoint is used directly as
// the single source of truth for conflict-pair generation).
type CdsIpSubsolver struct {
	graph *TransactionGraph
}

// NewCdsIpSubsolver binds a subsolver to its owning graph.
func NewCdsIpSubsolver(g *TransactionGraph) *CdsIpSubsolver {
	return &CdsIpSubsolver{graph: g}
}

// GrbStatus mirrors the external oracle status codes recorded in
// iteration statistics (§6): OPTIMAL or TIMEOUT.
type GrbStatus int64

const (
	GrbStatusOptimal GrbStatus = iota
	GrbStatusTimeout
)

// Solve returns the maximum CDS over freeEdges found within timeout.
// initialHint warm-starts the oracle's binary values (currently always
// empty at call sites — see DESIGN.md's Open Question 2). On a
// non-positive timeout, or on oracle timeout, the hint (or nil) is
// returned with GrbStatusTimeout.
func (s *CdsIpSubsolver) Solve(freeEdges []Edge, timeout time.Duration, initialHint CDS) (CDS, GrbStatus, error) {
	if len(freeEdges) == 0 {
		return nil, GrbStatusOptimal, nil
	}

	var conflicts []oracle.Pair
	for i := 0; i < len(freeEdges); i++ {
		for j := i + 1; j < len(freeEdges); j++ {
			if !s.graph.AreEdgesCliqueDisjoint(freeEdges[i], freeEdges[j]) {
				conflicts = append(conflicts, oracle.Pair{I: i, J: j})
			}
		}
	}

	hintBits := make([]bool, len(freeEdges))
	hintSet := initialHint.asSet()
	for i, e := range freeEdges {
		if _, ok := hintSet[e]; ok {
			hintBits[i] = true
		}
	}

	deadline := time.Now().Add(timeout)
	selected, status, err := oracle.Solve(len(freeEdges), conflicts, deadline, hintBits)
	if err != nil || status == oracle.StatusError {
		return nil, GrbStatusTimeout, wrapOracleError(err)
	}

	out := make(CDS, 0, len(selected))
	for i, v := range selected {
		if v {
			out = append(out, freeEdges[i])
		}
	}

	if status == oracle.StatusTimeout {
		return out, GrbStatusTimeout, nil
	}
	return out, GrbStatusOptimal, nil
}

func wrapOracleError(err error) error {
	if err == nil {
		return fmt.Errorf("%w: oracle reported an internal failure", ErrOracleError)
	}
	return fmt.Errorf("%w: %v", ErrOracleError, err)
}
