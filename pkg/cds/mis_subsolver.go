package cds

import (
	"time"

	"github.com/cdslns/transet/internal/oracle"
)

// MisSubsolver solves the exact maximum independent set problem over a
// small induced subgraph, delegating to the embedded oracle: one
// binary per node, x_u + x_v <= 1 for every edge (u,v) of the induced
// subgraph, maximizing sum(x).
type MisSubsolver struct {
	graph *TransactionGraph
}

// NewMisSubsolver binds a subsolver to its owning graph.
func NewMisSubsolver(g *TransactionGraph) *MisSubsolver {
	return &MisSubsolver{graph: g}
}

// Solve returns the maximum independent subset of nodes (by G-adjacency)
// found within timeout, or the caller's hint on timeout/non-positive
// budget. A structural oracle failure is reported as ErrOracleError.
func (s *MisSubsolver) Solve(nodes []LiteralId, timeout time.Duration, hint []LiteralId) ([]LiteralId, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	indexOf := make(map[LiteralId]int, len(nodes))
	for i, l := range nodes {
		indexOf[l] = i
	}

	var conflicts []oracle.Pair
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if adj, _ := s.graph.HasEdge(nodes[i], nodes[j]); adj {
				conflicts = append(conflicts, oracle.Pair{I: i, J: j})
			}
		}
	}

	hintBits := make([]bool, len(nodes))
	for _, h := range hint {
		if idx, ok := indexOf[h]; ok {
			hintBits[idx] = true
		}
	}

	deadline := time.Now().Add(timeout)
	selected, status, err := oracle.Solve(len(nodes), conflicts, deadline, hintBits)
	if err != nil || status == oracle.StatusError {
		return nil, wrapOracleError(err)
	}

	out := make([]LiteralId, 0, len(selected))
	for i, v := range selected {
		if v {
			out = append(out, nodes[i])
		}
	}
	return out, nil
}
