package cds

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// GreedyCds produces a CDS by scanning edges in ascending cover-count
// order, used for warm starts. If a covering sample was supplied at
// construction, edges are preferred in the order that best relieves
// under-covered feature pairs.
type GreedyCds struct {
	graph  *TransactionGraph
	counts *CounterMatrix // nil if no sample was provided
}

// NewGreedyCds builds a greedy constructor over g. sample may be nil;
// when non-nil, it is used to populate covering counts per §4.3.
func NewGreedyCds(g *TransactionGraph, sample [][]LiteralId) *GreedyCds {
	gc := &GreedyCds{graph: g}
	if sample != nil {
		gc.counts = graphCoveringCounts(g, sample)
	}
	return gc
}

// Optimize builds a CDS from subgraph (or every graph edge if
// subgraph is empty): edges are shuffled, then — if covering counts
// are available — stable-sorted ascending by cover count, then walked
// in order, greedily accepting each edge that stays clique-disjoint
// with the accumulator. The result is validated before being returned.
func (gc *GreedyCds) Optimize(subgraph []Edge, rng *rand.Rand) (CDS, error) {
	pool := subgraph
	if len(pool) == 0 {
		pool = gc.graph.AllEdges()
	}
	pool = append([]Edge(nil), pool...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	if gc.counts != nil {
		sort.SliceStable(pool, func(i, j int) bool {
			return edgeCoverCount(gc.graph, gc.counts, pool[i]) < edgeCoverCount(gc.graph, gc.counts, pool[j])
		})
	}

	acc := make(CDS, 0, len(pool))
	for _, e := range pool {
		disjoint := true
		for _, f := range acc {
			if !gc.graph.AreEdgesCliqueDisjoint(e, f) {
				disjoint = false
				break
			}
		}
		if disjoint {
			acc = append(acc, e)
		}
	}

	if err := validateCds(gc.graph, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// validateCds checks that sol is pairwise clique-disjoint and free of
// duplicate edges, failing with ErrInternalInvariantBroken otherwise.
func validateCds(g *TransactionGraph, sol CDS) error {
	seen := make(map[Edge]struct{}, len(sol))
	for _, e := range sol {
		if _, dup := seen[e]; dup {
			return fmt.Errorf("%w: duplicate edge %v in solution", ErrInternalInvariantBroken, e)
		}
		seen[e] = struct{}{}
	}
	if !g.AreAllCliqueDisjoint(sol) {
		return fmt.Errorf("%w: solution is not clique-disjoint", ErrInternalInvariantBroken)
	}
	return nil
}
