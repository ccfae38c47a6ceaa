package cds

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// TransactionGraph is the complement of a conflict graph over signed
// literals: an edge between two literals means the pair is jointly
// satisfiable. It owns one TriangularMatrix sized 2*nConcrete and a
// cached edge count. Once built it is immutable for the remainder of
// solving and is shared without locking by every component.
type TransactionGraph struct {
	nConcrete int
	matrix    *TriangularMatrix
	numEdges  int
}

// FromConflicts builds the transaction graph over 2*nConcrete literal
// nodes as the complement of conflicts: every literal pair not listed
// in conflicts becomes an edge.
func FromConflicts(nConcrete int, conflicts []Edge) (*TransactionGraph, error) {
	g := &TransactionGraph{
		nConcrete: nConcrete,
		matrix:    NewTriangularMatrix(2 * nConcrete),
	}
	// Start fully connected over all distinct literal pairs, then
	// remove the conflicts, matching the "complement of conflicts"
	// construction directly rather than building the conflicts and then
	// flipping.
	for i := 0; i < g.matrix.n; i++ {
		for j := i + 1; j < g.matrix.n; j++ {
			g.matrix.Set(i, j)
		}
	}
	g.numEdges = g.matrix.PopCount()
	for _, e := range conflicts {
		if g.hasEdgeIdx(g.idx(e.A), g.idx(e.B)) {
			g.matrix.Clear(g.idx(e.A), g.idx(e.B))
			g.numEdges--
		}
	}
	return g, nil
}

// idx converts a literal to its matrix index, validating it first.
func (g *TransactionGraph) idx(l LiteralId) int {
	if l == 0 || int(l) < -g.nConcrete || int(l) > g.nConcrete {
		panic(fmt.Errorf("%w: %d", ErrInvalidLiteral, l))
	}
	return literalToIndex(l, g.nConcrete)
}

// checkLiteral validates l without panicking, for call sites that must
// return an error instead.
func (g *TransactionGraph) checkLiteral(l LiteralId) error {
	if l == 0 || int(l) < -g.nConcrete || int(l) > g.nConcrete {
		return fmt.Errorf("%w: %d", ErrInvalidLiteral, l)
	}
	return nil
}

// NConcrete returns the number of concrete features.
func (g *TransactionGraph) NConcrete() int { return g.nConcrete }

// NNodes returns the literal node count, 2*nConcrete.
func (g *TransactionGraph) NNodes() int { return g.matrix.n }

// NEdges returns the cached edge count.
func (g *TransactionGraph) NEdges() int { return g.numEdges }

func (g *TransactionGraph) hasEdgeIdx(i, j int) bool {
	if i == j {
		return false
	}
	return g.matrix.Get(i, j)
}

// HasEdge reports whether a and b are adjacent. Queries with a==0 or
// b==0 fail with ErrInvalidLiteral; a==b fails with ErrSelfLoopQuery.
func (g *TransactionGraph) HasEdge(a, b LiteralId) (bool, error) {
	if err := g.checkLiteral(a); err != nil {
		return false, err
	}
	if err := g.checkLiteral(b); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: literal %d", ErrSelfLoopQuery, a)
	}
	return g.hasEdgeIdx(g.idx(a), g.idx(b)), nil
}

// AddEdge adds the edge {a,b} and reports whether it was newly added.
func (g *TransactionGraph) AddEdge(a, b LiteralId) (bool, error) {
	if err := g.checkLiteral(a); err != nil {
		return false, err
	}
	if err := g.checkLiteral(b); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: literal %d", ErrSelfLoopQuery, a)
	}
	added := g.matrix.Set(g.idx(a), g.idx(b))
	if added {
		g.numEdges++
	}
	return added, nil
}

// RemoveEdge removes the edge {a,b} and reports whether it was present.
func (g *TransactionGraph) RemoveEdge(a, b LiteralId) (bool, error) {
	if err := g.checkLiteral(a); err != nil {
		return false, err
	}
	if err := g.checkLiteral(b); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: literal %d", ErrSelfLoopQuery, a)
	}
	removed := g.matrix.Clear(g.idx(a), g.idx(b))
	if removed {
		g.numEdges--
	}
	return removed, nil
}

// allLiterals returns every representable literal in a fixed order:
// negatives ascending then positives ascending, matching the index
// layout of literalToIndex.
func (g *TransactionGraph) allLiterals() []LiteralId {
	out := make([]LiteralId, 0, 2*g.nConcrete)
	for v := g.nConcrete; v >= 1; v-- {
		out = append(out, LiteralId(-v))
	}
	for v := 1; v <= g.nConcrete; v++ {
		out = append(out, LiteralId(v))
	}
	return out
}

func (g *TransactionGraph) literalAt(idx int) LiteralId {
	if idx < g.nConcrete {
		return LiteralId(idx - g.nConcrete)
	}
	return LiteralId(idx - g.nConcrete + 1)
}

// Neighbors returns every literal adjacent to l.
func (g *TransactionGraph) Neighbors(l LiteralId) ([]LiteralId, error) {
	if err := g.checkLiteral(l); err != nil {
		return nil, err
	}
	li := g.idx(l)
	out := make([]LiteralId, 0)
	for j := 0; j < g.matrix.n; j++ {
		if j == li {
			continue
		}
		if g.matrix.Get(li, j) {
			out = append(out, g.literalAt(j))
		}
	}
	return out, nil
}

// NeighborsFiltered returns the neighbors of l restricted to the given
// node set.
func (g *TransactionGraph) NeighborsFiltered(l LiteralId, nodes []LiteralId) ([]LiteralId, error) {
	all, err := g.Neighbors(l)
	if err != nil {
		return nil, err
	}
	allowed := make(map[LiteralId]struct{}, len(nodes))
	for _, n := range nodes {
		allowed[n] = struct{}{}
	}
	out := make([]LiteralId, 0, len(all))
	for _, n := range all {
		if _, ok := allowed[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// NeighborsViaEdges returns the nodes reachable from l by an edge in
// the given edge subgraph.
func (g *TransactionGraph) NeighborsViaEdges(l LiteralId, edges []Edge) []LiteralId {
	out := make([]LiteralId, 0)
	for _, e := range edges {
		switch l {
		case e.A:
			out = append(out, e.B)
		case e.B:
			out = append(out, e.A)
		}
	}
	return out
}

// NonNeighbors returns every literal not adjacent to l and not l itself.
func (g *TransactionGraph) NonNeighbors(l LiteralId) ([]LiteralId, error) {
	if err := g.checkLiteral(l); err != nil {
		return nil, err
	}
	li := g.idx(l)
	out := make([]LiteralId, 0)
	for j := 0; j < g.matrix.n; j++ {
		if j == li {
			continue
		}
		if !g.matrix.Get(li, j) {
			out = append(out, g.literalAt(j))
		}
	}
	return out, nil
}

// CountNeighbors returns the degree of l.
func (g *TransactionGraph) CountNeighbors(l LiteralId) (int, error) {
	ns, err := g.Neighbors(l)
	if err != nil {
		return 0, err
	}
	return len(ns), nil
}

// AllEdges returns every edge of the graph in canonical form.
func (g *TransactionGraph) AllEdges() []Edge {
	out := make([]Edge, 0, g.numEdges)
	for i := 0; i < g.matrix.n; i++ {
		for j := i + 1; j < g.matrix.n; j++ {
			if g.matrix.Get(i, j) {
				out = append(out, NewEdge(g.literalAt(i), g.literalAt(j)))
			}
		}
	}
	return out
}

// EdgesWhere returns every edge satisfying pred.
func (g *TransactionGraph) EdgesWhere(pred func(Edge) bool) []Edge {
	out := make([]Edge, 0)
	for _, e := range g.AllEdges() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// InducedSubgraphEdges returns every graph edge whose both endpoints
// lie in nodes.
func (g *TransactionGraph) InducedSubgraphEdges(nodes []LiteralId) []Edge {
	set := make(map[LiteralId]struct{}, len(nodes))
	for _, n := range nodes {
		set[n] = struct{}{}
	}
	out := make([]Edge, 0)
	for _, e := range g.AllEdges() {
		_, okA := set[e.A]
		_, okB := set[e.B]
		if okA && okB {
			out = append(out, e)
		}
	}
	return out
}

// UniqueNodesOf returns the deduplicated endpoint set of edges,
// preserving first-seen order.
func UniqueNodesOf(edges []Edge) []LiteralId {
	seen := make(map[LiteralId]struct{})
	out := make([]LiteralId, 0)
	for _, e := range edges {
		if _, ok := seen[e.A]; !ok {
			seen[e.A] = struct{}{}
			out = append(out, e.A)
		}
		if _, ok := seen[e.B]; !ok {
			seen[e.B] = struct{}{}
			out = append(out, e.B)
		}
	}
	return out
}

// Complement returns a new graph over the same literals with every
// adjacency bit inverted. Applying Complement twice reproduces the
// original graph bit-for-bit.
func (g *TransactionGraph) Complement() *TransactionGraph {
	out := &TransactionGraph{
		nConcrete: g.nConcrete,
		matrix:    g.matrix.Clone(),
	}
	out.matrix.Flip()
	out.numEdges = out.matrix.PopCount()
	return out
}

// AreEdgesCliqueDisjoint implements the clique-disjointness predicate
// for two edges, the fundamental hot-path primitive:
//
//   - 0 shared endpoints: disjoint iff the four endpoints do NOT induce
//     a 4-clique, i.e. not all four cross edges are present.
//   - 1 shared endpoint: disjoint iff the two non-shared endpoints are
//     non-adjacent.
//   - 2 shared endpoints (identical edges): never disjoint.
func (g *TransactionGraph) AreEdgesCliqueDisjoint(e1, e2 Edge) bool {
	switch e1.SharedEndpoints(e2) {
	case 2:
		return false
	case 1:
		u, v := distinctEndpoint(e1, e2), distinctEndpoint(e2, e1)
		adj, _ := g.HasEdge(u, v)
		return !adj
	default:
		u, v := e1.A, e1.B
		p, q := e2.A, e2.B
		up, _ := g.HasEdge(u, p)
		uq, _ := g.HasEdge(u, q)
		vp, _ := g.HasEdge(v, p)
		vq, _ := g.HasEdge(v, q)
		return !(up && uq && vp && vq)
	}
}

// distinctEndpoint returns the endpoint of e1 that is not shared with
// e2, used when e1 and e2 share exactly one endpoint.
func distinctEndpoint(e1, e2 Edge) LiteralId {
	if e1.A != e2.A && e1.A != e2.B {
		return e1.A
	}
	return e1.B
}

// AreAllCliqueDisjoint checks every pair of a candidate edge list,
// O(m^2).
func (g *TransactionGraph) AreAllCliqueDisjoint(edges []Edge) bool {
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if !g.AreEdgesCliqueDisjoint(edges[i], edges[j]) {
				return false
			}
		}
	}
	return true
}

// complementCliqueHeuristicCap is the maximum number of disjoint
// cliques produced by ComplementCliqueHeuristic.
const complementCliqueHeuristicCap = 5

// ComplementCliqueHeuristic produces up to 5 disjoint cliques in the
// complement of g (independent sets in g): literals are shuffled,
// stable-sorted ascending by degree (fewer neighbors first), then
// walked in that order, placing each into the first clique where it
// has no edge (in g) to any current member. Cliques are returned
// sorted by size descending.
func (g *TransactionGraph) ComplementCliqueHeuristic(rng *rand.Rand) [][]LiteralId {
	literals := g.allLiterals()
	rng.Shuffle(len(literals), func(i, j int) { literals[i], literals[j] = literals[j], literals[i] })

	degree := make(map[LiteralId]int, len(literals))
	for _, l := range literals {
		d, _ := g.CountNeighbors(l)
		degree[l] = d
	}
	sort.SliceStable(literals, func(i, j int) bool {
		return degree[literals[i]] < degree[literals[j]]
	})

	cliques := make([][]LiteralId, 0, complementCliqueHeuristicCap)
	for _, l := range literals {
		placed := false
		for ci := range cliques {
			if g.hasEdgeToAny(l, cliques[ci]) {
				continue
			}
			cliques[ci] = append(cliques[ci], l)
			placed = true
			break
		}
		if !placed && len(cliques) < complementCliqueHeuristicCap {
			cliques = append(cliques, []LiteralId{l})
		}
	}

	sort.SliceStable(cliques, func(i, j int) bool {
		return len(cliques[i]) > len(cliques[j])
	})
	return cliques
}

func (g *TransactionGraph) hasEdgeToAny(l LiteralId, members []LiteralId) bool {
	for _, m := range members {
		if adj, _ := g.HasEdge(l, m); adj {
			return true
		}
	}
	return false
}
