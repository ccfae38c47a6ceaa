// Package cds computes large Clique-Disjoint edge Sets on transaction
// graphs via Large-Neighborhood Search. A transaction graph is the
// complement of a conflict graph over signed literals of a boolean
// feature model: every concrete feature v yields two nodes +v and -v,
// and an edge between two literals means the pair is jointly
// satisfiable. Large CDS give lower bounds on sample sizes for
// combinatorial interaction testing of software product lines.
package cds

import "fmt"

// LiteralId identifies a signed feature literal: a positive value
// asserts the feature, a negative value negates it. Zero is never a
// valid literal.
type LiteralId int32

// Edge is an unordered pair of distinct literals, always stored in
// canonical form (A < B) so that Edge is directly usable as a map key.
type Edge struct {
	A, B LiteralId
}

// NewEdge builds the canonical form of the unordered pair {a, b}.
func NewEdge(a, b LiteralId) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// SharedEndpoints reports how many endpoints e and other have in
// common (0, 1, or 2). The non-shared endpoints are not returned; see
// distinctEndpoint for that.
func (e Edge) SharedEndpoints(other Edge) int {
	switch {
	case e == other:
		return 2
	case e.A == other.A || e.A == other.B || e.B == other.A || e.B == other.B:
		return 1
	default:
		return 0
	}
}

func (e Edge) String() string {
	return fmt.Sprintf("{%d,%d}", e.A, e.B)
}

// CDS is a Clique-Disjoint edge Set: an ordered sequence of canonical
// edges, no two of which lie together inside any clique of the owning
// graph. Insertion order is preserved; set equality across two CDS
// values is order-independent.
type CDS []Edge

// Clone returns an independent copy of s.
func (s CDS) Clone() CDS {
	out := make(CDS, len(s))
	copy(out, s)
	return out
}

// Contains reports whether e appears in s.
func (s CDS) Contains(e Edge) bool {
	for _, f := range s {
		if f == e {
			return true
		}
	}
	return false
}

// asSet hashes s into a set for order-independent equality checks.
func (s CDS) asSet() map[Edge]struct{} {
	set := make(map[Edge]struct{}, len(s))
	for _, e := range s {
		set[e] = struct{}{}
	}
	return set
}

// Equal reports whether s and other contain exactly the same edges,
// irrespective of order.
func (s CDS) Equal(other CDS) bool {
	if len(s) != len(other) {
		return false
	}
	set := s.asSet()
	for _, e := range other {
		if _, ok := set[e]; !ok {
			return false
		}
	}
	return true
}

// Neighborhood is the unit of work handed from a neighborhood selector
// to an optimize_neighborhood implementation: Fixed edges are held in
// place for the iteration, Free edges are candidates the optimizer may
// select from.
type Neighborhood struct {
	Fixed CDS
	Free  CDS
}

// IterationStats is the fixed-field record written once per LNS
// iteration, in the key order mandated by the external interface
// contract. Timestamps are epoch-milliseconds.
type IterationStats struct {
	IterStart         int64
	NbhdStart         int64
	NbhdStop          int64
	OptimizeStart     int64
	OptimizeStop      int64
	NbhdFixedSize     int64
	NbhdFreeSize      int64
	GrbStatus         int64
	ProvenOptimal     int64
	FoundSolutionSize int64
	GlobalLb          int64
	IterStop          int64
}

// Map converts the record into the string-keyed form required by the
// external interface and by structured log fields.
func (s IterationStats) Map() map[string]int64 {
	return map[string]int64{
		"iter_start":          s.IterStart,
		"nbhd_start":          s.NbhdStart,
		"nbhd_stop":           s.NbhdStop,
		"optimize_start":      s.OptimizeStart,
		"optimize_stop":       s.OptimizeStop,
		"nbhd_fixed_size":     s.NbhdFixedSize,
		"nbhd_free_size":      s.NbhdFreeSize,
		"grb_status":          s.GrbStatus,
		"proven_optimal":      s.ProvenOptimal,
		"found_solution_size": s.FoundSolutionSize,
		"global_lb":           s.GlobalLb,
		"iter_stop":           s.IterStop,
	}
}

// boolToInt64 renders a boolean as the int64 encoding used by
// IterationStats fields.
func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
