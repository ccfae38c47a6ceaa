package cds

import "errors"

// Sentinel errors for the CDS error taxonomy. Callers should use
// errors.Is against these values; call sites wrap them with
// fmt.Errorf("...: %w", ...) to attach context.
var (
	// ErrInvalidLiteral is returned when a literal is zero or falls
	// outside [-n, n].
	ErrInvalidLiteral = errors.New("cds: invalid literal")

	// ErrSelfLoopQuery is returned when an adjacency query names the
	// same literal twice.
	ErrSelfLoopQuery = errors.New("cds: self-loop query")

	// ErrInvalidSubgraph is returned when a caller-supplied subgraph
	// contains an edge absent from the owning graph.
	ErrInvalidSubgraph = errors.New("cds: subgraph contains edge absent from graph")

	// ErrInitialSolutionOutsideSubgraph is returned when an initial
	// solution references an edge not in the active subgraph.
	ErrInitialSolutionOutsideSubgraph = errors.New("cds: initial solution has edge outside subgraph")

	// ErrInvalidInitialSolution is returned when an initial solution is
	// not clique-disjoint, or contains a non-edge of the graph.
	ErrInvalidInitialSolution = errors.New("cds: initial solution is not a valid CDS")

	// ErrInternalInvariantBroken marks a fatal internal consistency
	// failure (non-disjoint solution, duplicate edges, asymmetric trim).
	// These are never silently recovered.
	ErrInternalInvariantBroken = errors.New("cds: internal invariant broken")

	// ErrOracleError is returned when the embedded oracle reports a
	// structural malfunction, distinct from an ordinary timeout.
	ErrOracleError = errors.New("cds: oracle error")

	// ErrCorruptedSnapshot is returned when an async driver snapshot
	// fails clique-disjointness validation.
	ErrCorruptedSnapshot = errors.New("cds: corrupted snapshot")
)
