// Package main demonstrates basic transet usage patterns.
package main

import (
	"fmt"
	"time"

	"github.com/cdslns/transet/pkg/cds"
)

func main() {
	fmt.Println("=== transet Examples ===")
	fmt.Println()

	trivialSolve()
	forcedDisjointPair()
	subgraphRestrictedSolve()
	asyncRun()
}

// trivialSolve mirrors S1: a single concrete feature yields a graph
// with exactly one edge, so the solver proves optimality immediately.
func trivialSolve() {
	fmt.Println("1. Trivial single-feature solve:")

	g, err := cds.FromConflicts(1, nil)
	if err != nil {
		panic(err)
	}
	solver, err := cds.NewCDSSolverInterface(g, nil, nil, nil)
	if err != nil {
		panic(err)
	}

	sol, err := solver.Optimize(nil, 5, time.Second, false)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   solution = %v, optimal = %v\n", sol, solver.HasOptimalSolution())
	fmt.Println()
}

// forcedDisjointPair mirrors S2: conflicts force a maximum CDS of size
// two whose edges share no endpoint.
func forcedDisjointPair() {
	fmt.Println("2. Forced disjoint pair:")

	conflicts := []cds.Edge{cds.NewEdge(1, 2), cds.NewEdge(-1, -2)}
	g, err := cds.FromConflicts(2, conflicts)
	if err != nil {
		panic(err)
	}
	solver, err := cds.NewCDSSolverInterface(g, nil, nil, nil)
	if err != nil {
		panic(err)
	}

	sol, err := solver.Optimize(nil, 10, time.Second, false)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   solution = %v (size %d), optimal = %v\n", sol, len(sol), solver.HasOptimalSolution())
	fmt.Println()
}

// subgraphRestrictedSolve mirrors S4: the search is confined to a
// caller-supplied candidate edge list.
func subgraphRestrictedSolve() {
	fmt.Println("3. Subgraph-restricted solve:")

	g, err := cds.FromConflicts(3, nil)
	if err != nil {
		panic(err)
	}
	subgraph := []cds.Edge{cds.NewEdge(1, 2), cds.NewEdge(1, 3)}
	solver, err := cds.NewCDSSolverInterface(g, subgraph, nil, nil)
	if err != nil {
		panic(err)
	}

	sol, err := solver.Optimize(nil, 10, time.Second, false)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   solution = %v within subgraph %v\n", sol, subgraph)
	fmt.Println()
}

// asyncRun mirrors S5: an AsyncDriver can be polled for best-so-far
// snapshots while the LNS loop runs in the background.
func asyncRun() {
	fmt.Println("4. Asynchronous anytime run:")

	g, err := cds.FromConflicts(10, nil)
	if err != nil {
		panic(err)
	}
	cfg := cds.NewConfig(cds.WithHeuristicBootstrap(true))
	solver, err := cds.NewCDSSolverInterface(g, nil, &cfg, nil)
	if err != nil {
		panic(err)
	}
	driver := cds.NewAsyncDriver(solver, nil)

	if !driver.Start(nil, 500*time.Millisecond) {
		panic("expected the first start to succeed")
	}
	time.Sleep(200 * time.Millisecond)

	snap, err := driver.Snapshot()
	if err != nil {
		panic(err)
	}
	fmt.Printf("   snapshot after 200ms: %d edges\n", len(snap))

	driver.Stop()
	fmt.Println("   worker stopped")
	fmt.Println()
}
