package cds

// CounterMatrix is a symmetric triangular matrix of 32-bit unsigned
// counters indexed identically to TriangularMatrix, used to accumulate
// covering counts over literal pairs from a sample of feature
// configurations.
type CounterMatrix struct {
	n     int
	cells []uint32
}

// NewCounterMatrix allocates a counter matrix over n indices, all
// cells initially zero.
func NewCounterMatrix(n int) *CounterMatrix {
	return &CounterMatrix{n: n, cells: make([]uint32, gauss(n))}
}

func (m *CounterMatrix) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*m.n - i*(i+1)/2 + j
}

// Get returns the counter value for (i, j).
func (m *CounterMatrix) Get(i, j int) uint32 {
	if i == j {
		return 0
	}
	return m.cells[m.index(i, j)]
}

// Increment accumulates delta into the cell for (i, j).
func (m *CounterMatrix) Increment(i, j int, delta uint32) {
	if i == j {
		return
	}
	m.cells[m.index(i, j)] += delta
}

// graphCoveringCounts populates a CounterMatrix sized to g from a
// sample of feature configurations: for each configuration, every
// pairwise combination of its literals has its cell incremented once.
// This backs GreedyCds's cover-count ordering (§4.3, §4.5).
func graphCoveringCounts(g *TransactionGraph, sample [][]LiteralId) *CounterMatrix {
	counts := NewCounterMatrix(g.matrix.n)
	for _, config := range sample {
		for i := 0; i < len(config); i++ {
			for j := i + 1; j < len(config); j++ {
				a, b := g.idx(config[i]), g.idx(config[j])
				counts.Increment(a, b, 1)
			}
		}
	}
	return counts
}

// edgeCoverCount returns the covering count for edge e against counts,
// using g to map literals to matrix indices.
func edgeCoverCount(g *TransactionGraph, counts *CounterMatrix, e Edge) uint32 {
	return counts.Get(g.idx(e.A), g.idx(e.B))
}
