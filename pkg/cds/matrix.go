package cds

import (
	"fmt"
	"math/bits"
)

// TriangularMatrix is a bit-packed symmetric boolean matrix over n
// indices, stored in n*(n+1)/2 bit slots laid out as an upper triangle
// including the diagonal; the diagonal slots are never set, so only the
// n*(n-1)/2 pairs with i<j hold cells. The cell for pair (i,j) with
// i<j lives at index i*n - i*(i+1)/2 + j.
// Words are packed 64 bits at a time, matching the bitset-domain idiom
// used throughout this codebase for constant-time membership and
// popcount.
type TriangularMatrix struct {
	n     int
	words []uint64
}

// NewTriangularMatrix allocates a matrix over n indices, all cells
// initially false.
func NewTriangularMatrix(n int) *TriangularMatrix {
	cells := gauss(n)
	return &TriangularMatrix{
		n:     n,
		words: make([]uint64, (cells+63)/64),
	}
}

// gauss returns n*(n+1)/2, the slot count of the upper triangle
// including the diagonal.
func gauss(n int) int {
	return n * (n + 1) / 2
}

// index returns the bit offset for the unordered pair (i, j), swapping
// to i<j first. It panics on i==j, matching the self-loop contract
// enforced one layer up by TransactionGraph.
func (m *TriangularMatrix) index(i, j int) int {
	if i == j {
		panic(fmt.Sprintf("cds: TriangularMatrix.index called with i==j (%d)", i))
	}
	if i > j {
		i, j = j, i
	}
	return i*m.n - i*(i+1)/2 + j
}

// Get reports whether the cell for (i, j) is set.
func (m *TriangularMatrix) Get(i, j int) bool {
	idx := m.index(i, j)
	return m.words[idx/64]&(uint64(1)<<uint(idx%64)) != 0
}

// Set sets the cell for (i, j) to true and reports whether it changed.
func (m *TriangularMatrix) Set(i, j int) bool {
	idx := m.index(i, j)
	word, bit := idx/64, uint(idx%64)
	mask := uint64(1) << bit
	if m.words[word]&mask != 0 {
		return false
	}
	m.words[word] |= mask
	return true
}

// Clear sets the cell for (i, j) to false and reports whether it changed.
func (m *TriangularMatrix) Clear(i, j int) bool {
	idx := m.index(i, j)
	word, bit := idx/64, uint(idx%64)
	mask := uint64(1) << bit
	if m.words[word]&mask == 0 {
		return false
	}
	m.words[word] &^= mask
	return true
}

// Flip inverts every pair cell. The bits past the last slot of the
// final word and the unused diagonal slots are cleared again
// afterwards, so PopCount counts exactly the set pair cells.
func (m *TriangularMatrix) Flip() {
	for i := range m.words {
		m.words[i] = ^m.words[i]
	}
	m.maskTail()
	for i := 0; i < m.n; i++ {
		d := i*m.n - i*(i+1)/2 + i
		m.words[d/64] &^= uint64(1) << uint(d%64)
	}
}

// maskTail clears any bits beyond the last valid cell in the final
// word, so PopCount and Flip never observe stray high bits.
func (m *TriangularMatrix) maskTail() {
	cells := gauss(m.n)
	if cells%64 == 0 {
		return
	}
	last := len(m.words) - 1
	validBits := uint(cells % 64)
	m.words[last] &= (uint64(1) << validBits) - 1
}

// PopCount returns the number of set cells.
func (m *TriangularMatrix) PopCount() int {
	total := 0
	for _, w := range m.words {
		total += bits.OnesCount64(w)
	}
	return total
}

// Clone returns an independent copy of m.
func (m *TriangularMatrix) Clone() *TriangularMatrix {
	out := &TriangularMatrix{n: m.n, words: make([]uint64, len(m.words))}
	copy(out.words, m.words)
	return out
}

// Equal reports whether m and other have identical dimensions and bits.
func (m *TriangularMatrix) Equal(other *TriangularMatrix) bool {
	if m.n != other.n || len(m.words) != len(other.words) {
		return false
	}
	for i := range m.words {
		if m.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// literalToIndex maps a literal l in [-n,-1] U [1,n] into [0, 2n-1],
// with negative literals occupying [0, n-1] and positive literals
// occupying [n, 2n-1].
func literalToIndex(l LiteralId, nConcrete int) int {
	if l > 0 {
		return int(l) + nConcrete - 1
	}
	return int(l) + nConcrete
}
