// Package vector provides an exact nearest-neighbor index over fixed-dimension
// vectors, keyed by append position.
package vector

import (
	"fmt"
	"sort"
	"sync"
)

// Neighbor is one search hit: the vector's append position and its Euclidean
// distance to the query (lower is closer).
type Neighbor struct {
	Position int
	Distance float64
}

// MemoryIndex is an array-backed index searched by exact brute force. The
// corpus it serves is small (hundreds to low thousands of rows), so a linear
// scan beats any approximate structure and keeps results deterministic.
// Append happens only during the build phase; reads are lock-free safe after
// that, but the mutex keeps concurrent use correct regardless.
type MemoryIndex struct {
	dimensions int
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewMemoryIndex creates an index for vectors of the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{
		dimensions: dimensions,
		vectors:    make([][]float32, 0),
	}, nil
}

// Add appends vectors. Each vector's position is its index in append order,
// which callers use to map hits back to their records.
func (m *MemoryIndex) Add(vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vectors {
		if len(v) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(v), m.dimensions)
		}
		row := make([]float32, m.dimensions)
		copy(row, v)
		m.vectors = append(m.vectors, row)
	}
	return nil
}

// Search returns the k entries closest to query, sorted ascending by
// distance. Ties are broken by ascending position so results are stable.
// An empty index returns an empty result, never an error.
func (m *MemoryIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.vectors) == 0 {
		return nil, nil
	}
	neighbors := make([]Neighbor, len(m.vectors))
	for i, vec := range m.vectors {
		neighbors[i] = Neighbor{Position: i, Distance: EuclideanDistance(query, vec)}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Position < neighbors[j].Position
	})
	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k], nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Dimensions returns the vector dimension the index was built for.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}
