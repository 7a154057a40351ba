// Package memory provides an in-memory vector store for ephemeral runs
// and tests. It honours the same atomic-batch and stable-ordering
// contract as the sqlite store but keeps nothing across processes.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory vector store. Records keep insertion order so
// equal-distance query results tie-break deterministically.
type Store struct {
	mu      sync.RWMutex
	records []domain.VectorRecord
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{}
}

// Add commits the records as one atomic batch: validation happens before
// anything is appended, so a failed batch leaves the store untouched.
func (s *Store) Add(_ context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	dim := len(records[0].Embedding)
	for _, r := range records {
		if len(r.Embedding) != dim {
			return fmt.Errorf("%w: batch mixes dimensionalities %d and %d",
				domain.ErrStorage, dim, len(r.Embedding))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 && len(s.records[0].Embedding) != dim {
		return fmt.Errorf("%w: store holds %d-dimensional vectors, batch has %d",
			domain.ErrStorage, len(s.records[0].Embedding), dim)
	}

	s.records = append(s.records, records...)
	return nil
}

// Query returns the k nearest neighbours by cosine distance, ties in
// insertion order.
func (s *Store) Query(_ context.Context, vector []float32, k int) ([]driven.Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	neighbors := make([]driven.Neighbor, 0, len(s.records))
	for _, rec := range s.records {
		neighbors = append(neighbors, driven.Neighbor{
			Record:   rec,
			Distance: 1 - cosineSimilarity(vector, rec.Embedding),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Name identifies the backend.
func (s *Store) Name() string {
	return "memory"
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
