package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// VectorStore persists embedding records and answers nearest-neighbour
// queries over them. Implementations are disk-backed (sqlite) or in-memory.
//
// Concurrency contract: Add commits each batch atomically, and a Query
// running concurrently with an Add observes either none or all of that
// batch, never a partial write.
type VectorStore interface {
	// Add commits the records as one atomic batch. On error no record of
	// the batch is persisted.
	Add(ctx context.Context, records []domain.VectorRecord) error

	// Query returns the k nearest neighbours to the vector by cosine
	// distance, nearest first, ties in insertion order. Fewer than k
	// records means all of them; an empty store means an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error)

	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)

	// Name identifies the backend (e.g. "sqlite", "memory").
	Name() string

	// Close releases resources.
	Close() error
}

// Neighbor is one nearest-neighbour hit.
type Neighbor struct {
	// Record is the matched record.
	Record domain.VectorRecord

	// Distance is the cosine distance (1 - cosine similarity).
	Distance float64
}
