package domain

import "time"

// SearchResult represents a single similarity hit. Result sequences are
// ordered by non-increasing similarity; ties keep insertion order.
type SearchResult struct {
	// Content is the matched chunk text.
	Content string

	// Metadata is the matched chunk's metadata.
	Metadata map[string]string

	// Similarity is 1 - cosine distance, in [-1, 1].
	Similarity float64

	// Rank is the 1-based position in the result sequence.
	Rank int
}

// ChatResponse is the outcome of one retrieve-then-generate call.
// It is always returned, never replaced by an error: failures are captured
// in Success and ErrorMessage so a bad query cannot end a session.
type ChatResponse struct {
	// Answer is the generated text, or the fixed no-documents message when
	// retrieval came back empty.
	Answer string

	// Sources are the retrieved chunks the answer was grounded on.
	Sources []SearchResult

	// RetrievalTime is the time spent embedding the query and searching.
	RetrievalTime time.Duration

	// GenerationTime is the time spent in the generation backend.
	// Zero when retrieval short-circuited.
	GenerationTime time.Duration

	// TotalTime is RetrievalTime + GenerationTime.
	TotalTime time.Duration

	// ModelUsed is the generation model identifier.
	ModelUsed string

	// Success reports whether the call produced a usable answer.
	Success bool

	// ErrorMessage carries the diagnostic when Success is false.
	ErrorMessage string
}

// IngestReport summarises one atomic batch insertion into the index.
type IngestReport struct {
	// ChunksAdded is the number of records committed.
	ChunksAdded int

	// EmbeddingTime is the time spent embedding the batch.
	EmbeddingTime time.Duration

	// StorageTime is the time spent committing the batch.
	StorageTime time.Duration

	// TotalTime is the wall time of the whole Add call.
	TotalTime time.Duration

	// IndexSize is the collection size after the commit.
	IndexSize int
}

// IndexStats describes the current state of the vector index.
type IndexStats struct {
	// TotalChunks is the number of persisted records.
	TotalChunks int

	// EmbeddingModel identifies the embedding backend's model.
	EmbeddingModel string

	// Backend identifies the vector store implementation (e.g. "sqlite").
	Backend string
}
