package driving

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// Ingestor turns document files into persisted vector records.
type Ingestor interface {
	// ProcessFile loads and splits a document. An unsupported extension
	// fails with domain.ErrUnsupportedFormat before any store mutation;
	// a document with no extractable text yields an empty slice, not an
	// error.
	ProcessFile(ctx context.Context, path string) ([]domain.Chunk, error)

	// AddDocuments embeds the chunks and commits them to the index as one
	// atomic batch.
	AddDocuments(ctx context.Context, chunks []domain.Chunk) (*domain.IngestReport, error)
}

// Chatter answers questions grounded in the indexed documents.
type Chatter interface {
	// Chat runs one retrieve-then-generate call. Backend failures are
	// captured in the response, never returned as an error.
	Chat(ctx context.Context, query string, k int) *domain.ChatResponse

	// Stats reports the current index state.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}
