package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// IndexService embeds chunks and persists them as vector records, and
// answers similarity searches over the collection. The embedder and the
// store are acquired once at construction.
type IndexService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIndexService creates an index service with injected dependencies.
func NewIndexService(embedder driven.EmbeddingService, store driven.VectorStore) *IndexService {
	return &IndexService{
		embedder: embedder,
		store:    store,
	}
}

// Add embeds all chunks and commits them to the store as one atomic
// batch. Each record gets a freshly generated unique ID; repeated
// ingestion of identical text creates independent records. An embedding
// failure leaves the store untouched, a storage failure commits nothing.
func (s *IndexService) Add(ctx context.Context, chunks []domain.Chunk) (*domain.IngestReport, error) {
	start := time.Now()

	if len(chunks) == 0 {
		size, err := s.store.Count(ctx)
		if err != nil {
			return nil, err
		}
		return &domain.IngestReport{IndexSize: size, TotalTime: time.Since(start)}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	logger.Debug("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())
	embedStart := time.Now()
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	embeddingTime := time.Since(embedStart)
	if err != nil {
		return nil, fmt.Errorf("embedding batch: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbedding, len(embeddings), len(chunks))
	}
	if want := s.embedder.Dimensions(); want > 0 && len(embeddings[0]) != want {
		return nil, fmt.Errorf("%w: backend produced %d-dimensional vectors, model %s declares %d",
			domain.ErrEmbedding, len(embeddings[0]), s.embedder.ModelName(), want)
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.VectorRecord{
			ID:        uuid.New().String(),
			Embedding: embeddings[i],
			Content:   chunk.Content,
			Metadata:  chunk.Metadata,
		}
	}

	storeStart := time.Now()
	if err := s.store.Add(ctx, records); err != nil {
		return nil, fmt.Errorf("storing batch: %w", err)
	}
	storageTime := time.Since(storeStart)

	size, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Committed %d records (embed %s, store %s), index size %d",
		len(records), embeddingTime, storageTime, size)

	return &domain.IngestReport{
		ChunksAdded:   len(records),
		EmbeddingTime: embeddingTime,
		StorageTime:   storageTime,
		TotalTime:     time.Since(start),
		IndexSize:     size,
	}, nil
}

// Search embeds the query and returns the top-k records by cosine
// similarity, highest first. Fewer than k records returns all of them;
// an empty index returns an empty slice. Neither is an error.
func (s *IndexService) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	neighbors, err := s.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}

	results := make([]domain.SearchResult, len(neighbors))
	for i, n := range neighbors {
		results[i] = domain.SearchResult{
			Content:    n.Record.Content,
			Metadata:   n.Record.Metadata,
			Similarity: 1 - n.Distance,
			Rank:       i + 1,
		}
	}
	return results, nil
}

// Stats reports the collection size and backend identifiers.
func (s *IndexService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.IndexStats{
		TotalChunks:    count,
		EmbeddingModel: s.embedder.ModelName(),
		Backend:        s.store.Name(),
	}, nil
}
