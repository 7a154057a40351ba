package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/loaders"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/splitter"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService is the document ingestion pipeline: it loads a file with
// the loader selected by its extension, splits the text into overlapping
// chunks and stamps each with source metadata. Committing chunks to the
// index is delegated to the IndexService.
type IngestService struct {
	registry *loaders.Registry
	split    *splitter.Splitter
	index    *IndexService
}

// NewIngestService creates an ingestion pipeline with injected dependencies.
func NewIngestService(registry *loaders.Registry, split *splitter.Splitter, index *IndexService) *IngestService {
	return &IngestService{
		registry: registry,
		split:    split,
		index:    index,
	}
}

// ProcessFile loads and splits one document. The loader lookup happens
// before any file or store access, so an unsupported extension fails with
// domain.ErrUnsupportedFormat and no side effects. A document with no
// extractable text yields an empty slice, not an error.
func (s *IngestService) ProcessFile(ctx context.Context, path string) ([]domain.Chunk, error) {
	loader, err := s.registry.For(path)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Debug("Loading %s", path)

	segments, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	sourceFile := filepath.Base(path)
	format := strings.ToLower(filepath.Ext(path))

	var chunks []domain.Chunk
	index := 0
	for _, seg := range segments {
		for _, content := range s.split.Split(seg.Text) {
			metadata := make(map[string]string, len(seg.Metadata)+4)
			for k, v := range seg.Metadata {
				metadata[k] = v
			}
			metadata[domain.MetaSourceFile] = sourceFile
			metadata[domain.MetaFileType] = format
			metadata[domain.MetaChunkIndex] = strconv.Itoa(index)
			metadata[domain.MetaCharLength] = strconv.Itoa(len(content))

			chunks = append(chunks, domain.Chunk{Content: content, Metadata: metadata})
			index++
		}
	}

	logger.Debug("Split %s into %d chunks (size %d, overlap %d)",
		sourceFile, len(chunks), s.split.ChunkSize(), s.split.Overlap())
	return chunks, nil
}

// AddDocuments embeds the chunks and commits them to the index.
func (s *IngestService) AddDocuments(ctx context.Context, chunks []domain.Chunk) (*domain.IngestReport, error) {
	return s.index.Add(ctx, chunks)
}

// ProcessingStats summarises a chunk batch for display.
type ProcessingStats struct {
	TotalChunks     int
	TotalCharacters int
	AvgChunkSize    int
	MinChunkSize    int
	MaxChunkSize    int
}

// Summarize computes display statistics for a chunk batch.
func Summarize(chunks []domain.Chunk) ProcessingStats {
	if len(chunks) == 0 {
		return ProcessingStats{}
	}

	stats := ProcessingStats{
		TotalChunks:  len(chunks),
		MinChunkSize: len(chunks[0].Content),
	}
	for _, chunk := range chunks {
		n := len(chunk.Content)
		stats.TotalCharacters += n
		if n < stats.MinChunkSize {
			stats.MinChunkSize = n
		}
		if n > stats.MaxChunkSize {
			stats.MaxChunkSize = n
		}
	}
	stats.AvgChunkSize = stats.TotalCharacters / len(chunks)
	return stats
}

// String renders the stats in a compact single-line form.
func (p ProcessingStats) String() string {
	return fmt.Sprintf("%d chunks, %d chars total, sizes %d-%d (avg %d)",
		p.TotalChunks, p.TotalCharacters, p.MinChunkSize, p.MaxChunkSize, p.AvgChunkSize)
}
