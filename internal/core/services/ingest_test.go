package services

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/loaders"
	"github.com/custodia-labs/docchat-cli/internal/splitter"
)

func newTestIngest(split *splitter.Splitter) *IngestService {
	index := NewIndexService(newMockEmbedder(), memory.NewStore())
	return NewIngestService(loaders.NewRegistry(), split, index)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestService_ProcessFile_StampsMetadata(t *testing.T) {
	para1 := "The first paragraph talks about one thing."
	para2 := "The second paragraph talks about another."
	path := writeFile(t, "notes.txt", para1+"\n\n"+para2)

	svc := newTestIngest(splitter.New(splitter.WithChunkSize(50), splitter.WithOverlap(10)))
	chunks, err := svc.ProcessFile(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 2)

	for i, chunk := range chunks {
		assert.Equal(t, "notes.txt", chunk.Metadata[domain.MetaSourceFile], "chunk %d", i)
		assert.Equal(t, ".txt", chunk.Metadata[domain.MetaFileType], "chunk %d", i)
		assert.Equal(t, strconv.Itoa(i), chunk.Metadata[domain.MetaChunkIndex], "chunk %d", i)
		assert.Equal(t, strconv.Itoa(len(chunk.Content)), chunk.Metadata[domain.MetaCharLength], "chunk %d", i)
	}
	assert.Equal(t, para1, chunks[0].Content)
	assert.Equal(t, para2, chunks[1].Content)
}

func TestIngestService_ProcessFile_UnsupportedFormatFailsFirst(t *testing.T) {
	svc := newTestIngest(splitter.New())

	// The file does not exist: the format check must fail before any
	// filesystem access is attempted.
	_, err := svc.ProcessFile(context.Background(), "/nonexistent/slides.pptx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestService_ProcessFile_EmptyDocument(t *testing.T) {
	path := writeFile(t, "empty.txt", "   \n\n  ")

	svc := newTestIngest(splitter.New())
	chunks, err := svc.ProcessFile(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestService_ProcessFile_InheritsSegmentMetadata(t *testing.T) {
	path := writeFile(t, "guide.md", "# User Guide\n\nSome actual content here.")

	svc := newTestIngest(splitter.New())
	chunks, err := svc.ProcessFile(context.Background(), path)

	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "User Guide", chunks[0].Metadata["title"])
	assert.Equal(t, "guide.md", chunks[0].Metadata[domain.MetaSourceFile])
	assert.Equal(t, ".md", chunks[0].Metadata[domain.MetaFileType])
}

func TestIngestService_ProcessFile_MissingFile(t *testing.T) {
	svc := newTestIngest(splitter.New())

	_, err := svc.ProcessFile(context.Background(), "/nonexistent/notes.txt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestIngestService_AddDocuments(t *testing.T) {
	svc := newTestIngest(splitter.New())
	ctx := context.Background()

	report, err := svc.AddDocuments(ctx, []domain.Chunk{
		{Content: "chunk one"},
		{Content: "chunk two"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.ChunksAdded)
	assert.Equal(t, 2, report.IndexSize)
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]domain.Chunk{
		{Content: "aaaa"},       // 4
		{Content: "aaaaaaaa"},   // 8
		{Content: "aaaaaaaaaa"}, // 10
	})

	assert.Equal(t, 3, stats.TotalChunks)
	assert.Equal(t, 22, stats.TotalCharacters)
	assert.Equal(t, 4, stats.MinChunkSize)
	assert.Equal(t, 10, stats.MaxChunkSize)
	assert.Equal(t, 7, stats.AvgChunkSize)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Zero(t, Summarize(nil))
}
