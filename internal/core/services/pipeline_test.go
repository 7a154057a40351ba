package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat-cli/internal/loaders"
	"github.com/custodia-labs/docchat-cli/internal/splitter"
)

// paragraph builds a ~800 character paragraph by repeating a sentence.
func paragraph(sentence string) string {
	var b strings.Builder
	for b.Len() < 780 {
		b.WriteString(sentence)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func TestPipeline_IngestThenRetrieveVerbatimPhrase(t *testing.T) {
	p1 := paragraph("The solar panels convert sunlight into electricity for the grid.")
	p2 := paragraph("The brewing process ferments malted barley with specific yeast strains.")
	p3 := paragraph("The mountain trail climbs through alpine meadows above the treeline.")
	text := p1 + "\n\n" + p2 + "\n\n" + p3
	require.Greater(t, len(text), 2300, "scenario needs a document of roughly 2400 characters")

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))

	index := NewIndexService(hash.New(0), memory.NewStore())
	ingest := NewIngestService(
		loaders.NewRegistry(),
		splitter.New(splitter.WithChunkSize(1000), splitter.WithOverlap(200)),
		index,
	)
	ctx := context.Background()

	chunks, err := ingest.ProcessFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 1000, "chunk %d", i)
		assert.NotEmpty(t, chunk.Content, "chunk %d", i)
	}

	report, err := ingest.AddDocuments(ctx, chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, report.ChunksAdded)
	assert.Equal(t, 3, report.IndexSize)

	// A phrase copied verbatim from paragraph 2 retrieves that chunk first.
	results, err := index.Search(ctx, "brewing process ferments malted barley", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Contains(t, results[0].Content, "malted barley")
	assert.Equal(t, 1, results[0].Rank)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity,
			"similarities must be non-increasing")
	}
}
