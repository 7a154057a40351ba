package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// recordingIngestor captures the paths handed to the pipeline.
type recordingIngestor struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingIngestor) ProcessFile(_ context.Context, path string) ([]domain.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return []domain.Chunk{{Content: "chunk"}}, nil
}

func (r *recordingIngestor) AddDocuments(_ context.Context, chunks []domain.Chunk) (*domain.IngestReport, error) {
	return &domain.IngestReport{ChunksAdded: len(chunks), IndexSize: len(chunks)}, nil
}

func (r *recordingIngestor) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_IngestsNewSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngestor{}

	w, err := New(ingest, []string{".txt", ".md"})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, dir)
	}()

	// Give the watch loop a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	supported := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(supported, []byte("some text"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0600))

	assert.Eventually(t, func() bool {
		for _, p := range ingest.seen() {
			if p == supported {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond, "supported file should be ingested")

	for _, p := range ingest.seen() {
		assert.NotContains(t, p, ".png", "unsupported files must be ignored")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcher_RunFailsOnMissingDirectory(t *testing.T) {
	w, err := New(&recordingIngestor{}, []string{".txt"})
	require.NoError(t, err)
	defer w.Close()

	err = w.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}
