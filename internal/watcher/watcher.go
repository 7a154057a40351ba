// Package watcher monitors a directory and feeds new or changed
// documents into the ingestion pipeline. Failures on individual files
// are logged and skipped so the watch loop keeps running.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// settleDelay gives editors time to finish writing before we read.
const settleDelay = 500 * time.Millisecond

// Watcher ingests files as they appear in a watched directory.
type Watcher struct {
	fs         *fsnotify.Watcher
	ingest     driving.Ingestor
	extensions map[string]bool
}

// New creates a Watcher that reacts to files with the given extensions
// (lowercase, dot included, e.g. ".txt").
func New(ingest driving.Ingestor, extensions []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[e] = true
	}

	return &Watcher{fs: fs, ingest: ingest, extensions: exts}, nil
}

// Run watches dir until ctx is cancelled. Create and write events on
// supported files trigger ingestion.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.extensions[filepath.Ext(event.Name)] {
				continue
			}
			time.Sleep(settleDelay)
			w.ingestFile(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	chunks, err := w.ingest.ProcessFile(ctx, path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return
	}
	if len(chunks) == 0 {
		logger.Debug("no content in %s", path)
		return
	}
	report, err := w.ingest.AddDocuments(ctx, chunks)
	if err != nil {
		logger.Warn("failed to index %s: %v", path, err)
		return
	}
	logger.Info("Indexed %s: %d chunks (index size %d)", path, report.ChunksAdded, report.IndexSize)
}
