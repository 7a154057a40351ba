package loaders

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/loaders/markdown"
	"github.com/custodia-labs/docchat-cli/internal/loaders/pdf"
	"github.com/custodia-labs/docchat-cli/internal/loaders/plaintext"
)

// Registry maps file extensions to loaders. The set of formats is closed:
// a loader is registered for each supported extension at construction and
// anything else fails with domain.ErrUnsupportedFormat.
type Registry struct {
	byExt map[string]driven.Loader
}

// NewRegistry creates a registry with the default loaders registered
// (plain text, markdown, pdf).
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]driven.Loader)}
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(pdf.New())
	return r
}

// Register adds a loader under each of its extensions.
func (r *Registry) Register(l driven.Loader) {
	for _, ext := range l.Extensions() {
		r.byExt[strings.ToLower(ext)] = l
	}
}

// For returns the loader for the path's extension, or
// domain.ErrUnsupportedFormat when none is registered.
func (r *Registry) For(path string) (driven.Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return l, nil
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
