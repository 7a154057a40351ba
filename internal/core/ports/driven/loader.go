package driven

import (
	"context"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// Loader extracts text segments from a document file. One implementation
// exists per supported format; selection is by file extension.
type Loader interface {
	// Load reads the file and returns its text segments. Read or decode
	// failures wrap domain.ErrLoad.
	Load(ctx context.Context, path string) ([]domain.Segment, error)

	// Extensions returns the file extensions this loader handles,
	// lower-case with the leading dot (e.g. ".pdf").
	Extensions() []string
}
