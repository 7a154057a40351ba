package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader extracts text from PDF documents, one segment per page.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load opens the PDF and extracts the plain text of each page. Pages with
// no extractable text are skipped; a PDF with none at all yields an empty
// segment slice, which the pipeline treats as an empty document.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Segment, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf %s: %v", domain.ErrLoad, path, err)
	}
	defer f.Close()

	var segments []domain.Segment
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extracting page %d of %s: %v", domain.ErrLoad, pageNum, path, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:     text,
			Metadata: map[string]string{"page": strconv.Itoa(pageNum)},
		})
	}

	return segments, nil
}
