package loaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestRegistry_For_KnownExtensions(t *testing.T) {
	r := NewRegistry()

	for _, path := range []string{
		"notes.txt",
		"README.md",
		"guide.markdown",
		"paper.pdf",
		"/some/dir/REPORT.PDF", // extension matching is case-insensitive
	} {
		l, err := r.For(path)
		require.NoError(t, err, path)
		assert.NotNil(t, l, path)
	}
}

func TestRegistry_For_UnsupportedExtension(t *testing.T) {
	r := NewRegistry()

	_, err := r.For("presentation.pptx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".pptx")
}

func TestRegistry_For_NoExtension(t *testing.T) {
	r := NewRegistry()

	_, err := r.For("Makefile")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Extensions(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{".markdown", ".md", ".pdf", ".txt"}, r.Extensions())
}
