package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestLoader_Extensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestLoader_Load_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text pretending to be a pdf"), 0600))

	_, err := New().Load(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
}
