package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

// mockEmbedder returns canned vectors, defaulting to a fixed unit vector
// for any text it has no entry for.
type mockEmbedder struct {
	vectors  map[string][]float32
	embedErr error
	batchErr error
	dims     int
	calls    int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32), dims: 3}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

// mockStore records batches and serves canned query results.
type mockStore struct {
	added    [][]domain.VectorRecord
	addErr   error
	queryErr error
	results  []driven.Neighbor
	lastK    int
	closed   bool
}

func (m *mockStore) Add(_ context.Context, records []domain.VectorRecord) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, records)
	return nil
}

func (m *mockStore) Query(_ context.Context, _ []float32, k int) ([]driven.Neighbor, error) {
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.results) > k {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockStore) Count(_ context.Context) (int, error) {
	n := 0
	for _, batch := range m.added {
		n += len(batch)
	}
	return n + len(m.results), nil
}

func (m *mockStore) Name() string { return "mock-store" }

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}

// mockLLM serves canned generations and records the prompts it saw.
type mockLLM struct {
	answer      string
	generateErr error
	models      []string
	listErr     error
	prompts     []string
	lastOpts    driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockLLM) ListModels(_ context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.models, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

var errBoom = errors.New("boom")
