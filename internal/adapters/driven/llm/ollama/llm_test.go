package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultModel, New(Config{}).ModelName())
	assert.Equal(t, "llama3", New(Config{Model: "llama3"}).ModelName())
}

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		answer := "Paris is the capital of France."
		json.NewEncoder(w).Encode(generateResponse{Response: &answer, Done: true})
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL, Model: "mistral"})

	answer, err := s.Generate(context.Background(), "What is the capital of France?", driven.GenerateOptions{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   500,
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer)
	assert.Equal(t, "mistral", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.NotNil(t, gotReq.Options)
	assert.InDelta(t, 0.7, gotReq.Options.Temperature, 1e-9)
	assert.InDelta(t, 0.9, gotReq.Options.TopP, 1e-9)
	assert.Equal(t, 500, gotReq.Options.MaxTokens)
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL})

	_, err := s.Generate(context.Background(), "hello", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "500")
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	s := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := s.Generate(context.Background(), "hello", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		answer := "too late"
		json.NewEncoder(w).Encode(generateResponse{Response: &answer})
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := s.Generate(context.Background(), "hello", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestGenerate_MissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"done": true}`))
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL})

	_, err := s.Generate(context.Background(), "hello", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestGenerate_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL})

	_, err := s.Generate(context.Background(), "hello", driven.GenerateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": [{"name": "mistral:latest"}, {"name": "llama3:8b"}]}`))
	}))
	defer server.Close()

	s := New(Config{BaseURL: server.URL})

	models, err := s.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"mistral:latest", "llama3:8b"}, models)
}

func TestListModels_Unreachable(t *testing.T) {
	s := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := s.ListModels(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
