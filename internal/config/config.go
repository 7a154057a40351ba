// Package config loads the docchat configuration from a TOML file.
// Missing files yield defaults; missing fields are filled in, and the
// chunking invariant (overlap strictly below chunk size) is validated
// before any component is constructed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// ChunkingConfig configures how documents are split.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	// Provider is "hash" (in-process, default) or "ollama".
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// StorageConfig selects and configures the vector store.
type StorageConfig struct {
	// Backend is "sqlite" (default) or "memory".
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	Collection string `toml:"collection"`
}

// RetrievalConfig configures search behaviour.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// Config is the root configuration structure.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Storage   StorageConfig   `toml:"storage"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking:  ChunkingConfig{Size: 1000, Overlap: 200},
		Embedding: EmbeddingConfig{Provider: "hash", Dimensions: 384},
		LLM:       LLMConfig{BaseURL: "http://localhost:11434", Model: "mistral", TimeoutSecs: 60},
		Storage:   StorageConfig{Backend: "sqlite", Collection: "documents"},
		Retrieval: RetrievalConfig{TopK: 3},
	}
}

// DefaultPath returns ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docchat", "config.toml"), nil
}

// Load reads the config from path. A missing file returns defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the invariants the pipeline depends on.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive, got %d", domain.ErrInvalidInput, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunking.overlap must not be negative, got %d", domain.ErrInvalidInput, c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap (%d) must be strictly less than chunking.size (%d)",
			domain.ErrInvalidInput, c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Embedding.Provider {
	case "hash", "ollama":
	default:
		return fmt.Errorf("%w: embedding.provider must be \"hash\" or \"ollama\", got %q", domain.ErrInvalidInput, c.Embedding.Provider)
	}
	switch c.Storage.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("%w: storage.backend must be \"sqlite\" or \"memory\", got %q", domain.ErrInvalidInput, c.Storage.Backend)
	}
	return nil
}

// applyDefaults fills fields a partial config file left zero.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Chunking.Size == 0 {
		cfg.Chunking = def.Chunking
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = def.Embedding.Provider
	}
	if cfg.Embedding.Provider == "hash" && cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = def.Embedding.Dimensions
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Storage.Collection == "" {
		cfg.Storage.Collection = def.Storage.Collection
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
}
