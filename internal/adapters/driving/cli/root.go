// Package cli implements the command-line driving adapter. Commands
// translate user input into calls on the driving ports and format the
// results; no pipeline logic lives here.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	embedhash "github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/hash"
	embedollama "github.com/custodia-labs/docchat-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/custodia-labs/docchat-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat-cli/internal/config"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/loaders"
	"github.com/custodia-labs/docchat-cli/internal/logger"
	"github.com/custodia-labs/docchat-cli/internal/splitter"
)

// version is set at build time via -ldflags.
var version = "dev"

// timePrecision rounds durations for display.
const timePrecision = time.Millisecond

var (
	verbose    bool
	configPath string
)

// Services wired for the lifetime of a command invocation.
var (
	cfg           *config.Config
	registry      *loaders.Registry
	indexService  *services.IndexService
	ingestService driving.Ingestor
	ragService    driving.Chatter
	closeStore    func() error
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents using local models",
	Long: `docchat indexes text, markdown and PDF documents into a local
vector store and answers questions about them using a local Ollama
model, grounding every answer in the retrieved passages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch cmd.Name() {
		case "version", "help":
			return nil
		}
		// Config management must work before any pipeline exists.
		if cmd == configCmd || cmd.Parent() == configCmd {
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeStore != nil {
			return closeStore()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.docchat/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the full pipeline from configuration. The chat
// service is constructed lazily by commands that need generation so
// that ingest-only invocations never touch the LLM backend.
func initServices() error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("config loaded from %s", path)

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	closeStore = store.Close

	split := splitter.New(
		splitter.WithChunkSize(cfg.Chunking.Size),
		splitter.WithOverlap(cfg.Chunking.Overlap),
	)
	registry = loaders.NewRegistry()

	indexService = services.NewIndexService(embedder, store)
	ingestService = services.NewIngestService(registry, split, indexService)
	return nil
}

// chatService constructs the RAG service on demand. Construction probes
// the generation backend, which is unwanted for ingest-only commands.
func chatService() driving.Chatter {
	if ragService == nil {
		llm := llmollama.New(llmollama.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		})
		ragService = services.NewRAGService(indexService, llm)
	}
	return ragService
}

func buildEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedollama.New(embedollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	case "hash":
		return embedhash.New(cfg.Embedding.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func buildStore(cfg *config.Config) (driven.VectorStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		return sqlite.NewStore(cfg.Storage.DataDir, cfg.Storage.Collection)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
