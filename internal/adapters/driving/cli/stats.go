package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := indexService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	cmd.Printf("Chunks indexed:  %d\n", stats.TotalChunks)
	cmd.Printf("Embedding model: %s\n", stats.EmbeddingModel)
	cmd.Printf("Storage backend: %s\n", stats.Backend)
	if stats.Backend == "sqlite" && cfg.Storage.DataDir != "" {
		cmd.Printf("Data directory:  %s\n", cfg.Storage.DataDir)
	}
	return nil
}
