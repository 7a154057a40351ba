package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

var (
	askTopK    int
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Retrieves the most relevant chunks from the index and asks the
configured Ollama model to answer using only that context.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askSources, "sources", true, "show the retrieved sources")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	if query == "" {
		return errors.New("question must not be empty")
	}

	k := askTopK
	if k <= 0 {
		k = cfg.Retrieval.TopK
	}

	resp := chatService().Chat(context.Background(), query, k)
	printChatResponse(cmd, resp)

	if !resp.Success {
		return fmt.Errorf("ask failed: %s", resp.ErrorMessage)
	}
	return nil
}

func printChatResponse(cmd *cobra.Command, resp *domain.ChatResponse) {
	cmd.Println(resp.Answer)

	if askSources && len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range resp.Sources {
			cmd.Printf("  [%d] %s (similarity %.3f)\n",
				src.Rank, src.Metadata[domain.MetaSourceFile], src.Similarity)
		}
	}

	if logger.IsVerbose() {
		cmd.Println()
		cmd.Printf("Retrieval: %s  Generation: %s  Total: %s  Model: %s\n",
			resp.RetrievalTime.Round(timePrecision),
			resp.GenerationTime.Round(timePrecision),
			resp.TotalTime.Round(timePrecision),
			resp.ModelUsed)
	}
}
