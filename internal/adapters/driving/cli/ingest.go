package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/services"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Index documents into the local vector store",
	Long: `Loads each file, splits it into overlapping chunks, embeds the
chunks and stores them. Directories are walked recursively; files with
unsupported extensions are skipped with a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no supported documents found")
	}

	var chunks []domain.Chunk
	for _, path := range files {
		fileChunks, err := ingestService.ProcessFile(ctx, path)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				cmd.Printf("Skipping %s: unsupported format\n", path)
				continue
			}
			return fmt.Errorf("processing %s: %w", path, err)
		}
		if len(fileChunks) == 0 {
			cmd.Printf("Skipping %s: no extractable text\n", path)
			continue
		}
		chunks = append(chunks, fileChunks...)
	}

	if len(chunks) == 0 {
		cmd.Println("Nothing to index.")
		return nil
	}

	if logger.IsVerbose() {
		cmd.Printf("Processed: %s\n", services.Summarize(chunks))
	}

	report, err := ingestService.AddDocuments(ctx, chunks)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks in %s (embedding %s, storage %s)\n",
		report.ChunksAdded,
		report.TotalTime.Round(timePrecision),
		report.EmbeddingTime.Round(timePrecision),
		report.StorageTime.Round(timePrecision))
	cmd.Printf("Index now holds %d chunks.\n", report.IndexSize)
	return nil
}

// collectFiles expands the argument list, walking directories for files
// with supported extensions. Explicitly named files are kept as-is so
// that unsupported ones produce a visible skip message.
func collectFiles(args []string) ([]string, error) {
	supported := make(map[string]bool)
	for _, ext := range registry.Extensions() {
		supported[ext] = true
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && supported[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
