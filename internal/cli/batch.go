package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Codeblockz/chase-source/internal/pipeline"
	"github.com/Codeblockz/chase-source/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run attribution checks for multiple texts from a file",
	Long: `Batch runs the attribution pipeline over multiple inputs:
- Read input texts from a file (one per line, # comments skipped)
- Run pipelines concurrently with a configurable worker count
- Write one JSON result per input into the output directory

Example:
  chase-source batch claims.txt
  chase-source batch claims.txt --workers 4 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 2, "number of concurrent pipeline runs")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./chase-source-results", "output directory for JSON results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")

	// Per-run flags shared with check
	batchCmd.Flags().DurationVar(&runTimeout, "run-timeout", pipeline.DefaultTimeout, "wall-clock budget per run")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search/page cache")
	batchCmd.Flags().BoolVar(&verifyPages, "verify-pages", false, "re-fetch source pages to verify quotes")
	batchCmd.Flags().StringVar(&searchDepth, "search-depth", "advanced", "search depth (basic or advanced)")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 10, "maximum search results to consider")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	inputs, err := readInputs(file)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs found in %s", file)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = batchWorkers

	ctrl, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processing %d inputs with %d workers...\n\n", len(inputs), batchWorkers)

	runs := make([]*pipeline.RunContext, len(inputs))
	worker.Map(ctx, len(inputs), batchWorkers, func(ctx context.Context, i int) {
		runs[i] = ctrl.Run(ctx, inputs[i])
	})

	successCount := 0
	notFoundCount := 0

	for i, rc := range runs {
		if rc == nil || rc.Result == nil {
			// Only happens when the batch context was cancelled before start
			fmt.Fprintf(os.Stderr, "✗ input %d: cancelled\n", i+1)
			continue
		}

		path := filepath.Join(outputDir, fmt.Sprintf("result-%03d.json", i+1))
		if err := writeJSON(path, rc.Result); err != nil {
			fmt.Fprintf(os.Stderr, "✗ input %d: write result: %v\n", i+1, err)
			continue
		}

		successCount++
		if rc.Result.Category == "not_found" {
			notFoundCount++
		}
		fmt.Fprintf(os.Stderr, "✓ input %d: %s (%s)\n", i+1, truncateForLog(rc.Result.Claim), rc.Result.Category)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d/%d succeeded, %d not_found, output in %s\n",
		successCount, len(inputs), notFoundCount, outputDir)

	return nil
}

// readInputs reads input texts from a file, one per line
func readInputs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var inputs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}

func truncateForLog(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
