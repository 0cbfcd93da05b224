package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON     string
	runTimeout  time.Duration
	llmProvider string
	llmModel    string
	noCache     bool
	verifyPages bool
	searchDepth string
	maxResults  int
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Trace one claim from the given text back to its sources",
	Long: `Check runs the full attribution pipeline on a piece of text:
- Extract one verifiable factual claim
- Retrieve candidate sources via web search
- Filter candidates for relevance with verbatim quotes
- Classify each source and its relationship to the claim
- Synthesize an attribution verdict with the best available source

Example:
  chase-source check "The Wright brothers first flew in December 1903."
  chase-source check "..." --json result.json
  chase-source check "..." --llm-provider anthropic --verify-pages`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the full result to this JSON path")
	checkCmd.Flags().DurationVar(&runTimeout, "timeout", pipeline.DefaultTimeout, "wall-clock budget for the run")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search/page cache")
	checkCmd.Flags().BoolVar(&verifyPages, "verify-pages", false, "re-fetch source pages to verify quotes")
	checkCmd.Flags().StringVar(&searchDepth, "search-depth", "advanced", "search depth (basic or advanced)")
	checkCmd.Flags().IntVar(&maxResults, "max-results", 10, "maximum search results to consider")
}

func runCheck(cmd *cobra.Command, args []string) error {
	inputText := strings.TrimSpace(args[0])
	if len(inputText) < 10 {
		return fmt.Errorf("input text too short (need at least 10 characters)")
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctrl, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", cfg.Pipeline.Timeout)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	rc := ctrl.Run(context.Background(), inputText)

	if verbose {
		for _, diag := range rc.Errors {
			fmt.Fprintf(os.Stderr, "warning: %s\n", diag)
		}
	}

	renderResult(os.Stdout, rc)

	if outJSON != "" {
		if err := writeJSON(outJSON, rc.Result); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	return nil
}

// buildConfig merges defaults, the config file, environment, and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config file overrides defaults
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	// Flags override the config file
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.Pipeline.Timeout = runTimeout
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Verify.FetchPages = cfg.Verify.FetchPages || verifyPages
	cfg.Search.SearchDepth = searchDepth
	cfg.Search.MaxResults = maxResults
	cfg.Output.Verbose = verbose

	// API keys come from the environment, never from config files
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	cfg.Search.APIKey = os.Getenv("TAVILY_API_KEY")
	if cfg.Search.APIKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY environment variable not set")
	}

	return cfg, nil
}
