package pipeline

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/Codeblockz/chase-source/internal/attribute"
	"github.com/Codeblockz/chase-source/internal/cache"
	"github.com/Codeblockz/chase-source/internal/collab"
	"github.com/Codeblockz/chase-source/internal/filter"
	"github.com/Codeblockz/chase-source/internal/llm"
	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/relate"
	"github.com/Codeblockz/chase-source/internal/search"
	"github.com/Codeblockz/chase-source/internal/verify"
)

// collaboratorRate bounds LLM calls across all stages of a process.
// Matches the fan-out bounds, so workers rarely queue on it.
const collaboratorRate = 5 // requests per second

// FromConfig assembles a fully wired controller from runtime configuration
func FromConfig(cfg *model.Config) (*Controller, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(collaboratorRate), collaboratorRate)
	client := collab.NewClient(provider, limiter)

	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	searcher, err := search.NewTavilyClient(search.Config{
		APIKey:      cfg.Search.APIKey,
		BaseURL:     cfg.Search.BaseURL,
		MaxResults:  cfg.Search.MaxResults,
		SearchDepth: cfg.Search.SearchDepth,
		RawContent:  cfg.Search.RawContent,
		Timeout:     cfg.Search.Timeout,
	}, store)
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}

	verifier := verify.New(verify.Config{
		MinOverlap:   cfg.Verify.MinOverlap,
		FetchPages:   cfg.Verify.FetchPages,
		UserAgent:    cfg.Verify.UserAgent,
		FetchTimeout: cfg.Verify.FetchTimeout,
		MaxBodyBytes: cfg.Verify.MaxBodyBytes,
		RateLimit:    cfg.Verify.RateLimit,
		HTTPProxy:    cfg.LLM.HTTPProxy,
		HTTPSProxy:   cfg.LLM.HTTPSProxy,
		NoProxy:      cfg.LLM.NoProxy,
	}, store)

	return New(
		client,
		searcher,
		filter.New(client, client, verifier, cfg.Concurrency.AssessWorkers),
		relate.New(client, cfg.Concurrency.RelationWorkers),
		attribute.New(client),
		cfg.Pipeline.Timeout,
	), nil
}
