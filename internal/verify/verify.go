// Package verify checks that collaborator-supplied verbatim quotes actually
// appear in the source material, so hallucinated quotes never become evidence.
package verify

import (
	"context"
	"strings"
	"time"

	"github.com/Codeblockz/chase-source/internal/cache"
	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/util"
	"github.com/Codeblockz/chase-source/internal/worker"
)

// Verifier validates quotes against search result content and, optionally,
// against a fresh fetch of the source page
type Verifier struct {
	minOverlap float64
	fetchPages bool

	fetcher *Fetcher
	robots  *util.RobotsChecker
	limiter *worker.Limiter
	pages   cache.Cache
}

// Config holds verifier configuration
type Config struct {
	MinOverlap   float64 // Accepted token overlap, 0..1
	FetchPages   bool    // Re-fetch the source page when snippet content is inconclusive
	UserAgent    string
	FetchTimeout time.Duration
	MaxBodyBytes int64
	RateLimit    float64 // Requests per second per domain
	HTTPProxy    string
	HTTPSProxy   string
	NoProxy      string
}

// New creates a Verifier. store may be nil to disable page caching.
func New(cfg Config, store cache.Cache) *Verifier {
	minOverlap := cfg.MinOverlap
	if minOverlap <= 0 || minOverlap > 1 {
		minOverlap = 0.6
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1.0
	}

	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes == 0 {
		maxBytes = 2_000_000
	}

	return &Verifier{
		minOverlap: minOverlap,
		fetchPages: cfg.FetchPages,
		fetcher:    NewFetcher(timeout, cfg.UserAgent, maxBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		robots:     util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), timeout),
		limiter:    worker.NewLimiter(rateLimit, 2),
		pages:      store,
	}
}

// QuoteInCandidate reports whether the quote plausibly appears in the
// candidate's retrieved content. When snippet content is inconclusive and
// page fetching is enabled, the source page itself is consulted.
func (v *Verifier) QuoteInCandidate(ctx context.Context, quote string, cand model.Candidate) bool {
	if strings.TrimSpace(quote) == "" {
		return false
	}

	source := cand.RawContent
	if source == "" {
		source = cand.Content
	}

	if QuoteInText(quote, source, v.minOverlap) {
		return true
	}

	if !v.fetchPages {
		return false
	}

	pageText, ok := v.fetchPage(ctx, cand.URL)
	if !ok {
		return false
	}
	return QuoteInText(quote, pageText, v.minOverlap)
}

// fetchPage retrieves visible page text through robots checks, the per-domain
// rate limiter, and the page cache
func (v *Verifier) fetchPage(ctx context.Context, rawURL string) (string, bool) {
	key := cache.Key("page:" + rawURL)
	if v.pages != nil {
		if body, found := v.pages.Get(key); found {
			return string(body), true
		}
	}

	allowed, crawlDelay, err := v.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		return "", false
	}

	if err := v.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return "", false
	}

	text, err := v.fetcher.FetchText(ctx, rawURL)
	if err != nil {
		return "", false
	}

	if v.pages != nil {
		_ = v.pages.Set(key, []byte(text), 0)
	}
	return text, true
}

// QuoteInText reports whether the quote appears in text, either as an exact
// (case-insensitive) substring or with at least minOverlap of its tokens
// present, allowing minor wording differences.
func QuoteInText(quote, text string, minOverlap float64) bool {
	normalizedQuote := strings.ToLower(strings.TrimSpace(quote))
	normalizedText := strings.ToLower(text)

	if normalizedQuote == "" || normalizedText == "" {
		return false
	}

	if strings.Contains(normalizedText, normalizedQuote) {
		return true
	}

	quoteTokens := strings.Fields(normalizedQuote)
	if len(quoteTokens) == 0 {
		return false
	}

	textTokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalizedText) {
		textTokens[strings.Trim(tok, ".,;:!?\"'()[]")] = true
	}

	matched := 0
	for _, tok := range quoteTokens {
		if textTokens[strings.Trim(tok, ".,;:!?\"'()[]")] {
			matched++
		}
	}

	return float64(matched)/float64(len(quoteTokens)) >= minOverlap
}
