// Package search retrieves candidate documents for a claim from the
// Tavily search API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Codeblockz/chase-source/internal/cache"
	"github.com/Codeblockz/chase-source/internal/model"
)

// Searcher retrieves candidate sources for a claim
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

// TavilyClient implements Searcher against the Tavily REST API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache

	maxResults  int
	searchDepth string
	rawContent  bool
}

// Config holds search client configuration
type Config struct {
	APIKey      string
	BaseURL     string
	MaxResults  int
	SearchDepth string // "basic" or "advanced"
	RawContent  bool
	Timeout     int // seconds
}

// Tavily API structures
type tavilyRequest struct {
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth,omitempty"`
	MaxResults        int    `json:"max_results,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

type tavilyResult struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
	RawContent    string  `json:"raw_content"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// NewTavilyClient creates a Tavily search client. store may be nil to
// disable response caching.
func NewTavilyClient(config Config, store cache.Cache) (*TavilyClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	depth := config.SearchDepth
	if depth == "" {
		depth = "advanced"
	}

	return &TavilyClient{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:       store,
		maxResults:  maxResults,
		searchDepth: depth,
		rawContent:  config.RawContent,
	}, nil
}

// Search retrieves candidates for the query. Results with unparsable URLs
// are dropped before they reach the relevance filter.
func (t *TavilyClient) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	body, ok := t.cachedResponse(query)
	if !ok {
		var err error
		body, err = t.makeRequest(ctx, tavilyRequest{
			Query:             query,
			SearchDepth:       t.searchDepth,
			MaxResults:        t.maxResults,
			IncludeRawContent: t.rawContent,
		})
		if err != nil {
			return nil, err
		}
		t.storeResponse(query, body)
	}

	var resp tavilyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		if !validURL(r.URL) {
			fmt.Fprintf(os.Stderr, "Skipping malformed search result URL: %q\n", r.URL)
			continue
		}

		score := r.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		candidates = append(candidates, model.Candidate{
			URL:           r.URL,
			Title:         r.Title,
			Content:       r.Content,
			Score:         score,
			PublishedDate: r.PublishedDate,
			RawContent:    r.RawContent,
		})
	}

	return candidates, nil
}

// makeRequest posts the search request to the Tavily API
func (t *TavilyClient) makeRequest(ctx context.Context, apiReq tavilyRequest) ([]byte, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/search", t.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr tavilyError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Detail.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Detail.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (t *TavilyClient) cacheKey(query string) string {
	return cache.Key(fmt.Sprintf("search:%s:%d:%s", t.searchDepth, t.maxResults, query))
}

func (t *TavilyClient) cachedResponse(query string) ([]byte, bool) {
	if t.cache == nil {
		return nil, false
	}
	return t.cache.Get(t.cacheKey(query))
}

func (t *TavilyClient) storeResponse(query string, body []byte) {
	if t.cache == nil {
		return
	}
	_ = t.cache.Set(t.cacheKey(query), body, 0)
}

// validURL accepts only absolute http(s) URLs with a host
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
