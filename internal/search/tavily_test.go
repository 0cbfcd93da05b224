package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Codeblockz/chase-source/internal/cache"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, store cache.Cache) (*TavilyClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTavilyClient(Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		MaxResults:  5,
		SearchDepth: "basic",
	}, store)
	if err != nil {
		t.Fatalf("NewTavilyClient failed: %v", err)
	}
	return client, server
}

func TestSearch_ParsesResults(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq tavilyRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		_ = json.NewEncoder(w).Encode(tavilyResponse{
			Query: gotReq.Query,
			Results: []tavilyResult{
				{URL: "https://a.example/story", Title: "Story", Content: "text", Score: 0.92, PublishedDate: "2024-03-01"},
				{URL: "https://b.example/report", Title: "Report", Content: "text", Score: 0.41},
			},
		})
	}, nil)

	candidates, err := client.Search(context.Background(), "the bridge opened in 1937")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotPath != "/search" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotReq.Query != "the bridge opened in 1937" || gotReq.SearchDepth != "basic" || gotReq.MaxResults != 5 {
		t.Errorf("unexpected request body: %+v", gotReq)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].URL != "https://a.example/story" || candidates[0].Score != 0.92 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[0].PublishedDate != "2024-03-01" {
		t.Errorf("published date not carried: %+v", candidates[0])
	}
}

func TestSearch_DropsMalformedURLs(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tavilyResponse{
			Results: []tavilyResult{
				{URL: "https://good.example/a", Title: "ok", Score: 0.8},
				{URL: "not a url", Title: "bad", Score: 0.9},
				{URL: "ftp://wrong.example/scheme", Title: "bad scheme", Score: 0.9},
				{URL: "", Title: "empty", Score: 0.9},
			},
		})
	}, nil)

	candidates, err := client.Search(context.Background(), "query")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].URL != "https://good.example/a" {
		t.Errorf("malformed URLs must be dropped, got %+v", candidates)
	}
}

func TestSearch_ClampsScores(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tavilyResponse{
			Results: []tavilyResult{
				{URL: "https://a.example", Score: 1.4},
				{URL: "https://b.example", Score: -0.2},
			},
		})
	}, nil)

	candidates, err := client.Search(context.Background(), "query")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if candidates[0].Score != 1 || candidates[1].Score != 0 {
		t.Errorf("scores must be clamped to [0,1], got %v and %v", candidates[0].Score, candidates[1].Score)
	}
}

func TestSearch_CacheHitSkipsHTTP(t *testing.T) {
	calls := 0
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(tavilyResponse{
			Results: []tavilyResult{{URL: "https://a.example", Title: "A", Score: 0.9}},
		})
	}, store)

	for i := 0; i < 3; i++ {
		candidates, err := client.Search(context.Background(), "repeated query")
		if err != nil {
			t.Fatalf("Search %d failed: %v", i, err)
		}
		if len(candidates) != 1 {
			t.Fatalf("Search %d: expected 1 candidate, got %d", i, len(candidates))
		}
	}

	if calls != 1 {
		t.Errorf("expected exactly 1 HTTP call, got %d", calls)
	}
}

func TestSearch_APIErrorSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail": {"error": "rate limit exceeded"}}`))
	}, nil)

	_, err := client.Search(context.Background(), "query")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error should carry status and API detail: %v", err)
	}
}

func TestNewTavilyClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewTavilyClient(Config{}, nil); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/path", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"example.com/no-scheme", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validURL(tt.url); got != tt.want {
			t.Errorf("validURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
