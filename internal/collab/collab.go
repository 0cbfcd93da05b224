// Package collab implements the generative collaborators the attribution
// pipeline depends on: claim extraction, relevance assessment, source
// classification, relation classification, and attribution synthesis.
// Each call is one structured-JSON completion against the configured provider.
package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Codeblockz/chase-source/internal/llm"
)

// ErrMalformedResponse marks a collaborator reply that could not be parsed
// or failed basic shape validation
var ErrMalformedResponse = errors.New("malformed collaborator response")

// Client issues collaborator calls through an LLM provider.
// An optional rate limiter throttles all calls to match provider limits.
type Client struct {
	provider llm.Provider
	limiter  *rate.Limiter
}

// NewClient creates a collaborator client. limiter may be nil.
func NewClient(provider llm.Provider, limiter *rate.Limiter) *Client {
	return &Client{
		provider: provider,
		limiter:  limiter,
	}
}

// complete runs one JSON-mode completion, waiting for rate limit clearance first
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:   system,
		User:     user,
		JSONOnly: true,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// decodeJSON parses a collaborator reply into v, tolerating markdown code fences
func decodeJSON(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
