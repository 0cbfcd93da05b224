package collab

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/prompt"
)

// RelevanceAssessment is the relevance collaborator's verdict on one candidate
type RelevanceAssessment struct {
	IsRelevant           bool    `json:"is_relevant"`
	RelevanceScore       float64 `json:"relevance_score"`
	VerbatimQuote        string  `json:"verbatim_quote"`
	RelevanceExplanation string  `json:"relevance_explanation"`
}

// AssessRelevance asks the collaborator how relevant a search candidate is
// to the claim, and for a verbatim supporting quote
func (c *Client) AssessRelevance(ctx context.Context, claim string, cand model.Candidate) (*RelevanceAssessment, error) {
	user := prompt.RelevanceUser(claim, cand.URL, cand.Title, cand.Content)
	text, err := c.complete(ctx, prompt.RelevanceSystem, user)
	if err != nil {
		return nil, fmt.Errorf("relevance assessment: %w", err)
	}

	var resp RelevanceAssessment
	if err := decodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("relevance assessment: %w", err)
	}

	if resp.RelevanceScore < 0 || resp.RelevanceScore > 1 {
		return nil, fmt.Errorf("relevance assessment: %w: score %v out of range", ErrMalformedResponse, resp.RelevanceScore)
	}

	return &resp, nil
}
