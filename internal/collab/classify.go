package collab

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/prompt"
)

// SourceClassification is the classifier's verdict on where a source sits
// in the reporting chain
type SourceClassification struct {
	SourceType model.SourceType
	Reasoning  string
}

type classificationResponse struct {
	SourceType string `json:"source_type"`
	Reasoning  string `json:"reasoning"`
}

// ClassifySource asks the collaborator whether a candidate is a primary,
// original-reporting, or secondary source
func (c *Client) ClassifySource(ctx context.Context, cand model.Candidate) (*SourceClassification, error) {
	user := prompt.SourceClassificationUser(cand.URL, cand.Title, cand.Content)
	text, err := c.complete(ctx, prompt.SourceClassificationSystem, user)
	if err != nil {
		return nil, fmt.Errorf("source classification: %w", err)
	}

	var resp classificationResponse
	if err := decodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("source classification: %w", err)
	}

	return &SourceClassification{
		SourceType: model.ParseSourceType(resp.SourceType),
		Reasoning:  resp.Reasoning,
	}, nil
}
