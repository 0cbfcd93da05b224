package collab

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/prompt"
)

// RelationResult is the classifier's verdict on how a quote relates to the claim
type RelationResult struct {
	Relation  model.Relation
	Reasoning string
}

type relationResponse struct {
	Attribution string `json:"attribution"`
	Reasoning   string `json:"reasoning"`
}

// ClassifyRelation asks the collaborator whether the evidence quote states,
// paraphrases, or contradicts the claim
func (c *Client) ClassifyRelation(ctx context.Context, claim string, ev model.Evidence) (*RelationResult, error) {
	text, err := c.complete(ctx, prompt.RelationSystem, prompt.RelationUser(claim, ev))
	if err != nil {
		return nil, fmt.Errorf("relation classification: %w", err)
	}

	var resp relationResponse
	if err := decodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("relation classification: %w", err)
	}

	relation := model.Relation(resp.Attribution)
	switch relation {
	case model.RelationDirect, model.RelationParaphrase, model.RelationContradiction:
	default:
		return nil, fmt.Errorf("relation classification: %w: unknown relation %q", ErrMalformedResponse, resp.Attribution)
	}

	return &RelationResult{
		Relation:  relation,
		Reasoning: resp.Reasoning,
	}, nil
}
