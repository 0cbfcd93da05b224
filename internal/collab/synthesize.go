package collab

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/prompt"
)

// SynthesisResult is the assembler's overall verdict across all assessments
type SynthesisResult struct {
	Category          model.Category
	Summary           string
	SecondaryOnlyHint bool
}

type synthesisResponse struct {
	Attribution           string `json:"attribution"`
	Summary               string `json:"summary"`
	ReliesOnSecondaryOnly bool   `json:"relies_on_secondary_only"`
}

// Synthesize asks the collaborator for the final attribution category and a
// short human-readable summary across all source assessments
func (c *Client) Synthesize(ctx context.Context, claim string, assessments []model.EvidenceAssessment) (*SynthesisResult, error) {
	user := prompt.SynthesisUser(claim, assessments)
	text, err := c.complete(ctx, prompt.SynthesisSystem, user)
	if err != nil {
		return nil, fmt.Errorf("attribution synthesis: %w", err)
	}

	var resp synthesisResponse
	if err := decodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("attribution synthesis: %w", err)
	}

	summary := resp.Summary
	if len(summary) > model.MaxSummaryLen {
		summary = summary[:model.MaxSummaryLen]
	}

	return &SynthesisResult{
		Category:          model.ParseCategory(resp.Attribution),
		Summary:           summary,
		SecondaryOnlyHint: resp.ReliesOnSecondaryOnly,
	}, nil
}
