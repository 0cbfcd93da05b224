package collab

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/prompt"
)

// ExtractionError reports that no verifiable claim could be extracted.
// Diagnostic carries the extractor's explanation for the caller to surface.
type ExtractionError struct {
	Diagnostic string
}

func (e *ExtractionError) Error() string {
	return e.Diagnostic
}

type claimResponse struct {
	Claim                string `json:"claim"`
	OriginalContext      string `json:"original_context"`
	ExtractionConfidence string `json:"extraction_confidence"`
	ExtractionNotes      string `json:"extraction_notes"`
	ExtractionFailed     bool   `json:"extraction_failed"`
}

// ExtractClaim pulls one verifiable factual claim out of free-form input text.
// When the text contains no such claim, the returned error is an *ExtractionError.
func (c *Client) ExtractClaim(ctx context.Context, inputText string) (*model.Claim, error) {
	text, err := c.complete(ctx, prompt.ClaimExtractionSystem, prompt.ClaimExtractionUser(inputText))
	if err != nil {
		return nil, fmt.Errorf("claim extraction: %w", err)
	}

	var resp claimResponse
	if err := decodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("claim extraction: %w", err)
	}

	if resp.ExtractionFailed || resp.Claim == "" {
		diagnostic := resp.ExtractionNotes
		if diagnostic == "" {
			diagnostic = "Could not extract a verifiable factual claim from the input."
		}
		return nil, &ExtractionError{Diagnostic: diagnostic}
	}

	confidence := model.Confidence(resp.ExtractionConfidence)
	switch confidence {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
	default:
		confidence = model.ConfidenceLow
	}

	return &model.Claim{
		Text:            resp.Claim,
		Confidence:      confidence,
		OriginalContext: resp.OriginalContext,
		Notes:           resp.ExtractionNotes,
	}, nil
}
