package collab

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Codeblockz/chase-source/internal/llm"
	"github.com/Codeblockz/chase-source/internal/model"
)

// scriptedProvider returns canned responses in order
type scriptedProvider struct {
	responses []string
	err       error
	requests  []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	idx := len(p.requests) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return &llm.CompletionResponse{Text: p.responses[idx], Model: "scripted"}, nil
}

func TestExtractClaim_Success(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"claim": "The Wright brothers first flew in December 1903.",
		"original_context": "Everyone knows the Wright brothers first flew in December 1903.",
		"extraction_confidence": "high",
		"extraction_failed": false
	}`}}
	client := NewClient(provider, nil)

	claim, err := client.ExtractClaim(context.Background(), "Everyone knows the Wright brothers first flew in December 1903.")
	if err != nil {
		t.Fatalf("ExtractClaim failed: %v", err)
	}

	if claim.Text != "The Wright brothers first flew in December 1903." {
		t.Errorf("unexpected claim text: %q", claim.Text)
	}
	if claim.Confidence != model.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", claim.Confidence)
	}
	if len(provider.requests) != 1 || !provider.requests[0].JSONOnly {
		t.Error("expected exactly one JSON-mode completion call")
	}
}

func TestExtractClaim_FailureReportsDiagnostic(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"extraction_failed": true,
		"extraction_notes": "no factual claims found"
	}`}}
	client := NewClient(provider, nil)

	_, err := client.ExtractClaim(context.Background(), "I love rainy days, they feel cozy.")
	if err == nil {
		t.Fatal("expected extraction error")
	}

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
	if extractionErr.Diagnostic != "no factual claims found" {
		t.Errorf("unexpected diagnostic: %q", extractionErr.Diagnostic)
	}
}

func TestExtractClaim_UnknownConfidenceDefaultsLow(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"claim": "Some claim about something verifiable.",
		"extraction_confidence": "certain"
	}`}}
	client := NewClient(provider, nil)

	claim, err := client.ExtractClaim(context.Background(), "Some text with a claim in it.")
	if err != nil {
		t.Fatalf("ExtractClaim failed: %v", err)
	}
	if claim.Confidence != model.ConfidenceLow {
		t.Errorf("expected low confidence fallback, got %s", claim.Confidence)
	}
}

func TestAssessRelevance_ParsesResponse(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"is_relevant": true,
		"relevance_score": 0.85,
		"verbatim_quote": "the committee approved the budget on March 3",
		"relevance_explanation": "Directly addresses the claim."
	}`}}
	client := NewClient(provider, nil)

	assessment, err := client.AssessRelevance(context.Background(), "The budget was approved in March.", model.Candidate{
		URL:     "https://example.com/a",
		Title:   "Budget approved",
		Content: "The committee approved the budget on March 3.",
	})
	if err != nil {
		t.Fatalf("AssessRelevance failed: %v", err)
	}

	if !assessment.IsRelevant || assessment.RelevanceScore != 0.85 {
		t.Errorf("unexpected assessment: %+v", assessment)
	}
	if assessment.VerbatimQuote == "" {
		t.Error("expected a verbatim quote")
	}
}

func TestAssessRelevance_RejectsOutOfRangeScore(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"is_relevant": true,
		"relevance_score": 1.7,
		"verbatim_quote": "quote",
		"relevance_explanation": "x"
	}`}}
	client := NewClient(provider, nil)

	_, err := client.AssessRelevance(context.Background(), "claim", model.Candidate{URL: "https://example.com"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClassifySource_UnknownTypeDefaults(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"source_type": "tertiary",
		"reasoning": "Hard to tell."
	}`}}
	client := NewClient(provider, nil)

	classification, err := client.ClassifySource(context.Background(), model.Candidate{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("ClassifySource failed: %v", err)
	}
	if classification.SourceType != model.SourceUnknown {
		t.Errorf("expected unknown for unrecognized type, got %s", classification.SourceType)
	}
}

func TestClassifyRelation_RejectsUnknownRelation(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"attribution": "supports",
		"reasoning": "close enough"
	}`}}
	client := NewClient(provider, nil)

	_, err := client.ClassifyRelation(context.Background(), "claim", model.Evidence{SourceURL: "https://example.com"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestSynthesize_TruncatesLongSummary(t *testing.T) {
	long := strings.Repeat("a", model.MaxSummaryLen+100)
	provider := &scriptedProvider{responses: []string{`{
		"attribution": "direct",
		"summary": "` + long + `",
		"relies_on_secondary_only": true
	}`}}
	client := NewClient(provider, nil)

	result, err := client.Synthesize(context.Background(), "claim", []model.EvidenceAssessment{
		{Evidence: model.Evidence{SourceTitle: "T"}, Relation: model.RelationDirect},
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if result.Category != model.CategoryDirect {
		t.Errorf("expected direct, got %s", result.Category)
	}
	if len(result.Summary) != model.MaxSummaryLen {
		t.Errorf("expected summary truncated to %d chars, got %d", model.MaxSummaryLen, len(result.Summary))
	}
	if !result.SecondaryOnlyHint {
		t.Error("expected secondary-only hint to be carried")
	}
}

func TestDecodeJSON_ToleratesCodeFences(t *testing.T) {
	var out struct {
		A string `json:"a"`
	}

	fenced := "```json\n{\"a\": \"b\"}\n```"
	if err := decodeJSON(fenced, &out); err != nil {
		t.Fatalf("decodeJSON failed on fenced input: %v", err)
	}
	if out.A != "b" {
		t.Errorf("unexpected value: %q", out.A)
	}

	if err := decodeJSON("not json at all", &out); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_PropagatesProviderErrors(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	client := NewClient(provider, nil)

	if _, err := client.ExtractClaim(context.Background(), "some input text here"); err == nil {
		t.Error("expected error from ExtractClaim")
	}
	if _, err := client.Synthesize(context.Background(), "c", nil); err == nil {
		t.Error("expected error from Synthesize")
	}
}
