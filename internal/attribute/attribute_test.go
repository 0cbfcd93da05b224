package attribute

import (
	"context"
	"errors"
	"testing"

	"github.com/Codeblockz/chase-source/internal/collab"
	"github.com/Codeblockz/chase-source/internal/model"
)

type fakeSynthesizer struct {
	result *collab.SynthesisResult
	err    error
	calls  int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, claim string, assessments []model.EvidenceAssessment) (*collab.SynthesisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func assessment(url string, st model.SourceType, rel model.Relation, score float64) model.EvidenceAssessment {
	return model.EvidenceAssessment{
		Evidence: model.Evidence{
			SourceURL:      url,
			SourceTitle:    url,
			SourceType:     st,
			VerbatimQuote:  "a quote long enough to count",
			RelevanceScore: score,
		},
		Relation: rel,
	}
}

func TestAssemble_EmptyEvidenceShortCircuits(t *testing.T) {
	synth := &fakeSynthesizer{}
	assembler := New(synth)

	result, diags := assembler.Assemble(context.Background(), "the claim", nil)

	if result.Category != model.CategoryNotFound {
		t.Errorf("expected not_found, got %s", result.Category)
	}
	if result.Summary != NoSourcesSummary {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.EvidenceList == nil || len(result.EvidenceList) != 0 {
		t.Error("expected empty non-nil evidence list")
	}
	if result.BestSource != nil {
		t.Error("expected nil best source")
	}
	if result.ReliesOnSecondaryOnly {
		t.Error("secondary-only must be false with no evidence")
	}
	if synth.calls != 0 {
		t.Error("synthesizer must not run on empty evidence")
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestAssemble_UsesSynthesisVerdict(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{
		Category: model.CategoryDirect,
		Summary:  "Two sources state the claim directly.",
	}}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourcePrimary, model.RelationDirect, 0.9),
		assessment("https://b.example", model.SourceSecondary, model.RelationParaphrase, 0.6),
	}

	result, diags := assembler.Assemble(context.Background(), "the claim", assessments)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if result.Category != model.CategoryDirect {
		t.Errorf("expected direct, got %s", result.Category)
	}
	if result.Summary != "Two sources state the claim directly." {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.ReliesOnSecondaryOnly {
		t.Error("primary source present, secondary-only must be false")
	}
}

func TestAssemble_TruncatesToMaxEvidence(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryDirect, Summary: "ok"}}
	assembler := New(synth)

	var assessments []model.EvidenceAssessment
	for i := 0; i < model.MaxEvidence+3; i++ {
		assessments = append(assessments, assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8))
	}

	result, _ := assembler.Assemble(context.Background(), "the claim", assessments)
	if len(result.EvidenceList) != model.MaxEvidence {
		t.Errorf("expected %d evidence items, got %d", model.MaxEvidence, len(result.EvidenceList))
	}
}

func TestAssemble_BestSourcePrefersTypeThenRelation(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryDirect, Summary: "ok"}}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://secondary-direct.example", model.SourceSecondary, model.RelationDirect, 0.95),
		assessment("https://primary-contra.example", model.SourcePrimary, model.RelationContradiction, 0.5),
		assessment("https://primary-direct.example", model.SourcePrimary, model.RelationDirect, 0.4),
	}

	result, _ := assembler.Assemble(context.Background(), "the claim", assessments)
	if result.BestSource == nil {
		t.Fatal("expected a best source")
	}
	if result.BestSource.Evidence.SourceURL != "https://primary-direct.example" {
		t.Errorf("wrong best source: %s", result.BestSource.Evidence.SourceURL)
	}
}

func TestAssemble_BestSourceTieBreaksOnOrder(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryDirect, Summary: "ok"}}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://first.example", model.SourcePrimary, model.RelationDirect, 0.7),
		assessment("https://second.example", model.SourcePrimary, model.RelationDirect, 0.9),
	}

	result, _ := assembler.Assemble(context.Background(), "the claim", assessments)
	if result.BestSource.Evidence.SourceURL != "https://first.example" {
		t.Errorf("expected first assessment to win the tie, got %s", result.BestSource.Evidence.SourceURL)
	}
}

func TestAssemble_BestSourceAliasesEvidenceList(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryDirect, Summary: "ok"}}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8),
		assessment("https://b.example", model.SourcePrimary, model.RelationDirect, 0.8),
	}

	result, _ := assembler.Assemble(context.Background(), "the claim", assessments)
	if result.BestSource != &result.EvidenceList[1] {
		t.Error("best source must point into the evidence list")
	}
}

func TestAssemble_SecondaryOnlyConjunction(t *testing.T) {
	tests := []struct {
		name        string
		assessments []model.EvidenceAssessment
		want        bool
	}{
		{
			name: "all secondary",
			assessments: []model.EvidenceAssessment{
				assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8),
				assessment("https://b.example", model.SourceSecondary, model.RelationParaphrase, 0.7),
			},
			want: true,
		},
		{
			name: "one primary among secondaries",
			assessments: []model.EvidenceAssessment{
				assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8),
				assessment("https://b.example", model.SourcePrimary, model.RelationDirect, 0.7),
			},
			want: false,
		},
		{
			name: "unknown type breaks the conjunction",
			assessments: []model.EvidenceAssessment{
				assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8),
				assessment("https://b.example", model.SourceUnknown, model.RelationDirect, 0.7),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryDirect, Summary: "ok"}}
			result, _ := New(synth).Assemble(context.Background(), "the claim", tt.assessments)
			if result.ReliesOnSecondaryOnly != tt.want {
				t.Errorf("secondary-only = %v, want %v", result.ReliesOnSecondaryOnly, tt.want)
			}
		})
	}
}

func TestAssemble_HintRaisesButNeverClearsSecondaryOnly(t *testing.T) {
	// Hint raises the flag when the structural rule alone would not
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{
		Category:          model.CategoryDirect,
		Summary:           "ok",
		SecondaryOnlyHint: true,
	}}
	mixed := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourcePrimary, model.RelationDirect, 0.8),
	}
	result, _ := New(synth).Assemble(context.Background(), "the claim", mixed)
	if !result.ReliesOnSecondaryOnly {
		t.Error("hint should raise the secondary-only flag")
	}

	// Hint false cannot clear a structurally true flag
	synth = &fakeSynthesizer{result: &collab.SynthesisResult{
		Category:          model.CategoryDirect,
		Summary:           "ok",
		SecondaryOnlyHint: false,
	}}
	allSecondary := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourceSecondary, model.RelationDirect, 0.8),
	}
	result, _ = New(synth).Assemble(context.Background(), "the claim", allSecondary)
	if !result.ReliesOnSecondaryOnly {
		t.Error("hint must not clear a structurally true secondary-only flag")
	}
}

func TestAssemble_SynthesisFailureFallsBack(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("provider timeout")}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourceSecondary, model.RelationParaphrase, 0.8),
		assessment("https://b.example", model.SourceSecondary, model.RelationContradiction, 0.7),
	}

	result, diags := assembler.Assemble(context.Background(), "the claim", assessments)
	if result.Category != model.CategoryContradiction {
		t.Errorf("expected fallback contradiction, got %s", result.Category)
	}
	if result.Summary != SynthesisFailedSummary {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %v", diags)
	}
	if result.BestSource == nil || len(result.EvidenceList) != 2 {
		t.Error("evidence and best source must survive a synthesis failure")
	}
}

func TestFallbackCategory(t *testing.T) {
	tests := []struct {
		name      string
		relations []model.Relation
		want      model.Category
	}{
		{"empty", nil, model.CategoryNotFound},
		{"contradiction beats direct", []model.Relation{model.RelationDirect, model.RelationContradiction}, model.CategoryContradiction},
		{"direct beats paraphrase", []model.Relation{model.RelationParaphrase, model.RelationDirect}, model.CategoryDirect},
		{"paraphrase only", []model.Relation{model.RelationParaphrase, model.RelationParaphrase}, model.CategoryParaphrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var assessments []model.EvidenceAssessment
			for _, r := range tt.relations {
				assessments = append(assessments, assessment("https://x.example", model.SourceSecondary, r, 0.5))
			}
			if got := FallbackCategory(assessments); got != tt.want {
				t.Errorf("FallbackCategory = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	synth := &fakeSynthesizer{result: &collab.SynthesisResult{Category: model.CategoryParaphrase, Summary: "stable"}}
	assembler := New(synth)

	assessments := []model.EvidenceAssessment{
		assessment("https://a.example", model.SourceOriginalReporting, model.RelationParaphrase, 0.8),
	}

	first, _ := assembler.Assemble(context.Background(), "the claim", assessments)
	second, _ := assembler.Assemble(context.Background(), "the claim", assessments)

	if first.Category != second.Category || first.Summary != second.Summary ||
		first.ReliesOnSecondaryOnly != second.ReliesOnSecondaryOnly ||
		len(first.EvidenceList) != len(second.EvidenceList) {
		t.Error("assembling the same inputs twice must produce the same attribution")
	}
}
