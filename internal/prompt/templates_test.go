package prompt

import (
	"strings"
	"testing"

	"github.com/Codeblockz/chase-source/internal/model"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("Truncate must not touch short strings, got %q", got)
	}
	if got := Truncate(strings.Repeat("x", 50), 10); len(got) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(got))
	}
}

func TestRelevanceUser_TruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 10000)
	msg := RelevanceUser("the claim", "https://example.com", "Title", long)
	if len(msg) > 4000 {
		t.Errorf("relevance prompt too long: %d bytes", len(msg))
	}
	if !strings.Contains(msg, "the claim") || !strings.Contains(msg, "https://example.com") {
		t.Error("relevance prompt must carry claim and URL")
	}
}

func TestFormatAssessments(t *testing.T) {
	if got := FormatAssessments(nil); got != "No relevant sources found." {
		t.Errorf("unexpected empty rendering: %q", got)
	}

	assessments := []model.EvidenceAssessment{
		{
			Evidence: model.Evidence{
				SourceTitle:   "Official filing",
				SourceType:    model.SourcePrimary,
				VerbatimQuote: "the merger closed on April 2",
			},
			Relation:  model.RelationDirect,
			Reasoning: "States the claim.",
		},
		{
			Evidence: model.Evidence{
				SourceTitle: "Blog rewrite",
				SourceType:  model.SourceSecondary,
			},
			Relation: model.RelationParaphrase,
		},
	}

	got := FormatAssessments(assessments)
	if !strings.Contains(got, "Source 1:") || !strings.Contains(got, "Source 2:") {
		t.Errorf("assessments must be numbered: %q", got)
	}
	if !strings.Contains(got, "Official filing") || !strings.Contains(got, "direct") {
		t.Errorf("assessment fields missing: %q", got)
	}
}

func TestUserPrompts_EndWithJSONInstruction(t *testing.T) {
	prompts := map[string]string{
		"extraction":     ClaimExtractionUser("some input"),
		"classification": SourceClassificationUser("https://a.example", "T", "content"),
		"relevance":      RelevanceUser("claim", "https://a.example", "T", "content"),
		"relation":       RelationUser("claim", model.Evidence{SourceURL: "https://a.example"}),
		"synthesis":      SynthesisUser("claim", nil),
	}
	for name, p := range prompts {
		if !strings.Contains(p, "JSON") {
			t.Errorf("%s prompt must demand JSON output", name)
		}
	}
}
