// Package filter turns raw search candidates into scored, quoted evidence.
package filter

import (
	"context"
	"fmt"
	"sort"

	"github.com/Codeblockz/chase-source/internal/collab"
	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/worker"
)

// MinRelevanceScore is the acceptance threshold for evidence
const MinRelevanceScore = 0.5

// RelevanceAssessor scores a candidate's relevance to the claim
type RelevanceAssessor interface {
	AssessRelevance(ctx context.Context, claim string, cand model.Candidate) (*collab.RelevanceAssessment, error)
}

// SourceClassifier determines a candidate's source type
type SourceClassifier interface {
	ClassifySource(ctx context.Context, cand model.Candidate) (*collab.SourceClassification, error)
}

// QuoteChecker validates that a quote appears in the candidate's content
type QuoteChecker interface {
	QuoteInCandidate(ctx context.Context, quote string, cand model.Candidate) bool
}

// Filter applies relevance assessment and source classification to candidates
type Filter struct {
	assessor   RelevanceAssessor
	classifier SourceClassifier
	quotes     QuoteChecker
	workers    int
}

// New creates a relevance filter. quotes may be nil to skip quote verification.
func New(assessor RelevanceAssessor, classifier SourceClassifier, quotes QuoteChecker, workers int) *Filter {
	if workers <= 0 {
		workers = 4
	}
	return &Filter{
		assessor:   assessor,
		classifier: classifier,
		quotes:     quotes,
		workers:    workers,
	}
}

type candidateOutcome struct {
	evidence model.Evidence
	accepted bool
	err      error
}

// Apply assesses all candidates with bounded fan-out and returns up to
// model.MaxEvidence accepted items, sorted by descending relevance score.
// The sort is stable: ties keep candidate discovery order. Collaborator
// failures drop the affected candidate and are reported as diagnostics;
// they never abort the stage.
func (f *Filter) Apply(ctx context.Context, claim string, candidates []model.Candidate) ([]model.Evidence, []string) {
	if claim == "" || len(candidates) == 0 {
		return []model.Evidence{}, nil
	}

	outcomes := make([]candidateOutcome, len(candidates))
	worker.Map(ctx, len(candidates), f.workers, func(ctx context.Context, i int) {
		outcomes[i] = f.assess(ctx, claim, candidates[i])
	})

	// Accept in candidate order until the cap, then order by score.
	var diagnostics []string
	evidence := make([]model.Evidence, 0, model.MaxEvidence)
	for i, out := range outcomes {
		if out.err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("evidence filter: %s: %v", candidates[i].URL, out.err))
			continue
		}
		if !out.accepted {
			continue
		}
		if len(evidence) < model.MaxEvidence {
			evidence = append(evidence, out.evidence)
		}
	}

	sort.SliceStable(evidence, func(a, b int) bool {
		return evidence[a].RelevanceScore > evidence[b].RelevanceScore
	})

	return evidence, diagnostics
}

// assess runs the relevance and classification collaborators for one candidate
func (f *Filter) assess(ctx context.Context, claim string, cand model.Candidate) candidateOutcome {
	relevance, err := f.assessor.AssessRelevance(ctx, claim, cand)
	if err != nil {
		return candidateOutcome{err: err}
	}

	if !relevance.IsRelevant || relevance.RelevanceScore < MinRelevanceScore {
		return candidateOutcome{}
	}

	quote := relevance.VerbatimQuote
	if f.quotes != nil && !f.quotes.QuoteInCandidate(ctx, quote, cand) {
		// Quote not found in the source material: treat as unquoted
		quote = ""
	}
	if len(quote) < model.MinQuoteLen {
		return candidateOutcome{}
	}

	classification, err := f.classifier.ClassifySource(ctx, cand)
	if err != nil {
		return candidateOutcome{err: err}
	}

	return candidateOutcome{
		accepted: true,
		evidence: model.Evidence{
			SourceURL:            cand.URL,
			SourceTitle:          cand.Title,
			SourceType:           classification.SourceType,
			VerbatimQuote:        quote,
			RelevanceScore:       relevance.RelevanceScore,
			RelevanceExplanation: relevance.RelevanceExplanation,
		},
	}
}
