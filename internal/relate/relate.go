// Package relate labels each evidence item with its textual relationship
// to the claim.
package relate

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/collab"
	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/worker"
)

// RelationClassifier determines how a quote relates to the claim
type RelationClassifier interface {
	ClassifyRelation(ctx context.Context, claim string, ev model.Evidence) (*collab.RelationResult, error)
}

// Comparer fans relation classification out over evidence items
type Comparer struct {
	classifier RelationClassifier
	workers    int
}

// New creates a relation comparer
func New(classifier RelationClassifier, workers int) *Comparer {
	if workers <= 0 {
		workers = 4
	}
	return &Comparer{
		classifier: classifier,
		workers:    workers,
	}
}

// Apply classifies every evidence item with bounded fan-out. Items whose
// classification fails are dropped; the rest keep the filter's ordering.
func (c *Comparer) Apply(ctx context.Context, claim string, evidence []model.Evidence) ([]model.EvidenceAssessment, []string) {
	if claim == "" || len(evidence) == 0 {
		return []model.EvidenceAssessment{}, nil
	}

	failures := make([]string, len(evidence))
	assessments := worker.Collect(ctx, len(evidence), c.workers, func(ctx context.Context, i int) (model.EvidenceAssessment, bool) {
		result, err := c.classifier.ClassifyRelation(ctx, claim, evidence[i])
		if err != nil {
			failures[i] = fmt.Sprintf("source comparison: %s: %v", evidence[i].SourceURL, err)
			return model.EvidenceAssessment{}, false
		}
		return model.EvidenceAssessment{
			Evidence:  evidence[i],
			Relation:  result.Relation,
			Reasoning: result.Reasoning,
		}, true
	})

	var diagnostics []string
	for _, f := range failures {
		if f != "" {
			diagnostics = append(diagnostics, f)
		}
	}

	return assessments, diagnostics
}
