// Package attribute aggregates labeled evidence into the final source
// attribution: best source, secondary-only flag, and overall category.
package attribute

import (
	"context"
	"fmt"

	"github.com/Codeblockz/chase-source/internal/collab"
	"github.com/Codeblockz/chase-source/internal/model"
)

// NoSourcesSummary is the fixed summary for runs with no surviving evidence
const NoSourcesSummary = "No relevant sources were found that address this claim."

// SynthesisFailedSummary is the fixed summary when the synthesis collaborator fails
const SynthesisFailedSummary = "An error occurred while assembling the attribution; the category was derived from the individual source assessments."

// Synthesizer produces the overall category and summary across assessments
type Synthesizer interface {
	Synthesize(ctx context.Context, claim string, assessments []model.EvidenceAssessment) (*collab.SynthesisResult, error)
}

// Assembler builds the terminal SourceAttribution for a run
type Assembler struct {
	synthesizer Synthesizer
}

// New creates an assembler
func New(synthesizer Synthesizer) *Assembler {
	return &Assembler{synthesizer: synthesizer}
}

// Assemble aggregates the assessments into a SourceAttribution. The returned
// diagnostics are non-fatal; every call produces a structurally valid result.
func (a *Assembler) Assemble(ctx context.Context, claim string, assessments []model.EvidenceAssessment) (*model.SourceAttribution, []string) {
	if len(assessments) == 0 {
		return &model.SourceAttribution{
			Claim:                 claim,
			Category:              model.CategoryNotFound,
			Summary:               NoSourcesSummary,
			EvidenceList:          []model.EvidenceAssessment{},
			BestSource:            nil,
			ReliesOnSecondaryOnly: false,
		}, nil
	}

	if len(assessments) > model.MaxEvidence {
		assessments = assessments[:model.MaxEvidence]
	}

	secondaryOnly := reliesOnSecondaryOnly(assessments)

	result := &model.SourceAttribution{
		Claim:                 claim,
		EvidenceList:          assessments,
		ReliesOnSecondaryOnly: secondaryOnly,
	}
	result.BestSource = bestSource(result.EvidenceList)

	synthesis, err := a.synthesizer.Synthesize(ctx, claim, result.EvidenceList)
	if err != nil {
		// The collaborator is advisory: fall back to the conservative
		// category derived from the assessments themselves.
		result.Category = FallbackCategory(result.EvidenceList)
		result.Summary = SynthesisFailedSummary
		return result, []string{fmt.Sprintf("attribution synthesis: %v", err)}
	}

	result.Category = synthesis.Category
	result.Summary = synthesis.Summary
	// The collaborator may raise the secondary-only flag but never clear it
	result.ReliesOnSecondaryOnly = secondaryOnly || synthesis.SecondaryOnlyHint

	return result, nil
}

// reliesOnSecondaryOnly is true when every assessment cites a secondary source
func reliesOnSecondaryOnly(assessments []model.EvidenceAssessment) bool {
	for _, a := range assessments {
		if a.Evidence.SourceType != model.SourceSecondary {
			return false
		}
	}
	return len(assessments) > 0
}

// bestSource selects the assessment with the lexicographically maximal
// (source type rank, relation rank) pair. On a full tie the earliest
// assessment in list order wins. The returned pointer aliases an element
// of the given slice.
func bestSource(assessments []model.EvidenceAssessment) *model.EvidenceAssessment {
	if len(assessments) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(assessments); i++ {
		ti, ri := rankPair(assessments[i])
		tb, rb := rankPair(assessments[best])
		if ti > tb || (ti == tb && ri > rb) {
			best = i
		}
	}
	return &assessments[best]
}

func rankPair(a model.EvidenceAssessment) (int, int) {
	return a.Evidence.SourceType.TypeRank(), a.Relation.RelationRank()
}

// FallbackCategory derives a category without the synthesis collaborator:
// any contradiction wins, then direct, then paraphrase. An empty list
// resolves to not_found.
func FallbackCategory(assessments []model.EvidenceAssessment) model.Category {
	var hasDirect, hasParaphrase bool
	for _, a := range assessments {
		switch a.Relation {
		case model.RelationContradiction:
			return model.CategoryContradiction
		case model.RelationDirect:
			hasDirect = true
		case model.RelationParaphrase:
			hasParaphrase = true
		}
	}
	if hasDirect {
		return model.CategoryDirect
	}
	if hasParaphrase {
		return model.CategoryParaphrase
	}
	return model.CategoryNotFound
}
