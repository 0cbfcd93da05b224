// Package pipeline sequences the attribution stages for one run: claim
// extraction, source retrieval, relevance filtering, relation comparison,
// and final assembly.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Codeblockz/chase-source/internal/attribute"
	"github.com/Codeblockz/chase-source/internal/filter"
	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/relate"
	"github.com/Codeblockz/chase-source/internal/search"
)

// FailedClaimText is the claim placeholder when extraction produced nothing
const FailedClaimText = "[No factual claim could be extracted]"

// DefaultTimeout is the wall-clock budget for one run
const DefaultTimeout = 30 * time.Second

// State identifies where a run currently is in the stage sequence
type State string

const (
	StateStart            State = "start"
	StateClaimReady       State = "claim_ready"
	StateClaimFailed      State = "claim_failed"
	StateEvidenceGathered State = "evidence_gathered"
	StateEvidenceFiltered State = "evidence_filtered"
	StateCompared         State = "compared"
	StateAssembled        State = "assembled"
)

// RunContext accumulates the state of one attribution run. It is owned by
// exactly one request and discarded once the result is returned.
type RunContext struct {
	InputText string

	Claim            *model.Claim
	ExtractionFailed bool
	ExtractionError  string

	SearchQuery string
	Candidates  []model.Candidate
	Evidence    []model.Evidence
	Assessments []model.EvidenceAssessment

	Result *model.SourceAttribution

	// Errors collects non-fatal diagnostics in the order they occurred
	Errors []string

	state State
}

// State reports the run's current stage
func (rc *RunContext) State() State {
	return rc.state
}

// ClaimExtractor pulls one verifiable claim from free-form input text
type ClaimExtractor interface {
	ExtractClaim(ctx context.Context, inputText string) (*model.Claim, error)
}

// Controller drives the stage sequence. A single collaborator failure never
// aborts a run; the affected stage yields a degraded (possibly empty) output
// and the run continues to a structurally valid result.
type Controller struct {
	extractor ClaimExtractor
	searcher  search.Searcher
	filter    *filter.Filter
	comparer  *relate.Comparer
	assembler *attribute.Assembler
	timeout   time.Duration
}

// New creates a pipeline controller
func New(extractor ClaimExtractor, searcher search.Searcher, f *filter.Filter, c *relate.Comparer, a *attribute.Assembler, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		extractor: extractor,
		searcher:  searcher,
		filter:    f,
		comparer:  c,
		assembler: a,
		timeout:   timeout,
	}
}

// Run executes the full workflow for one input text, starting with claim
// extraction. It always returns a RunContext whose Result is non-nil.
func (c *Controller) Run(ctx context.Context, inputText string) *RunContext {
	rc := &RunContext{
		InputText: inputText,
		state:     StateStart,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	claim, err := c.extractor.ExtractClaim(ctx, inputText)
	if err != nil {
		rc.ExtractionFailed = true
		rc.ExtractionError = err.Error()
		rc.Errors = append(rc.Errors, fmt.Sprintf("claim extraction: %v", err))
		rc.state = StateClaimFailed
	} else {
		rc.Claim = claim
		rc.state = StateClaimReady
	}

	c.advance(ctx, rc)
	return rc
}

// Evaluate runs the evidence pipeline for an already-extracted claim and
// pre-gathered candidates, bypassing extraction and retrieval.
func (c *Controller) Evaluate(ctx context.Context, claim *model.Claim, candidates []model.Candidate) *model.SourceAttribution {
	rc := &RunContext{
		Claim:      claim,
		Candidates: candidates,
		state:      StateEvidenceGathered,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.advance(ctx, rc)
	return rc.Result
}

// EvaluateFailed produces the degraded result for a failed extraction:
// a not_found attribution carrying the extraction diagnostic as its summary.
func (c *Controller) EvaluateFailed(diagnostic string) *model.SourceAttribution {
	rc := &RunContext{
		ExtractionFailed: true,
		ExtractionError:  diagnostic,
		state:            StateClaimFailed,
	}

	c.advance(context.Background(), rc)
	return rc.Result
}

// advance walks the state machine until the run is assembled
func (c *Controller) advance(ctx context.Context, rc *RunContext) {
	for rc.state != StateAssembled {
		switch rc.state {

		case StateClaimFailed:
			// Skip straight to assembly with the extraction diagnostic
			rc.Result = c.assembleFailed(rc)
			rc.state = StateAssembled

		case StateClaimReady:
			rc.SearchQuery = rc.Claim.Text
			candidates, err := c.searcher.Search(ctx, rc.SearchQuery)
			if err != nil {
				rc.Errors = append(rc.Errors, fmt.Sprintf("source retrieval: %v", err))
				candidates = nil
			}
			rc.Candidates = candidates
			rc.state = StateEvidenceGathered

		case StateEvidenceGathered:
			evidence, diags := c.filter.Apply(ctx, rc.claimText(), rc.Candidates)
			rc.Errors = append(rc.Errors, diags...)
			rc.Evidence = evidence
			rc.Candidates = nil // Input-only; discarded after filtering
			rc.state = StateEvidenceFiltered

		case StateEvidenceFiltered:
			assessments, diags := c.comparer.Apply(ctx, rc.claimText(), rc.Evidence)
			rc.Errors = append(rc.Errors, diags...)
			rc.Assessments = assessments
			rc.state = StateCompared

		case StateCompared:
			result, diags := c.assembler.Assemble(ctx, rc.claimText(), rc.Assessments)
			rc.Errors = append(rc.Errors, diags...)
			rc.Result = result
			rc.state = StateAssembled

		default:
			// Unreachable entry state: assemble whatever is present
			rc.state = StateCompared
		}
	}
}

// assembleFailed builds the not_found result for the extraction-failed path
func (c *Controller) assembleFailed(rc *RunContext) *model.SourceAttribution {
	summary := rc.ExtractionError
	if summary == "" {
		summary = "Could not extract a verifiable factual claim from the input."
	}
	if len(summary) > model.MaxSummaryLen {
		summary = summary[:model.MaxSummaryLen]
	}

	return &model.SourceAttribution{
		Claim:                 FailedClaimText,
		Category:              model.CategoryNotFound,
		Summary:               summary,
		EvidenceList:          []model.EvidenceAssessment{},
		BestSource:            nil,
		ReliesOnSecondaryOnly: false,
	}
}

func (rc *RunContext) claimText() string {
	if rc.Claim == nil {
		return ""
	}
	return rc.Claim.Text
}
