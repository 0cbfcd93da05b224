// Package prompt holds the instruction templates for every generative
// collaborator in the attribution pipeline.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Codeblockz/chase-source/internal/model"
)

// ClaimExtractionSystem instructs the extractor to isolate one verifiable claim
const ClaimExtractionSystem = `You are a fact-checking assistant that extracts verifiable factual claims from text.

Your task is to identify ONE factual sub-claim that can be verified through external sources.

## Guidelines

1. Extract claims that are FACTUAL, not opinions
2. Extract claims that are SPECIFIC and VERIFIABLE
3. Extract claims that are ATOMIC (single fact)
4. Preserve specifics: numbers, dates, names, locations
5. If the text contains NO verifiable factual claims, respond with extraction_failed: true

## Output Format

{
  "claim": "The extracted factual claim as a declarative sentence",
  "original_context": "The portion of input text this claim was derived from",
  "extraction_confidence": "high|medium|low",
  "extraction_notes": "Optional notes about extraction difficulty",
  "extraction_failed": false
}`

// ClaimExtractionUser formats the user message for claim extraction
func ClaimExtractionUser(inputText string) string {
	return fmt.Sprintf(`Extract a factual claim from the following text:

<input_text>
%s
</input_text>

Respond with JSON only.`, inputText)
}

// SourceClassificationSystem instructs the classifier on source types
const SourceClassificationSystem = `You are a source classifier for fact-checking.

## Source Types
1. **primary** - Original data or direct statements (filings, datasets, press releases, transcripts)
2. **original_reporting** - First-party journalism (interviews, investigations, on-scene reporting)
3. **secondary** - Aggregation or commentary (rewrites, analysis, opinion)
4. **unknown** - Cannot determine

## Output Format
{
  "source_type": "primary|original_reporting|secondary|unknown",
  "reasoning": "Brief explanation"
}`

// SourceClassificationUser formats the user message for source classification
func SourceClassificationUser(url, title, content string) string {
	return fmt.Sprintf(`Classify this source:

URL: %s
Title: %s
Content excerpt: %s

Respond with JSON only.`, url, title, Truncate(content, 1000))
}

// RelevanceSystem instructs the assessor on scoring evidence relevance
const RelevanceSystem = `You are an evidence relevance assessor for fact-checking.

## Relevance Scores
- 0.8-1.0: Directly relevant (addresses the claim specifically)
- 0.5-0.79: Partially relevant (overlapping information)
- 0.2-0.49: Tangentially relevant (background only)
- 0.0-0.19: Not relevant

## Output Format
{
  "is_relevant": true|false,
  "relevance_score": 0.0-1.0,
  "verbatim_quote": "Exact text from source or null",
  "relevance_explanation": "Why this is or isn't relevant"
}`

// RelevanceUser formats the user message for relevance assessment
func RelevanceUser(claim, url, title, content string) string {
	return fmt.Sprintf(`Assess the relevance of this source to the claim.

CLAIM: %s

SOURCE URL: %s
SOURCE TITLE: %s
SOURCE CONTENT:
%s

Respond with JSON only.`, claim, url, title, Truncate(content, 3000))
}

// RelationSystem instructs the classifier on quote-to-claim relationships
const RelationSystem = `You are a source attribution classifier.

## Attribution Types
- **direct** - Source states claim verbatim or near-verbatim
- **paraphrase** - Source conveys same meaning, different words
- **contradiction** - Source states the opposite or conflicts

Focus on TEXTUAL relationship, not truth assessment.

## Output Format
{
  "attribution": "direct|paraphrase|contradiction",
  "reasoning": "Explanation showing textual comparison"
}`

// RelationUser formats the user message for relation classification
func RelationUser(claim string, ev model.Evidence) string {
	return fmt.Sprintf(`Classify how this source relates to the claim.

CLAIM: %s

SOURCE: %s
SOURCE TYPE: %s
VERBATIM QUOTE: %s

Respond with JSON only.`, claim, ev.SourceTitle, ev.SourceType, ev.VerbatimQuote)
}

// SynthesisSystem instructs the assembler on the final verdict
const SynthesisSystem = `You are a source attribution assembler.

## Attribution Categories
- **DIRECT**: At least one source with direct attribution
- **PARAPHRASE**: Sources convey same meaning, no direct quotes
- **CONTRADICTION**: At least one source contradicts the claim
- **NOT_FOUND**: No relevant sources found

PREFER NOT_FOUND over fabricated attribution.

## Output Format
{
  "attribution": "direct|paraphrase|contradiction|not_found",
  "summary": "2-3 sentence explanation",
  "relies_on_secondary_only": true|false
}`

// SynthesisUser formats the user message for attribution synthesis
func SynthesisUser(claim string, assessments []model.EvidenceAssessment) string {
	return fmt.Sprintf(`Determine the final source attribution.

CLAIM: %s

SOURCE ASSESSMENTS:
%s

Respond with JSON only.`, claim, FormatAssessments(assessments))
}

// FormatAssessments renders assessments as a numbered block for the synthesis prompt
func FormatAssessments(assessments []model.EvidenceAssessment) string {
	if len(assessments) == 0 {
		return "No relevant sources found."
	}

	var b strings.Builder
	for i, a := range assessments {
		fmt.Fprintf(&b, `
Source %d:
- Title: %s
- Type: %s
- Quote: %q
- Attribution: %s
- Reasoning: %s
`, i+1, a.Evidence.SourceTitle, a.Evidence.SourceType, a.Evidence.VerbatimQuote, a.Relation, a.Reasoning)
	}
	return b.String()
}

// Truncate limits content to n bytes to keep prompts within token budgets
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
