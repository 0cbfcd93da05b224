package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Codeblockz/chase-source/internal/model"
	"github.com/Codeblockz/chase-source/internal/pipeline"
)

var categoryMarkers = map[model.Category]string{
	model.CategoryDirect:        "🟢",
	model.CategoryParaphrase:    "🟡",
	model.CategoryContradiction: "🔴",
	model.CategoryNotFound:      "⚪",
}

var sourceTypeLabels = map[model.SourceType]string{
	model.SourcePrimary:           "Primary",
	model.SourceOriginalReporting: "Original Reporting",
	model.SourceSecondary:         "Secondary",
	model.SourceUnknown:           "Unknown",
}

// renderResult prints a human-readable attribution report
func renderResult(w io.Writer, rc *pipeline.RunContext) {
	result := rc.Result

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Source Attribution\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Claim: %s\n", result.Claim)
	if rc.Claim != nil {
		fmt.Fprintf(w, "Extraction confidence: %s\n", rc.Claim.Confidence)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Verdict: %s %s\n", categoryMarkers[result.Category], result.Category)
	fmt.Fprintf(w, "\n%s\n", result.Summary)

	if result.ReliesOnSecondaryOnly {
		fmt.Fprintf(w, "\n⚠ This result relies only on secondary reporting.\n")
	}

	if result.BestSource != nil {
		best := result.BestSource
		fmt.Fprintf(w, "\nBest source: %s (%s, %s)\n",
			best.Evidence.SourceTitle, sourceTypeLabels[best.Evidence.SourceType], best.Relation)
	}

	if len(result.EvidenceList) > 0 {
		fmt.Fprintf(w, "\n-----------------------------------------------------------\n")
		for i, a := range result.EvidenceList {
			e := a.Evidence
			fmt.Fprintf(w, "\nSource %d: %s\n", i+1, e.SourceTitle)
			fmt.Fprintf(w, "  Type:      %s\n", sourceTypeLabels[e.SourceType])
			fmt.Fprintf(w, "  URL:       %s\n", e.SourceURL)
			fmt.Fprintf(w, "  Relevance: %.2f\n", e.RelevanceScore)
			fmt.Fprintf(w, "  Relation:  %s\n", a.Relation)
			fmt.Fprintf(w, "  Quote:     %q\n", e.VerbatimQuote)
			if a.Reasoning != "" {
				fmt.Fprintf(w, "  Reasoning: %s\n", a.Reasoning)
			}
		}
	}

	if len(rc.Errors) > 0 {
		fmt.Fprintf(w, "\n%d non-fatal issue(s) occurred during the run (use --verbose for details).\n", len(rc.Errors))
	}

	fmt.Fprintf(w, "\n")
}

// writeJSON writes the attribution result as indented JSON
func writeJSON(path string, result *model.SourceAttribution) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
