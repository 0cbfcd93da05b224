package model

// SourceType classifies where a piece of evidence sits in the reporting chain
type SourceType string

const (
	SourcePrimary           SourceType = "primary"            // Filings, datasets, press releases, transcripts
	SourceOriginalReporting SourceType = "original_reporting" // First-party journalism
	SourceSecondary         SourceType = "secondary"          // Rewrites, aggregation, commentary
	SourceUnknown           SourceType = "unknown"
)

// TypeRank orders source types by trustworthiness for best-source selection
func (t SourceType) TypeRank() int {
	switch t {
	case SourcePrimary:
		return 3
	case SourceOriginalReporting:
		return 2
	case SourceSecondary:
		return 1
	default:
		return 0
	}
}

// ParseSourceType maps a collaborator string to a SourceType, defaulting to unknown
func ParseSourceType(s string) SourceType {
	switch SourceType(s) {
	case SourcePrimary, SourceOriginalReporting, SourceSecondary:
		return SourceType(s)
	default:
		return SourceUnknown
	}
}

// Relation is the textual relationship of a quote to the claim
type Relation string

const (
	RelationDirect        Relation = "direct"        // States the claim verbatim or near-verbatim
	RelationParaphrase    Relation = "paraphrase"    // Same meaning, different words
	RelationContradiction Relation = "contradiction" // States the opposite or conflicts
)

// RelationRank orders relations by strength for best-source selection
func (r Relation) RelationRank() int {
	switch r {
	case RelationDirect:
		return 2
	case RelationParaphrase:
		return 1
	default:
		return 0
	}
}

// MinQuoteLen is the minimum length of a usable verbatim quote
const MinQuoteLen = 10

// Evidence is a search result that survived relevance filtering
type Evidence struct {
	SourceURL            string     `json:"source_url"`
	SourceTitle          string     `json:"source_title"`
	SourceType           SourceType `json:"source_type"`
	VerbatimQuote        string     `json:"verbatim_quote"`  // Exact text from the source, >= MinQuoteLen chars
	RelevanceScore       float64    `json:"relevance_score"` // 0..1
	RelevanceExplanation string     `json:"relevance_explanation"`
}

// EvidenceAssessment pairs evidence with its classified relation to the claim
type EvidenceAssessment struct {
	Evidence  Evidence `json:"evidence"`
	Relation  Relation `json:"relation"`
	Reasoning string   `json:"reasoning"`
}
