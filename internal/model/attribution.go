package model

// Category is the final verdict of an attribution run
type Category string

const (
	CategoryDirect        Category = "direct"
	CategoryParaphrase    Category = "paraphrase"
	CategoryContradiction Category = "contradiction"
	CategoryNotFound      Category = "not_found"
)

// ParseCategory maps a collaborator string to a Category, defaulting to not_found
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryDirect, CategoryParaphrase, CategoryContradiction:
		return Category(s)
	default:
		return CategoryNotFound
	}
}

// MaxEvidence caps how many evidence items survive a run
const MaxEvidence = 5

// MaxSummaryLen caps the synthesized summary length
const MaxSummaryLen = 500

// SourceAttribution is the terminal artifact of one attribution run
type SourceAttribution struct {
	Claim                 string               `json:"claim"`
	Category              Category             `json:"category"`
	Summary               string               `json:"summary"`
	EvidenceList          []EvidenceAssessment `json:"evidence_list"`          // 0..MaxEvidence items
	BestSource            *EvidenceAssessment  `json:"best_source,omitempty"`  // Points into EvidenceList when present
	ReliesOnSecondaryOnly bool                 `json:"relies_on_secondary_only"`
}
