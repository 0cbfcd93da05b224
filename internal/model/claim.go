package model

// Confidence reports how certain the extractor was about a claim
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Claim is a single verifiable factual statement extracted from input text
type Claim struct {
	Text            string     `json:"text"`                       // The claim as a declarative sentence
	Confidence      Confidence `json:"confidence"`                 // Extraction confidence
	OriginalContext string     `json:"original_context,omitempty"` // Portion of the input the claim was derived from
	Notes           string     `json:"notes,omitempty"`            // Extractor notes (difficulty, ambiguity)
}

// Candidate is a raw search result, consumed by the relevance filter
// and discarded afterwards
type Candidate struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`               // Search-engine snippet/summary
	Score         float64 `json:"score"`                 // Search engine relevance, 0..1
	PublishedDate string  `json:"published_date,omitempty"`
	RawContent    string  `json:"raw_content,omitempty"` // Full page text when the engine returns it
}
