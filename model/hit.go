package model

import "strings"

// JobDescription is the caller-supplied free text a recommendation is made for.
type JobDescription string

// IsBlank reports whether the description has no visible content.
func (d JobDescription) IsBlank() bool {
	return strings.TrimSpace(string(d)) == ""
}

// HitFields are the occupation fields stored alongside each vector in the index.
type HitFields struct {
	Value       string `json:"value"`       // Occupation code, e.g. "15-1252.00"
	Title       string `json:"title"`       // Occupation title
	Description string `json:"description"` // Occupation description
}

// CandidateHit is a single result of the semantic retrieval stage.
// Downstream stages may drop hits but never modify them.
type CandidateHit struct {
	ID     string    `json:"_id"`
	Score  float64   `json:"_score"`
	Fields HitFields `json:"fields"`
}

// Equal reports field-for-field equality.
func (h CandidateHit) Equal(other CandidateHit) bool {
	return h.ID == other.ID && h.Score == other.Score && h.Fields == other.Fields
}

// FilteredResult is an order-preserving subsequence of the retrieval output.
type FilteredResult struct {
	Hits []CandidateHit `json:"hits"`
}
