package domain

import "strings"

// Pathway is an ordered walk of reaction IDs through the reaction graph.
type Pathway []string

// Equal reports exact sequence equality.
func (p Pathway) Equal(other Pathway) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Key is a map key unique to the sequence.
func (p Pathway) Key() string {
	return strings.Join(p, "\x00")
}

// Clone returns an independent copy.
func (p Pathway) Clone() Pathway {
	return append(Pathway(nil), p...)
}

// ScoredPathway pairs a pathway with its score.
type ScoredPathway struct {
	Score   int
	Pathway Pathway
}

// SearchFilter holds the per-search rules applied to candidate pathways.
// Source and Target default to Wildcard, which disables the matching check.
type SearchFilter struct {
	RequiredCompounds []string
	RequiredEnzymes   []string
	Source            Endpoint
	Target            Endpoint
	ForbiddenLinks    IDSet
}

// Query is a validated search request.
type Query struct {
	MaxResults     int
	Chain          []Endpoint
	Enzymes        []string
	ForbiddenLinks []string
}
