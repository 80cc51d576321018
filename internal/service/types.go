package service

import (
	"time"

	"github.com/vanshika/rxnpath/internal/domain"
)

// SearchRequest is the inbound search payload. Compounds is an ordered chain
// where "any" leaves an end open. Enzymes are EC numbers.
type SearchRequest struct {
	Compounds      []string `json:"compounds" validate:"omitempty,dive,required"`
	Enzymes        []string `json:"enzymes" validate:"omitempty,dive,required"`
	ForbiddenLinks []string `json:"forbidden_links" validate:"omitempty,dive,required"`
	MaxResults     int      `json:"max_results" validate:"min=1"`
}

// Query converts a normalized request into the search core's query.
func (r SearchRequest) Query() domain.Query {
	q := domain.Query{
		MaxResults:     r.MaxResults,
		Enzymes:        r.Enzymes,
		ForbiddenLinks: r.ForbiddenLinks,
	}
	for _, c := range r.Compounds {
		q.Chain = append(q.Chain, domain.ParseEndpoint(c))
	}
	return q
}

// StepView describes one reaction of a ranked pathway.
type StepView struct {
	ReactionID string
	Equation   string
	Complexity float64
	Enzymes    []domain.Enzyme
	// Via lists the compounds this step hands to the next one.
	Via []string
}

// PathwayResult is a ranked pathway expanded for display.
type PathwayResult struct {
	Rank      int
	Score     int
	Reactions []string
	Summary   domain.PathwaySummary
	Steps     []StepView
}

// SearchStats reports how much of the network a search covered.
type SearchStats struct {
	Sources    int
	Targets    int
	Pairs      int
	Candidates int
}

// SearchResponse is the outcome of a successful search.
type SearchResponse struct {
	SearchID string
	Results  []PathwayResult
	Stats    SearchStats
	Duration time.Duration
}
