package domain

import "time"

// SearchRecord is one executed search kept in the history table.
type SearchRecord struct {
	ID          string
	Query       Query
	ResultCount int
	TopScore    *int
	Duration    time.Duration
	CreatedAt   time.Time
}

// NetworkEdge is a directed FEEDS link between two reactions.
type NetworkEdge struct {
	Source string
	Target string
	// Via lists the non-ignored compounds handed from Source to Target.
	Via []string
}

// CompoundCount is a compound with its summed stoichiometric coefficients
// on the consuming and producing side of a pathway.
type CompoundCount struct {
	CompoundID string
	Consumed   int
	Produced   int
}

// PathwaySummary expands a pathway into the compounds it consumes, passes
// through and yields.
type PathwaySummary struct {
	Substrates    []CompoundCount
	Intermediates []CompoundCount
	Products      []CompoundCount
	TotalEquation string
}
