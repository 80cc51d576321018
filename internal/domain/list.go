package domain

// CompoundListResult captures a page of compounds matching a name search.
type CompoundListResult struct {
	Items []Compound
	Total int
}

// SearchHistoryResult captures the most recent searches.
type SearchHistoryResult struct {
	Items []SearchRecord
}
