// Package domaintest provides a small, fully connected reaction network
// used across package tests.
package domaintest

import (
	"fmt"

	"github.com/vanshika/rxnpath/internal/domain"
)

// SixReactions returns the six-reaction network
//
//	1: {1,2} -> {3,4}    4: {3,4} -> {5,6}
//	2: {1,2} -> {5,6}    5: {5,6} -> {1,2}
//	3: {3,4} -> {1,2}    6: {5,6} -> {3,4}
//
// Compound n has price 7-n and demand n. No compounds are ignored.
func SixReactions() *domain.ReferenceData {
	pairs := map[string][2][]string{
		"1": {{"1", "2"}, {"3", "4"}},
		"2": {{"1", "2"}, {"5", "6"}},
		"3": {{"3", "4"}, {"1", "2"}},
		"4": {{"3", "4"}, {"5", "6"}},
		"5": {{"5", "6"}, {"1", "2"}},
		"6": {{"5", "6"}, {"3", "4"}},
	}
	enzymes := map[string][]string{
		"1": {"1", "2"},
		"2": {"1", "3"},
		"3": {"1", "4"},
		"4": {"2", "3"},
		"5": {"2", "4"},
		"6": {"3", "4"},
	}

	ref := &domain.ReferenceData{
		Reactions:        make(map[string]domain.Reaction),
		Compounds:        make(map[string]domain.Compound),
		Enzymes:          make(map[string]domain.Enzyme),
		IgnoredCompounds: domain.NewIDSet(),
		IgnoredReactions: domain.NewIDSet(),
	}
	for id, p := range pairs {
		ref.Reactions[id] = domain.Reaction{
			ID:         id,
			Substrates: coefficients(p[0]),
			Products:   coefficients(p[1]),
			Enzymes:    enzymes[id],
			Complexity: 1,
			Equation:   fmt.Sprintf("C%s + C%s = C%s + C%s", p[0][0], p[0][1], p[1][0], p[1][1]),
		}
	}
	for n := 1; n <= 6; n++ {
		id := fmt.Sprint(n)
		ref.Compounds[id] = domain.Compound{
			ID:     id,
			Name:   "C" + id,
			Price:  float64(7 - n),
			Demand: float64(n),
		}
	}
	for n := 1; n <= 4; n++ {
		id := fmt.Sprint(n)
		ref.Enzymes[id] = domain.Enzyme{ID: id, Name: "EC " + id}
	}
	ref.Reindex()
	return ref
}

func coefficients(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		out[id] = 1
	}
	return out
}
