package pathway

import (
	"strings"

	"github.com/vanshika/rxnpath/internal/domain"
)

// Summarize groups the compounds of a pathway into net substrates,
// intermediates (both consumed and produced somewhere along the walk) and net
// products, in order of first appearance. Counts are summed stoichiometric
// coefficients.
func Summarize(p domain.Pathway, ref *domain.ReferenceData) domain.PathwaySummary {
	var order []string
	counts := make(map[string]*domain.CompoundCount)
	touch := func(id string) *domain.CompoundCount {
		c, ok := counts[id]
		if !ok {
			c = &domain.CompoundCount{CompoundID: id}
			counts[id] = c
			order = append(order, id)
		}
		return c
	}

	for _, id := range p {
		r := ref.Reactions[id]
		for _, c := range r.SubstrateSet().Sorted() {
			touch(c).Consumed += r.Substrates[c]
		}
	}
	for _, id := range p {
		r := ref.Reactions[id]
		for _, c := range r.ProductSet().Sorted() {
			touch(c).Produced += r.Products[c]
		}
	}

	var summary domain.PathwaySummary
	for _, id := range order {
		c := *counts[id]
		switch {
		case c.Consumed > 0 && c.Produced > 0:
			summary.Intermediates = append(summary.Intermediates, c)
		case c.Consumed > 0:
			summary.Substrates = append(summary.Substrates, c)
		default:
			summary.Products = append(summary.Products, c)
		}
	}
	summary.TotalEquation = names(summary.Substrates, ref) + " => " + names(summary.Products, ref)
	return summary
}

func names(counts []domain.CompoundCount, ref *domain.ReferenceData) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		name := c.CompoundID
		if compound, ok := ref.Compounds[c.CompoundID]; ok && compound.Name != "" {
			name = compound.Name
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " + ")
}
