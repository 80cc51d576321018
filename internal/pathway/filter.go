// Package pathway filters, scores and ranks walks through the reaction graph.
package pathway

import "github.com/vanshika/rxnpath/internal/domain"

type step struct {
	substrates domain.IDSet
	products   domain.IDSet
}

func stepOf(ref *domain.ReferenceData, id string) (step, domain.Reaction) {
	r := ref.Reactions[id]
	return step{substrates: r.SubstrateSet(), products: r.ProductSet()}, r
}

// Filter keeps the pathways accepted by Accept, preserving order.
func Filter(pathways []domain.Pathway, f domain.SearchFilter, ref *domain.ReferenceData) []domain.Pathway {
	var kept []domain.Pathway
	for _, p := range pathways {
		if Accept(p, f, ref) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Accept reports whether p survives the filter. Steps are scanned in order
// and the first failing rule rejects the pathway:
//
//  1. a step consumes the filter's target compound;
//  2. a step produces the filter's source compound;
//  3. every compound handed from the previous step is a forbidden link;
//  4. the step closes a futile two-hop cycle.
//
// A pathway that passes the scan must also touch every required compound and
// be catalysed, across its steps, by every required enzyme.
func Accept(p domain.Pathway, f domain.SearchFilter, ref *domain.ReferenceData) bool {
	if len(p) == 0 {
		return false
	}
	source, hasSource := f.Source.ID()
	target, hasTarget := f.Target.ID()

	steps := make([]step, len(p))
	compounds := make(domain.IDSet)
	enzymes := make(domain.IDSet)
	for i, id := range p {
		cur, reaction := stepOf(ref, id)
		steps[i] = cur

		switch {
		case hasTarget && cur.substrates.Has(target):
			return false
		case hasSource && cur.products.Has(source):
			return false
		case i >= 1 && forbiddenHandOff(steps[i-1], cur, f.ForbiddenLinks):
			return false
		case i >= 2 && futileCycle(steps[i-2], steps[i-1], cur, ref.IgnoredCompounds):
			return false
		}

		compounds.AddSet(cur.substrates)
		compounds.AddSet(cur.products)
		enzymes.Add(reaction.Enzymes...)
	}
	return compounds.ContainsAll(f.RequiredCompounds) && enzymes.ContainsAll(f.RequiredEnzymes)
}

// forbiddenHandOff reports whether the compounds passed from prev to cur are
// all forbidden links. A step with no forbidden compound in its hand-off is
// never rejected here.
func forbiddenHandOff(prev, cur step, forbidden domain.IDSet) bool {
	if len(forbidden) == 0 {
		return false
	}
	handOff := prev.products.Intersect(cur.substrates)
	blocked := forbidden.Intersect(handOff)
	return len(blocked) > 0 && len(blocked) >= len(handOff)
}

// futileCycle detects a compound consumed at i-2, produced at i-1 and consumed
// again at i, and the mirror case on the product side. Ignored compounds
// never count.
func futileCycle(prePrev, prev, cur step, ignored domain.IDSet) bool {
	subs := cur.substrates.Without(ignored)
	if subs.Overlaps(prePrev.substrates.Without(ignored)) && subs.Overlaps(prev.products.Without(ignored)) {
		return true
	}
	prods := cur.products.Without(ignored)
	return prods.Overlaps(prePrev.products.Without(ignored)) && prods.Overlaps(prev.substrates.Without(ignored))
}
