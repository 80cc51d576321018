package pathway

import (
	"math"

	"github.com/vanshika/rxnpath/internal/domain"
)

// Score rates a pathway as ceil(10 * sqrt(s) * (p - r) / n^2) where
//
//   - p is the demand-weighted price of the last step's products,
//   - r is the same for the first step's substrates,
//   - s is the Jaccard similarity of all substrates and all products,
//   - n is the number of steps.
//
// Compounds without price or demand contribute nothing.
func Score(p domain.Pathway, ref *domain.ReferenceData) int {
	n := len(p)
	if n == 0 {
		return 0
	}

	first := ref.Reactions[p[0]]
	last := ref.Reactions[p[n-1]]
	net := value(last.ProductSet(), ref) - value(first.SubstrateSet(), ref)

	consumed := make(domain.IDSet)
	produced := make(domain.IDSet)
	for _, id := range p {
		r := ref.Reactions[id]
		consumed.AddSet(r.SubstrateSet())
		produced.AddSet(r.ProductSet())
	}
	similarity := jaccard(consumed, produced)

	raw := 10 * math.Sqrt(similarity) * net / float64(n*n)
	return int(math.Ceil(raw))
}

func value(compounds domain.IDSet, ref *domain.ReferenceData) float64 {
	var total float64
	for id := range compounds {
		if c, ok := ref.Compounds[id]; ok {
			total += c.Value()
		}
	}
	return total
}

func jaccard(a, b domain.IDSet) float64 {
	shared := len(a.Intersect(b))
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
