package network

import (
	"log/slog"

	"github.com/vanshika/rxnpath/internal/domain"
)

// BuildOptions tunes graph construction.
type BuildOptions struct {
	// IgnoredReactions stay in the graph as isolated nodes.
	IgnoredReactions domain.IDSet
	Logger           *slog.Logger
}

// Build constructs the reaction graph. Every reaction becomes a node. An
// edge A->B is added when a product of A outside ignored is a substrate of B,
// unless B's products are exactly A's substrates.
//
// Reactions are visited in domain.SortIDs order, products in the same order,
// then consumers in index order, so identical input yields an identical graph.
func Build(reactions map[string]domain.Reaction, ignored domain.IDSet, opts BuildOptions) *Graph {
	g := New()

	ids := make([]string, 0, len(reactions))
	for id := range reactions {
		ids = append(ids, id)
	}
	domain.SortIDs(ids)

	substrates := make(map[string]domain.IDSet, len(ids))
	products := make(map[string]domain.IDSet, len(ids))
	consumers := make(map[string][]string)
	for _, id := range ids {
		g.AddNode(id)
		r := reactions[id]
		substrates[id] = r.SubstrateSet()
		products[id] = r.ProductSet()
		if opts.IgnoredReactions.Has(id) {
			continue
		}
		for _, c := range substrates[id].Sorted() {
			consumers[c] = append(consumers[c], id)
		}
	}

	for _, id := range ids {
		if opts.IgnoredReactions.Has(id) {
			continue
		}
		for _, product := range products[id].Sorted() {
			if ignored.Has(product) {
				continue
			}
			for _, consumer := range consumers[product] {
				if products[consumer].Equal(substrates[id]) {
					continue
				}
				g.AddEdge(id, consumer, product)
			}
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug("reaction graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	}
	return g
}

// BuildFromReference builds the graph for a loaded reference bundle.
func BuildFromReference(ref *domain.ReferenceData, logger *slog.Logger) *Graph {
	return Build(ref.Reactions, ref.IgnoredCompounds, BuildOptions{
		IgnoredReactions: ref.IgnoredReactions,
		Logger:           logger,
	})
}
