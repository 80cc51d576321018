// Package repository stores the reaction network in a graph database:
// Reaction, Compound and Enzyme nodes joined by CONSUMES, PRODUCES,
// CATALYZED_BY and FEEDS relationships.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/graph"
)

// ErrReactionNotFound is returned when a reaction node does not exist.
var ErrReactionNotFound = errors.New("reaction not found")

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertCompound creates or updates a compound node.
func (r *Repository) UpsertCompound(ctx context.Context, c domain.Compound, ignored bool) error {
	if c.ID == "" {
		return errors.New("compound id is required")
	}
	params := map[string]any{
		"chebiId": c.ID,
		"props": map[string]any{
			"name":    c.Name,
			"price":   c.Price,
			"demand":  c.Demand,
			"ignored": ignored,
		},
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertCompoundCypher, params); err != nil {
		return fmt.Errorf("upsert compound %s: %w", c.ID, err)
	}
	return nil
}

// UpsertEnzyme creates or updates an enzyme node.
func (r *Repository) UpsertEnzyme(ctx context.Context, e domain.Enzyme) error {
	if e.ID == "" {
		return errors.New("enzyme ec is required")
	}
	params := map[string]any{"ec": e.ID, "name": e.Name}
	if _, err := r.client.ExecuteWrite(ctx, upsertEnzymeCypher, params); err != nil {
		return fmt.Errorf("upsert enzyme %s: %w", e.ID, err)
	}
	return nil
}

// UpsertReaction creates or updates a reaction node and replaces its
// stoichiometry and catalysts.
func (r *Repository) UpsertReaction(ctx context.Context, rxn domain.Reaction, ignored bool) error {
	if rxn.ID == "" {
		return errors.New("reaction id is required")
	}
	params := map[string]any{
		"rheaId": rxn.ID,
		"props": map[string]any{
			"equation":   rxn.Equation,
			"complexity": rxn.Complexity,
			"ignored":    ignored,
		},
		"substrates": sideParams(rxn.Substrates),
		"products":   sideParams(rxn.Products),
		"enzymes":    append([]string{}, rxn.Enzymes...),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertReactionCypher, params); err != nil {
		return fmt.Errorf("upsert reaction %s: %w", rxn.ID, err)
	}
	return nil
}

// LinkReactions merges the FEEDS relationship for edge.
func (r *Repository) LinkReactions(ctx context.Context, edge domain.NetworkEdge) error {
	params := map[string]any{
		"sourceId": edge.Source,
		"targetId": edge.Target,
		"via":      append([]string{}, edge.Via...),
	}
	if _, err := r.client.ExecuteWrite(ctx, linkReactionsCypher, params); err != nil {
		return fmt.Errorf("link reactions %s->%s: %w", edge.Source, edge.Target, err)
	}
	return nil
}

// FetchReaction loads one reaction with its stoichiometry and catalysts.
func (r *Repository) FetchReaction(ctx context.Context, id string) (domain.Reaction, error) {
	res, err := r.client.ExecuteRead(ctx, fetchReactionCypher, map[string]any{"rheaId": id})
	if err != nil {
		return domain.Reaction{}, fmt.Errorf("fetch reaction %s: %w", id, err)
	}
	rec, ok := res.First()
	if !ok {
		return domain.Reaction{}, fmt.Errorf("%w: %s", ErrReactionNotFound, id)
	}
	rxn, _ := reactionFromRecord(rec)
	return rxn, nil
}

// LoadReferenceData reads the whole network back as reference data.
func (r *Repository) LoadReferenceData(ctx context.Context) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{
		Reactions:        make(map[string]domain.Reaction),
		Compounds:        make(map[string]domain.Compound),
		Enzymes:          make(map[string]domain.Enzyme),
		IgnoredCompounds: domain.NewIDSet(),
		IgnoredReactions: domain.NewIDSet(),
	}

	reactions, err := r.client.ExecuteRead(ctx, loadReactionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load reactions: %w", err)
	}
	for _, rec := range reactions.Records {
		rxn, ignored := reactionFromRecord(rec)
		ref.Reactions[rxn.ID] = rxn
		if ignored {
			ref.IgnoredReactions.Add(rxn.ID)
		}
	}

	compounds, err := r.client.ExecuteRead(ctx, loadCompoundsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load compounds: %w", err)
	}
	for _, rec := range compounds.Records {
		c := domain.Compound{
			ID:     rec.String("chebiId"),
			Name:   rec.String("name"),
			Price:  rec.Float("price"),
			Demand: rec.Float("demand"),
		}
		ref.Compounds[c.ID] = c
		if rec.Bool("ignored") {
			ref.IgnoredCompounds.Add(c.ID)
		}
	}

	enzymes, err := r.client.ExecuteRead(ctx, loadEnzymesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load enzymes: %w", err)
	}
	for _, rec := range enzymes.Records {
		e := domain.Enzyme{ID: rec.String("ec"), Name: rec.String("name")}
		ref.Enzymes[e.ID] = e
	}

	ref.Reindex()
	return ref, nil
}

// ExportEdges lists every FEEDS relationship ordered by source and target.
func (r *Repository) ExportEdges(ctx context.Context) ([]domain.NetworkEdge, error) {
	res, err := r.client.ExecuteRead(ctx, exportEdgesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("export edges: %w", err)
	}
	edges := make([]domain.NetworkEdge, 0, len(res.Records))
	for _, rec := range res.Records {
		edges = append(edges, domain.NetworkEdge{
			Source: rec.String("sourceId"),
			Target: rec.String("targetId"),
			Via:    rec.Strings("via"),
		})
	}
	return edges, nil
}

func reactionFromRecord(rec graph.Record) (domain.Reaction, bool) {
	rxn := domain.Reaction{
		ID:         rec.String("rheaId"),
		Equation:   rec.String("equation"),
		Complexity: rec.Float("complexity"),
		Substrates: sideFromRecords(rec.Records("substrates")),
		Products:   sideFromRecords(rec.Records("products")),
		Enzymes:    rec.Strings("enzymes"),
	}
	return rxn, rec.Bool("ignored")
}

func sideParams(coefficients map[string]int) []map[string]any {
	ids := make([]string, 0, len(coefficients))
	for id := range coefficients {
		ids = append(ids, id)
	}
	domain.SortIDs(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{"chebiId": id, "coefficient": coefficients[id]})
	}
	return out
}

func sideFromRecords(recs []graph.Record) map[string]int {
	out := make(map[string]int, len(recs))
	for _, rec := range recs {
		id := rec.String("chebiId")
		if id == "" {
			continue
		}
		out[id] = rec.Int("coefficient")
	}
	return out
}

const upsertCompoundCypher = `
MERGE (c:Compound {chebiId: $chebiId})
SET c += $props
RETURN c.chebiId AS chebiId
`

const upsertEnzymeCypher = `
MERGE (e:Enzyme {ec: $ec})
SET e.name = $name
RETURN e.ec AS ec
`

const upsertReactionCypher = `
MERGE (r:Reaction {rheaId: $rheaId})
SET r += $props
WITH r
OPTIONAL MATCH (r)-[old:CONSUMES|PRODUCES|CATALYZED_BY]->()
DELETE old
WITH DISTINCT r
FOREACH (s IN $substrates |
	MERGE (c:Compound {chebiId: s.chebiId})
	MERGE (r)-[rel:CONSUMES]->(c)
	SET rel.coefficient = s.coefficient
)
FOREACH (p IN $products |
	MERGE (c:Compound {chebiId: p.chebiId})
	MERGE (r)-[rel:PRODUCES]->(c)
	SET rel.coefficient = p.coefficient
)
FOREACH (ec IN $enzymes |
	MERGE (e:Enzyme {ec: ec})
	MERGE (r)-[:CATALYZED_BY]->(e)
)
RETURN r.rheaId AS rheaId
`

const linkReactionsCypher = `
MATCH (a:Reaction {rheaId: $sourceId}), (b:Reaction {rheaId: $targetId})
MERGE (a)-[f:FEEDS]->(b)
SET f.via = $via
`

const reactionProjection = `
RETURN r.rheaId AS rheaId,
       r.equation AS equation,
       r.complexity AS complexity,
       coalesce(r.ignored, false) AS ignored,
       [(r)-[s:CONSUMES]->(c:Compound) | {chebiId: c.chebiId, coefficient: s.coefficient}] AS substrates,
       [(r)-[p:PRODUCES]->(c:Compound) | {chebiId: c.chebiId, coefficient: p.coefficient}] AS products,
       [(r)-[:CATALYZED_BY]->(e:Enzyme) | e.ec] AS enzymes
`

const fetchReactionCypher = `
MATCH (r:Reaction {rheaId: $rheaId})` + reactionProjection

const loadReactionsCypher = `
MATCH (r:Reaction)` + reactionProjection + `ORDER BY r.rheaId
`

const loadCompoundsCypher = `
MATCH (c:Compound)
RETURN c.chebiId AS chebiId,
       coalesce(c.name, '') AS name,
       coalesce(c.price, 0.0) AS price,
       coalesce(c.demand, 0.0) AS demand,
       coalesce(c.ignored, false) AS ignored
ORDER BY c.chebiId
`

const loadEnzymesCypher = `
MATCH (e:Enzyme)
RETURN e.ec AS ec, coalesce(e.name, '') AS name
ORDER BY e.ec
`

const exportEdgesCypher = `
MATCH (a:Reaction)-[f:FEEDS]->(b:Reaction)
RETURN a.rheaId AS sourceId, b.rheaId AS targetId, coalesce(f.via, []) AS via
ORDER BY sourceId, targetId
`
