package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/graph"
)

func TestRepository_UpsertReaction(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	rxn := domain.Reaction{
		ID:         "10",
		Substrates: map[string]int{"15377": 1, "57540": 2},
		Products:   map[string]int{"16240": 1},
		Enzymes:    []string{"1.1.1.1"},
		Complexity: 0.4,
		Equation:   "H2O + 2 NAD = H2O2",
	}
	if err := repo.UpsertReaction(context.Background(), rxn, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertReactionCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertReactionCypher, call.Query)
	}
	if call.Params["rheaId"] != "10" {
		t.Errorf("expected rheaId 10, got %v", call.Params["rheaId"])
	}

	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["ignored"] != true {
		t.Errorf("expected ignored=true, got %v", props["ignored"])
	}
	if props["equation"] != rxn.Equation {
		t.Errorf("equation mismatch: want %s got %v", rxn.Equation, props["equation"])
	}

	subs, ok := call.Params["substrates"].([]map[string]any)
	if !ok || len(subs) != 2 {
		t.Fatalf("expected 2 substrates, got %#v", call.Params["substrates"])
	}
	if subs[0]["chebiId"] != "15377" || subs[1]["chebiId"] != "57540" || subs[1]["coefficient"] != 2 {
		t.Errorf("substrates not ordered with coefficients: %#v", subs)
	}
}

func TestRepository_UpsertRequiresIDs(t *testing.T) {
	repo := New(graph.NewMemoryClient())
	ctx := context.Background()

	if err := repo.UpsertReaction(ctx, domain.Reaction{}, false); err == nil {
		t.Error("expected error for empty reaction id")
	}
	if err := repo.UpsertCompound(ctx, domain.Compound{}, false); err == nil {
		t.Error("expected error for empty compound id")
	}
	if err := repo.UpsertEnzyme(ctx, domain.Enzyme{}); err == nil {
		t.Error("expected error for empty ec")
	}
}

func TestRepository_UpsertCompoundAndEnzyme(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)
	ctx := context.Background()

	if err := repo.UpsertCompound(ctx, domain.Compound{ID: "15377", Name: "water", Price: 0.1, Demand: 1}, true); err != nil {
		t.Fatalf("upsert compound: %v", err)
	}
	if err := repo.UpsertEnzyme(ctx, domain.Enzyme{ID: "1.1.1.1", Name: "alcohol dehydrogenase"}); err != nil {
		t.Fatalf("upsert enzyme: %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(calls))
	}
	if calls[0].Query != upsertCompoundCypher || calls[1].Query != upsertEnzymeCypher {
		t.Fatalf("unexpected queries: %q, %q", calls[0].Query, calls[1].Query)
	}
	props := calls[0].Params["props"].(map[string]any)
	if props["name"] != "water" || props["ignored"] != true {
		t.Errorf("unexpected compound props: %#v", props)
	}
	if calls[1].Params["name"] != "alcohol dehydrogenase" {
		t.Errorf("unexpected enzyme name: %v", calls[1].Params["name"])
	}
}

func TestRepository_LinkReactions(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	edge := domain.NetworkEdge{Source: "1", Target: "4", Via: []string{"3", "4"}}
	if err := repo.LinkReactions(context.Background(), edge); err != nil {
		t.Fatalf("link: %v", err)
	}
	call := mem.WriteCalls()[0]
	if call.Query != linkReactionsCypher {
		t.Fatalf("unexpected query %q", call.Query)
	}
	via, _ := call.Params["via"].([]string)
	if strings.Join(via, ",") != "3,4" {
		t.Errorf("unexpected via %v", call.Params["via"])
	}
}

func TestRepository_WriteErrorIsWrapped(t *testing.T) {
	boom := errors.New("bolt down")
	repo := New(graph.NewMemoryClient().WithError(boom))

	err := repo.LinkReactions(context.Background(), domain.NetworkEdge{Source: "1", Target: "2"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "1->2") {
		t.Errorf("expected edge in message, got %v", err)
	}
}

func TestRepository_LoadReferenceData(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"rheaId":     "1",
			"equation":   "A + B = C",
			"complexity": 0.5,
			"ignored":    false,
			"substrates": []any{
				map[string]any{"chebiId": "a", "coefficient": int64(1)},
				map[string]any{"chebiId": "b", "coefficient": int64(2)},
			},
			"products": []any{map[string]any{"chebiId": "c", "coefficient": int64(1)}},
			"enzymes":  []any{"1.1.1.1"},
		},
		{
			"rheaId":     "2",
			"equation":   "C = D",
			"complexity": int64(1),
			"ignored":    true,
			"substrates": []any{map[string]any{"chebiId": "c", "coefficient": int64(1)}},
			"products":   []any{map[string]any{"chebiId": "d", "coefficient": int64(1)}},
			"enzymes":    []any{},
		},
	}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"chebiId": "a", "name": "alpha", "price": 2.0, "demand": int64(3), "ignored": false},
		{"chebiId": "w", "name": "water", "price": 0.0, "demand": 0.0, "ignored": true},
	}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"ec": "1.1.1.1", "name": "alcohol dehydrogenase"},
	}})

	ref, err := New(mem).LoadReferenceData(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	reads := mem.ReadCalls()
	if len(reads) != 3 || reads[0].Query != loadReactionsCypher || reads[1].Query != loadCompoundsCypher || reads[2].Query != loadEnzymesCypher {
		t.Fatalf("unexpected read sequence: %#v", reads)
	}

	r1 := ref.Reactions["1"]
	if r1.Substrates["b"] != 2 || r1.Products["c"] != 1 || r1.Complexity != 0.5 {
		t.Errorf("unexpected reaction 1: %#v", r1)
	}
	if got := ref.Reactions["2"].Complexity; got != 1 {
		t.Errorf("expected integer complexity to convert, got %v", got)
	}
	if !ref.IgnoredReactions.Has("2") || !ref.IgnoredCompounds.Has("w") {
		t.Errorf("ignored sets not restored: %v %v", ref.IgnoredReactions, ref.IgnoredCompounds)
	}
	if c, _ := ref.Compound("a"); c.Value() != 6 {
		t.Errorf("expected value 6 for alpha, got %v", c.Value())
	}
	if got := ref.Consumers("c"); len(got) != 1 || got[0] != "2" {
		t.Errorf("indexes not rebuilt, consumers of c = %v", got)
	}
	if got := ref.ReactionsForEnzyme("1.1.1.1"); len(got) != 1 || got[0] != "1" {
		t.Errorf("enzyme index not rebuilt: %v", got)
	}
}

func TestRepository_FetchReaction(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	_, err := repo.FetchReaction(context.Background(), "404")
	if !errors.Is(err, ErrReactionNotFound) {
		t.Fatalf("expected ErrReactionNotFound, got %v", err)
	}

	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"rheaId":     "7",
		"substrates": []any{map[string]any{"chebiId": "x", "coefficient": int64(1)}},
		"products":   []any{},
		"enzymes":    []any{"2.7.1.1"},
	}}})
	rxn, err := repo.FetchReaction(context.Background(), "7")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rxn.ID != "7" || rxn.Substrates["x"] != 1 || len(rxn.Products) != 0 || rxn.Enzymes[0] != "2.7.1.1" {
		t.Errorf("unexpected reaction %#v", rxn)
	}
	if mem.ReadCalls()[1].Params["rheaId"] != "7" {
		t.Errorf("expected rheaId param, got %v", mem.ReadCalls()[1].Params)
	}
}

func TestRepository_ExportEdges(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"sourceId": "1", "targetId": "4", "via": []any{"3", "4"}},
		{"sourceId": "2", "targetId": "6", "via": []any{}},
	}})

	edges, err := New(mem).ExportEdges(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(edges) != 2 || edges[0].Source != "1" || strings.Join(edges[0].Via, ",") != "3,4" || len(edges[1].Via) != 0 {
		t.Errorf("unexpected edges %#v", edges)
	}
}
