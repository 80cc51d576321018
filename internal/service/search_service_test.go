package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/domain/domaintest"
	"github.com/vanshika/rxnpath/internal/metrics"
	"github.com/vanshika/rxnpath/internal/pathway"
)

type stubHistory struct {
	mu      sync.Mutex
	records []domain.SearchRecord
	err     error
}

func (h *stubHistory) RecordSearch(_ context.Context, rec domain.SearchRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, rec)
	return nil
}

func (h *stubHistory) RecentSearches(_ context.Context, limit int) ([]domain.SearchRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	out := make([]domain.SearchRecord, 0, len(h.records))
	for i := len(h.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) *SearchService {
	t.Helper()
	snaps := NewSnapshots(discardLogger())
	snaps.Load(domaintest.SixReactions())

	cfg := DefaultSearchConfig()
	cfg.Bounds = pathway.Bounds{}
	svc := NewSearchService(snaps, cfg).WithLogger(discardLogger())
	svc.newID = func() string { return "search-1" }
	return svc
}

func reactionsOf(resp SearchResponse) [][]string {
	out := make([][]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.Reactions)
	}
	return out
}

func TestSearchService_Search(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"CHEBI:1", " chebi: 3 "}})
	require.NoError(t, err)

	assert.Equal(t, "search-1", resp.SearchID)
	assert.Equal(t, [][]string{{"2", "6"}, {"1"}}, reactionsOf(resp))
	assert.Equal(t, 2, resp.Stats.Candidates)

	top := resp.Results[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 12, top.Score)
	require.Len(t, top.Steps, 2)
	assert.Equal(t, []string{"5", "6"}, top.Steps[0].Via)
	assert.Nil(t, top.Steps[1].Via)
	assert.Equal(t, []domain.Enzyme{{ID: "1", Name: "EC 1"}, {ID: "3", Name: "EC 3"}}, top.Steps[0].Enzymes)
	assert.Equal(t, "C1 + C2 => C3 + C4", top.Summary.TotalEquation)
}

func TestSearchService_SearchByEnzyme(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Search(context.Background(), SearchRequest{Enzymes: []string{"EC 1", "1"}, MaxResults: 20})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 13)
	for i, r := range resp.Results {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestSearchService_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		req   SearchRequest
		field string
	}{
		{"nothing", SearchRequest{}, "compounds"},
		{"single compound", SearchRequest{Compounds: []string{"1"}}, "compounds"},
		{"blank compound", SearchRequest{Compounds: []string{"1", " "}}, "compounds[1]"},
		{"too many results", SearchRequest{Compounds: []string{"1", "3"}, MaxResults: 25}, "max_results"},
		{"negative results", SearchRequest{Compounds: []string{"1", "3"}, MaxResults: -1}, "max_results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameters))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestSearchService_UnknownIdentifiers(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "404"}})
	assert.True(t, errors.Is(err, ErrUnknownCompound))

	_, err = svc.Search(context.Background(), SearchRequest{Enzymes: []string{"9.9.9.9"}})
	assert.True(t, errors.Is(err, ErrUnknownEnzyme))

	resp, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"ANY", "1"}})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 4)
}

func TestSearchService_NotReady(t *testing.T) {
	svc := NewSearchService(NewSnapshots(discardLogger()), DefaultSearchConfig())

	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = svc.Reaction("1")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSearchService_Timeout(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newTestService(t).WithMetrics(metrics.NewSearch(reg))
	svc.cfg.Timeout = time.Second
	// A clock far in the past puts the deadline behind the real time.
	svc.WithClock(func() time.Time { return time.Unix(0, 0) })

	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	assert.ErrorIs(t, err, ErrSearchTimeout)

	expected := `
# HELP rxnpath_searches_total Pathway searches by outcome.
# TYPE rxnpath_searches_total counter
rxnpath_searches_total{outcome="timeout"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rxnpath_searches_total"))
}

func TestSearchService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newTestService(t).WithMetrics(metrics.NewSearch(reg))

	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), SearchRequest{Compounds: []string{"1"}})
	require.Error(t, err)

	expected := `
# HELP rxnpath_searches_total Pathway searches by outcome.
# TYPE rxnpath_searches_total counter
rxnpath_searches_total{outcome="invalid"} 1
rxnpath_searches_total{outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rxnpath_searches_total"))
}

func TestSearchService_Span(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	svc := newTestService(t).WithTracer(tp.Tracer("test"))
	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "pathway.search", spans[0].Name)
	assert.NotEqual(t, codes.Error, spans[0].Status.Code)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "search-1", attrs["rxnpath.search_id"].AsString())
	assert.Equal(t, []string{"1", "3"}, attrs["rxnpath.compounds"].AsStringSlice())
	assert.Equal(t, int64(2), attrs["rxnpath.results"].AsInt64())
}

func TestSearchService_History(t *testing.T) {
	history := &stubHistory{}
	svc := newTestService(t).WithHistory(history)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })
	svc.cfg.Timeout = 0

	_, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	require.NoError(t, err)

	recent, err := svc.RecentSearches(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent.Items, 1)

	rec := recent.Items[0]
	assert.Equal(t, "search-1", rec.ID)
	assert.Equal(t, 2, rec.ResultCount)
	require.NotNil(t, rec.TopScore)
	assert.Equal(t, 12, *rec.TopScore)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Len(t, rec.Query.Chain, 2)
}

func TestSearchService_HistoryFailureDoesNotFailSearch(t *testing.T) {
	svc := newTestService(t).WithHistory(&stubHistory{err: errors.New("disk full")})

	resp, err := svc.Search(context.Background(), SearchRequest{Compounds: []string{"1", "3"}})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}

func TestSearchService_Lookups(t *testing.T) {
	svc := newTestService(t)

	r, err := svc.Reaction("RHEA:4")
	require.NoError(t, err)
	assert.Equal(t, "C3 + C4 = C5 + C6", r.Equation)

	c, err := svc.Compound("CHEBI:2")
	require.NoError(t, err)
	assert.Equal(t, "C2", c.Name)

	e, err := svc.Enzyme("EC 3")
	require.NoError(t, err)
	assert.Equal(t, "EC 3", e.Name)

	_, err = svc.Reaction("99")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Compound("99")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Enzyme("9.9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchService_FindCompounds(t *testing.T) {
	svc := newTestService(t)

	all, err := svc.FindCompounds("c", 2)
	require.NoError(t, err)
	assert.Equal(t, 6, all.Total)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "1", all.Items[0].ID)
	assert.Equal(t, "2", all.Items[1].ID)

	one, err := svc.FindCompounds("C5", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, one.Total)
	assert.Equal(t, "5", one.Items[0].ID)
}

func TestNormalizeRequest(t *testing.T) {
	got := normalizeRequest(SearchRequest{
		Compounds:      []string{" CHEBI:15377 ", "Any", "15377"},
		Enzymes:        []string{"EC 1.1.1.1", "1.1.1.1", "ec:2.7.1.1"},
		ForbiddenLinks: []string{"chebi:15378", "15378", ""},
		MaxResults:     3,
	})

	assert.Equal(t, []string{"15377", domain.AnyCompound, "15377"}, got.Compounds)
	assert.Equal(t, []string{"1.1.1.1", "2.7.1.1"}, got.Enzymes)
	assert.Equal(t, []string{"15378"}, got.ForbiddenLinks)
	assert.Equal(t, 3, got.MaxResults)
}
