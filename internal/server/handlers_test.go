package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vanshika/rxnpath/internal/domain/domaintest"
	"github.com/vanshika/rxnpath/internal/graph"
	"github.com/vanshika/rxnpath/internal/metrics"
	"github.com/vanshika/rxnpath/internal/pathway"
	"github.com/vanshika/rxnpath/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, loaded bool, health HealthChecks) http.Handler {
	t.Helper()
	snaps := service.NewSnapshots(discardLogger())
	if loaded {
		snaps.Load(domaintest.SixReactions())
	}
	cfg := service.DefaultSearchConfig()
	cfg.Bounds = pathway.Bounds{}

	reg := prometheus.NewRegistry()
	svc := service.NewSearchService(snaps, cfg).
		WithLogger(discardLogger()).
		WithMetrics(metrics.NewSearch(reg))
	if health == nil {
		health = HealthChecks{"reference": svc}
	}
	return NewRouter(discardLogger(), RouterDependencies{
		Health:         health,
		API:            NewAPIHandlers(discardLogger(), svc),
		AllowedOrigins: []string{"http://ui.test"},
		Metrics:        reg,
	})
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	router := newTestRouter(t, true, nil)

	rec := doRequest(t, router, http.MethodPost, "/search", `{"compounds":["CHEBI:1","3"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.SearchID == "" {
		t.Fatal("expected a search id")
	}
	if len(payload.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(payload.Results))
	}
	top := payload.Results[0]
	if strings.Join(top.Reactions, ",") != "2,6" || top.Score != 12 {
		t.Fatalf("unexpected top result %+v", top)
	}
	if len(top.Steps) != 2 || strings.Join(top.Steps[0].Via, ",") != "5,6" || len(top.Steps[1].Via) != 0 {
		t.Fatalf("unexpected steps %+v", top.Steps)
	}
	if top.Summary.TotalEquation != "C1 + C2 => C3 + C4" {
		t.Fatalf("unexpected total equation %q", top.Summary.TotalEquation)
	}
}

func TestHandleSearch_Errors(t *testing.T) {
	router := newTestRouter(t, true, nil)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"compounds":`, http.StatusBadRequest},
		{"unknown field", `{"compound":["1","3"]}`, http.StatusBadRequest},
		{"too few compounds", `{"compounds":["1"]}`, http.StatusBadRequest},
		{"max results above cap", `{"compounds":["1","3"],"max_results":21}`, http.StatusBadRequest},
		{"unknown compound", `{"compounds":["1","999"]}`, http.StatusBadRequest},
		{"unknown enzyme", `{"enzymes":["9.9.9.9"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/search", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("expected error body, got %s", rec.Body.String())
			}
		})
	}

	rec := doRequest(t, router, http.MethodPost, "/search", `{"compounds":["1"]}`)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if _, ok := body.Fields["compounds"]; !ok {
		t.Fatalf("expected compounds field error, got %v", body.Fields)
	}
}

func TestHandleSearch_NotReady(t *testing.T) {
	router := newTestRouter(t, false, nil)

	rec := doRequest(t, router, http.MethodPost, "/search", `{"compounds":["1","3"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandleLookups(t *testing.T) {
	router := newTestRouter(t, true, nil)

	rec := doRequest(t, router, http.MethodGet, "/reactions/RHEA:4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var rxn reactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rxn); err != nil {
		t.Fatalf("failed to decode reaction: %v", err)
	}
	if rxn.RheaID != "4" || rxn.Substrates["3"] != 1 || len(rxn.Enzymes) != 2 {
		t.Fatalf("unexpected reaction %+v", rxn)
	}

	rec = doRequest(t, router, http.MethodGet, "/compounds/2", "")
	var c compoundResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &c)
	if rec.Code != http.StatusOK || c.Name != "C2" || c.Price != 5 {
		t.Fatalf("unexpected compound %d %+v", rec.Code, c)
	}

	rec = doRequest(t, router, http.MethodGet, "/enzymes/3", "")
	var e enzymeResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if rec.Code != http.StatusOK || e.Name != "EC 3" {
		t.Fatalf("unexpected enzyme %d %+v", rec.Code, e)
	}

	for _, target := range []string{"/reactions/77", "/compounds/77", "/enzymes/7.7"} {
		if rec := doRequest(t, router, http.MethodGet, target, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestHandleFindCompounds(t *testing.T) {
	router := newTestRouter(t, true, nil)

	rec := doRequest(t, router, http.MethodGet, "/compounds?q=c&limit=3", "")
	var list compoundListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if list.Total != 6 || len(list.Items) != 3 || list.Items[0].ChebiID != "1" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestHandleNetworkEdgesCSV(t *testing.T) {
	router := newTestRouter(t, true, nil)

	rec := doRequest(t, router, http.MethodGet, "/network/edges?format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv content type, got %s", ct)
	}

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("expected header + 6 edges, got %d rows", len(records))
	}
}

func TestHandleRecentSearches_WithoutHistory(t *testing.T) {
	router := newTestRouter(t, true, nil)

	rec := doRequest(t, router, http.MethodGet, "/searches/recent", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

type failingProbe struct{}

func (failingProbe) Probe(context.Context) error { return errors.New("bolt unreachable") }

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, true, HealthChecks{
		"graph": GraphHealthService{Client: graph.NewMemoryClient()},
		"store": StoreHealthService{},
	})
	if rec := doRequest(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	router = newTestRouter(t, true, HealthChecks{"graph": failingProbe{}})
	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bolt unreachable") {
		t.Fatalf("expected probe error in body, got %s", rec.Body.String())
	}
}

func TestMetricsAndCORS(t *testing.T) {
	router := newTestRouter(t, true, nil)
	_ = doRequest(t, router, http.MethodPost, "/search", `{"compounds":["1","3"]}`)

	rec := doRequest(t, router, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `rxnpath_searches_total{outcome="ok"} 1`) {
		t.Fatalf("expected search counter in metrics output")
	}

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://ui.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "http://ui.test" {
		t.Fatalf("expected CORS header for allowed origin, got %q", got)
	}
}
