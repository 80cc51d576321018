package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/metrics"
	"github.com/vanshika/rxnpath/internal/pathway"
)

// HistoryStore records executed searches.
type HistoryStore interface {
	RecordSearch(ctx context.Context, rec domain.SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error)
}

// SearchConfig tunes search execution.
type SearchConfig struct {
	Workers           int
	Timeout           time.Duration
	Bounds            pathway.Bounds
	DefaultMaxResults int
	MaxResultsLimit   int
}

// DefaultSearchConfig returns the settings used when none are configured.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Workers:           4,
		Timeout:           30 * time.Second,
		Bounds:            pathway.DefaultBounds(),
		DefaultMaxResults: 5,
		MaxResultsLimit:   20,
	}
}

// SearchService validates search requests and runs them against the current
// snapshot.
type SearchService struct {
	snapshots *Snapshots
	cfg       SearchConfig
	metrics   *metrics.Search
	history   HistoryStore
	tracer    trace.Tracer
	logger    *slog.Logger
	nowFn     func() time.Time
	newID     func() string
}

// NewSearchService constructs a SearchService over snapshots.
func NewSearchService(snapshots *Snapshots, cfg SearchConfig) *SearchService {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = DefaultSearchConfig().DefaultMaxResults
	}
	return &SearchService{
		snapshots: snapshots,
		cfg:       cfg,
		tracer:    otel.Tracer("github.com/vanshika/rxnpath/internal/service"),
		logger:    slog.Default(),
		nowFn:     time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// WithMetrics attaches Prometheus collectors.
func (s *SearchService) WithMetrics(m *metrics.Search) *SearchService {
	s.metrics = m
	return s
}

// WithHistory records every successful search in h.
func (s *SearchService) WithHistory(h HistoryStore) *SearchService {
	s.history = h
	return s
}

// WithTracer overrides the tracer (used primarily in tests).
func (s *SearchService) WithTracer(t trace.Tracer) *SearchService {
	if t != nil {
		s.tracer = t
	}
	return s
}

// WithLogger overrides the logger.
func (s *SearchService) WithLogger(l *slog.Logger) *SearchService {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithClock overrides the time provider (used primarily in tests).
func (s *SearchService) WithClock(nowFn func() time.Time) *SearchService {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// Search runs a pathway search. Invalid requests fail with a
// *ValidationError; identifiers missing from the reference data fail with
// ErrUnknownCompound or ErrUnknownEnzyme; a search that outlives the
// configured timeout fails with ErrSearchTimeout.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	started := s.nowFn()
	snap := s.snapshots.Current()
	if snap == nil {
		return SearchResponse{}, ErrNotReady
	}

	req = normalizeRequest(req)
	if req.MaxResults == 0 {
		req.MaxResults = s.cfg.DefaultMaxResults
	}
	if err := validateRequest(req, s.cfg.MaxResultsLimit); err != nil {
		s.metrics.ObserveSearch(metrics.OutcomeInvalid, s.nowFn().Sub(started), 0, 0)
		return SearchResponse{}, err
	}
	if err := checkKnown(req, snap.Ref); err != nil {
		s.metrics.ObserveSearch(metrics.OutcomeInvalid, s.nowFn().Sub(started), 0, 0)
		return SearchResponse{}, err
	}

	searchID := s.newID()
	ctx, span := s.tracer.Start(ctx, "pathway.search", trace.WithAttributes(
		attribute.String("rxnpath.search_id", searchID),
		attribute.StringSlice("rxnpath.compounds", req.Compounds),
		attribute.StringSlice("rxnpath.enzymes", req.Enzymes),
		attribute.Int("rxnpath.forbidden_links", len(req.ForbiddenLinks)),
		attribute.Int("rxnpath.max_results", req.MaxResults),
	))
	defer span.End()

	searchCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithDeadline(ctx, started.Add(s.cfg.Timeout))
		defer cancel()
	}

	q := req.Query()
	res, err := pathway.Search(searchCtx, snap.Graph, snap.Ref, q, pathway.Options{
		Bounds:  s.cfg.Bounds,
		Workers: s.cfg.Workers,
		Logger:  s.logger,
	})
	elapsed := s.nowFn().Sub(started)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			outcome = metrics.OutcomeTimeout
			err = fmt.Errorf("%w after %s", ErrSearchTimeout, s.cfg.Timeout)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveSearch(outcome, elapsed, 0, 0)
		s.logger.Warn("search failed", "searchId", searchID, "error", err, "duration_ms", elapsed.Milliseconds())
		return SearchResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("rxnpath.pairs", res.Pairs),
		attribute.Int("rxnpath.candidates", res.Candidates),
		attribute.Int("rxnpath.results", len(res.Pathways)),
	)
	s.metrics.ObserveSearch(metrics.OutcomeOK, elapsed, res.Candidates, len(res.Pathways))

	resp := SearchResponse{
		SearchID: searchID,
		Results:  make([]PathwayResult, 0, len(res.Pathways)),
		Stats: SearchStats{
			Sources:    res.Sources,
			Targets:    res.Targets,
			Pairs:      res.Pairs,
			Candidates: res.Candidates,
		},
		Duration: elapsed,
	}
	for i, sp := range res.Pathways {
		resp.Results = append(resp.Results, expand(i+1, sp, snap))
	}

	s.record(ctx, searchID, q, res, elapsed)
	s.logger.Info("search completed",
		"searchId", searchID,
		"candidates", res.Candidates,
		"results", len(res.Pathways),
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}

// record saves the search to history. Failures are logged and never fail the
// search.
func (s *SearchService) record(ctx context.Context, id string, q domain.Query, res pathway.Result, elapsed time.Duration) {
	if s.history == nil {
		return
	}
	rec := domain.SearchRecord{
		ID:          id,
		Query:       q,
		ResultCount: len(res.Pathways),
		Duration:    elapsed,
		CreatedAt:   s.nowFn().UTC(),
	}
	if len(res.Pathways) > 0 {
		top := res.Pathways[0].Score
		rec.TopScore = &top
	}
	if err := s.history.RecordSearch(ctx, rec); err != nil {
		s.logger.Warn("failed to record search", "searchId", id, "error", err)
	}
}

func checkKnown(req SearchRequest, ref *domain.ReferenceData) error {
	for _, c := range req.Compounds {
		if c == domain.AnyCompound {
			continue
		}
		if _, ok := ref.Compound(c); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCompound, c)
		}
	}
	for _, ec := range req.Enzymes {
		if _, ok := ref.Enzyme(ec); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEnzyme, ec)
		}
	}
	return nil
}

func expand(rank int, sp domain.ScoredPathway, snap *Snapshot) PathwayResult {
	out := PathwayResult{
		Rank:      rank,
		Score:     sp.Score,
		Reactions: sp.Pathway.Clone(),
		Summary:   pathway.Summarize(sp.Pathway, snap.Ref),
		Steps:     make([]StepView, 0, len(sp.Pathway)),
	}
	for i, id := range sp.Pathway {
		step := StepView{ReactionID: id}
		if r, ok := snap.Ref.Reaction(id); ok {
			step.Equation = r.Equation
			step.Complexity = r.Complexity
			for _, ec := range r.Enzymes {
				e, _ := snap.Ref.Enzyme(ec)
				e.ID = ec
				step.Enzymes = append(step.Enzymes, e)
			}
		}
		if i+1 < len(sp.Pathway) {
			step.Via = snap.Graph.Via(id, sp.Pathway[i+1])
		}
		out.Steps = append(out.Steps, step)
	}
	return out
}

// Reaction returns a reaction by Rhea ID.
func (s *SearchService) Reaction(id string) (domain.Reaction, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return domain.Reaction{}, ErrNotReady
	}
	id = normalizeReaction(id)
	r, ok := snap.Ref.Reaction(id)
	if !ok {
		return domain.Reaction{}, fmt.Errorf("reaction %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// Compound returns a compound by ChEBI ID.
func (s *SearchService) Compound(id string) (domain.Compound, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return domain.Compound{}, ErrNotReady
	}
	id = normalizeCompound(id)
	c, ok := snap.Ref.Compound(id)
	if !ok {
		return domain.Compound{}, fmt.Errorf("compound %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Enzyme returns an enzyme by EC number.
func (s *SearchService) Enzyme(ec string) (domain.Enzyme, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return domain.Enzyme{}, ErrNotReady
	}
	ec = normalizeEnzyme(ec)
	e, ok := snap.Ref.Enzyme(ec)
	if !ok {
		return domain.Enzyme{}, fmt.Errorf("enzyme %s: %w", ec, ErrNotFound)
	}
	return e, nil
}

// NetworkEdges lists every link of the current reaction graph.
func (s *SearchService) NetworkEdges() ([]domain.NetworkEdge, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap.Graph.Edges(), nil
}

// Probe reports ErrNotReady until reference data is loaded.
func (s *SearchService) Probe(context.Context) error {
	if s.snapshots.Current() == nil {
		return ErrNotReady
	}
	return nil
}

// FindCompounds lists compounds whose name or ID contains query, case
// insensitively, ordered by ID.
func (s *SearchService) FindCompounds(query string, limit int) (domain.CompoundListResult, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return domain.CompoundListResult{}, ErrNotReady
	}
	limit = normalizeLimit(limit)
	needle := strings.ToLower(sanitizeString(query))
	if stripped := normalizeCompound(needle); stripped != "" {
		needle = stripped
	}

	ids := make([]string, 0, len(snap.Ref.Compounds))
	for id := range snap.Ref.Compounds {
		ids = append(ids, id)
	}
	domain.SortIDs(ids)

	var result domain.CompoundListResult
	for _, id := range ids {
		c := snap.Ref.Compounds[id]
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(id, needle) {
			continue
		}
		result.Total++
		if len(result.Items) < limit {
			result.Items = append(result.Items, c)
		}
	}
	return result, nil
}

// RecentSearches lists the latest recorded searches, newest first. Without a
// history store the list is empty.
func (s *SearchService) RecentSearches(ctx context.Context, limit int) (domain.SearchHistoryResult, error) {
	if s.history == nil {
		return domain.SearchHistoryResult{}, nil
	}
	records, err := s.history.RecentSearches(ctx, normalizeLimit(limit))
	if err != nil {
		return domain.SearchHistoryResult{}, fmt.Errorf("recent searches: %w", err)
	}
	return domain.SearchHistoryResult{Items: records}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
