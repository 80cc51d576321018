package server

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.SearchService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.SearchService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, toSearchResponse(resp))
}

func (h *APIHandlers) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 0)
	recent, err := h.service.RecentSearches(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err, http.StatusInternalServerError)
		return
	}

	items := make([]searchRecordResponse, 0, len(recent.Items))
	for _, rec := range recent.Items {
		items = append(items, toSearchRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *APIHandlers) handleReaction(w http.ResponseWriter, r *http.Request) {
	rxn, err := h.service.Reaction(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toReactionResponse(rxn))
}

func (h *APIHandlers) handleCompound(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Compound(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toCompoundResponse(c))
}

func (h *APIHandlers) handleFindCompounds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.FindCompounds(q.Get("q"), parseInt(q.Get("limit"), 0))
	if err != nil {
		h.writeServiceError(w, err, http.StatusInternalServerError)
		return
	}

	items := make([]compoundResponse, 0, len(result.Items))
	for _, c := range result.Items {
		items = append(items, toCompoundResponse(c))
	}
	respondJSON(w, http.StatusOK, compoundListResponse{Items: items, Total: result.Total})
}

func (h *APIHandlers) handleEnzyme(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Enzyme(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, enzymeResponse{EC: e.ID, Name: e.Name})
}

func (h *APIHandlers) handleNetworkEdges(w http.ResponseWriter, r *http.Request) {
	edges, err := h.service.NetworkEdges()
	if err != nil {
		h.writeServiceError(w, err, http.StatusInternalServerError)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="network_edges.csv"`)
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"source", "target", "via"})
		for _, e := range edges {
			_ = cw.Write([]string{e.Source, e.Target, strings.Join(e.Via, ";")})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			h.logger.Error("failed to write edge export", "error", err)
		}
		return
	}

	items := make([]edgeResponse, 0, len(edges))
	for _, e := range edges {
		items = append(items, edgeResponse{Source: e.Source, Target: e.Target, Via: nonNil(e.Via)})
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// writeServiceError maps service errors onto HTTP statuses. unknownStatus is
// used for unknown identifiers: 400 inside a search request, 404 on lookups.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, unknownStatus int) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  service.ErrInvalidParameters.Error(),
			"fields": verr.Fields,
		})
	case errors.Is(err, service.ErrInvalidParameters):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownCompound), errors.Is(err, service.ErrUnknownEnzyme):
		writeError(w, unknownStatus, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSearchTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type searchResponse struct {
	SearchID   string          `json:"search_id"`
	Results    []pathwayResult `json:"results"`
	Stats      searchStats     `json:"stats"`
	DurationMS int64           `json:"duration_ms"`
}

type searchStats struct {
	Sources    int `json:"sources"`
	Targets    int `json:"targets"`
	Pairs      int `json:"pairs"`
	Candidates int `json:"candidates"`
}

type pathwayResult struct {
	Rank      int            `json:"rank"`
	Score     int            `json:"score"`
	Reactions []string       `json:"reactions"`
	Summary   summaryPayload `json:"summary"`
	Steps     []stepPayload  `json:"steps"`
}

type summaryPayload struct {
	Substrates    []compoundCount `json:"substrates"`
	Intermediates []compoundCount `json:"intermediates"`
	Products      []compoundCount `json:"products"`
	TotalEquation string          `json:"total_equation"`
}

type compoundCount struct {
	CompoundID string `json:"chebi_id"`
	Consumed   int    `json:"consumed"`
	Produced   int    `json:"produced"`
}

type stepPayload struct {
	ReactionID string           `json:"rhea_id"`
	Equation   string           `json:"equation"`
	Complexity float64          `json:"complexity"`
	Enzymes    []enzymeResponse `json:"enzymes"`
	Via        []string         `json:"via"`
}

type reactionResponse struct {
	RheaID     string         `json:"rhea_id"`
	Equation   string         `json:"equation"`
	Complexity float64        `json:"complexity"`
	Substrates map[string]int `json:"substrates"`
	Products   map[string]int `json:"products"`
	Enzymes    []string       `json:"enzymes"`
}

type compoundResponse struct {
	ChebiID string  `json:"chebi_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Demand  float64 `json:"demand"`
}

type compoundListResponse struct {
	Items []compoundResponse `json:"items"`
	Total int                `json:"total"`
}

type enzymeResponse struct {
	EC   string `json:"ec"`
	Name string `json:"name"`
}

type edgeResponse struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Via    []string `json:"via"`
}

type searchRecordResponse struct {
	SearchID    string       `json:"search_id"`
	Query       domain.Query `json:"query"`
	ResultCount int          `json:"result_count"`
	TopScore    *int         `json:"top_score,omitempty"`
	DurationMS  int64        `json:"duration_ms"`
	CreatedAt   string       `json:"created_at"`
}

func toSearchResponse(resp service.SearchResponse) searchResponse {
	out := searchResponse{
		SearchID: resp.SearchID,
		Results:  make([]pathwayResult, 0, len(resp.Results)),
		Stats: searchStats{
			Sources:    resp.Stats.Sources,
			Targets:    resp.Stats.Targets,
			Pairs:      resp.Stats.Pairs,
			Candidates: resp.Stats.Candidates,
		},
		DurationMS: resp.Duration.Milliseconds(),
	}
	for _, r := range resp.Results {
		pr := pathwayResult{
			Rank:      r.Rank,
			Score:     r.Score,
			Reactions: nonNil(r.Reactions),
			Summary: summaryPayload{
				Substrates:    toCounts(r.Summary.Substrates),
				Intermediates: toCounts(r.Summary.Intermediates),
				Products:      toCounts(r.Summary.Products),
				TotalEquation: r.Summary.TotalEquation,
			},
			Steps: make([]stepPayload, 0, len(r.Steps)),
		}
		for _, s := range r.Steps {
			step := stepPayload{
				ReactionID: s.ReactionID,
				Equation:   s.Equation,
				Complexity: s.Complexity,
				Enzymes:    make([]enzymeResponse, 0, len(s.Enzymes)),
				Via:        nonNil(s.Via),
			}
			for _, e := range s.Enzymes {
				step.Enzymes = append(step.Enzymes, enzymeResponse{EC: e.ID, Name: e.Name})
			}
			pr.Steps = append(pr.Steps, step)
		}
		out.Results = append(out.Results, pr)
	}
	return out
}

func toCounts(counts []domain.CompoundCount) []compoundCount {
	out := make([]compoundCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, compoundCount{CompoundID: c.CompoundID, Consumed: c.Consumed, Produced: c.Produced})
	}
	return out
}

func toReactionResponse(r domain.Reaction) reactionResponse {
	return reactionResponse{
		RheaID:     r.ID,
		Equation:   r.Equation,
		Complexity: r.Complexity,
		Substrates: r.Substrates,
		Products:   r.Products,
		Enzymes:    nonNil(r.Enzymes),
	}
}

func toCompoundResponse(c domain.Compound) compoundResponse {
	return compoundResponse{ChebiID: c.ID, Name: c.Name, Price: c.Price, Demand: c.Demand}
}

func toSearchRecord(rec domain.SearchRecord) searchRecordResponse {
	return searchRecordResponse{
		SearchID:    rec.ID,
		Query:       rec.Query,
		ResultCount: rec.ResultCount,
		TopScore:    rec.TopScore,
		DurationMS:  rec.Duration.Milliseconds(),
		CreatedAt:   formatTime(rec.CreatedAt),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
