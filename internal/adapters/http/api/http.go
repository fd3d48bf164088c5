// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/maison/internal/adapters/mq/queue"
	repository "github.com/okian/maison/internal/adapters/repository"
	service "github.com/okian/maison/internal/app"
	"github.com/okian/maison/internal/domain/learning"
	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/internal/domain/types"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreMatch(ctx context.Context, t model.Talent, o model.Opportunity) (model.Match, error)
	RankMatches(ctx context.Context, t model.Talent, opportunities []model.Opportunity, limit, minScore int) ([]model.Match, error)
	AlignCompensation(ctx context.Context, expected, budget *model.CompensationRange) (model.Alignment, error)
	RecommendModules(ctx context.Context, t model.Talent, progress []model.Progress) ([]model.Recommendation, error)

	// Matches reads stored matches; EnqueueRecompute refreshes them asynchronously.
	Matches(ctx context.Context, talentID string, limit int) ([]model.Match, error)
	EnqueueRecompute(ctx context.Context, t model.Talent, o model.Opportunity) (types.RecomputeResult, error)

	Catalog() *learning.Catalog
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	matchHandler          *MatchHandler
	compensationHandler   *CompensationHandler
	recommendationHandler *RecommendationHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		matchHandler:          NewMatchHandler(deps),
		compensationHandler:   NewCompensationHandler(deps),
		recommendationHandler: NewRecommendationHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches/score", MetricsMiddleware(s.matchHandler.HandleScore, "matches_score"))
	mux.HandleFunc("/matches/rank", MetricsMiddleware(s.matchHandler.HandleRank, "matches_rank"))
	mux.HandleFunc("/matches/recompute", MetricsMiddleware(s.matchHandler.HandleRecompute, "matches_recompute"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchHandler.HandleList, "matches_list"))
	mux.HandleFunc("/compensation/align", MetricsMiddleware(s.compensationHandler.HandleAlign, "compensation_align"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationHandler.HandleRecommend, "recommendations"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.recommendationHandler.HandleCatalog, "catalog"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error onto its HTTP status.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%w: %w", ErrBackpressure, err))
	case errors.Is(err, queue.ErrQueueClosed), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeBody reads a JSON object body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		default:
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	return nil
}
