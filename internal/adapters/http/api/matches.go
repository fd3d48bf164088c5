package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// MatchHandler serves scoring, ranking, stored matches and recomputes.
type MatchHandler struct {
	deps Dependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleScore handles POST /matches/score requests.
func (h *MatchHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	t, o, err := req.decode()
	if err != nil {
		writeFailure(w, err)
		return
	}
	m, err := h.deps.ScoreMatch(r.Context(), t, o)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleRank handles POST /matches/rank requests.
func (h *MatchHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rankRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if req.Limit < 0 || req.MinScore < 0 || req.MinScore > 100 {
		writeFailure(w, fmt.Errorf("%w: limit must be >= 0 and min_score within [0, 100]", ErrBadRequest))
		return
	}
	t, opps, err := req.decode()
	if err != nil {
		writeFailure(w, err)
		return
	}
	matches, err := h.deps.RankMatches(r.Context(), t, opps, req.Limit, req.MinScore)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{TalentID: t.ID, Matches: matches})
}

// HandleList handles GET /matches/{talent_id}?limit=N requests.
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	talentID := strings.TrimPrefix(r.URL.Path, "/matches/")
	if talentID == "" || strings.Contains(talentID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = n
	}
	matches, err := h.deps.Matches(r.Context(), talentID, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{TalentID: talentID, Matches: matches})
}

// HandleRecompute handles POST /matches/recompute requests.
func (h *MatchHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	t, o, err := req.decode()
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.EnqueueRecompute(r.Context(), t, o)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, recomputeResponse{
		Status:    res.Status(),
		JobID:     res.JobID,
		Key:       res.Key,
		Duplicate: res.Duplicate,
	})
}
