package api

import (
	"net/http"

	model "github.com/okian/maison/internal/domain/model"
)

// RecommendationHandler serves learning recommendations and the catalog.
type RecommendationHandler struct {
	deps Dependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps Dependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// HandleRecommend handles POST /recommendations requests.
func (h *RecommendationHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	t, progress, err := req.decode()
	if err != nil {
		writeFailure(w, err)
		return
	}
	recs, err := h.deps.RecommendModules(r.Context(), t, progress)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{TalentID: t.ID, Recommendations: recs})
}

// HandleCatalog handles GET /catalog requests. ?category= filters by category.
func (h *RecommendationHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	catalog := h.deps.Catalog()
	modules := catalog.Modules()
	if cat := r.URL.Query().Get("category"); cat != "" {
		modules = catalog.ByCategory(model.Category(cat))
	}
	if modules == nil {
		modules = []model.LearningModule{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{Modules: modules})
}
