package api

import (
	"net/http"

	model "github.com/okian/maison/internal/domain/model"
)

// CompensationHandler serves compensation alignment.
type CompensationHandler struct {
	deps Dependencies
}

// NewCompensationHandler creates a new compensation handler.
func NewCompensationHandler(deps Dependencies) *CompensationHandler {
	return &CompensationHandler{deps: deps}
}

// HandleAlign handles POST /compensation/align requests.
func (h *CompensationHandler) HandleAlign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req alignRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	expected, err := model.DecodeRange("expected", req.Expected)
	if err != nil {
		writeFailure(w, err)
		return
	}
	budget, err := model.DecodeRange("budget", req.Budget)
	if err != nil {
		writeFailure(w, err)
		return
	}
	a, err := h.deps.AlignCompensation(r.Context(), expected, budget)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alignResponse{Alignment: a})
}
