// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// APSHandler handles APS score validation requests.
type APSHandler struct {
	deps Dependencies
}

// NewAPSHandler creates a new APS validation handler.
func NewAPSHandler(deps Dependencies) *APSHandler {
	return &APSHandler{deps: deps}
}

// HandleValidateAPS handles GET /aps/validate?score=N requests.
func (h *APSHandler) HandleValidateAPS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	scoreStr := r.URL.Query().Get("score")
	score, err := strconv.Atoi(scoreStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: score must be an integer", ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ValidateAPS(score))
}
