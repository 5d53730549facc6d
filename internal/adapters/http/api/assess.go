// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/varsity/internal/domain/model"
)

// assessRequest mirrors the request schema for POST /assess.
type assessRequest struct {
	ProgramID     string              `json:"program_id"`
	InstitutionID string              `json:"institution_id"`
	UserAPS       int                 `json:"user_aps"`
	UserSubjects  []model.UserSubject `json:"user_subjects"`
}

func (a assessRequest) validate() error {
	switch {
	case strings.TrimSpace(a.ProgramID) == "":
		return errors.New("missing program_id")
	case strings.TrimSpace(a.InstitutionID) == "":
		return errors.New("missing institution_id")
	}
	return nil
}

// AssessHandler handles single-program assessment requests.
type AssessHandler struct {
	deps Dependencies
}

// NewAssessHandler creates a new assess handler.
func NewAssessHandler(deps Dependencies) *AssessHandler {
	return &AssessHandler{deps: deps}
}

// HandleAssess handles POST /assess requests.
func (h *AssessHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	result, err := h.deps.AssessProgram(r.Context(), req.ProgramID, req.InstitutionID, req.UserAPS, req.UserSubjects)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
