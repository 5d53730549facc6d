// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/varsity/internal/app"
	"github.com/okian/varsity/internal/domain/model"
)

// CoursesHandler handles institution course-listing requests.
type CoursesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewCoursesHandler creates a new courses handler.
func NewCoursesHandler(deps Dependencies, maxLimit int) *CoursesHandler {
	return &CoursesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetCourses handles GET /universities/{id}/courses requests.
// Query parameters: aps (optional), include_almost (optional bool),
// limit (optional), subject (repeatable, "Name:Level").
func (h *CoursesHandler) HandleGetCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract /universities/{id}/courses
	path := strings.TrimPrefix(r.URL.Path, "/universities/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "courses" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	institutionID := parts[0]

	q := service.Query{InstitutionID: institutionID}

	if apsStr := r.URL.Query().Get("aps"); apsStr != "" {
		aps, err := strconv.Atoi(apsStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: aps must be an integer", ErrBadRequest))
			return
		}
		q.UserAPS = &aps
	}

	if almostStr := r.URL.Query().Get("include_almost"); almostStr != "" {
		almost, err := strconv.ParseBool(almostStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: include_almost must be a boolean", ErrBadRequest))
			return
		}
		q.IncludeAlmost = &almost
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if limit > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit above %d", ErrBadRequest, h.maxLimit))
			return
		}
		q.Limit = limit
	}

	subjects, err := parseSubjectParams(r.URL.Query()["subject"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	q.UserSubjects = subjects

	report, err := h.deps.CoursesForInstitution(r.Context(), q)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// parseSubjectParams decodes repeated subject=Name:Level query values. The
// level is everything after the last colon so subject names may contain one.
func parseSubjectParams(values []string) ([]model.UserSubject, error) {
	var subjects []model.UserSubject
	for _, v := range values {
		idx := strings.LastIndex(v, ":")
		if idx <= 0 || idx == len(v)-1 {
			return nil, fmt.Errorf("%w: subject must be Name:Level, got %q", ErrBadRequest, v)
		}
		level, err := strconv.Atoi(v[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: subject level must be an integer, got %q", ErrBadRequest, v)
		}
		subjects = append(subjects, model.UserSubject{Name: v[:idx], Level: level})
	}
	return subjects, nil
}
