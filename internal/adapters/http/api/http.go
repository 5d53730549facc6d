// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/varsity/internal/app"
	"github.com/okian/varsity/internal/domain/eligibility"
	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/internal/domain/validation"
	"github.com/okian/varsity/internal/monitor"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CoursesForInstitution(ctx context.Context, q service.Query) (service.CourseReport, error)
	AssessProgram(ctx context.Context, programID, institutionID string, userAPS int, userSubjects []model.UserSubject) (eligibility.Result, error)
	ValidateAPS(aps int) eligibility.APSValidation
	CatalogReport(ctx context.Context) validation.CatalogReport
	HealthReport() monitor.HealthReport
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	coursesHandler *CoursesHandler
	assessHandler  *AssessHandler
	apsHandler     *APSHandler
	reportHandler  *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxCourseLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		coursesHandler: NewCoursesHandler(deps, maxCourseLimit),
		assessHandler:  NewAssessHandler(deps),
		apsHandler:     NewAPSHandler(deps),
		reportHandler:  NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assess", MetricsMiddleware(s.assessHandler.HandleAssess, "assess"))
	mux.HandleFunc("/aps/validate", MetricsMiddleware(s.apsHandler.HandleValidateAPS, "aps_validate"))
	mux.HandleFunc("/catalog/report", MetricsMiddleware(s.reportHandler.HandleCatalogReport, "catalog_report"))
	mux.HandleFunc("/health/report", MetricsMiddleware(s.reportHandler.HandleHealthReport, "health_report"))
	mux.HandleFunc("/universities/", MetricsMiddleware(s.coursesHandler.HandleGetCourses, "courses"))
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

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	if strings.Contains(strings.ToLower(err.Error()), "not found") {
		return true
	}
	return false
}
