// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ReportHandler serves catalog validation and health reports.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleCatalogReport handles GET /catalog/report requests.
func (h *ReportHandler) HandleCatalogReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CatalogReport(r.Context()))
}

// HandleHealthReport handles GET /health/report requests.
func (h *ReportHandler) HandleHealthReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.HealthReport())
}
