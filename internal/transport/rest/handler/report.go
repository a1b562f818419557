package handler

import (
	"encoding/json"
	"net/http"

	"surq/internal/model"
	"surq/internal/service"
	"surq/internal/transport/rest/middleware"
)

// ReportHandler handles report creation by regular users.
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// CreateReportRequest is the request body for filing a report.
type CreateReportRequest struct {
	SurveyID       string `json:"surveyId"`
	ReportedUserID string `json:"reportedUserId"`
	Reason         string `json:"reason"`
}

// Create handles POST /v1/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SurveyID == "" || req.ReportedUserID == "" {
		writeError(w, http.StatusBadRequest, "surveyId and reportedUserId are required")
		return
	}

	ident := middleware.GetIdentity(r.Context())
	id, err := h.reportSvc.Create(r.Context(), ident, req.SurveyID, req.ReportedUserID, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reportId": id,
		"status":   model.ReportPending,
	})
}
