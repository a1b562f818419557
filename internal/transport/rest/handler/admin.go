package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"surq/internal/model"
	"surq/internal/service"
)

// AdminHandler handles the admin back-office endpoints: user management,
// report resolution and the sweeper triggers.
type AdminHandler struct {
	userSvc    *service.UserService
	reportSvc  *service.ReportService
	sweeperSvc *service.SweeperService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(userSvc *service.UserService, reportSvc *service.ReportService, sweeperSvc *service.SweeperService) *AdminHandler {
	return &AdminHandler{
		userSvc:    userSvc,
		reportSvc:  reportSvc,
		sweeperSvc: sweeperSvc,
	}
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// BanRequest is the request body for banning or unbanning a user.
type BanRequest struct {
	Banned bool `json:"banned"`
}

// BanUser handles PUT /v1/admin/users/{userId}/ban.
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	var req BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userSvc.SetBanned(r.Context(), mux.Vars(r)["userId"], req.Banned); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"banned": req.Banned})
}

// ListReports handles GET /v1/admin/reports.
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// ResolveReportRequest is the request body for resolving a report.
type ResolveReportRequest struct {
	Status       model.ReportStatus `json:"status"`
	AdminNotes   string             `json:"adminNotes"`
	ApplyPenalty bool               `json:"applyPenalty"`
}

// ResolveReport handles PUT /v1/admin/reports/{reportId}.
func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	var req ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reportSvc.Resolve(r.Context(), mux.Vars(r)["reportId"], req.Status, req.AdminNotes, req.ApplyPenalty)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"report": report})
}

// CheckExpiry handles POST /v1/admin/surveys/check-expiry. Compatible with
// an external cron trigger; returns the sweep summary.
func (h *AdminHandler) CheckExpiry(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeperSvc.Sweep(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RestoreExpired handles POST /v1/admin/surveys/restore-expired.
func (h *AdminHandler) RestoreExpired(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeperSvc.RestoreExpired(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
