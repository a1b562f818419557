package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"surq/internal/model"
	"surq/internal/service"
	"surq/internal/transport/rest/middleware"
)

// ResponseHandler handles response-tracking endpoints.
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler.
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// TrackRequest reports a response lifecycle event.
type TrackRequest struct {
	Action      model.TrackAction `json:"action"`
	StartedAt   *time.Time        `json:"startedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// Track handles POST /v1/surveys/{surveyId}/responses/track.
func (h *ResponseHandler) Track(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	ident := middleware.GetIdentity(r.Context())

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case model.TrackStart:
		openedAt := time.Now()
		if req.StartedAt != nil {
			openedAt = *req.StartedAt
		}
		if err := h.responseSvc.Start(r.Context(), surveyID, ident, openedAt); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})

	case model.TrackComplete:
		completedAt := time.Now()
		if req.CompletedAt != nil {
			completedAt = *req.CompletedAt
		}
		duration, err := h.responseSvc.Complete(r.Context(), surveyID, ident, completedAt)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"durationMinutes": duration,
		})

	case model.TrackAccessError:
		if err := h.responseSvc.AccessError(r.Context(), surveyID, ident); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})

	default:
		writeError(w, http.StatusBadRequest, "invalid action")
	}
}

// List handles GET /v1/surveys/{surveyId}/responses (survey owner only).
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	ident := middleware.GetIdentity(r.Context())

	responses, err := h.responseSvc.ListForOwner(r.Context(), surveyID, ident)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}
