package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surq/internal/model"
	"surq/internal/service"
	"surq/internal/transport/rest/middleware"
)

// SurveyHandler handles survey CRUD endpoints.
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// SurveyRequest is the request body for creating or updating a survey.
type SurveyRequest struct {
	Type           model.SurveyType `json:"type"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Questions      []model.Question `json:"questions"`
	GoogleFormURL  string           `json:"googleFormUrl"`
	EmbeddedURL    string           `json:"embeddedUrl"`
	EstimatedTime  int              `json:"estimatedTime"`
	Category       string           `json:"category"`
	TargetAudience string           `json:"targetAudience"`
	IsPublished    bool             `json:"isPublished"`
}

func (req *SurveyRequest) toModel() *model.Survey {
	return &model.Survey{
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		Questions:      req.Questions,
		GoogleFormURL:  req.GoogleFormURL,
		EmbeddedURL:    req.EmbeddedURL,
		EstimatedTime:  req.EstimatedTime,
		Category:       req.Category,
		TargetAudience: req.TargetAudience,
		IsPublished:    req.IsPublished,
	}
}

// Create handles POST /v1/surveys.
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	ident := middleware.GetIdentity(r.Context())
	id, err := h.surveySvc.Create(r.Context(), ident, req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"surveyId": id})
}

// List handles GET /v1/surveys (published surveys only).
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.surveySvc.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// ListMine handles GET /v1/surveys/mine.
func (h *SurveyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	surveys, err := h.surveySvc.ListMine(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Get handles GET /v1/surveys/{surveyId}.
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveySvc.Get(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"survey": survey})
}

// Update handles PUT /v1/surveys/{surveyId}.
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident := middleware.GetIdentity(r.Context())
	survey, err := h.surveySvc.Update(r.Context(), ident, mux.Vars(r)["surveyId"], req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"survey": survey})
}

// Delete handles DELETE /v1/surveys/{surveyId}.
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r.Context())
	if err := h.surveySvc.Delete(r.Context(), ident, mux.Vars(r)["surveyId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
