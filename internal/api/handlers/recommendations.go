// internal/api/handlers/recommendations.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
	"smartmatch/internal/models"
	"smartmatch/internal/smartmatch/recommend"
)

// RecommendationsHandler exposes the SmartMatch controller over HTTP.
type RecommendationsHandler struct {
	controller *recommend.Controller
	logger     logger.Logger
}

func NewRecommendationsHandler(controller *recommend.Controller, log logger.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		controller: controller,
		logger:     log.WithFields(map[string]interface{}{"component": "recommendations-handler"}),
	}
}

type recommendationsRequest struct {
	models.SearchParams
	Enabled *bool `json:"enabled"`
}

type recommendationsResponse struct {
	RequestID string              `json:"request_id,omitempty"`
	Degraded  bool                `json:"degraded"`
	Items     []models.RankedItem `json:"items"`
}

type errorResponse struct {
	Error *stderrors.StandardError `json:"error"`
}

// Fetch handles POST /api/v1/recommendations. A disabled toggle returns an
// empty list without running the engine; input errors are 400; everything
// downstream degrades inside the engine and still answers 200.
func (h *RecommendationsHandler) Fetch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: stderrors.NewInvalidPayloadError(err),
		})
		return
	}

	if req.Enabled != nil && !*req.Enabled {
		writeJSON(w, http.StatusOK, recommendationsResponse{Items: []models.RankedItem{}})
		return
	}

	items, err := h.controller.FetchRecommendations(r.Context(), req.SearchParams)
	if err != nil {
		status := http.StatusBadGateway
		if stderrors.IsInputError(err) {
			status = http.StatusBadRequest
		}
		var stdErr *stderrors.StandardError
		if se, ok := err.(*stderrors.StandardError); ok {
			stdErr = se
		} else {
			stdErr = stderrors.NewCandidateQueryFailedError(err)
		}
		writeJSON(w, status, errorResponse{Error: stdErr})
		return
	}

	state := h.controller.State()
	writeJSON(w, http.StatusOK, recommendationsResponse{
		RequestID: state.RequestID,
		Degraded:  state.Degraded,
		Items:     items,
	})
}

// Clear handles DELETE /api/v1/recommendations.
func (h *RecommendationsHandler) Clear(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.controller.ClearRecommendations()
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (h *RecommendationsHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
