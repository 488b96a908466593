package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// SuggestionListResponse is the listing envelope.
type SuggestionListResponse struct {
	Suggestions []*models.Suggestion `json:"suggestions"`
	Count       int                  `json:"count"`
}

// SuggestionActionRequest accepts or rejects a suggestion.
type SuggestionActionRequest struct {
	Action string  `json:"action"` // "accept" | "reject"
	Notes  *string `json:"notes,omitempty"`
}

// SuggestionActionResponse reports the review outcome.
type SuggestionActionResponse struct {
	Success      bool      `json:"success"`
	SuggestionID uuid.UUID `json:"suggestion_id"`
	NewStatus    string    `json:"new_status"`
	Message      string    `json:"message"`
}

// SuggestionHandler exposes the suggestion review lifecycle over HTTP.
type SuggestionHandler struct {
	suggestions services.SuggestionService
	logger      *zap.Logger
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestions services.SuggestionService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, logger: logger}
}

// RegisterRoutes registers the suggestion handler's routes on the given mux.
func (h *SuggestionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /suggestions", h.List)
	mux.HandleFunc("GET /suggestions/{id}", h.Get)
	mux.HandleFunc("POST /suggestions/{id}/action", h.Action)
}

// List handles GET /suggestions requests. Status defaults to pending;
// pass status=all to list every suggestion.
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.SuggestionFilter{
		Status:     models.SuggestionStatusPending,
		Type:       models.SuggestionType(r.URL.Query().Get("suggestion_type")),
		EntityType: r.URL.Query().Get("entity_type"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if status == "all" {
			filter.Status = ""
		} else {
			filter.Status = models.SuggestionStatus(status)
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	suggestions, err := h.suggestions.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list suggestions", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []*models.Suggestion{}
	}

	if err := WriteJSON(w, http.StatusOK, SuggestionListResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
	}); err != nil {
		h.logger.Error("Failed to encode suggestion list", zap.Error(err))
	}
}

// Get handles GET /suggestions/{id} requests.
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid suggestion id")
		return
	}

	suggestion, err := h.suggestions.Get(r.Context(), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Suggestion not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get suggestion", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get suggestion")
		return
	}

	if err := WriteJSON(w, http.StatusOK, suggestion); err != nil {
		h.logger.Error("Failed to encode suggestion", zap.Error(err))
	}
}

// Action handles POST /suggestions/{id}/action requests.
func (h *SuggestionHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid suggestion id")
		return
	}

	var req SuggestionActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	var status models.SuggestionStatus
	switch req.Action {
	case "accept":
		status = models.SuggestionStatusAccepted
	case "reject":
		status = models.SuggestionStatusRejected
	default:
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "action must be accept or reject")
		return
	}

	suggestion, err := h.suggestions.Review(r.Context(), id, status, "user", req.Notes)
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "Suggestion not found")
		return
	}
	if errors.Is(err, apperrors.ErrSuggestionReviewed) {
		_ = ErrorResponse(w, http.StatusBadRequest, "already_processed", "Suggestion already processed")
		return
	}
	if err != nil {
		h.logger.Error("failed to review suggestion", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to review suggestion")
		return
	}

	if err := WriteJSON(w, http.StatusOK, SuggestionActionResponse{
		Success:      true,
		SuggestionID: id,
		NewStatus:    string(suggestion.Status),
		Message:      "Suggestion " + string(suggestion.Status),
	}); err != nil {
		h.logger.Error("Failed to encode suggestion action response", zap.Error(err))
	}
}
