package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// StatsResponse summarizes suggestion counts and recent agent activity.
type StatsResponse struct {
	Suggestions   map[string]int           `json:"suggestions"`
	RecentActions []*models.ActionLogEntry `json:"recent_actions"`
}

// StatsHandler exposes agent statistics over HTTP.
type StatsHandler struct {
	suggestions services.SuggestionService
	actionLog   repositories.ActionLogRepository
	logger      *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(suggestions services.SuggestionService, actionLog repositories.ActionLogRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{suggestions: suggestions, actionLog: actionLog, logger: logger}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stats", h.Stats)
}

// Stats handles GET /stats requests.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.suggestions.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to count suggestions", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to count suggestions")
		return
	}

	recent, err := h.actionLog.Recent(r.Context(), 10)
	if err != nil {
		h.logger.Error("failed to load recent actions", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to load recent actions")
		return
	}
	if recent == nil {
		recent = []*models.ActionLogEntry{}
	}

	response := StatsResponse{
		Suggestions: map[string]int{
			"pending":  counts[models.SuggestionStatusPending],
			"accepted": counts[models.SuggestionStatusAccepted],
			"rejected": counts[models.SuggestionStatusRejected],
		},
		RecentActions: recent,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}
