package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// ExecuteActionsRequest carries untyped action payloads for execution.
type ExecuteActionsRequest struct {
	Actions []json.RawMessage `json:"actions"`
}

// ActionHandler exposes action execution over HTTP.
type ActionHandler struct {
	executor services.ExecutorService
	logger   *zap.Logger
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(executor services.ExecutorService, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{executor: executor, logger: logger}
}

// RegisterRoutes registers the action handler's routes on the given mux.
func (h *ActionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /actions/execute", h.Execute)
}

// Execute handles POST /actions/execute requests. Each payload is
// decoded and run in order. An unknown action type becomes a failed
// result in place, so one bad entry never aborts the batch.
func (h *ActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if len(req.Actions) == 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "actions is required")
		return
	}

	batch := models.BatchResult{Success: true, Results: make([]models.ActionResult, 0, len(req.Actions))}
	for _, raw := range req.Actions {
		action, err := models.DecodeAction(raw)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnknownActionType) {
				batch.Success = false
				batch.Results = append(batch.Results, models.ActionResult{
					Success: false,
					Message: err.Error(),
				})
				continue
			}
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		result := h.executor.Execute(r.Context(), action)
		batch.Results = append(batch.Results, result)
		if !result.Success {
			batch.Success = false
		}
	}

	if err := WriteJSON(w, http.StatusOK, batch); err != nil {
		h.logger.Error("Failed to encode batch response", zap.Error(err))
	}
}
