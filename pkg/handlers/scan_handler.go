package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/services"
)

// RunCleanupRequest configures one cleanup scan run.
type RunCleanupRequest struct {
	EntityType string `json:"entity_type"`
	Limit      int    `json:"limit"`
}

// CleanupResponse reports the outcome of a cleanup scan.
type CleanupResponse struct {
	Success            bool   `json:"success"`
	Scanned            int    `json:"scanned"`
	SuggestionsCreated int    `json:"suggestions_created"`
	Message            string `json:"message"`
}

// ScanHandler exposes the bulk duplicate scan over HTTP.
type ScanHandler struct {
	scans        services.ScanService
	defaultLimit int
	logger       *zap.Logger
}

// NewScanHandler creates a new ScanHandler. defaultLimit caps runs
// that do not specify their own limit.
func NewScanHandler(scans services.ScanService, defaultLimit int, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{scans: scans, defaultLimit: defaultLimit, logger: logger}
}

// RegisterRoutes registers the scan handler's routes on the given mux.
func (h *ScanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /run-cleanup", h.RunCleanup)
}

// RunCleanup handles POST /run-cleanup requests. An empty body runs a
// contact scan with the default limit.
func (h *ScanHandler) RunCleanup(w http.ResponseWriter, r *http.Request) {
	req := RunCleanupRequest{EntityType: "contact", Limit: h.defaultLimit}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
			return
		}
	}
	if req.EntityType == "" {
		req.EntityType = "contact"
	}
	if req.Limit <= 0 {
		req.Limit = h.defaultLimit
	}

	if req.EntityType != "contact" {
		_ = WriteJSON(w, http.StatusOK, CleanupResponse{
			Success: false,
			Message: fmt.Sprintf("Cleanup for %s not yet implemented", req.EntityType),
		})
		return
	}

	report, err := h.scans.RunDuplicateScan(r.Context(), req.Limit)
	if err != nil {
		h.logger.Error("duplicate scan failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "duplicate scan failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, CleanupResponse{
		Success:            true,
		Scanned:            report.Scanned,
		SuggestionsCreated: report.SuggestionsCreated,
		Message:            report.Message,
	}); err != nil {
		h.logger.Error("Failed to encode cleanup response", zap.Error(err))
	}
}
