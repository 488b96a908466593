package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// AuditResponse is the full audit output: findings plus the compiled
// actions in execution order.
type AuditResponse struct {
	Audit   *models.AuditResult `json:"audit"`
	Actions []json.RawMessage   `json:"actions"`
	Skipped bool                `json:"skipped"`
	Reason  string              `json:"reason,omitempty"`
}

// AuditHandler exposes the audit pipeline over HTTP.
type AuditHandler struct {
	audits services.AuditService
	spam   repositories.SpamRepository
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audits services.AuditService, spam repositories.SpamRepository, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audits: audits, spam: spam, logger: logger}
}

// RegisterRoutes registers the audit handler's routes on the given mux.
func (h *AuditHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /audit", h.Audit)
}

// Audit handles POST /audit requests. The body is an inbound event;
// the response carries the audit findings and compiled actions. Known
// spam senders are skipped before any database work happens.
func (h *AuditHandler) Audit(w http.ResponseWriter, r *http.Request) {
	var event models.InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if event.FromEmail == "" && event.FromName == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "from_email or from_name is required")
		return
	}

	if event.FromEmail != "" {
		skipped, reason, err := h.checkSpam(r, &event)
		if err != nil {
			h.logger.Error("spam check failed", zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "spam check failed")
			return
		}
		if skipped {
			_ = WriteJSON(w, http.StatusOK, AuditResponse{Skipped: true, Reason: reason})
			return
		}
	}

	result, err := h.audits.Audit(r.Context(), &event)
	if err != nil {
		h.logger.Error("audit failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "audit failed")
		return
	}

	actions := services.CompileActions(result)
	encoded := make([]json.RawMessage, 0, len(actions))
	for _, action := range actions {
		raw, err := models.EncodeAction(action)
		if err != nil {
			h.logger.Error("failed to encode action", zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to encode actions")
			return
		}
		encoded = append(encoded, raw)
	}

	if err := WriteJSON(w, http.StatusOK, AuditResponse{Audit: result, Actions: encoded}); err != nil {
		h.logger.Error("Failed to encode audit response", zap.Error(err))
	}
}

func (h *AuditHandler) checkSpam(r *http.Request, event *models.InboundEvent) (bool, string, error) {
	isSpam, err := h.spam.IsSpamEmail(r.Context(), event.FromEmail)
	if err != nil {
		return false, "", err
	}
	if isSpam {
		return true, "Sender is on the spam list", nil
	}

	domain := matching.ExtractDomain(event.FromEmail)
	if domain == "" {
		return false, "", nil
	}
	isSpam, err = h.spam.IsSpamDomain(r.Context(), domain)
	if err != nil {
		return false, "", err
	}
	if isSpam {
		return true, "Sender domain is on the spam list", nil
	}
	return false, "", nil
}
