package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// SuggestionService manages the review lifecycle of persisted
// suggestions: list, inspect, accept or reject.
type SuggestionService interface {
	List(ctx context.Context, filter repositories.SuggestionFilter) ([]*models.Suggestion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	// Review transitions a pending suggestion to accepted or rejected.
	// A suggestion that is no longer pending returns
	// ErrSuggestionReviewed; a missing one returns ErrNotFound.
	Review(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, notes *string) (*models.Suggestion, error)
	Stats(ctx context.Context) (map[models.SuggestionStatus]int, error)
}

type suggestionService struct {
	suggestions repositories.SuggestionRepository
	actionLog   repositories.ActionLogRepository
	logger      *zap.Logger
}

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(
	suggestions repositories.SuggestionRepository,
	actionLog repositories.ActionLogRepository,
	logger *zap.Logger,
) SuggestionService {
	return &suggestionService{
		suggestions: suggestions,
		actionLog:   actionLog,
		logger:      logger.Named("suggestion_service"),
	}
}

var _ SuggestionService = (*suggestionService)(nil)

func (s *suggestionService) List(ctx context.Context, filter repositories.SuggestionFilter) ([]*models.Suggestion, error) {
	return s.suggestions.List(ctx, filter)
}

func (s *suggestionService) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	suggestion, err := s.suggestions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, apperrors.ErrNotFound
	}
	return suggestion, nil
}

func (s *suggestionService) Review(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, notes *string) (*models.Suggestion, error) {
	if status != models.SuggestionStatusAccepted && status != models.SuggestionStatusRejected {
		return nil, fmt.Errorf("invalid review status %q", status)
	}

	suggestion, err := s.suggestions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, apperrors.ErrNotFound
	}
	if suggestion.Status != models.SuggestionStatusPending {
		return nil, fmt.Errorf("%w: status is %s", apperrors.ErrSuggestionReviewed, suggestion.Status)
	}

	if err := s.suggestions.UpdateStatus(ctx, id, status, reviewedBy, notes); err != nil {
		return nil, err
	}

	entityID := suggestion.PrimaryEntityID
	if err := s.actionLog.Append(ctx, &models.ActionLogEntry{
		ActionType:   "suggestion_" + string(status),
		SuggestionID: &id,
		EntityType:   suggestion.EntityType,
		EntityID:     &entityID,
		TriggeredBy:  reviewedBy,
	}); err != nil {
		s.logger.Warn("failed to log suggestion review", zap.Error(err))
	}

	s.logger.Info("suggestion reviewed",
		zap.String("suggestion_id", id.String()),
		zap.String("status", string(status)),
		zap.String("reviewed_by", reviewedBy))

	return s.suggestions.GetByID(ctx, id)
}

func (s *suggestionService) Stats(ctx context.Context) (map[models.SuggestionStatus]int, error) {
	return s.suggestions.CountByStatus(ctx)
}
