package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// CompletenessService reports which profile fields a contact is missing.
type CompletenessService interface {
	// Audit returns the contact's completeness score and an ordered
	// list of missing field names. When no completeness data exists at
	// all, the list is the sentinel ["all"] and the score is nil.
	Audit(ctx context.Context, contactID uuid.UUID) (*int, []string, error)
}

type completenessService struct {
	contacts repositories.ContactRepository
	logger   *zap.Logger
}

// NewCompletenessService creates a new CompletenessService.
func NewCompletenessService(contacts repositories.ContactRepository, logger *zap.Logger) CompletenessService {
	return &completenessService{
		contacts: contacts,
		logger:   logger.Named("completeness_service"),
	}
}

var _ CompletenessService = (*completenessService)(nil)

func (s *completenessService) Audit(ctx context.Context, contactID uuid.UUID) (*int, []string, error) {
	completeness, err := s.contacts.GetCompleteness(ctx, contactID)
	if err != nil {
		return nil, nil, apperrors.NewRepositoryError("contacts.get_completeness", err)
	}
	if completeness == nil {
		return nil, []string{"all"}, nil
	}

	score := completeness.CompletenessScore
	return &score, MissingFields(completeness), nil
}

// MissingFields derives the missing-field list from a completeness
// projection. The order is fixed and part of the output contract.
func MissingFields(c *models.Completeness) []string {
	missing := []string{}
	if !c.HasBirthday {
		missing = append(missing, "birthday")
	}
	if c.LinkedIn == "" {
		missing = append(missing, "linkedin")
	}
	if c.JobRole == "" {
		missing = append(missing, "job_role")
	}
	if c.EmailCount == 0 {
		missing = append(missing, "email")
	}
	if c.MobileCount == 0 {
		missing = append(missing, "mobile")
	}
	if c.CompanyCount == 0 {
		missing = append(missing, "company")
	}
	if c.CityCount == 0 {
		missing = append(missing, "city")
	}
	if c.TagCount == 0 {
		missing = append(missing, "tags")
	}
	if !c.HasScore {
		missing = append(missing, "score")
	}
	return missing
}
