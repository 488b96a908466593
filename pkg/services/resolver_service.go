package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// ResolverService maps an inbound sender to an existing contact.
// "Not found" is a normal outcome here, not an error: the audit engine
// turns it into a create-contact recommendation.
type ResolverService interface {
	// Resolve tries the sender's email first, then falls back to a name
	// search, preferring the candidate with the most linked data.
	// Returns nil when no contact matches.
	Resolve(ctx context.Context, event *models.InboundEvent) (*models.Contact, error)
}

type resolverService struct {
	contacts repositories.ContactRepository
	logger   *zap.Logger
}

// NewResolverService creates a new ResolverService.
func NewResolverService(contacts repositories.ContactRepository, logger *zap.Logger) ResolverService {
	return &resolverService{
		contacts: contacts,
		logger:   logger.Named("resolver_service"),
	}
}

var _ ResolverService = (*resolverService)(nil)

func (s *resolverService) Resolve(ctx context.Context, event *models.InboundEvent) (*models.Contact, error) {
	if event.FromEmail != "" {
		contact, err := s.contacts.GetByEmail(ctx, event.FromEmail)
		if err != nil {
			return nil, apperrors.NewRepositoryError("contacts.get_by_email", err)
		}
		if contact != nil {
			s.logger.Debug("resolved contact by email",
				zap.String("contact_id", contact.ID.String()))
			return contact, nil
		}
	}

	if event.FromName == "" {
		return nil, nil
	}

	firstName, lastName := matching.ParseName(event.FromName)
	matches, err := s.contacts.SearchByName(ctx, firstName, lastName)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.search_by_name", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// Several contacts can share a name; the one with the most linked
	// emails and mobiles is the likeliest real record.
	best := matches[0]
	for _, m := range matches[1:] {
		if m.EmailCount+m.MobileCount > best.EmailCount+best.MobileCount {
			best = m
		}
	}

	s.logger.Debug("resolved contact by name",
		zap.String("contact_id", best.Contact.ID.String()),
		zap.Int("candidates", len(matches)))
	return best.Contact, nil
}
