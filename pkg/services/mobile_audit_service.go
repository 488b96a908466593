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

// MobileAuditService inspects a contact's mobile rows for defects:
// duplicate numbers, misclassified types, multiple primaries, and
// numbers shared with other contacts.
type MobileAuditService interface {
	Audit(ctx context.Context, contactID uuid.UUID) (*models.MobilesAudit, error)
}

type mobileAuditService struct {
	contacts repositories.ContactRepository
	logger   *zap.Logger
}

// NewMobileAuditService creates a new MobileAuditService.
func NewMobileAuditService(contacts repositories.ContactRepository, logger *zap.Logger) MobileAuditService {
	return &mobileAuditService{
		contacts: contacts,
		logger:   logger.Named("mobile_audit_service"),
	}
}

var _ MobileAuditService = (*mobileAuditService)(nil)

func (s *mobileAuditService) Audit(ctx context.Context, contactID uuid.UUID) (*models.MobilesAudit, error) {
	mobiles, err := s.contacts.GetMobiles(ctx, contactID)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.get_mobiles", err)
	}

	audit := &models.MobilesAudit{
		Current: make([]models.MobileInfo, 0, len(mobiles)),
		Issues:  []models.MobileIssue{},
	}
	for _, m := range mobiles {
		audit.Current = append(audit.Current, models.MobileInfo{
			MobileID:  m.ID,
			Number:    m.Mobile,
			Type:      m.Type,
			IsPrimary: m.IsPrimary,
		})
	}
	if len(mobiles) == 0 {
		return audit, nil
	}

	chats, err := s.contacts.GetChats(ctx, contactID)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.get_chats", err)
	}
	hasDirectChat := false
	for _, c := range chats {
		if !c.IsGroupChat {
			hasDirectChat = true
			break
		}
	}

	// One pass. A row can collect several issues; duplicates are judged
	// on the raw stored string, not the normalized number, because two
	// formattings of one number are a cross-holder concern instead.
	seenNumbers := map[string]bool{}
	primaries := 0

	for _, m := range mobiles {
		if seenNumbers[m.Mobile] {
			audit.Issues = append(audit.Issues, models.MobileIssue{
				MobileID:    m.ID,
				Number:      m.Mobile,
				CurrentType: m.Type,
				Reason:      "Duplicate mobile on same contact - DELETE this one",
				Action:      models.MobileIssueDelete,
			})
		}
		seenNumbers[m.Mobile] = true

		if m.Type == models.MobileTypePersonal && len(chats) > 0 && !hasDirectChat {
			suggested := models.MobileTypeWhatsAppGroup
			audit.Issues = append(audit.Issues, models.MobileIssue{
				MobileID:      m.ID,
				Number:        m.Mobile,
				CurrentType:   m.Type,
				SuggestedType: &suggested,
				Reason:        "No 1:1 WhatsApp chat found, only group chats",
				Action:        models.MobileIssueReview,
			})
		}

		if m.IsPrimary {
			primaries++
		}

		holders, err := s.contacts.MobileHolders(ctx, m.Mobile)
		if err != nil {
			return nil, apperrors.NewRepositoryError("contacts.mobile_holders", err)
		}
		others := 0
		for _, h := range holders {
			if h.ContactID != contactID {
				others++
			}
		}
		if others > 0 {
			audit.Issues = append(audit.Issues, models.MobileIssue{
				MobileID:    m.ID,
				Number:      m.Mobile,
				CurrentType: m.Type,
				Reason:      fmt.Sprintf("Same mobile exists on %d other contact(s)", others),
				Action:      models.MobileIssueReview,
			})
		}
	}

	if primaries > 1 {
		// Keep the first primary in row order, flag the rest.
		kept := false
		for _, m := range mobiles {
			if !m.IsPrimary {
				continue
			}
			if !kept {
				kept = true
				continue
			}
			audit.Issues = append(audit.Issues, models.MobileIssue{
				MobileID:    m.ID,
				Number:      m.Mobile,
				CurrentType: m.Type,
				Reason:      fmt.Sprintf("Multiple primaries detected (%d) - unset this one", primaries),
				Action:      models.MobileIssueUnsetPrimary,
			})
		}
	}

	if len(audit.Issues) > 0 {
		s.logger.Info("mobile defects found",
			zap.String("contact_id", contactID.String()),
			zap.Int("issues", len(audit.Issues)))
	}
	return audit, nil
}
