package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// AuditService runs the full audit pipeline for one inbound event:
// resolve, completeness, email action, duplicates, mobiles, company,
// engagement context, communication analysis.
type AuditService interface {
	Audit(ctx context.Context, event *models.InboundEvent) (*models.AuditResult, error)
}

type auditService struct {
	resolver     ResolverService
	completeness CompletenessService
	duplicates   DuplicateService
	mobiles      MobileAuditService
	company      CompanyAuditService
	contacts     repositories.ContactRepository
	engagements  repositories.EngagementRepository
	stepTimeout  time.Duration
	logger       *zap.Logger
}

// NewAuditService creates a new AuditService. stepTimeout bounds each
// pipeline step independently; a zero value disables per-step deadlines.
func NewAuditService(
	resolver ResolverService,
	completeness CompletenessService,
	duplicates DuplicateService,
	mobiles MobileAuditService,
	company CompanyAuditService,
	contacts repositories.ContactRepository,
	engagements repositories.EngagementRepository,
	stepTimeout time.Duration,
	logger *zap.Logger,
) AuditService {
	return &auditService{
		resolver:     resolver,
		completeness: completeness,
		duplicates:   duplicates,
		mobiles:      mobiles,
		company:      company,
		contacts:     contacts,
		engagements:  engagements,
		stepTimeout:  stepTimeout,
		logger:       logger.Named("audit_service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) Audit(ctx context.Context, event *models.InboundEvent) (*models.AuditResult, error) {
	event.FromEmail = strings.ToLower(strings.TrimSpace(event.FromEmail))

	s.logger.Info("starting audit",
		zap.String("email", event.FromEmail),
		zap.String("name", event.FromName))

	contact, err := s.resolver.Resolve(ctx, event)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return s.noContactResult(event), nil
	}

	result := &models.AuditResult{
		Contact: models.ContactAudit{
			ContactID:     &contact.ID,
			Name:          contact.FullName(),
			Found:         true,
			MissingFields: []string{},
		},
	}

	// Each enrichment step degrades to an empty finding when its
	// repository fails; only non-repository errors abort the audit.
	if err := s.step(ctx, "completeness", func(ctx context.Context) error {
		score, missing, err := s.completeness.Audit(ctx, contact.ID)
		if err != nil {
			return err
		}
		result.Contact.CompletenessScore = score
		result.Contact.MissingFields = missing
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.step(ctx, "email_action", func(ctx context.Context) error {
		action, err := s.checkEmailAction(ctx, contact.ID, event.FromEmail)
		if err != nil {
			return err
		}
		result.EmailAction = *action
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.step(ctx, "duplicates", func(ctx context.Context) error {
		dups, err := s.duplicates.FindDuplicates(ctx, contact)
		if err != nil {
			return err
		}
		result.ContactDuplicates = dups
		return nil
	}); err != nil {
		return nil, err
	}
	if result.ContactDuplicates == nil {
		result.ContactDuplicates = []models.DuplicateContact{}
	}

	result.Mobiles = models.MobilesAudit{Current: []models.MobileInfo{}, Issues: []models.MobileIssue{}}
	if err := s.step(ctx, "mobiles", func(ctx context.Context) error {
		audit, err := s.mobiles.Audit(ctx, contact.ID)
		if err != nil {
			return err
		}
		result.Mobiles = *audit
		return nil
	}); err != nil {
		return nil, err
	}

	result.Company = models.CompanyAudit{Action: models.CompanyActionNone, Issues: []models.CompanyIssue{}}
	result.CompanyDuplicates = []models.CompanyDuplicate{}
	if err := s.step(ctx, "company", func(ctx context.Context) error {
		audit, dups, err := s.company.Audit(ctx, contact.ID, event.FromEmail)
		if err != nil {
			return err
		}
		result.Company = *audit
		result.CompanyDuplicates = dups
		return nil
	}); err != nil {
		return nil, err
	}

	result.Deals = []models.DealSummary{}
	result.Introductions = []models.IntroductionSummary{}
	if err := s.step(ctx, "engagements", func(ctx context.Context) error {
		deals, err := s.engagements.GetContactDeals(ctx, contact.ID)
		if err != nil {
			return apperrors.NewRepositoryError("engagements.get_contact_deals", err)
		}
		intros, err := s.engagements.GetContactIntroductions(ctx, contact.ID)
		if err != nil {
			return apperrors.NewRepositoryError("engagements.get_contact_introductions", err)
		}
		for _, d := range deals {
			result.Deals = append(result.Deals, *d)
		}
		for _, i := range intros {
			result.Introductions = append(result.Introductions, *i)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	result.Communication = ClassifyCommunication(event.Subject, event.BodyText)

	s.logger.Info("audit complete",
		zap.String("contact_id", contact.ID.String()),
		zap.Int("duplicates", len(result.ContactDuplicates)),
		zap.Int("mobile_issues", len(result.Mobiles.Issues)))
	return result, nil
}

// step runs one pipeline stage under the per-step deadline. Repository
// failures are logged and swallowed so one broken table never sinks the
// whole audit.
func (s *auditService) step(ctx context.Context, name string, fn func(context.Context) error) error {
	if s.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.stepTimeout)
		defer cancel()
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if apperrors.IsRepositoryError(err) {
		s.logger.Warn("audit step degraded",
			zap.String("step", name),
			zap.Error(err))
		return nil
	}
	return err
}

func (s *auditService) checkEmailAction(ctx context.Context, contactID uuid.UUID, email string) (*models.EmailAction, error) {
	if email == "" {
		return &models.EmailAction{Action: models.EmailActionNone, Reason: "No sender email"}, nil
	}

	hasEmail, err := s.contacts.HasEmail(ctx, contactID, email)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.has_email", err)
	}
	if hasEmail {
		return &models.EmailAction{
			Action: models.EmailActionNone,
			Email:  email,
			Reason: "Email already exists on contact",
		}, nil
	}
	return &models.EmailAction{
		Action: models.EmailActionAdd,
		Email:  email,
		Reason: "New email to add",
	}, nil
}

func (s *auditService) noContactResult(event *models.InboundEvent) *models.AuditResult {
	name := event.FromName
	if name == "" {
		name = event.FromEmail
	}

	return &models.AuditResult{
		Contact: models.ContactAudit{
			Name:          name,
			Found:         false,
			MissingFields: []string{},
		},
		EmailAction: models.EmailAction{
			Action: models.EmailActionCreateContact,
			Email:  event.FromEmail,
			Reason: "Contact not found in CRM",
		},
		ContactDuplicates: []models.DuplicateContact{},
		Mobiles:           models.MobilesAudit{Current: []models.MobileInfo{}, Issues: []models.MobileIssue{}},
		Company:           models.CompanyAudit{Action: models.CompanyActionNone, Issues: []models.CompanyIssue{}},
		CompanyDuplicates: []models.CompanyDuplicate{},
		Deals:             []models.DealSummary{},
		Introductions:     []models.IntroductionSummary{},
		Communication: models.CommunicationAnalysis{
			Type:    models.CommunicationUnknown,
			Summary: "New contact - no history",
		},
	}
}
