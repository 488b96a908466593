package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// personalDomains are consumer mail providers that never identify an
// employer. Senders from these domains are skipped, not linked.
var personalDomains = map[string]bool{
	"gmail.com":      true,
	"gmail.it":       true,
	"hotmail.com":    true,
	"hotmail.it":     true,
	"hotmail.co.uk":  true,
	"hotmail.fr":     true,
	"outlook.com":    true,
	"outlook.it":     true,
	"yahoo.com":      true,
	"yahoo.it":       true,
	"yahoo.co.uk":    true,
	"yahoo.fr":       true,
	"icloud.com":     true,
	"libero.it":      true,
	"live.com":       true,
	"msn.com":        true,
	"aol.com":        true,
	"protonmail.com": true,
	"me.com":         true,
	"mac.com":        true,
}

// IsPersonalDomain reports whether the domain belongs to a consumer
// mail provider.
func IsPersonalDomain(domain string) bool {
	return personalDomains[matching.NormalizeDomain(domain)]
}

// CompanyAuditService audits a contact's company affiliation: proposes
// a link from the sender's domain when none exists, flags malformed
// domains on the company record, and finds empty shell duplicates.
type CompanyAuditService interface {
	Audit(ctx context.Context, contactID uuid.UUID, senderEmail string) (*models.CompanyAudit, []models.CompanyDuplicate, error)
}

type companyAuditService struct {
	contacts  repositories.ContactRepository
	companies repositories.CompanyRepository
	logger    *zap.Logger
}

// NewCompanyAuditService creates a new CompanyAuditService.
func NewCompanyAuditService(contacts repositories.ContactRepository, companies repositories.CompanyRepository, logger *zap.Logger) CompanyAuditService {
	return &companyAuditService{
		contacts:  contacts,
		companies: companies,
		logger:    logger.Named("company_audit_service"),
	}
}

var _ CompanyAuditService = (*companyAuditService)(nil)

func (s *companyAuditService) Audit(ctx context.Context, contactID uuid.UUID, senderEmail string) (*models.CompanyAudit, []models.CompanyDuplicate, error) {
	graph, err := s.contacts.GetGraph(ctx, contactID)
	if err != nil {
		return nil, nil, apperrors.NewRepositoryError("contacts.get_graph", err)
	}

	audit := &models.CompanyAudit{Issues: []models.CompanyIssue{}}
	duplicates := []models.CompanyDuplicate{}

	// Already linked: the first company wins, and the audit turns to
	// the company record itself.
	if graph != nil && len(graph.Companies) > 0 {
		company := graph.Companies[0]
		audit.CompanyID = &company.ID
		audit.Name = company.Name
		audit.Linked = true
		audit.Action = models.CompanyActionNone

		if err := s.auditCompanyRecord(ctx, company, audit, &duplicates); err != nil {
			return nil, nil, err
		}
		return audit, duplicates, nil
	}

	domain := matching.ExtractDomain(senderEmail)
	if domain == "" {
		audit.Action = models.CompanyActionNone
		audit.Reason = "No sender domain to match"
		return audit, duplicates, nil
	}

	if IsPersonalDomain(domain) {
		audit.Action = models.CompanyActionSkip
		audit.Reason = fmt.Sprintf("Personal email domain (%s)", matching.NormalizeDomain(domain))
		return audit, duplicates, nil
	}

	candidates, err := s.companies.FindByDomainFlexible(ctx, domain)
	if err != nil {
		return nil, nil, apperrors.NewRepositoryError("companies.find_by_domain", err)
	}
	if len(candidates) == 0 {
		audit.Action = models.CompanyActionNone
		audit.Reason = fmt.Sprintf("No company found for domain %s", matching.NormalizeDomain(domain))
		return audit, duplicates, nil
	}

	company := candidates[0]
	audit.CompanyID = &company.ID
	audit.Name = company.Name
	audit.Action = models.CompanyActionLink
	audit.Reason = fmt.Sprintf("Sender domain matches company %s", company.Name)

	if err := s.auditCompanyRecord(ctx, company, audit, &duplicates); err != nil {
		return nil, nil, err
	}
	return audit, duplicates, nil
}

// auditCompanyRecord flags malformed domain rows and shell duplicates
// of the given company.
func (s *companyAuditService) auditCompanyRecord(ctx context.Context, company *models.Company, audit *models.CompanyAudit, duplicates *[]models.CompanyDuplicate) error {
	domains, err := s.companies.GetDomains(ctx, company.ID)
	if err != nil {
		return apperrors.NewRepositoryError("companies.get_domains", err)
	}
	for _, d := range domains {
		clean := matching.NormalizeDomain(d.Domain)
		// A value that normalizes to nothing has no fixable form.
		if clean != d.Domain && clean != "" {
			audit.Issues = append(audit.Issues, models.CompanyIssue{
				Field:   "domain",
				Current: d.Domain,
				Fix:     clean,
			})
		}
	}

	candidates, err := s.companies.FindDuplicatesByName(ctx, company.Name, company.ID)
	if err != nil {
		return apperrors.NewRepositoryError("companies.find_duplicates_by_name", err)
	}
	for _, c := range candidates {
		// Data-bearing companies are never proposed for deletion.
		if !c.IsShell() {
			continue
		}
		*duplicates = append(*duplicates, models.CompanyDuplicate{
			CompanyID: c.ID,
			Name:      c.Name,
			Action:    models.CompanyDuplicateMergeDelete,
			Into:      company.Name,
		})
	}

	if len(audit.Issues) > 0 || len(*duplicates) > 0 {
		s.logger.Info("company defects found",
			zap.String("company_id", company.ID.String()),
			zap.Int("domain_issues", len(audit.Issues)),
			zap.Int("shell_duplicates", len(*duplicates)))
	}
	return nil
}
