package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// DuplicateService detects and classifies duplicates of a resolved contact.
type DuplicateService interface {
	// FindDuplicates returns suspected duplicates of the contact, each
	// classified delete (provably empty) or merge (carries data the
	// contact lacks).
	FindDuplicates(ctx context.Context, contact *models.Contact) ([]models.DuplicateContact, error)
}

type duplicateService struct {
	contacts repositories.ContactRepository
	logger   *zap.Logger
}

// NewDuplicateService creates a new DuplicateService.
func NewDuplicateService(contacts repositories.ContactRepository, logger *zap.Logger) DuplicateService {
	return &duplicateService{
		contacts: contacts,
		logger:   logger.Named("duplicate_service"),
	}
}

var _ DuplicateService = (*duplicateService)(nil)

func (s *duplicateService) FindDuplicates(ctx context.Context, contact *models.Contact) ([]models.DuplicateContact, error) {
	if contact.FirstName == "" {
		return nil, nil
	}

	origin, err := s.contacts.GetGraph(ctx, contact.ID)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.get_graph", err)
	}
	if origin == nil {
		return nil, nil
	}

	candidates, err := s.contacts.FindByNameExact(ctx, contact.FirstName, contact.LastName)
	if err != nil {
		return nil, apperrors.NewRepositoryError("contacts.find_by_name_exact", err)
	}

	// Middle names produce near-misses ("Katherine Elizabeth Manson"
	// vs "Katherine Manson"), so the fuzzy pass matches on the last
	// token of the last name only.
	if contact.LastName != "" {
		tokens := strings.Fields(contact.LastName)
		fuzzy, err := s.contacts.FindByNameFuzzy(ctx, contact.FirstName, tokens[len(tokens)-1])
		if err != nil {
			return nil, apperrors.NewRepositoryError("contacts.find_by_name_fuzzy", err)
		}
		candidates = append(candidates, fuzzy...)
	}

	seen := map[uuid.UUID]bool{contact.ID: true}
	var duplicates []models.DuplicateContact

	for _, candidate := range candidates {
		if seen[candidate.ID] {
			continue
		}
		seen[candidate.ID] = true

		graph, err := s.contacts.GetGraph(ctx, candidate.ID)
		if err != nil {
			return nil, apperrors.NewRepositoryError("contacts.get_graph", err)
		}
		if graph == nil {
			continue
		}
		duplicates = append(duplicates, classifyDuplicate(origin, graph))
	}

	if len(duplicates) > 0 {
		s.logger.Info("found duplicate candidates",
			zap.String("contact_id", contact.ID.String()),
			zap.Int("count", len(duplicates)))
	}
	return duplicates, nil
}

// classifyDuplicate decides delete vs merge for one candidate by
// collecting the data it carries that the origin contact lacks.
func classifyDuplicate(origin, candidate *models.ContactGraph) models.DuplicateContact {
	preserve := dataToPreserve(origin, candidate)

	dup := models.DuplicateContact{
		ContactID:      candidate.Contact.ID,
		Name:           candidate.Contact.FullName(),
		DataToPreserve: preserve,
	}
	if len(preserve) == 0 {
		dup.Action = models.DuplicateActionDelete
		dup.Reason = "Empty duplicate - no unique data"
	} else {
		dup.Action = models.DuplicateActionMerge
		dup.Reason = fmt.Sprintf("Has data to preserve: %d items", len(preserve))
	}
	return dup
}

func dataToPreserve(origin, candidate *models.ContactGraph) []string {
	var preserve []string

	for _, e := range candidate.Emails {
		if !hasEmail(origin.Emails, e.Email) {
			preserve = append(preserve, fmt.Sprintf("email: %s", e.Email))
		}
	}
	for _, m := range candidate.Mobiles {
		if !hasMobile(origin.Mobiles, m.Mobile) {
			preserve = append(preserve, fmt.Sprintf("mobile: %s (%s)", m.Mobile, m.Type))
		}
	}
	for _, t := range candidate.Tags {
		if !hasTag(origin.Tags, t.Name) {
			preserve = append(preserve, fmt.Sprintf("tag: %s", t.Name))
		}
	}
	for _, c := range candidate.Cities {
		if !hasCity(origin.Cities, c.Name) {
			preserve = append(preserve, fmt.Sprintf("city: %s", c.Name))
		}
	}
	for _, co := range candidate.Companies {
		if !hasCompany(origin.Companies, co.ID) {
			preserve = append(preserve, fmt.Sprintf("company: %s", co.Name))
		}
	}
	return preserve
}

func hasEmail(emails []*models.ContactEmail, email string) bool {
	normalized := matching.NormalizeEmail(email)
	for _, e := range emails {
		if matching.NormalizeEmail(e.Email) == normalized {
			return true
		}
	}
	return false
}

func hasMobile(mobiles []*models.ContactMobile, number string) bool {
	for _, m := range mobiles {
		if m.Mobile == number || matching.PhonesMatch(m.Mobile, number) {
			return true
		}
	}
	return false
}

func hasTag(tags []*models.Tag, name string) bool {
	for _, t := range tags {
		if matching.NormalizeName(t.Name) == matching.NormalizeName(name) {
			return true
		}
	}
	return false
}

func hasCity(cities []*models.City, name string) bool {
	for _, c := range cities {
		if matching.NormalizeName(c.Name) == matching.NormalizeName(name) {
			return true
		}
	}
	return false
}

func hasCompany(companies []*models.Company, id uuid.UUID) bool {
	for _, c := range companies {
		if c.ID == id {
			return true
		}
	}
	return false
}
