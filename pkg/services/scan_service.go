package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// ScanReport summarizes one duplicate scan run.
type ScanReport struct {
	Scanned            int    `json:"scanned"`
	SuggestionsCreated int    `json:"suggestions_created"`
	Message            string `json:"message"`
}

// ScanService sweeps the contact base for duplicate pairs and persists
// them as reviewable suggestions.
type ScanService interface {
	RunDuplicateScan(ctx context.Context, limit int) (*ScanReport, error)
}

type scanService struct {
	contacts    repositories.ContactRepository
	suggestions repositories.SuggestionRepository
	actionLog   repositories.ActionLogRepository
	logger      *zap.Logger
}

// NewScanService creates a new ScanService.
func NewScanService(
	contacts repositories.ContactRepository,
	suggestions repositories.SuggestionRepository,
	actionLog repositories.ActionLogRepository,
	logger *zap.Logger,
) ScanService {
	return &scanService{
		contacts:    contacts,
		suggestions: suggestions,
		actionLog:   actionLog,
		logger:      logger.Named("scan_service"),
	}
}

var _ ScanService = (*scanService)(nil)

func (s *scanService) RunDuplicateScan(ctx context.Context, limit int) (*ScanReport, error) {
	s.logger.Info("starting duplicate scan", zap.Int("limit", limit))

	contacts, err := s.contacts.ListForScan(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts for scan: %w", err)
	}

	report := &ScanReport{}
	for _, contact := range contacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Scanned++

		candidates, err := s.findCandidates(ctx, contact)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}

		created, err := s.persistCandidates(ctx, contact, candidates)
		if err != nil {
			return nil, err
		}
		report.SuggestionsCreated += created
	}

	report.Message = fmt.Sprintf("Scanned %d contacts, created %d duplicate suggestions",
		report.Scanned, report.SuggestionsCreated)
	s.logger.Info("duplicate scan complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("suggestions", report.SuggestionsCreated))
	return report, nil
}

// findCandidates gathers duplicate candidates for one contact by exact
// email, exact name, and mobile suffix.
func (s *scanService) findCandidates(ctx context.Context, contact *models.Contact) ([]models.DuplicateCandidate, error) {
	var candidates []models.DuplicateCandidate

	emails, err := s.contacts.GetEmails(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails for scan: %w", err)
	}
	for _, e := range emails {
		holders, err := s.contacts.EmailHolders(ctx, e.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to match emails for scan: %w", err)
		}
		for _, h := range holders {
			if h.ContactID == contact.ID {
				continue
			}
			candidates = append(candidates, models.DuplicateCandidate{
				ContactID:  h.ContactID,
				MatchType:  models.MatchTypeExactEmail,
				MatchValue: e.Email,
			})
		}
	}

	if contact.FirstName != "" && contact.LastName != "" {
		matches, err := s.contacts.FindByNameExact(ctx, contact.FirstName, contact.LastName)
		if err != nil {
			return nil, fmt.Errorf("failed to match names for scan: %w", err)
		}
		for _, m := range matches {
			if m.ID == contact.ID {
				continue
			}
			candidates = append(candidates, models.DuplicateCandidate{
				ContactID:  m.ID,
				MatchType:  models.MatchTypeExactName,
				MatchValue: m.FullName(),
			})
		}
	}

	mobiles, err := s.contacts.GetMobiles(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mobiles for scan: %w", err)
	}
	for _, m := range mobiles {
		holders, err := s.contacts.MobileHolders(ctx, m.Mobile)
		if err != nil {
			return nil, fmt.Errorf("failed to match mobiles for scan: %w", err)
		}
		for _, h := range holders {
			if h.ContactID == contact.ID {
				continue
			}
			candidates = append(candidates, models.DuplicateCandidate{
				ContactID:  h.ContactID,
				MatchType:  models.MatchTypeMobile,
				MatchValue: m.Mobile,
			})
		}
	}

	return candidates, nil
}

func (s *scanService) persistCandidates(ctx context.Context, contact *models.Contact, candidates []models.DuplicateCandidate) (int, error) {
	created := 0
	seen := map[uuid.UUID]bool{}

	for _, candidate := range candidates {
		if seen[candidate.ContactID] {
			continue
		}
		seen[candidate.ContactID] = true

		// One pending suggestion per pair, regardless of direction.
		exists, err := s.suggestions.HasPendingPair(ctx, models.SuggestionTypeDuplicate, contact.ID, candidate.ContactID)
		if err != nil {
			return created, fmt.Errorf("failed to check existing suggestion: %w", err)
		}
		if exists {
			continue
		}

		dupe, err := s.contacts.GetByID(ctx, candidate.ContactID)
		if err != nil {
			return created, fmt.Errorf("failed to load duplicate contact: %w", err)
		}
		if dupe == nil {
			continue
		}

		data, err := s.suggestionData(ctx, contact, dupe, candidate)
		if err != nil {
			return created, err
		}

		confidence, priority := candidate.Confidence()
		secondaryID := candidate.ContactID
		suggestion := &models.Suggestion{
			SuggestionType:    models.SuggestionTypeDuplicate,
			EntityType:        "contact",
			PrimaryEntityID:   contact.ID,
			SecondaryEntityID: &secondaryID,
			ConfidenceScore:   confidence,
			Priority:          priority,
			SuggestionData:    data,
			AgentReasoning:    fmt.Sprintf("Found %s match: %s", candidate.MatchType, candidate.MatchValue),
			SourceDescription: "Scheduled duplicate scan",
		}
		if err := s.suggestions.Create(ctx, suggestion); err != nil {
			return created, fmt.Errorf("failed to create suggestion: %w", err)
		}
		created++

		entityID := contact.ID
		if err := s.actionLog.Append(ctx, &models.ActionLogEntry{
			ActionType:   "suggestion_created",
			SuggestionID: &suggestion.ID,
			EntityType:   "contact",
			EntityID:     &entityID,
			TriggeredBy:  "system",
		}); err != nil {
			return created, fmt.Errorf("failed to log suggestion: %w", err)
		}
	}
	return created, nil
}

func (s *scanService) suggestionData(ctx context.Context, primary, duplicate *models.Contact, candidate models.DuplicateCandidate) (map[string]any, error) {
	primaryDetail, err := s.contactDetail(ctx, primary)
	if err != nil {
		return nil, err
	}
	duplicateDetail, err := s.contactDetail(ctx, duplicate)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"match_type":        string(candidate.MatchType),
		"match_value":       candidate.MatchValue,
		"short_reason":      candidate.ShortReason(),
		"primary_contact":   primaryDetail,
		"duplicate_contact": duplicateDetail,
	}, nil
}

func (s *scanService) contactDetail(ctx context.Context, contact *models.Contact) (map[string]any, error) {
	emails, err := s.contacts.GetEmails(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails for suggestion: %w", err)
	}
	mobiles, err := s.contacts.GetMobiles(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mobiles for suggestion: %w", err)
	}

	emailValues := make([]string, 0, len(emails))
	for _, e := range emails {
		emailValues = append(emailValues, e.Email)
	}
	mobileValues := make([]string, 0, len(mobiles))
	for _, m := range mobiles {
		mobileValues = append(mobileValues, m.Mobile)
	}

	return map[string]any{
		"contact_id": contact.ID.String(),
		"first_name": contact.FirstName,
		"last_name":  contact.LastName,
		"emails":     emailValues,
		"mobiles":    mobileValues,
	}, nil
}
