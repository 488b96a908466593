package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// mockSuggestionService is a configurable mock for handler tests.
type mockSuggestionService struct {
	suggestions []*models.Suggestion
	reviewed    *models.Suggestion
	stats       map[models.SuggestionStatus]int

	lastFilter   repositories.SuggestionFilter
	lastStatus   models.SuggestionStatus
	lastReviewer string

	err error
}

var _ services.SuggestionService = (*mockSuggestionService)(nil)

func (m *mockSuggestionService) List(ctx context.Context, filter repositories.SuggestionFilter) ([]*models.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilter = filter
	return m.suggestions, nil
}

func (m *mockSuggestionService) Get(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.suggestions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockSuggestionService) Review(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, notes *string) (*models.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastStatus = status
	m.lastReviewer = reviewedBy
	if m.reviewed == nil {
		return nil, apperrors.ErrNotFound
	}
	m.reviewed.Status = status
	return m.reviewed, nil
}

func (m *mockSuggestionService) Stats(ctx context.Context) (map[models.SuggestionStatus]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

// mockAuditService returns a canned audit result.
type mockAuditService struct {
	result *models.AuditResult
	err    error
}

var _ services.AuditService = (*mockAuditService)(nil)

func (m *mockAuditService) Audit(ctx context.Context, event *models.InboundEvent) (*models.AuditResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockScanService returns a canned scan report.
type mockScanService struct {
	report    *services.ScanReport
	lastLimit int
	err       error
}

var _ services.ScanService = (*mockScanService)(nil)

func (m *mockScanService) RunDuplicateScan(ctx context.Context, limit int) (*services.ScanReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastLimit = limit
	return m.report, nil
}

// mockExecutorService records executed actions and reports success.
type mockExecutorService struct {
	executed []models.Action
	fail     bool
}

var _ services.ExecutorService = (*mockExecutorService)(nil)

func (m *mockExecutorService) Execute(ctx context.Context, action models.Action) models.ActionResult {
	m.executed = append(m.executed, action)
	if m.fail {
		return models.ActionResult{Success: false, Message: "execution failed"}
	}
	return models.ActionResult{Success: true, Message: fmt.Sprintf("Executed %s", action.Type())}
}

func (m *mockExecutorService) ExecuteMany(ctx context.Context, actions []models.Action) models.BatchResult {
	batch := models.BatchResult{Success: true}
	for _, a := range actions {
		result := m.Execute(ctx, a)
		batch.Results = append(batch.Results, result)
		if !result.Success {
			batch.Success = false
		}
	}
	return batch
}

// mockSpamRepo flags configured emails and domains as spam.
type mockSpamRepo struct {
	emails  map[string]bool
	domains map[string]bool
	err     error
}

var _ repositories.SpamRepository = (*mockSpamRepo)(nil)

func (m *mockSpamRepo) IsSpamEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.emails[email], nil
}

func (m *mockSpamRepo) IsSpamDomain(ctx context.Context, domain string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.domains[domain], nil
}

// mockActionLog serves canned recent entries.
type mockActionLog struct {
	entries []*models.ActionLogEntry
	err     error
}

var _ repositories.ActionLogRepository = (*mockActionLog)(nil)

func (m *mockActionLog) Append(ctx context.Context, entry *models.ActionLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActionLog) Recent(ctx context.Context, limit int) ([]*models.ActionLogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}
