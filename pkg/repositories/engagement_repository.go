package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/models"
)

// EngagementRepository provides data access for deals and introductions.
type EngagementRepository interface {
	GetContactDeals(ctx context.Context, contactID uuid.UUID) ([]*models.DealSummary, error)
	GetContactIntroductions(ctx context.Context, contactID uuid.UUID) ([]*models.IntroductionSummary, error)

	CreateDeal(ctx context.Context, opportunity, stage, description string) (*models.Deal, error)
	LinkDealToContact(ctx context.Context, dealID, contactID uuid.UUID, relationship string) error
	CreateIntroduction(ctx context.Context, text, status string) (*models.Introduction, error)
	LinkIntroductionContact(ctx context.Context, introductionID, contactID uuid.UUID, role string) error
}

type engagementRepository struct {
	db *database.DB
}

// NewEngagementRepository creates a new EngagementRepository over the given pool.
func NewEngagementRepository(db *database.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

var _ EngagementRepository = (*engagementRepository)(nil)

func (r *engagementRepository) GetContactDeals(ctx context.Context, contactID uuid.UUID) ([]*models.DealSummary, error) {
	query := `
		SELECT d.deal_id, d.opportunity
		FROM deals_contacts dc
		JOIN deals d ON d.deal_id = dc.deal_id
		WHERE dc.contact_id = $1
		ORDER BY d.created_at DESC`

	rows, err := r.db.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.DealSummary
	for rows.Next() {
		d := &models.DealSummary{}
		if err := rows.Scan(&d.DealID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan deal summary: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *engagementRepository) GetContactIntroductions(ctx context.Context, contactID uuid.UUID) ([]*models.IntroductionSummary, error) {
	query := `
		SELECT i.introduction_id, i.text
		FROM introduction_contacts ic
		JOIN introductions i ON i.introduction_id = ic.introduction_id
		WHERE ic.contact_id = $1
		ORDER BY i.created_at DESC`

	rows, err := r.db.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact introductions: %w", err)
	}
	defer rows.Close()

	var intros []*models.IntroductionSummary
	for rows.Next() {
		i := &models.IntroductionSummary{}
		if err := rows.Scan(&i.ID, &i.Text); err != nil {
			return nil, fmt.Errorf("failed to scan introduction summary: %w", err)
		}
		intros = append(intros, i)
	}
	return intros, rows.Err()
}

func (r *engagementRepository) CreateDeal(ctx context.Context, opportunity, stage, description string) (*models.Deal, error) {
	deal := &models.Deal{
		ID:          uuid.New(),
		Opportunity: opportunity,
		Stage:       stage,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	query := `INSERT INTO deals (deal_id, opportunity, stage, description, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, deal.ID, deal.Opportunity, nullIfEmpty(deal.Stage), nullIfEmpty(deal.Description), deal.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}
	return deal, nil
}

func (r *engagementRepository) LinkDealToContact(ctx context.Context, dealID, contactID uuid.UUID, relationship string) error {
	if relationship == "" {
		relationship = "contact"
	}

	query := `
		INSERT INTO deals_contacts (deal_contact_id, deal_id, contact_id, relationship)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (
			SELECT 1 FROM deals_contacts WHERE deal_id = $2 AND contact_id = $3
		)`

	if _, err := r.db.Exec(ctx, query, uuid.New(), dealID, contactID, relationship); err != nil {
		return fmt.Errorf("failed to link deal to contact: %w", err)
	}
	return nil
}

func (r *engagementRepository) CreateIntroduction(ctx context.Context, text, status string) (*models.Introduction, error) {
	intro := &models.Introduction{
		ID:        uuid.New(),
		Text:      text,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO introductions (introduction_id, text, status, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, intro.ID, intro.Text, nullIfEmpty(intro.Status), intro.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create introduction: %w", err)
	}
	return intro, nil
}

func (r *engagementRepository) LinkIntroductionContact(ctx context.Context, introductionID, contactID uuid.UUID, role string) error {
	query := `
		INSERT INTO introduction_contacts (introduction_contact_id, introduction_id, contact_id, role)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, uuid.New(), introductionID, contactID, role); err != nil {
		return fmt.Errorf("failed to link introduction contact: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
