package repositories

import (
	"context"
	"fmt"

	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/matching"
)

// SpamRepository answers whether an inbound sender is on a block list.
type SpamRepository interface {
	IsSpamEmail(ctx context.Context, email string) (bool, error)
	IsSpamDomain(ctx context.Context, domain string) (bool, error)
}

type spamRepository struct {
	db *database.DB
}

// NewSpamRepository creates a new SpamRepository over the given pool.
func NewSpamRepository(db *database.DB) SpamRepository {
	return &spamRepository{db: db}
}

var _ SpamRepository = (*spamRepository)(nil)

func (r *spamRepository) IsSpamEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM emails_spam WHERE lower(email) = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, matching.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check spam email: %w", err)
	}
	return exists, nil
}

func (r *spamRepository) IsSpamDomain(ctx context.Context, domain string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM domains_spam WHERE lower(domain) = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, matching.NormalizeDomain(domain)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check spam domain: %w", err)
	}
	return exists, nil
}
