package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
)

const companyColumns = `company_id, name, COALESCE(category, ''), COALESCE(description, ''),
       COALESCE(website, ''), COALESCE(linkedin, '')`

// CompanyRepository provides data access for companies and their domains.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetGraph(ctx context.Context, id uuid.UUID) (*models.CompanyGraph, error)
	// FindByDomainFlexible matches companies whose stored domain
	// contains either the raw or the normalized form of the given
	// domain, covering malformed stored values.
	FindByDomainFlexible(ctx context.Context, domain string) ([]*models.Company, error)
	// FindDuplicatesByName returns other companies whose name contains
	// the given name, case-insensitively.
	FindDuplicatesByName(ctx context.Context, name string, excludeID uuid.UUID) ([]*models.Company, error)
	GetDomains(ctx context.Context, id uuid.UUID) ([]*models.CompanyDomain, error)

	// FixDomain rewrites a malformed domain row to its normalized form,
	// or drops the row when the company already carries the normalized
	// value.
	FixDomain(ctx context.Context, id uuid.UUID, oldDomain, newDomain string) error
	// Merge moves deleteID's domains and contact links to keepID,
	// dropping duplicates, then removes deleteID.
	Merge(ctx context.Context, keepID, deleteID uuid.UUID) error
}

type companyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new CompanyRepository over the given pool.
func NewCompanyRepository(db *database.DB) CompanyRepository {
	return &companyRepository{db: db}
}

var _ CompanyRepository = (*companyRepository)(nil)

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1`

	c := &models.Company{}
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.Website, &c.LinkedIn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

func (r *companyRepository) GetGraph(ctx context.Context, id uuid.UUID) (*models.CompanyGraph, error) {
	company, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}

	domains, err := r.GetDomains(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CompanyGraph{Company: company, Domains: domains}, nil
}

func (r *companyRepository) FindByDomainFlexible(ctx context.Context, domain string) ([]*models.Company, error) {
	clean := matching.NormalizeDomain(domain)

	query := `
		SELECT DISTINCT ` + prefixColumns("co", "company_id, name") + `,
		       COALESCE(co.category, ''), COALESCE(co.description, ''),
		       COALESCE(co.website, ''), COALESCE(co.linkedin, '')
		FROM companies co
		JOIN company_domains d ON d.company_id = co.company_id
		WHERE d.domain ILIKE '%' || $1 || '%' OR d.domain ILIKE '%' || $2 || '%'`

	rows, err := r.db.Query(ctx, query, clean, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to find companies by domain: %w", err)
	}
	defer rows.Close()
	return scanCompanyRows(rows)
}

func (r *companyRepository) FindDuplicatesByName(ctx context.Context, name string, excludeID uuid.UUID) ([]*models.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE name ILIKE '%' || $1 || '%' AND company_id <> $2
		LIMIT 20`

	rows, err := r.db.Query(ctx, query, name, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate companies: %w", err)
	}
	defer rows.Close()
	return scanCompanyRows(rows)
}

func (r *companyRepository) GetDomains(ctx context.Context, id uuid.UUID) ([]*models.CompanyDomain, error) {
	query := `SELECT domain_id, company_id, domain, is_primary FROM company_domains WHERE company_id = $1 ORDER BY domain_id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query company domains: %w", err)
	}
	defer rows.Close()

	var domains []*models.CompanyDomain
	for rows.Next() {
		d := &models.CompanyDomain{}
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Domain, &d.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan company domain: %w", err)
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (r *companyRepository) FixDomain(ctx context.Context, id uuid.UUID, oldDomain, newDomain string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin domain fix transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var hasTarget bool
	check := `SELECT EXISTS (SELECT 1 FROM company_domains WHERE company_id = $1 AND domain = $2)`
	if err := tx.QueryRow(ctx, check, id, newDomain).Scan(&hasTarget); err != nil {
		return fmt.Errorf("failed to check target domain: %w", err)
	}

	if hasTarget {
		// The clean value already exists, so the malformed row is
		// redundant rather than fixable.
		drop := `DELETE FROM company_domains WHERE company_id = $1 AND domain = $2`
		if _, err := tx.Exec(ctx, drop, id, oldDomain); err != nil {
			return fmt.Errorf("failed to drop malformed domain: %w", err)
		}
	} else {
		update := `UPDATE company_domains SET domain = $1 WHERE company_id = $2 AND domain = $3`
		if _, err := tx.Exec(ctx, update, newDomain, id, oldDomain); err != nil {
			return fmt.Errorf("failed to fix domain: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit domain fix: %w", err)
	}
	return nil
}

func (r *companyRepository) Merge(ctx context.Context, keepID, deleteID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin company merge transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rel := range companyCascade {
		if err := mergeRelation(ctx, tx, rel, keepID, deleteID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM companies WHERE company_id = $1`, deleteID); err != nil {
		return fmt.Errorf("failed to delete merged company: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit company merge: %w", err)
	}
	return nil
}

func scanCompanyRows(rows pgx.Rows) ([]*models.Company, error) {
	var companies []*models.Company
	for rows.Next() {
		c := &models.Company{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Description, &c.Website, &c.LinkedIn); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
