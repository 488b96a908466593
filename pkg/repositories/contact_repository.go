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

// contactColumns is the canonical select list for contact rows.
const contactColumns = `contact_id, first_name, last_name, category, job_role,
       description, linkedin, score, keep_in_touch_frequency, birthday,
       created_at, last_interaction_at`

// updatableContactFields whitelists the columns UpdateField may touch.
// Field names arrive over the wire, so they can never be interpolated
// into SQL unchecked.
var updatableContactFields = map[string]string{
	"first_name":  "first_name",
	"last_name":   "last_name",
	"category":    "category",
	"job_role":    "job_role",
	"description": "description",
	"linkedin":    "linkedin",
}

// ContactRepository provides data access for contacts and their owned rows.
type ContactRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	GetByEmail(ctx context.Context, email string) (*models.Contact, error)
	SearchByName(ctx context.Context, firstName, lastName string) ([]*models.ContactMatch, error)
	FindByNameExact(ctx context.Context, firstName, lastName string) ([]*models.Contact, error)
	FindByNameFuzzy(ctx context.Context, firstName, lastName string) ([]*models.Contact, error)
	ListForScan(ctx context.Context, limit int) ([]*models.Contact, error)

	GetGraph(ctx context.Context, id uuid.UUID) (*models.ContactGraph, error)
	GetCompleteness(ctx context.Context, id uuid.UUID) (*models.Completeness, error)
	GetEmails(ctx context.Context, id uuid.UUID) ([]*models.ContactEmail, error)
	GetMobiles(ctx context.Context, id uuid.UUID) ([]*models.ContactMobile, error)
	GetChats(ctx context.Context, id uuid.UUID) ([]*models.Chat, error)
	HasEmail(ctx context.Context, id uuid.UUID, email string) (bool, error)
	HasCompany(ctx context.Context, id, companyID uuid.UUID) (bool, error)
	// MobileHolders returns every mobile row whose number suffix-matches
	// the given number, across all contacts.
	MobileHolders(ctx context.Context, number string) ([]*models.ContactMobile, error)
	// EmailHolders returns every email row matching the given address,
	// across all contacts.
	EmailHolders(ctx context.Context, email string) ([]*models.ContactEmail, error)

	AddEmail(ctx context.Context, id uuid.UUID, email string) (*models.ContactEmail, error)
	AddMobile(ctx context.Context, id uuid.UUID, mobile string) (*models.ContactMobile, error)
	UpdateField(ctx context.Context, id uuid.UUID, field, value string) error
	UpdateMobileType(ctx context.Context, mobileID uuid.UUID, mobileType models.MobileType) error
	DeleteMobile(ctx context.Context, mobileID uuid.UUID) error
	UnsetMobilePrimary(ctx context.Context, mobileID uuid.UUID) error
	LinkCompany(ctx context.Context, id, companyID uuid.UUID) error

	// Merge moves deleteID's linked rows to keepID (dropping natural-key
	// duplicates), repoints plain references, and removes deleteID.
	Merge(ctx context.Context, keepID, deleteID uuid.UUID) error
	// Delete cascades across every linked category, nulling message
	// references, before removing the contact row.
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new ContactRepository over the given pool.
func NewContactRepository(db *database.DB) ContactRepository {
	return &contactRepository{db: db}
}

var _ ContactRepository = (*contactRepository)(nil)

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1`
	contact, err := scanContactRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func (r *contactRepository) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	query := `
		SELECT ` + prefixColumns("c", contactColumns) + `
		FROM contact_emails e
		JOIN contacts c ON c.contact_id = e.contact_id
		WHERE lower(e.email) = lower($1)
		LIMIT 1`

	contact, err := scanContactRow(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by email: %w", err)
	}
	return contact, nil
}

func (r *contactRepository) SearchByName(ctx context.Context, firstName, lastName string) ([]*models.ContactMatch, error) {
	query := `
		SELECT ` + contactColumns + `,
		       (SELECT count(*) FROM contact_emails e WHERE e.contact_id = c.contact_id) AS email_count,
		       (SELECT count(*) FROM contact_mobiles m WHERE m.contact_id = c.contact_id) AS mobile_count
		FROM contacts c
		WHERE ($1 = '' OR c.first_name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.last_name ILIKE '%' || $2 || '%')
		LIMIT 20`

	rows, err := r.db.Query(ctx, query, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts by name: %w", err)
	}
	defer rows.Close()

	var matches []*models.ContactMatch
	for rows.Next() {
		match := &models.ContactMatch{Contact: &models.Contact{}}
		if err := scanContactInto(rows, match.Contact, &match.EmailCount, &match.MobileCount); err != nil {
			return nil, fmt.Errorf("failed to scan contact match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *contactRepository) FindByNameExact(ctx context.Context, firstName, lastName string) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)`

	return r.queryContacts(ctx, query, firstName, lastName)
}

func (r *contactRepository) FindByNameFuzzy(ctx context.Context, firstName, lastName string) ([]*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE first_name ILIKE '%' || $1 || '%'
		  AND ($2 = '' OR last_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $1 || '%')
		LIMIT 50`

	return r.queryContacts(ctx, query, firstName, lastName)
}

func (r *contactRepository) ListForScan(ctx context.Context, limit int) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at LIMIT $1`
	return r.queryContacts(ctx, query, limit)
}

func (r *contactRepository) GetGraph(ctx context.Context, id uuid.UUID) (*models.ContactGraph, error) {
	contact, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	graph := &models.ContactGraph{Contact: contact}

	if graph.Emails, err = r.GetEmails(ctx, id); err != nil {
		return nil, err
	}
	if graph.Mobiles, err = r.GetMobiles(ctx, id); err != nil {
		return nil, err
	}
	if graph.Tags, err = r.getTags(ctx, id); err != nil {
		return nil, err
	}
	if graph.Cities, err = r.getCities(ctx, id); err != nil {
		return nil, err
	}
	if graph.Companies, err = r.getCompanies(ctx, id); err != nil {
		return nil, err
	}
	return graph, nil
}

func (r *contactRepository) GetCompleteness(ctx context.Context, id uuid.UUID) (*models.Completeness, error) {
	query := `
		SELECT contact_id, email_count, mobile_count, company_count, city_count,
		       tag_count, job_role, linkedin, has_birthday, has_score, completeness_score
		FROM contact_completeness
		WHERE contact_id = $1`

	c := &models.Completeness{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ContactID, &c.EmailCount, &c.MobileCount, &c.CompanyCount, &c.CityCount,
		&c.TagCount, &c.JobRole, &c.LinkedIn, &c.HasBirthday, &c.HasScore, &c.CompletenessScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completeness: %w", err)
	}
	return c, nil
}

func (r *contactRepository) GetEmails(ctx context.Context, id uuid.UUID) ([]*models.ContactEmail, error) {
	query := `SELECT email_id, contact_id, email, is_primary FROM contact_emails WHERE contact_id = $1 ORDER BY email_id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact emails: %w", err)
	}
	defer rows.Close()

	var emails []*models.ContactEmail
	for rows.Next() {
		e := &models.ContactEmail{}
		if err := rows.Scan(&e.ID, &e.ContactID, &e.Email, &e.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan contact email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r *contactRepository) GetMobiles(ctx context.Context, id uuid.UUID) ([]*models.ContactMobile, error) {
	query := `SELECT mobile_id, contact_id, mobile, type, is_primary FROM contact_mobiles WHERE contact_id = $1 ORDER BY mobile_id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact mobiles: %w", err)
	}
	defer rows.Close()
	return scanMobileRows(rows)
}

func (r *contactRepository) GetChats(ctx context.Context, id uuid.UUID) ([]*models.Chat, error) {
	query := `
		SELECT ch.chat_id, ch.chat_name, ch.is_group_chat
		FROM contact_chats cc
		JOIN chats ch ON ch.chat_id = cc.chat_id
		WHERE cc.contact_id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		c := &models.Chat{}
		if err := rows.Scan(&c.ID, &c.Name, &c.IsGroupChat); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *contactRepository) HasEmail(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM contact_emails WHERE contact_id = $1 AND lower(email) = lower($2))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contact email: %w", err)
	}
	return exists, nil
}

func (r *contactRepository) HasCompany(ctx context.Context, id, companyID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM contact_companies WHERE contact_id = $1 AND company_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contact company: %w", err)
	}
	return exists, nil
}

func (r *contactRepository) MobileHolders(ctx context.Context, number string) ([]*models.ContactMobile, error) {
	normalized := matching.NormalizePhone(number)
	if len(normalized) < 7 {
		return nil, nil
	}
	if len(normalized) > 10 {
		normalized = normalized[len(normalized)-10:]
	}

	query := `
		SELECT mobile_id, contact_id, mobile, type, is_primary
		FROM contact_mobiles
		WHERE length(regexp_replace(mobile, '\D', '', 'g')) >= 7
		  AND right(regexp_replace(mobile, '\D', '', 'g'), 10) = $1`

	rows, err := r.db.Query(ctx, query, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to query mobile holders: %w", err)
	}
	defer rows.Close()
	return scanMobileRows(rows)
}

func (r *contactRepository) EmailHolders(ctx context.Context, email string) ([]*models.ContactEmail, error) {
	query := `SELECT email_id, contact_id, email, is_primary FROM contact_emails WHERE lower(email) = lower($1)`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query email holders: %w", err)
	}
	defer rows.Close()

	var emails []*models.ContactEmail
	for rows.Next() {
		e := &models.ContactEmail{}
		if err := rows.Scan(&e.ID, &e.ContactID, &e.Email, &e.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan email holder: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r *contactRepository) AddEmail(ctx context.Context, id uuid.UUID, email string) (*models.ContactEmail, error) {
	e := &models.ContactEmail{ID: uuid.New(), ContactID: id, Email: email}

	query := `INSERT INTO contact_emails (email_id, contact_id, email, is_primary) VALUES ($1, $2, $3, false)`
	if _, err := r.db.Exec(ctx, query, e.ID, e.ContactID, e.Email); err != nil {
		return nil, fmt.Errorf("failed to add contact email: %w", err)
	}
	return e, nil
}

func (r *contactRepository) AddMobile(ctx context.Context, id uuid.UUID, mobile string) (*models.ContactMobile, error) {
	m := &models.ContactMobile{ID: uuid.New(), ContactID: id, Mobile: mobile, Type: models.MobileTypePersonal}

	query := `INSERT INTO contact_mobiles (mobile_id, contact_id, mobile, type, is_primary) VALUES ($1, $2, $3, $4, false)`
	if _, err := r.db.Exec(ctx, query, m.ID, m.ContactID, m.Mobile, m.Type); err != nil {
		return nil, fmt.Errorf("failed to add contact mobile: %w", err)
	}
	return m, nil
}

func (r *contactRepository) UpdateField(ctx context.Context, id uuid.UUID, field, value string) error {
	column, ok := updatableContactFields[field]
	if !ok {
		return fmt.Errorf("field %q is not updatable", field)
	}

	query := fmt.Sprintf(`UPDATE contacts SET %s = $1 WHERE contact_id = $2`, column)
	if _, err := r.db.Exec(ctx, query, value, id); err != nil {
		return fmt.Errorf("failed to update contact field %s: %w", field, err)
	}
	return nil
}

func (r *contactRepository) UpdateMobileType(ctx context.Context, mobileID uuid.UUID, mobileType models.MobileType) error {
	query := `UPDATE contact_mobiles SET type = $1 WHERE mobile_id = $2`
	if _, err := r.db.Exec(ctx, query, mobileType, mobileID); err != nil {
		return fmt.Errorf("failed to update mobile type: %w", err)
	}
	return nil
}

func (r *contactRepository) DeleteMobile(ctx context.Context, mobileID uuid.UUID) error {
	query := `DELETE FROM contact_mobiles WHERE mobile_id = $1`
	if _, err := r.db.Exec(ctx, query, mobileID); err != nil {
		return fmt.Errorf("failed to delete mobile: %w", err)
	}
	return nil
}

func (r *contactRepository) UnsetMobilePrimary(ctx context.Context, mobileID uuid.UUID) error {
	query := `UPDATE contact_mobiles SET is_primary = false WHERE mobile_id = $1`
	if _, err := r.db.Exec(ctx, query, mobileID); err != nil {
		return fmt.Errorf("failed to unset mobile primary: %w", err)
	}
	return nil
}

func (r *contactRepository) LinkCompany(ctx context.Context, id, companyID uuid.UUID) error {
	query := `
		INSERT INTO contact_companies (contact_company_id, contact_id, company_id, is_primary)
		SELECT $1, $2, $3, false
		WHERE NOT EXISTS (
			SELECT 1 FROM contact_companies WHERE contact_id = $2 AND company_id = $3
		)`

	if _, err := r.db.Exec(ctx, query, uuid.New(), id, companyID); err != nil {
		return fmt.Errorf("failed to link contact to company: %w", err)
	}
	return nil
}

func (r *contactRepository) Merge(ctx context.Context, keepID, deleteID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rel := range contactCascade {
		if err := mergeRelation(ctx, tx, rel, keepID, deleteID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM contacts WHERE contact_id = $1`, deleteID); err != nil {
		return fmt.Errorf("failed to delete merged contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rel := range contactCascade {
		if err := deleteRelation(ctx, tx, rel, id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM contacts WHERE contact_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// mergeRelation applies one cascade relation during a merge: rows with a
// natural key move unless the key already exists on the kept record (the
// leftovers are dropped as exact duplicates); plain references repoint.
func mergeRelation(ctx context.Context, tx pgx.Tx, rel cascadeRelation, keepID, deleteID uuid.UUID) error {
	if rel.NaturalKey == "" {
		query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, rel.Table, rel.FKColumn, rel.FKColumn)
		if _, err := tx.Exec(ctx, query, keepID, deleteID); err != nil {
			return fmt.Errorf("failed to repoint %s: %w", rel.Table, err)
		}
		return nil
	}

	move := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = $1%[3]s
		WHERE %[2]s = $2
		  AND %[4]s NOT IN (SELECT %[4]s FROM %[1]s WHERE %[2]s = $1)`,
		rel.Table, rel.FKColumn, rel.MoveExtra, rel.NaturalKey)
	if _, err := tx.Exec(ctx, move, keepID, deleteID); err != nil {
		return fmt.Errorf("failed to move %s rows: %w", rel.Table, err)
	}

	// Whatever is left on deleteID duplicates a row already on keepID.
	drop := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, rel.Table, rel.FKColumn)
	if _, err := tx.Exec(ctx, drop, deleteID); err != nil {
		return fmt.Errorf("failed to drop duplicate %s rows: %w", rel.Table, err)
	}
	return nil
}

// deleteRelation applies one cascade relation during a delete.
func deleteRelation(ctx context.Context, tx pgx.Tx, rel cascadeRelation, id uuid.UUID) error {
	switch rel.OnDelete {
	case cascadeNullOut:
		query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1`, rel.Table, rel.FKColumn, rel.FKColumn)
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to null %s references: %w", rel.Table, err)
		}
	default:
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, rel.Table, rel.FKColumn)
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to cascade delete %s: %w", rel.Table, err)
		}
	}
	return nil
}

func (r *contactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := scanContactInto(rows, c); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *contactRepository) getTags(ctx context.Context, id uuid.UUID) ([]*models.Tag, error) {
	query := `
		SELECT t.tag_id, t.name
		FROM contact_tags ct
		JOIN tags t ON t.tag_id = ct.tag_id
		WHERE ct.contact_id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *contactRepository) getCities(ctx context.Context, id uuid.UUID) ([]*models.City, error) {
	query := `
		SELECT ci.city_id, ci.name
		FROM contact_cities cc
		JOIN cities ci ON ci.city_id = cc.city_id
		WHERE cc.contact_id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact cities: %w", err)
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		c := &models.City{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *contactRepository) getCompanies(ctx context.Context, id uuid.UUID) ([]*models.Company, error) {
	// First link wins downstream, so the order here must be stable:
	// primary links first, then insertion-id order.
	query := `
		SELECT co.company_id, co.name, COALESCE(co.category, ''), COALESCE(co.description, ''),
		       COALESCE(co.website, ''), COALESCE(co.linkedin, '')
		FROM contact_companies cc
		JOIN companies co ON co.company_id = cc.company_id
		WHERE cc.contact_id = $1
		ORDER BY cc.is_primary DESC, cc.contact_company_id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact companies: %w", err)
	}
	defer rows.Close()
	return scanCompanyRows(rows)
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias.
func prefixColumns(alias, columns string) string {
	out := ""
	for i, col := range splitColumns(columns) {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + col
	}
	return out
}

func splitColumns(columns string) []string {
	var cols []string
	field := ""
	for _, r := range columns {
		switch r {
		case ',':
			cols = append(cols, field)
			field = ""
		case ' ', '\n', '\t':
			// skip whitespace between columns
		default:
			field += string(r)
		}
	}
	if field != "" {
		cols = append(cols, field)
	}
	return cols
}

func scanContactRow(row pgx.Row) (*models.Contact, error) {
	c := &models.Contact{}
	if err := scanContactInto(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// scanContactInto scans the canonical contact columns plus any trailing
// extras into c.
func scanContactInto(row pgx.Row, c *models.Contact, extras ...any) error {
	var category, jobRole, description, linkedin, keepInTouch *string

	dest := []any{
		&c.ID, &c.FirstName, &c.LastName, &category, &jobRole,
		&description, &linkedin, &c.Score, &keepInTouch, &c.Birthday,
		&c.CreatedAt, &c.LastInteractionAt,
	}
	dest = append(dest, extras...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	if category != nil {
		c.Category = models.ContactCategory(*category)
	}
	if jobRole != nil {
		c.JobRole = *jobRole
	}
	if description != nil {
		c.Description = *description
	}
	if linkedin != nil {
		c.LinkedIn = *linkedin
	}
	if keepInTouch != nil {
		freq := models.KeepInTouchFrequency(*keepInTouch)
		c.KeepInTouch = &freq
	}
	return nil
}

func scanMobileRows(rows pgx.Rows) ([]*models.ContactMobile, error) {
	var mobiles []*models.ContactMobile
	for rows.Next() {
		m := &models.ContactMobile{}
		if err := rows.Scan(&m.ID, &m.ContactID, &m.Mobile, &m.Type, &m.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan mobile: %w", err)
		}
		mobiles = append(mobiles, m)
	}
	return mobiles, rows.Err()
}
