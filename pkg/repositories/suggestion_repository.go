package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/models"
)

const suggestionColumns = `id, suggestion_type, entity_type, primary_entity_id, secondary_entity_id,
       confidence_score, priority, suggestion_data, agent_reasoning, source_description,
       status, reviewed_by, reviewed_at, user_notes, created_at`

// SuggestionFilter narrows a suggestion listing. Zero values mean "any".
type SuggestionFilter struct {
	Status     models.SuggestionStatus
	Type       models.SuggestionType
	EntityType string
	Limit      int
}

// SuggestionRepository provides data access for persisted suggestions.
type SuggestionRepository interface {
	Create(ctx context.Context, s *models.Suggestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	List(ctx context.Context, filter SuggestionFilter) ([]*models.Suggestion, error)
	// HasPendingPair reports whether a pending suggestion of the given
	// type already exists for the pair, in either direction.
	HasPendingPair(ctx context.Context, suggestionType models.SuggestionType, a, b uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, userNotes *string) error
	CountByStatus(ctx context.Context) (map[models.SuggestionStatus]int, error)
}

type suggestionRepository struct {
	db *database.DB
}

// NewSuggestionRepository creates a new SuggestionRepository over the given pool.
func NewSuggestionRepository(db *database.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

var _ SuggestionRepository = (*suggestionRepository)(nil)

func (r *suggestionRepository) Create(ctx context.Context, s *models.Suggestion) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = models.SuggestionStatusPending
	}
	s.CreatedAt = time.Now().UTC()

	data, err := marshalJSONB(s.SuggestionData)
	if err != nil {
		return fmt.Errorf("failed to encode suggestion data: %w", err)
	}

	query := `
		INSERT INTO agent_suggestions (
			id, suggestion_type, entity_type, primary_entity_id, secondary_entity_id,
			confidence_score, priority, suggestion_data, agent_reasoning,
			source_description, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		s.ID, s.SuggestionType, s.EntityType, s.PrimaryEntityID, s.SecondaryEntityID,
		s.ConfidenceScore, s.Priority, data, s.AgentReasoning,
		s.SourceDescription, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}
	return nil
}

func (r *suggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM agent_suggestions WHERE id = $1`

	s, err := scanSuggestion(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return s, nil
}

func (r *suggestionRepository) List(ctx context.Context, filter SuggestionFilter) ([]*models.Suggestion, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + suggestionColumns + `
		FROM agent_suggestions
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR suggestion_type = $2)
		  AND ($3 = '' OR entity_type = $3)
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := r.db.Query(ctx, query, string(filter.Status), string(filter.Type), filter.EntityType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*models.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

func (r *suggestionRepository) HasPendingPair(ctx context.Context, suggestionType models.SuggestionType, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM agent_suggestions
			WHERE suggestion_type = $1
			  AND status = $2
			  AND (
				(primary_entity_id = $3 AND secondary_entity_id = $4) OR
				(primary_entity_id = $4 AND secondary_entity_id = $3)
			  )
		)`

	var exists bool
	err := r.db.QueryRow(ctx, query, suggestionType, models.SuggestionStatusPending, a, b).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending pair: %w", err)
	}
	return exists, nil
}

func (r *suggestionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, userNotes *string) error {
	query := `
		UPDATE agent_suggestions
		SET status = $1, reviewed_by = $2, reviewed_at = $3, user_notes = $4
		WHERE id = $5`

	if _, err := r.db.Exec(ctx, query, status, reviewedBy, time.Now().UTC(), userNotes, id); err != nil {
		return fmt.Errorf("failed to update suggestion status: %w", err)
	}
	return nil
}

func (r *suggestionRepository) CountByStatus(ctx context.Context) (map[models.SuggestionStatus]int, error) {
	query := `SELECT status, count(*) FROM agent_suggestions GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count suggestions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SuggestionStatus]int)
	for rows.Next() {
		var status models.SuggestionStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanSuggestion(row pgx.Row) (*models.Suggestion, error) {
	s := &models.Suggestion{}
	var data []byte
	var reasoning, source *string

	err := row.Scan(
		&s.ID, &s.SuggestionType, &s.EntityType, &s.PrimaryEntityID, &s.SecondaryEntityID,
		&s.ConfidenceScore, &s.Priority, &data, &reasoning, &source,
		&s.Status, &s.ReviewedBy, &s.ReviewedAt, &s.UserNotes, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reasoning != nil {
		s.AgentReasoning = *reasoning
	}
	if source != nil {
		s.SourceDescription = *source
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.SuggestionData); err != nil {
			return nil, fmt.Errorf("failed to decode suggestion data: %w", err)
		}
	}
	return s, nil
}

// marshalJSONB encodes a map for a JSONB column, mapping nil to SQL NULL.
func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
