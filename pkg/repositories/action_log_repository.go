package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/models"
)

// ActionLogRepository provides access to the append-only agent action trail.
type ActionLogRepository interface {
	Append(ctx context.Context, entry *models.ActionLogEntry) error
	Recent(ctx context.Context, limit int) ([]*models.ActionLogEntry, error)
}

type actionLogRepository struct {
	db *database.DB
}

// NewActionLogRepository creates a new ActionLogRepository over the given pool.
func NewActionLogRepository(db *database.DB) ActionLogRepository {
	return &actionLogRepository{db: db}
}

var _ ActionLogRepository = (*actionLogRepository)(nil)

func (r *actionLogRepository) Append(ctx context.Context, entry *models.ActionLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.TriggeredBy == "" {
		entry.TriggeredBy = "system"
	}
	entry.CreatedAt = time.Now().UTC()

	before, err := marshalJSONB(entry.BeforeData)
	if err != nil {
		return fmt.Errorf("failed to encode before data: %w", err)
	}
	after, err := marshalJSONB(entry.AfterData)
	if err != nil {
		return fmt.Errorf("failed to encode after data: %w", err)
	}

	query := `
		INSERT INTO agent_action_log (
			id, action_type, suggestion_id, entity_type, entity_id,
			before_data, after_data, triggered_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		entry.ID, entry.ActionType, entry.SuggestionID, nullIfEmpty(entry.EntityType), entry.EntityID,
		before, after, entry.TriggeredBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append action log entry: %w", err)
	}
	return nil
}

func (r *actionLogRepository) Recent(ctx context.Context, limit int) ([]*models.ActionLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, action_type, suggestion_id, entity_type, entity_id,
		       before_data, after_data, triggered_by, created_at
		FROM agent_action_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query action log: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActionLogEntry
	for rows.Next() {
		e := &models.ActionLogEntry{}
		var entityType *string
		var before, after []byte

		if err := rows.Scan(&e.ID, &e.ActionType, &e.SuggestionID, &entityType, &e.EntityID,
			&before, &after, &e.TriggeredBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action log entry: %w", err)
		}

		if entityType != nil {
			e.EntityType = *entityType
		}
		if len(before) > 0 {
			if err := json.Unmarshal(before, &e.BeforeData); err != nil {
				return nil, fmt.Errorf("failed to decode before data: %w", err)
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &e.AfterData); err != nil {
				return nil, fmt.Errorf("failed to decode after data: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
