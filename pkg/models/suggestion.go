package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Match Types
// ============================================================================

// MatchType records how a duplicate candidate was detected.
type MatchType string

const (
	MatchTypeExactEmail MatchType = "exact_email"
	MatchTypeExactName  MatchType = "exact_name"
	MatchTypeMobile     MatchType = "mobile"
	MatchTypeFuzzy      MatchType = "fuzzy"
)

// DuplicateCandidate is a detected (origin, candidate) contact pair.
// It is computed fresh per scan, never persisted as its own entity.
type DuplicateCandidate struct {
	ContactID  uuid.UUID `json:"contact_id"`
	MatchType  MatchType `json:"match_type"`
	MatchValue string    `json:"match_value"`
}

// Confidence returns the fixed confidence score and priority for the
// candidate's match type. The four-tier table is part of the scan's
// observable contract.
func (d *DuplicateCandidate) Confidence() (float64, SuggestionPriority) {
	switch d.MatchType {
	case MatchTypeExactEmail:
		return 0.95, PriorityHigh
	case MatchTypeMobile:
		return 0.85, PriorityHigh
	case MatchTypeExactName:
		return 0.75, PriorityMedium
	default:
		return 0.6, PriorityLow
	}
}

// ShortReason returns the one-line rationale used in suggestion data.
func (d *DuplicateCandidate) ShortReason() string {
	switch d.MatchType {
	case MatchTypeExactEmail:
		return "Same email"
	case MatchTypeMobile:
		return "Same phone"
	case MatchTypeExactName:
		return "Same name"
	default:
		return "Similar info"
	}
}

// ============================================================================
// Suggestion
// ============================================================================

// SuggestionType categorizes a persisted suggestion.
type SuggestionType string

const (
	SuggestionTypeDuplicate    SuggestionType = "duplicate"
	SuggestionTypeEnrichment   SuggestionType = "enrichment"
	SuggestionTypeCleanup      SuggestionType = "cleanup"
	SuggestionTypeCompanyMatch SuggestionType = "company_match"
)

// SuggestionPriority orders suggestions for review.
type SuggestionPriority string

const (
	PriorityLow      SuggestionPriority = "low"
	PriorityMedium   SuggestionPriority = "medium"
	PriorityHigh     SuggestionPriority = "high"
	PriorityCritical SuggestionPriority = "critical"
)

// SuggestionStatus is the review state of a suggestion.
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusAccepted SuggestionStatus = "accepted"
	SuggestionStatusRejected SuggestionStatus = "rejected"
)

// ValidSuggestionStatuses contains all valid status values.
var ValidSuggestionStatuses = []SuggestionStatus{
	SuggestionStatusPending,
	SuggestionStatusAccepted,
	SuggestionStatusRejected,
}

// IsValidSuggestionStatus checks if the given status is valid.
func IsValidSuggestionStatus(s SuggestionStatus) bool {
	for _, v := range ValidSuggestionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Suggestion is a persisted, user-reviewable proposal awaiting
// accept/reject. Pairs are stored directed (primary, secondary) but
// treated as undirected for dedup purposes.
type Suggestion struct {
	ID                uuid.UUID          `json:"id"`
	SuggestionType    SuggestionType     `json:"suggestion_type"`
	EntityType        string             `json:"entity_type"`
	PrimaryEntityID   uuid.UUID          `json:"primary_entity_id"`
	SecondaryEntityID *uuid.UUID         `json:"secondary_entity_id,omitempty"`
	ConfidenceScore   float64            `json:"confidence_score"`
	Priority          SuggestionPriority `json:"priority"`
	SuggestionData    map[string]any     `json:"suggestion_data,omitempty"`
	AgentReasoning    string             `json:"agent_reasoning,omitempty"`
	SourceDescription string             `json:"source_description,omitempty"`
	Status            SuggestionStatus   `json:"status"`
	ReviewedBy        *string            `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewed_at,omitempty"`
	UserNotes         *string            `json:"user_notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ============================================================================
// Action log
// ============================================================================

// ActionLogEntry is one row of the append-only agent action trail.
type ActionLogEntry struct {
	ID           uuid.UUID      `json:"id"`
	ActionType   string         `json:"action_type"`
	SuggestionID *uuid.UUID     `json:"suggestion_id,omitempty"`
	EntityType   string         `json:"entity_type,omitempty"`
	EntityID     *uuid.UUID     `json:"entity_id,omitempty"`
	BeforeData   map[string]any `json:"before_data,omitempty"`
	AfterData    map[string]any `json:"after_data,omitempty"`
	TriggeredBy  string         `json:"triggered_by"`
	CreatedAt    time.Time      `json:"created_at"`
}
