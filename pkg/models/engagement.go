package models

import (
	"time"

	"github.com/google/uuid"
)

// Introduction roles. The first contact linked to an introduction is the
// introducer; every subsequent contact is introduced. Caller order is
// authoritative.
const (
	IntroRoleIntroducer = "introducer"
	IntroRoleIntroduced = "introduced"
)

// Deal is an opportunity tracked against contacts.
type Deal struct {
	ID          uuid.UUID `json:"deal_id"`
	Opportunity string    `json:"opportunity"`
	Stage       string    `json:"stage,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DealContact links a deal to a contact with a relationship label.
type DealContact struct {
	ID           uuid.UUID `json:"deal_contact_id"`
	DealID       uuid.UUID `json:"deal_id"`
	ContactID    uuid.UUID `json:"contact_id"`
	Relationship string    `json:"relationship"`
}

// Introduction is a recorded introduction between contacts.
type Introduction struct {
	ID        uuid.UUID `json:"introduction_id"`
	Text      string    `json:"text"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IntroductionContact links an introduction to a contact with a role.
type IntroductionContact struct {
	ID             uuid.UUID `json:"introduction_contact_id"`
	IntroductionID uuid.UUID `json:"introduction_id"`
	ContactID      uuid.UUID `json:"contact_id"`
	Role           string    `json:"role"`
}

// DealSummary is the flattened deal view included in an AuditResult.
type DealSummary struct {
	DealID uuid.UUID `json:"deal_id"`
	Name   string    `json:"name"`
}

// IntroductionSummary is the flattened introduction view included in an
// AuditResult.
type IntroductionSummary struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}
