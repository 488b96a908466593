package models

import "github.com/google/uuid"

// InboundEvent is a normalized communication event handed to the audit
// engine by the I/O adapters (mail sync, WhatsApp webhook, calendar).
type InboundEvent struct {
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	Subject   string `json:"subject"`
	BodyText  string `json:"body_text"`
}

// ============================================================================
// Audit findings
// ============================================================================

// Email action values.
const (
	EmailActionAdd           = "add"
	EmailActionNone          = "none"
	EmailActionCreateContact = "create_contact"
)

// EmailAction says whether the inbound email address needs to be added
// to the resolved contact.
type EmailAction struct {
	Action string `json:"action"` // "add" | "none" | "create_contact"
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Duplicate contact classification values.
const (
	DuplicateActionDelete = "delete"
	DuplicateActionMerge  = "merge"
)

// DuplicateContact is one suspected duplicate of the resolved contact,
// classified delete (provably empty) or merge (carries unique data).
type DuplicateContact struct {
	ContactID      uuid.UUID `json:"contact_id"`
	Name           string    `json:"name"`
	Action         string    `json:"action"` // "delete" | "merge"
	DataToPreserve []string  `json:"data_to_preserve"`
	Reason         string    `json:"reason"`
}

// MobileInfo is the current state of one mobile row.
type MobileInfo struct {
	MobileID  uuid.UUID  `json:"mobile_id"`
	Number    string     `json:"number"`
	Type      MobileType `json:"type"`
	IsPrimary bool       `json:"is_primary"`
}

// Mobile issue actions.
const (
	MobileIssueReview       = "review"
	MobileIssueDelete       = "delete"
	MobileIssueUnsetPrimary = "unset_primary"
)

// MobileIssue is one detected defect on a mobile row. A single row can
// carry more than one issue (e.g. duplicate number and a cross-contact
// holder warning).
type MobileIssue struct {
	MobileID      uuid.UUID   `json:"mobile_id"`
	Number        string      `json:"number"`
	CurrentType   MobileType  `json:"current_type"`
	SuggestedType *MobileType `json:"suggested_type,omitempty"`
	Reason        string      `json:"reason"`
	Action        string      `json:"action"` // "review" | "delete" | "unset_primary"
}

// MobilesAudit is the mobile section of an AuditResult.
type MobilesAudit struct {
	Current []MobileInfo  `json:"current"`
	Issues  []MobileIssue `json:"issues"`
}

// CompanyIssue is one in-record company defect, currently always a
// malformed domain with its normalized fix.
type CompanyIssue struct {
	Field   string `json:"field"`
	Current string `json:"current"`
	Fix     string `json:"fix"`
}

// Company audit actions.
const (
	CompanyActionLink = "link"
	CompanyActionNone = "none"
	CompanyActionSkip = "skip"
)

// CompanyAudit is the company section of an AuditResult.
type CompanyAudit struct {
	CompanyID *uuid.UUID     `json:"company_id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Linked    bool           `json:"linked"`
	Action    string         `json:"action"` // "link" | "none" | "skip"
	Reason    string         `json:"reason,omitempty"`
	Issues    []CompanyIssue `json:"issues"`
}

// CompanyDuplicate is a shell company proposed for merge-into-delete.
// Only data-free candidates are ever proposed; a data-bearing company
// is never deleted via this path.
type CompanyDuplicate struct {
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Action    string    `json:"action"` // always "merge_delete"
	Into      string    `json:"into"`
}

// CompanyDuplicateMergeDelete is the single classification a company
// duplicate can carry.
const CompanyDuplicateMergeDelete = "merge_delete"

// ContactAudit is the resolved-contact summary of an AuditResult.
type ContactAudit struct {
	ContactID         *uuid.UUID `json:"contact_id,omitempty"`
	Name              string     `json:"name"`
	Found             bool       `json:"found"`
	CompletenessScore *int       `json:"completeness_score,omitempty"`
	MissingFields     []string   `json:"missing_fields"`
}

// Communication types, in priority order: transactional beats personal
// beats business.
const (
	CommunicationTransactional = "transactional"
	CommunicationPersonal      = "personal"
	CommunicationBusiness      = "business"
	CommunicationUnknown       = "unknown"
)

// CommunicationAnalysis classifies the inbound message text.
type CommunicationAnalysis struct {
	Type          string `json:"type"`
	InvolvesDeal  bool   `json:"involves_deal"`
	InvolvesIntro bool   `json:"involves_intro"`
	Summary       string `json:"summary"`
}

// AuditResult is the engine's primary output value object per inbound
// event. It is immutable once produced and consumed by the action
// compiler.
type AuditResult struct {
	Contact           ContactAudit          `json:"contact"`
	EmailAction       EmailAction           `json:"email_action"`
	ContactDuplicates []DuplicateContact    `json:"contact_duplicates"`
	Mobiles           MobilesAudit          `json:"mobiles"`
	Company           CompanyAudit          `json:"company"`
	CompanyDuplicates []CompanyDuplicate    `json:"company_duplicates"`
	Deals             []DealSummary         `json:"deals"`
	Introductions     []IntroductionSummary `json:"introductions"`
	Communication     CommunicationAnalysis `json:"communication"`
}
