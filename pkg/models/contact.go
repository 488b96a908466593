package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Contact Category
// ============================================================================

// ContactCategory classifies a contact. The core accepts any string and
// only flags defects; it never rejects a write over an unknown category.
type ContactCategory string

const (
	CategoryFounder              ContactCategory = "Founder"
	CategoryProfessionalInvestor ContactCategory = "Professional Investor"
	CategoryManager              ContactCategory = "Manager"
	CategoryAdvisor              ContactCategory = "Advisor"
	CategoryFriendAndFamily      ContactCategory = "Friend and Family"
	CategoryTeam                 ContactCategory = "Team"
	CategorySupplier             ContactCategory = "Supplier"
	CategoryMedia                ContactCategory = "Media"
	CategoryStudent              ContactCategory = "Student"
	CategoryInstitution          ContactCategory = "Institution"
	CategoryOther                ContactCategory = "Other"
)

// ValidContactCategories contains all valid contact category values.
var ValidContactCategories = []ContactCategory{
	CategoryFounder,
	CategoryProfessionalInvestor,
	CategoryManager,
	CategoryAdvisor,
	CategoryFriendAndFamily,
	CategoryTeam,
	CategorySupplier,
	CategoryMedia,
	CategoryStudent,
	CategoryInstitution,
	CategoryOther,
}

// IsValidContactCategory checks if the given category is valid.
func IsValidContactCategory(c ContactCategory) bool {
	for _, v := range ValidContactCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ============================================================================
// Mobile Type
// ============================================================================

// MobileType classifies a mobile number row.
type MobileType string

const (
	MobileTypePersonal      MobileType = "personal"
	MobileTypeWhatsAppGroup MobileType = "WhatsApp Group"
	MobileTypeOffice        MobileType = "office"
	MobileTypeHome          MobileType = "home"
	MobileTypeOther         MobileType = "other"
)

// ============================================================================
// Keep In Touch
// ============================================================================

// KeepInTouchFrequency is the cadence at which a contact should be reached.
type KeepInTouchFrequency string

const (
	KeepInTouchWeekly    KeepInTouchFrequency = "Weekly"
	KeepInTouchMonthly   KeepInTouchFrequency = "Monthly"
	KeepInTouchQuarterly KeepInTouchFrequency = "Quarterly"
	KeepInTouchTwiceYear KeepInTouchFrequency = "Twice per Year"
	KeepInTouchYearly    KeepInTouchFrequency = "Once per Year"
	KeepInTouchNever     KeepInTouchFrequency = "Do not keep in touch"
)

// ============================================================================
// Contact and owned rows
// ============================================================================

// Contact is a person record in the relationship graph.
type Contact struct {
	ID                uuid.UUID             `json:"contact_id"`
	FirstName         string                `json:"first_name"`
	LastName          string                `json:"last_name"`
	Category          ContactCategory       `json:"category,omitempty"`
	JobRole           string                `json:"job_role,omitempty"`
	Description       string                `json:"description,omitempty"`
	LinkedIn          string                `json:"linkedin,omitempty"`
	Score             *int                  `json:"score,omitempty"`
	KeepInTouch       *KeepInTouchFrequency `json:"keep_in_touch_frequency,omitempty"`
	Birthday          *time.Time            `json:"birthday,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	LastInteractionAt *time.Time            `json:"last_interaction_at,omitempty"`
}

// FullName joins first and last name, trimming when either is empty.
func (c *Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ContactEmail is one email address owned by a contact. Emails are
// append-only in this design; duplicate primaries on emails are not a
// tracked defect (mobiles are).
type ContactEmail struct {
	ID        uuid.UUID `json:"email_id"`
	ContactID uuid.UUID `json:"contact_id"`
	Email     string    `json:"email"`
	IsPrimary bool      `json:"is_primary"`
}

// ContactMobile is one mobile number owned by a contact. At most one
// primary per contact and no duplicate numbers are invariants the
// auditor enforces; the schema does not.
type ContactMobile struct {
	ID        uuid.UUID  `json:"mobile_id"`
	ContactID uuid.UUID  `json:"contact_id"`
	Mobile    string     `json:"mobile"`
	Type      MobileType `json:"type"`
	IsPrimary bool       `json:"is_primary"`
}

// Tag is a label attached to contacts via contact_tags.
type Tag struct {
	ID   uuid.UUID `json:"tag_id"`
	Name string    `json:"name"`
}

// City is a location attached to contacts via contact_cities.
type City struct {
	ID   uuid.UUID `json:"city_id"`
	Name string    `json:"name"`
}

// Chat is a messaging thread a contact participates in.
type Chat struct {
	ID          uuid.UUID `json:"chat_id"`
	Name        string    `json:"chat_name"`
	IsGroupChat bool      `json:"is_group_chat"`
}

// ============================================================================
// Linked graph and completeness projection
// ============================================================================

// ContactGraph is the full linked-record graph for one contact, as
// consumed by the duplicate detector and the merge executor.
type ContactGraph struct {
	Contact   *Contact
	Emails    []*ContactEmail
	Mobiles   []*ContactMobile
	Tags      []*Tag
	Cities    []*City
	Companies []*Company
}

// ContactMatch is a name-search hit with the linked-record counts the
// resolver uses to pick the richest candidate.
type ContactMatch struct {
	Contact     *Contact
	EmailCount  int
	MobileCount int
}

// Completeness is the projection the completeness auditor consumes,
// read from the contact_completeness view. A nil *Completeness means no
// completeness data exists at all for the contact.
type Completeness struct {
	ContactID         uuid.UUID `json:"contact_id"`
	EmailCount        int       `json:"email_count"`
	MobileCount       int       `json:"mobile_count"`
	CompanyCount      int       `json:"company_count"`
	CityCount         int       `json:"city_count"`
	TagCount          int       `json:"tag_count"`
	JobRole           string    `json:"job_role"`
	LinkedIn          string    `json:"linkedin"`
	HasBirthday       bool      `json:"has_birthday"`
	HasScore          bool      `json:"has_score"`
	CompletenessScore int       `json:"completeness_score"`
}
