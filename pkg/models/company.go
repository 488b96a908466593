package models

import "github.com/google/uuid"

// Company is an organisation in the relationship graph.
type Company struct {
	ID          uuid.UUID `json:"company_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	LinkedIn    string    `json:"linkedin,omitempty"`
}

// IsShell reports whether the company carries no identifying data
// beyond its name. Shell companies are the only merge-delete candidates
// the company auditor ever proposes.
func (c *Company) IsShell() bool {
	return c.Description == "" && c.Website == "" && c.LinkedIn == ""
}

// CompanyDomain is a raw domain string owned by a company. The value
// may be malformed (scheme prefix, "www.", trailing slash); a raw value
// that differs from its normalized form is a first-class defect.
type CompanyDomain struct {
	ID        uuid.UUID `json:"domain_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Domain    string    `json:"domain"`
	IsPrimary bool      `json:"is_primary"`
}

// ContactCompany records a contact's affiliation with a company.
type ContactCompany struct {
	ID        uuid.UUID `json:"contact_company_id"`
	ContactID uuid.UUID `json:"contact_id"`
	CompanyID uuid.UUID `json:"company_id"`
	IsPrimary bool      `json:"is_primary"`
}

// CompanyGraph is a company with its domains, as consumed by the
// company auditor.
type CompanyGraph struct {
	Company *Company
	Domains []*CompanyDomain
}
