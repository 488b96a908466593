package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
)

// ActionType names one kind of corrective action.
type ActionType string

const (
	// Contact actions
	ActionAddEmail           ActionType = "add_email"
	ActionAddMobile          ActionType = "add_mobile"
	ActionUpdateField        ActionType = "update_field"
	ActionUpdateMobileType   ActionType = "update_mobile_type"
	ActionDeleteMobile       ActionType = "delete_mobile"
	ActionUnsetMobilePrimary ActionType = "unset_mobile_primary"
	ActionDeleteContact      ActionType = "delete_contact"
	ActionMergeContacts      ActionType = "merge_contacts"

	// Company actions
	ActionLinkCompany      ActionType = "link_company"
	ActionFixCompanyDomain ActionType = "fix_company_domain"
	ActionMergeCompanies   ActionType = "merge_companies"

	// Deal actions
	ActionCreateDeal ActionType = "create_deal"
	ActionLinkDeal   ActionType = "link_deal"

	// Introduction actions
	ActionCreateIntroduction ActionType = "create_introduction"
)

// Action is a single, self-contained corrective mutation compiled from
// audit findings. Each kind is its own variant carrying only the fields
// that kind requires; Validate reports the first missing one as a
// MissingFieldError rather than letting the executor crash.
type Action interface {
	Type() ActionType
	Describe() string
	Validate() error
}

// ActionResult is the uniform outcome of executing one action.
type ActionResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// BatchResult reports per-action outcomes for ExecuteMany. Success is
// true only when every action succeeded; callers must inspect Results
// to know what actually happened.
type BatchResult struct {
	Success bool           `json:"success"`
	Results []ActionResult `json:"results"`
}

// ============================================================================
// Contact action variants
// ============================================================================

// AddEmail appends an email address to a contact.
type AddEmail struct {
	ContactID uuid.UUID `json:"contact_id"`
	Email     string    `json:"email"`
}

func (a *AddEmail) Type() ActionType { return ActionAddEmail }
func (a *AddEmail) Describe() string { return fmt.Sprintf("Add email %s", a.Email) }
func (a *AddEmail) Validate() error {
	if a.ContactID == uuid.Nil {
		return apperrors.NewMissingField("contact_id")
	}
	if a.Email == "" {
		return apperrors.NewMissingField("email")
	}
	return nil
}

// AddMobile appends a mobile number to a contact.
type AddMobile struct {
	ContactID uuid.UUID `json:"contact_id"`
	Mobile    string    `json:"mobile"`
}

func (a *AddMobile) Type() ActionType { return ActionAddMobile }
func (a *AddMobile) Describe() string { return fmt.Sprintf("Add mobile %s", a.Mobile) }
func (a *AddMobile) Validate() error {
	if a.ContactID == uuid.Nil {
		return apperrors.NewMissingField("contact_id")
	}
	if a.Mobile == "" {
		return apperrors.NewMissingField("mobile")
	}
	return nil
}

// UpdateField sets a single scalar field on a contact.
type UpdateField struct {
	ContactID uuid.UUID `json:"contact_id"`
	Field     string    `json:"field"`
	Value     string    `json:"value"`
}

func (a *UpdateField) Type() ActionType { return ActionUpdateField }
func (a *UpdateField) Describe() string { return fmt.Sprintf("Update %s", a.Field) }
func (a *UpdateField) Validate() error {
	if a.ContactID == uuid.Nil {
		return apperrors.NewMissingField("contact_id")
	}
	if a.Field == "" {
		return apperrors.NewMissingField("field")
	}
	if a.Value == "" {
		return apperrors.NewMissingField("value")
	}
	return nil
}

// UpdateMobileType changes the type of a mobile row.
type UpdateMobileType struct {
	MobileID   uuid.UUID  `json:"mobile_id"`
	Number     string     `json:"number,omitempty"`
	MobileType MobileType `json:"mobile_type"`
}

func (a *UpdateMobileType) Type() ActionType { return ActionUpdateMobileType }
func (a *UpdateMobileType) Describe() string {
	return fmt.Sprintf("Change mobile type: %s -> %s", a.Number, a.MobileType)
}
func (a *UpdateMobileType) Validate() error {
	if a.MobileID == uuid.Nil {
		return apperrors.NewMissingField("mobile_id")
	}
	if a.MobileType == "" {
		return apperrors.NewMissingField("mobile_type")
	}
	return nil
}

// DeleteMobile removes a mobile row.
type DeleteMobile struct {
	MobileID uuid.UUID `json:"mobile_id"`
	Number   string    `json:"number,omitempty"`
}

func (a *DeleteMobile) Type() ActionType { return ActionDeleteMobile }
func (a *DeleteMobile) Describe() string {
	return fmt.Sprintf("Delete duplicate mobile: %s", a.Number)
}
func (a *DeleteMobile) Validate() error {
	if a.MobileID == uuid.Nil {
		return apperrors.NewMissingField("mobile_id")
	}
	return nil
}

// UnsetMobilePrimary clears the is_primary flag on a mobile row.
type UnsetMobilePrimary struct {
	MobileID uuid.UUID `json:"mobile_id"`
	Number   string    `json:"number,omitempty"`
}

func (a *UnsetMobilePrimary) Type() ActionType { return ActionUnsetMobilePrimary }
func (a *UnsetMobilePrimary) Describe() string {
	return fmt.Sprintf("Unset primary: %s", a.Number)
}
func (a *UnsetMobilePrimary) Validate() error {
	if a.MobileID == uuid.Nil {
		return apperrors.NewMissingField("mobile_id")
	}
	return nil
}

// DeleteContact removes a contact and cascades across every linked
// category. Only provably empty duplicates are compiled into this kind.
type DeleteContact struct {
	DeleteID uuid.UUID `json:"delete_id"`
	Name     string    `json:"name,omitempty"`
}

func (a *DeleteContact) Type() ActionType { return ActionDeleteContact }
func (a *DeleteContact) Describe() string {
	return fmt.Sprintf("Delete duplicate: %s", a.Name)
}
func (a *DeleteContact) Validate() error {
	if a.DeleteID == uuid.Nil {
		return apperrors.NewMissingField("delete_id")
	}
	return nil
}

// MergeContacts absorbs DeleteID's linked data into KeepID, dropping
// exact duplicates, then removes DeleteID.
type MergeContacts struct {
	KeepID   uuid.UUID `json:"keep_id"`
	DeleteID uuid.UUID `json:"delete_id"`
	Name     string    `json:"name,omitempty"`
}

func (a *MergeContacts) Type() ActionType { return ActionMergeContacts }
func (a *MergeContacts) Describe() string {
	return fmt.Sprintf("Merge '%s' into master contact", a.Name)
}
func (a *MergeContacts) Validate() error {
	if a.KeepID == uuid.Nil {
		return apperrors.NewMissingField("keep_id")
	}
	if a.DeleteID == uuid.Nil {
		return apperrors.NewMissingField("delete_id")
	}
	return nil
}

// ============================================================================
// Company action variants
// ============================================================================

// LinkCompany associates a contact with a company.
type LinkCompany struct {
	ContactID   uuid.UUID `json:"contact_id"`
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
}

func (a *LinkCompany) Type() ActionType { return ActionLinkCompany }
func (a *LinkCompany) Describe() string {
	return fmt.Sprintf("Link to company: %s", a.CompanyName)
}
func (a *LinkCompany) Validate() error {
	if a.ContactID == uuid.Nil {
		return apperrors.NewMissingField("contact_id")
	}
	if a.CompanyID == uuid.Nil {
		return apperrors.NewMissingField("company_id")
	}
	return nil
}

// FixCompanyDomain rewrites a malformed domain to its normalized form.
// If the normalized value already exists on the company, the malformed
// row is dropped instead of renamed.
type FixCompanyDomain struct {
	CompanyID uuid.UUID `json:"company_id"`
	OldDomain string    `json:"old_domain"`
	NewDomain string    `json:"new_domain"`
}

func (a *FixCompanyDomain) Type() ActionType { return ActionFixCompanyDomain }
func (a *FixCompanyDomain) Describe() string {
	return fmt.Sprintf("Fix domain: %s -> %s", a.OldDomain, a.NewDomain)
}
func (a *FixCompanyDomain) Validate() error {
	if a.CompanyID == uuid.Nil {
		return apperrors.NewMissingField("company_id")
	}
	if a.OldDomain == "" {
		return apperrors.NewMissingField("old_domain")
	}
	if a.NewDomain == "" {
		return apperrors.NewMissingField("new_domain")
	}
	return nil
}

// MergeCompanies absorbs DeleteID's domains and contact links into
// KeepID, then removes DeleteID.
type MergeCompanies struct {
	KeepID   uuid.UUID `json:"keep_id"`
	DeleteID uuid.UUID `json:"delete_id"`
	Name     string    `json:"name,omitempty"`
	Into     string    `json:"into,omitempty"`
}

func (a *MergeCompanies) Type() ActionType { return ActionMergeCompanies }
func (a *MergeCompanies) Describe() string {
	return fmt.Sprintf("Merge company '%s' into %s", a.Name, a.Into)
}
func (a *MergeCompanies) Validate() error {
	if a.KeepID == uuid.Nil {
		return apperrors.NewMissingField("keep_id")
	}
	if a.DeleteID == uuid.Nil {
		return apperrors.NewMissingField("delete_id")
	}
	return nil
}

// ============================================================================
// Deal and introduction action variants
// ============================================================================

// DealData carries the fields for a new deal.
type DealData struct {
	Opportunity string `json:"opportunity"`
	Stage       string `json:"stage,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreateDeal records a new deal.
type CreateDeal struct {
	Deal DealData `json:"deal_data"`
}

func (a *CreateDeal) Type() ActionType { return ActionCreateDeal }
func (a *CreateDeal) Describe() string {
	return fmt.Sprintf("Create deal: %s", a.Deal.Opportunity)
}
func (a *CreateDeal) Validate() error {
	if a.Deal.Opportunity == "" {
		return apperrors.NewMissingField("deal_data.opportunity")
	}
	return nil
}

// LinkDeal associates an existing deal with a contact.
type LinkDeal struct {
	DealID    uuid.UUID `json:"deal_id"`
	ContactID uuid.UUID `json:"contact_id"`
}

func (a *LinkDeal) Type() ActionType { return ActionLinkDeal }
func (a *LinkDeal) Describe() string { return "Link deal to contact" }
func (a *LinkDeal) Validate() error {
	if a.DealID == uuid.Nil {
		return apperrors.NewMissingField("deal_id")
	}
	if a.ContactID == uuid.Nil {
		return apperrors.NewMissingField("contact_id")
	}
	return nil
}

// IntroData carries the fields for a new introduction.
type IntroData struct {
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

// CreateIntroduction records an introduction and links its contacts.
// ContactIDs[0] is the introducer; every subsequent id is introduced.
// Caller order is authoritative and never re-derived.
type CreateIntroduction struct {
	Intro      IntroData   `json:"intro_data"`
	ContactIDs []uuid.UUID `json:"intro_contacts"`
}

func (a *CreateIntroduction) Type() ActionType { return ActionCreateIntroduction }
func (a *CreateIntroduction) Describe() string {
	return fmt.Sprintf("Create introduction for %d contact(s)", len(a.ContactIDs))
}
func (a *CreateIntroduction) Validate() error {
	if a.Intro.Text == "" {
		return apperrors.NewMissingField("intro_data.text")
	}
	if len(a.ContactIDs) == 0 {
		return apperrors.NewMissingField("intro_contacts")
	}
	return nil
}

// ============================================================================
// Wire decoding
// ============================================================================

// actionEnvelope extracts the discriminator before the full payload is
// decoded into the matching variant.
type actionEnvelope struct {
	Type ActionType `json:"type"`
}

// DecodeAction decodes an untyped wire payload into the Action variant
// named by its "type" field. An unrecognized kind returns
// ErrUnknownActionType; structurally invalid payloads return the decode
// error. Field-level validation stays with Validate so a decoded action
// with missing fields still fails as a result, not an exception.
func DecodeAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode action envelope: %w", err)
	}

	var action Action
	switch env.Type {
	case ActionAddEmail:
		action = &AddEmail{}
	case ActionAddMobile:
		action = &AddMobile{}
	case ActionUpdateField:
		action = &UpdateField{}
	case ActionUpdateMobileType:
		action = &UpdateMobileType{}
	case ActionDeleteMobile:
		action = &DeleteMobile{}
	case ActionUnsetMobilePrimary:
		action = &UnsetMobilePrimary{}
	case ActionDeleteContact:
		action = &DeleteContact{}
	case ActionMergeContacts:
		action = &MergeContacts{}
	case ActionLinkCompany:
		action = &LinkCompany{}
	case ActionFixCompanyDomain:
		action = &FixCompanyDomain{}
	case ActionMergeCompanies:
		action = &MergeCompanies{}
	case ActionCreateDeal:
		action = &CreateDeal{}
	case ActionLinkDeal:
		action = &LinkDeal{}
	case ActionCreateIntroduction:
		action = &CreateIntroduction{}
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownActionType, env.Type)
	}

	if err := json.Unmarshal(data, action); err != nil {
		return nil, fmt.Errorf("failed to decode %s action: %w", env.Type, err)
	}
	return action, nil
}

// EncodeAction renders an Action back to its wire form, including the
// discriminator and human-readable description.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s action: %w", a.Type(), err)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten %s action: %w", a.Type(), err)
	}
	fields["type"] = a.Type()
	fields["description"] = a.Describe()
	return json.Marshal(fields)
}
