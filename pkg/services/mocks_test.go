package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/cleargraph/crm-engine/pkg/matching"
	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// ============================================================================
// Mock Implementations shared across service tests
// ============================================================================

type mockContactRepo struct {
	order        []uuid.UUID
	contacts     map[uuid.UUID]*models.Contact
	emails       map[uuid.UUID][]*models.ContactEmail
	mobiles      map[uuid.UUID][]*models.ContactMobile
	tags         map[uuid.UUID][]*models.Tag
	cities       map[uuid.UUID][]*models.City
	companies    map[uuid.UUID][]*models.Company
	chats        map[uuid.UUID][]*models.Chat
	completeness map[uuid.UUID]*models.Completeness

	merged          [][2]uuid.UUID // keep, delete
	deleted         []uuid.UUID
	addedEmails     []string
	addedMobiles    []string
	updatedFields   map[string]string
	updatedTypes    map[uuid.UUID]models.MobileType
	deletedMobiles  []uuid.UUID
	unsetPrimaries  []uuid.UUID
	linkedCompanies [][2]uuid.UUID // contact, company

	// mergeHook, when set, runs before Merge mutates anything.
	mergeHook func()

	err error
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{
		contacts:      make(map[uuid.UUID]*models.Contact),
		emails:        make(map[uuid.UUID][]*models.ContactEmail),
		mobiles:       make(map[uuid.UUID][]*models.ContactMobile),
		tags:          make(map[uuid.UUID][]*models.Tag),
		cities:        make(map[uuid.UUID][]*models.City),
		companies:     make(map[uuid.UUID][]*models.Company),
		chats:         make(map[uuid.UUID][]*models.Chat),
		completeness:  make(map[uuid.UUID]*models.Completeness),
		updatedFields: make(map[string]string),
		updatedTypes:  make(map[uuid.UUID]models.MobileType),
	}
}

var _ repositories.ContactRepository = (*mockContactRepo)(nil)

func (m *mockContactRepo) addContact(c *models.Contact) *models.Contact {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.order = append(m.order, c.ID)
	m.contacts[c.ID] = c
	return c
}

func (m *mockContactRepo) addEmail(contactID uuid.UUID, email string) {
	m.emails[contactID] = append(m.emails[contactID], &models.ContactEmail{
		ID: uuid.New(), ContactID: contactID, Email: email,
	})
}

func (m *mockContactRepo) addMobile(contactID uuid.UUID, number string, mobileType models.MobileType, primary bool) *models.ContactMobile {
	mobile := &models.ContactMobile{
		ID: uuid.New(), ContactID: contactID, Mobile: number, Type: mobileType, IsPrimary: primary,
	}
	m.mobiles[contactID] = append(m.mobiles[contactID], mobile)
	return mobile
}

func (m *mockContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.contacts[id], nil
}

func (m *mockContactRepo) GetByEmail(ctx context.Context, email string) (*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, id := range m.order {
		for _, e := range m.emails[id] {
			if strings.EqualFold(e.Email, email) {
				return m.contacts[id], nil
			}
		}
	}
	return nil, nil
}

func (m *mockContactRepo) SearchByName(ctx context.Context, firstName, lastName string) ([]*models.ContactMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	var matches []*models.ContactMatch
	for _, id := range m.order {
		c := m.contacts[id]
		if c == nil {
			continue
		}
		if firstName != "" && !containsFold(c.FirstName, firstName) {
			continue
		}
		if lastName != "" && !containsFold(c.LastName, lastName) {
			continue
		}
		matches = append(matches, &models.ContactMatch{
			Contact:     c,
			EmailCount:  len(m.emails[id]),
			MobileCount: len(m.mobiles[id]),
		})
	}
	return matches, nil
}

func (m *mockContactRepo) FindByNameExact(ctx context.Context, firstName, lastName string) ([]*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.Contact
	for _, id := range m.order {
		c := m.contacts[id]
		if c == nil {
			continue
		}
		if strings.EqualFold(c.FirstName, firstName) && strings.EqualFold(c.LastName, lastName) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockContactRepo) FindByNameFuzzy(ctx context.Context, firstName, lastName string) ([]*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.Contact
	for _, id := range m.order {
		c := m.contacts[id]
		if c == nil {
			continue
		}
		if !containsFold(c.FirstName, firstName) {
			continue
		}
		if lastName != "" && !containsFold(c.LastName, lastName) && !containsFold(c.LastName, firstName) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockContactRepo) ListForScan(ctx context.Context, limit int) ([]*models.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.Contact
	for _, id := range m.order {
		if len(result) >= limit {
			break
		}
		if c := m.contacts[id]; c != nil {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockContactRepo) GetGraph(ctx context.Context, id uuid.UUID) (*models.ContactGraph, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := m.contacts[id]
	if c == nil {
		return nil, nil
	}
	return &models.ContactGraph{
		Contact:   c,
		Emails:    m.emails[id],
		Mobiles:   m.mobiles[id],
		Tags:      m.tags[id],
		Cities:    m.cities[id],
		Companies: m.companies[id],
	}, nil
}

func (m *mockContactRepo) GetCompleteness(ctx context.Context, id uuid.UUID) (*models.Completeness, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.completeness[id], nil
}

func (m *mockContactRepo) GetEmails(ctx context.Context, id uuid.UUID) ([]*models.ContactEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.emails[id], nil
}

func (m *mockContactRepo) GetMobiles(ctx context.Context, id uuid.UUID) ([]*models.ContactMobile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.mobiles[id], nil
}

func (m *mockContactRepo) GetChats(ctx context.Context, id uuid.UUID) ([]*models.Chat, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chats[id], nil
}

func (m *mockContactRepo) HasEmail(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, e := range m.emails[id] {
		if strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockContactRepo) HasCompany(ctx context.Context, id, companyID uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, c := range m.companies[id] {
		if c.ID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockContactRepo) MobileHolders(ctx context.Context, number string) ([]*models.ContactMobile, error) {
	if m.err != nil {
		return nil, m.err
	}
	var holders []*models.ContactMobile
	for _, id := range m.order {
		for _, mobile := range m.mobiles[id] {
			if matching.PhonesMatch(mobile.Mobile, number) {
				holders = append(holders, mobile)
			}
		}
	}
	return holders, nil
}

func (m *mockContactRepo) EmailHolders(ctx context.Context, email string) ([]*models.ContactEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	var holders []*models.ContactEmail
	for _, id := range m.order {
		for _, e := range m.emails[id] {
			if strings.EqualFold(e.Email, email) {
				holders = append(holders, e)
			}
		}
	}
	return holders, nil
}

func (m *mockContactRepo) AddEmail(ctx context.Context, id uuid.UUID, email string) (*models.ContactEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.addedEmails = append(m.addedEmails, email)
	e := &models.ContactEmail{ID: uuid.New(), ContactID: id, Email: email}
	m.emails[id] = append(m.emails[id], e)
	return e, nil
}

func (m *mockContactRepo) AddMobile(ctx context.Context, id uuid.UUID, mobile string) (*models.ContactMobile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.addedMobiles = append(m.addedMobiles, mobile)
	return m.addMobile(id, mobile, models.MobileTypePersonal, false), nil
}

func (m *mockContactRepo) UpdateField(ctx context.Context, id uuid.UUID, field, value string) error {
	if m.err != nil {
		return m.err
	}
	m.updatedFields[field] = value
	return nil
}

func (m *mockContactRepo) UpdateMobileType(ctx context.Context, mobileID uuid.UUID, mobileType models.MobileType) error {
	if m.err != nil {
		return m.err
	}
	m.updatedTypes[mobileID] = mobileType
	return nil
}

func (m *mockContactRepo) DeleteMobile(ctx context.Context, mobileID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.deletedMobiles = append(m.deletedMobiles, mobileID)
	return nil
}

func (m *mockContactRepo) UnsetMobilePrimary(ctx context.Context, mobileID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.unsetPrimaries = append(m.unsetPrimaries, mobileID)
	return nil
}

func (m *mockContactRepo) LinkCompany(ctx context.Context, id, companyID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.linkedCompanies = append(m.linkedCompanies, [2]uuid.UUID{id, companyID})
	return nil
}

func (m *mockContactRepo) Merge(ctx context.Context, keepID, deleteID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if m.mergeHook != nil {
		m.mergeHook()
	}
	m.merged = append(m.merged, [2]uuid.UUID{keepID, deleteID})
	delete(m.contacts, deleteID)
	return nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	delete(m.contacts, id)
	return nil
}

// ============================================================================

type mockCompanyRepo struct {
	order     []uuid.UUID
	companies map[uuid.UUID]*models.Company
	domains   map[uuid.UUID][]*models.CompanyDomain

	fixedDomains [][3]string // company id, old, new
	merged       [][2]uuid.UUID

	err error
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{
		companies: make(map[uuid.UUID]*models.Company),
		domains:   make(map[uuid.UUID][]*models.CompanyDomain),
	}
}

var _ repositories.CompanyRepository = (*mockCompanyRepo)(nil)

func (m *mockCompanyRepo) addCompany(c *models.Company, domains ...string) *models.Company {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.order = append(m.order, c.ID)
	m.companies[c.ID] = c
	for _, d := range domains {
		m.domains[c.ID] = append(m.domains[c.ID], &models.CompanyDomain{
			ID: uuid.New(), CompanyID: c.ID, Domain: d,
		})
	}
	return c
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.companies[id], nil
}

func (m *mockCompanyRepo) GetGraph(ctx context.Context, id uuid.UUID) (*models.CompanyGraph, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := m.companies[id]
	if c == nil {
		return nil, nil
	}
	return &models.CompanyGraph{Company: c, Domains: m.domains[id]}, nil
}

func (m *mockCompanyRepo) FindByDomainFlexible(ctx context.Context, domain string) ([]*models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	clean := matching.NormalizeDomain(domain)
	var result []*models.Company
	for _, id := range m.order {
		c := m.companies[id]
		if c == nil {
			continue
		}
		for _, d := range m.domains[id] {
			if strings.Contains(d.Domain, clean) || strings.Contains(d.Domain, domain) {
				result = append(result, c)
				break
			}
		}
	}
	return result, nil
}

func (m *mockCompanyRepo) FindDuplicatesByName(ctx context.Context, name string, excludeID uuid.UUID) ([]*models.Company, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.Company
	for _, id := range m.order {
		if id == excludeID {
			continue
		}
		c := m.companies[id]
		if c == nil {
			continue
		}
		if containsFold(c.Name, name) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCompanyRepo) GetDomains(ctx context.Context, id uuid.UUID) ([]*models.CompanyDomain, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.domains[id], nil
}

func (m *mockCompanyRepo) FixDomain(ctx context.Context, id uuid.UUID, oldDomain, newDomain string) error {
	if m.err != nil {
		return m.err
	}
	m.fixedDomains = append(m.fixedDomains, [3]string{id.String(), oldDomain, newDomain})
	return nil
}

func (m *mockCompanyRepo) Merge(ctx context.Context, keepID, deleteID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.merged = append(m.merged, [2]uuid.UUID{keepID, deleteID})
	delete(m.companies, deleteID)
	return nil
}

// ============================================================================

type mockSuggestionRepo struct {
	suggestions []*models.Suggestion
	createErr   error
	err         error
}

func newMockSuggestionRepo() *mockSuggestionRepo {
	return &mockSuggestionRepo{}
}

var _ repositories.SuggestionRepository = (*mockSuggestionRepo)(nil)

func (m *mockSuggestionRepo) Create(ctx context.Context, s *models.Suggestion) error {
	if m.createErr != nil {
		return m.createErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = models.SuggestionStatusPending
	}
	m.suggestions = append(m.suggestions, s)
	return nil
}

func (m *mockSuggestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.suggestions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSuggestionRepo) List(ctx context.Context, filter repositories.SuggestionFilter) ([]*models.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*models.Suggestion
	for _, s := range m.suggestions {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Type != "" && s.SuggestionType != filter.Type {
			continue
		}
		if filter.EntityType != "" && s.EntityType != filter.EntityType {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *mockSuggestionRepo) HasPendingPair(ctx context.Context, suggestionType models.SuggestionType, a, b uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, s := range m.suggestions {
		if s.SuggestionType != suggestionType || s.Status != models.SuggestionStatusPending || s.SecondaryEntityID == nil {
			continue
		}
		if (s.PrimaryEntityID == a && *s.SecondaryEntityID == b) ||
			(s.PrimaryEntityID == b && *s.SecondaryEntityID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSuggestionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SuggestionStatus, reviewedBy string, userNotes *string) error {
	if m.err != nil {
		return m.err
	}
	for _, s := range m.suggestions {
		if s.ID == id {
			s.Status = status
			s.ReviewedBy = &reviewedBy
			s.UserNotes = userNotes
			return nil
		}
	}
	return nil
}

func (m *mockSuggestionRepo) CountByStatus(ctx context.Context) (map[models.SuggestionStatus]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := make(map[models.SuggestionStatus]int)
	for _, s := range m.suggestions {
		counts[s.Status]++
	}
	return counts, nil
}

// ============================================================================

type mockEngagementRepo struct {
	deals  map[uuid.UUID][]*models.DealSummary
	intros map[uuid.UUID][]*models.IntroductionSummary

	createdDeals  []*models.Deal
	createdIntros []*models.Introduction
	dealLinks     [][2]uuid.UUID      // deal, contact
	introLinks    []map[string]string // introduction_id, contact_id, role
	err           error
}

func newMockEngagementRepo() *mockEngagementRepo {
	return &mockEngagementRepo{
		deals:  make(map[uuid.UUID][]*models.DealSummary),
		intros: make(map[uuid.UUID][]*models.IntroductionSummary),
	}
}

var _ repositories.EngagementRepository = (*mockEngagementRepo)(nil)

func (m *mockEngagementRepo) GetContactDeals(ctx context.Context, contactID uuid.UUID) ([]*models.DealSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.deals[contactID], nil
}

func (m *mockEngagementRepo) GetContactIntroductions(ctx context.Context, contactID uuid.UUID) ([]*models.IntroductionSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.intros[contactID], nil
}

func (m *mockEngagementRepo) CreateDeal(ctx context.Context, opportunity, stage, description string) (*models.Deal, error) {
	if m.err != nil {
		return nil, m.err
	}
	deal := &models.Deal{ID: uuid.New(), Opportunity: opportunity, Stage: stage, Description: description}
	m.createdDeals = append(m.createdDeals, deal)
	return deal, nil
}

func (m *mockEngagementRepo) LinkDealToContact(ctx context.Context, dealID, contactID uuid.UUID, relationship string) error {
	if m.err != nil {
		return m.err
	}
	m.dealLinks = append(m.dealLinks, [2]uuid.UUID{dealID, contactID})
	return nil
}

func (m *mockEngagementRepo) CreateIntroduction(ctx context.Context, text, status string) (*models.Introduction, error) {
	if m.err != nil {
		return nil, m.err
	}
	intro := &models.Introduction{ID: uuid.New(), Text: text, Status: status}
	m.createdIntros = append(m.createdIntros, intro)
	return intro, nil
}

func (m *mockEngagementRepo) LinkIntroductionContact(ctx context.Context, introductionID, contactID uuid.UUID, role string) error {
	if m.err != nil {
		return m.err
	}
	m.introLinks = append(m.introLinks, map[string]string{
		"introduction_id": introductionID.String(),
		"contact_id":      contactID.String(),
		"role":            role,
	})
	return nil
}

// ============================================================================

type mockActionLogRepo struct {
	entries []*models.ActionLogEntry
	err     error
}

func newMockActionLogRepo() *mockActionLogRepo {
	return &mockActionLogRepo{}
}

var _ repositories.ActionLogRepository = (*mockActionLogRepo)(nil)

func (m *mockActionLogRepo) Append(ctx context.Context, entry *models.ActionLogEntry) error {
	if m.err != nil {
		return m.err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActionLogRepo) Recent(ctx context.Context, limit int) ([]*models.ActionLogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[len(m.entries)-limit:], nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
