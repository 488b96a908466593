package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/models"
)

func TestCompanyAuditPersonalDomainSkipped(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	companies.addCompany(&models.Company{Name: "Gmail Corp"}, "gmail.com")

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, duplicates, err := svc.Audit(context.Background(), contact.ID, "gino.blu@GMAIL.COM")
	require.NoError(t, err)

	assert.Equal(t, models.CompanyActionSkip, audit.Action)
	assert.Equal(t, "Personal email domain (gmail.com)", audit.Reason)
	assert.Nil(t, audit.CompanyID)
	assert.Empty(t, duplicates)
}

func TestCompanyAuditProposesLinkFromSenderDomain(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures"}, "acme.io")

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "gino@acme.io")
	require.NoError(t, err)

	assert.Equal(t, models.CompanyActionLink, audit.Action)
	require.NotNil(t, audit.CompanyID)
	assert.Equal(t, acme.ID, *audit.CompanyID)
	assert.Equal(t, "Acme Ventures", audit.Name)
	assert.Equal(t, "Sender domain matches company Acme Ventures", audit.Reason)
	assert.False(t, audit.Linked)
}

func TestCompanyAuditNoMatchingCompany(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "gino@unknowncorp.io")
	require.NoError(t, err)

	assert.Equal(t, models.CompanyActionNone, audit.Action)
	assert.Equal(t, "No company found for domain unknowncorp.io", audit.Reason)
	assert.Nil(t, audit.CompanyID)
}

func TestCompanyAuditNoSenderDomain(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.CompanyActionNone, audit.Action)
	assert.Equal(t, "No sender domain to match", audit.Reason)
}

func TestCompanyAuditAlreadyLinkedFirstCompanyWins(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures"}, "acme.io")
	other := companies.addCompany(&models.Company{Name: "Other Corp"}, "other.io")
	contacts.companies[contact.ID] = []*models.Company{acme, other}

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "gino@somewhere-else.io")
	require.NoError(t, err)

	assert.True(t, audit.Linked)
	assert.Equal(t, models.CompanyActionNone, audit.Action)
	require.NotNil(t, audit.CompanyID)
	assert.Equal(t, acme.ID, *audit.CompanyID)
	assert.Equal(t, "Acme Ventures", audit.Name)
}

func TestCompanyAuditFlagsMalformedDomains(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures"},
		"https://www.acme.io/", "acme.io")
	contacts.companies[contact.ID] = []*models.Company{acme}

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "gino@acme.io")
	require.NoError(t, err)

	require.Len(t, audit.Issues, 1)
	assert.Equal(t, "domain", audit.Issues[0].Field)
	assert.Equal(t, "https://www.acme.io/", audit.Issues[0].Current)
	assert.Equal(t, "acme.io", audit.Issues[0].Fix)
}

func TestCompanyAuditSkipsDomainsWithNoFixableForm(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	// "https://" normalizes to an empty string; proposing an empty fix
	// would compile into an action that can never validate.
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures"},
		"https://", "acme.io")
	contacts.companies[contact.ID] = []*models.Company{acme}

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), contact.ID, "gino@acme.io")
	require.NoError(t, err)

	assert.Empty(t, audit.Issues)
}

func TestCompanyAuditShellDuplicatesOnly(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	contact := contacts.addContact(&models.Contact{FirstName: "Gino", LastName: "Blu"})
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures", Website: "acme.io"}, "acme.io")
	shell := companies.addCompany(&models.Company{Name: "Acme Ventures Holding"})
	companies.addCompany(&models.Company{Name: "Acme Ventures Srl", Website: "acmeventures.it"})
	contacts.companies[contact.ID] = []*models.Company{acme}

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	_, duplicates, err := svc.Audit(context.Background(), contact.ID, "gino@acme.io")
	require.NoError(t, err)

	require.Len(t, duplicates, 1)
	assert.Equal(t, shell.ID, duplicates[0].CompanyID)
	assert.Equal(t, "Acme Ventures Holding", duplicates[0].Name)
	assert.Equal(t, models.CompanyDuplicateMergeDelete, duplicates[0].Action)
	assert.Equal(t, "Acme Ventures", duplicates[0].Into)
}

func TestIsPersonalDomain(t *testing.T) {
	assert.True(t, IsPersonalDomain("gmail.com"))
	assert.True(t, IsPersonalDomain("WWW.Hotmail.IT"))
	assert.True(t, IsPersonalDomain("libero.it"))
	assert.False(t, IsPersonalDomain("acme.io"))
	assert.False(t, IsPersonalDomain(""))
}

func TestCompanyAuditUnknownContactStillMatchesDomain(t *testing.T) {
	contacts := newMockContactRepo()
	companies := newMockCompanyRepo()
	acme := companies.addCompany(&models.Company{Name: "Acme Ventures"}, "acme.io")

	svc := NewCompanyAuditService(contacts, companies, zap.NewNop())
	audit, _, err := svc.Audit(context.Background(), uuid.New(), "gino@acme.io")
	require.NoError(t, err)

	assert.Equal(t, models.CompanyActionLink, audit.Action)
	require.NotNil(t, audit.CompanyID)
	assert.Equal(t, acme.ID, *audit.CompanyID)
}
