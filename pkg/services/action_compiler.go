package services

import (
	"github.com/cleargraph/crm-engine/pkg/models"
)

// CompileActions turns an audit result into the ordered list of
// corrective actions. Emission order is fixed: email, contact
// duplicates, mobile fixes, company link, domain fixes, company
// merges. Downstream consumers and the review UI rely on this order
// being stable for identical input.
func CompileActions(result *models.AuditResult) []models.Action {
	var actions []models.Action

	if result.EmailAction.Action == models.EmailActionAdd && result.Contact.ContactID != nil {
		actions = append(actions, &models.AddEmail{
			ContactID: *result.Contact.ContactID,
			Email:     result.EmailAction.Email,
		})
	}

	for _, dup := range result.ContactDuplicates {
		switch dup.Action {
		case models.DuplicateActionDelete:
			actions = append(actions, &models.DeleteContact{
				DeleteID: dup.ContactID,
				Name:     dup.Name,
			})
		case models.DuplicateActionMerge:
			if result.Contact.ContactID == nil {
				continue
			}
			actions = append(actions, &models.MergeContacts{
				KeepID:   *result.Contact.ContactID,
				DeleteID: dup.ContactID,
				Name:     dup.Name,
			})
		}
	}

	for _, issue := range result.Mobiles.Issues {
		switch {
		case issue.Action == models.MobileIssueDelete:
			actions = append(actions, &models.DeleteMobile{
				MobileID: issue.MobileID,
				Number:   issue.Number,
			})
		case issue.Action == models.MobileIssueUnsetPrimary:
			actions = append(actions, &models.UnsetMobilePrimary{
				MobileID: issue.MobileID,
				Number:   issue.Number,
			})
		case issue.SuggestedType != nil:
			actions = append(actions, &models.UpdateMobileType{
				MobileID:   issue.MobileID,
				Number:     issue.Number,
				MobileType: *issue.SuggestedType,
			})
		}
	}

	if result.Company.Action == models.CompanyActionLink && result.Company.CompanyID != nil && result.Contact.ContactID != nil {
		actions = append(actions, &models.LinkCompany{
			ContactID:   *result.Contact.ContactID,
			CompanyID:   *result.Company.CompanyID,
			CompanyName: result.Company.Name,
		})
	}

	if result.Company.CompanyID != nil {
		for _, issue := range result.Company.Issues {
			if issue.Field != "domain" {
				continue
			}
			actions = append(actions, &models.FixCompanyDomain{
				CompanyID: *result.Company.CompanyID,
				OldDomain: issue.Current,
				NewDomain: issue.Fix,
			})
		}

		for _, dup := range result.CompanyDuplicates {
			actions = append(actions, &models.MergeCompanies{
				KeepID:   *result.Company.CompanyID,
				DeleteID: dup.CompanyID,
				Name:     dup.Name,
				Into:     dup.Into,
			})
		}
	}

	return actions
}
