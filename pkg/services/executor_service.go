package services

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/models"
	"github.com/cleargraph/crm-engine/pkg/repositories"
)

// ExecutorService runs compiled actions against the database. Failures
// are values: a failed action produces a failed ActionResult, never an
// error return, so one bad action cannot abort a batch.
type ExecutorService interface {
	Execute(ctx context.Context, action models.Action) models.ActionResult
	// ExecuteMany runs actions in order. BatchResult.Success is the
	// AND of every per-action outcome.
	ExecuteMany(ctx context.Context, actions []models.Action) models.BatchResult
}

type executorService struct {
	contacts    repositories.ContactRepository
	companies   repositories.CompanyRepository
	engagements repositories.EngagementRepository
	logger      *zap.Logger

	// locks serializes mutations per entity so two concurrent merges
	// touching the same contact cannot interleave.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewExecutorService creates a new ExecutorService.
func NewExecutorService(
	contacts repositories.ContactRepository,
	companies repositories.CompanyRepository,
	engagements repositories.EngagementRepository,
	logger *zap.Logger,
) ExecutorService {
	return &executorService{
		contacts:    contacts,
		companies:   companies,
		engagements: engagements,
		logger:      logger.Named("executor_service"),
		locks:       map[uuid.UUID]*sync.Mutex{},
	}
}

var _ ExecutorService = (*executorService)(nil)

func (s *executorService) Execute(ctx context.Context, action models.Action) models.ActionResult {
	s.logger.Info("executing action",
		zap.String("type", string(action.Type())),
		zap.String("description", action.Describe()))

	if err := action.Validate(); err != nil {
		return models.ActionResult{Success: false, Message: err.Error()}
	}

	for _, lock := range s.entityLocks(actionTargets(action)) {
		lock.Lock()
		defer lock.Unlock()
	}

	result := s.dispatch(ctx, action)
	if !result.Success {
		s.logger.Warn("action failed",
			zap.String("type", string(action.Type())),
			zap.String("message", result.Message))
	}
	return result
}

func (s *executorService) ExecuteMany(ctx context.Context, actions []models.Action) models.BatchResult {
	batch := models.BatchResult{Success: true, Results: make([]models.ActionResult, 0, len(actions))}
	for _, action := range actions {
		result := s.Execute(ctx, action)
		batch.Results = append(batch.Results, result)
		if !result.Success {
			batch.Success = false
		}
	}
	return batch
}

func (s *executorService) dispatch(ctx context.Context, action models.Action) models.ActionResult {
	switch a := action.(type) {
	case *models.AddEmail:
		exists, err := s.contacts.HasEmail(ctx, a.ContactID, a.Email)
		if err != nil {
			return failure(err)
		}
		if exists {
			return models.ActionResult{Success: true, Message: fmt.Sprintf("Email %s already exists", a.Email)}
		}
		email, err := s.contacts.AddEmail(ctx, a.ContactID, a.Email)
		if err != nil {
			return failure(err)
		}
		return models.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Added email %s", a.Email),
			Data:    map[string]any{"email_id": email.ID.String()},
		}

	case *models.AddMobile:
		mobile, err := s.contacts.AddMobile(ctx, a.ContactID, a.Mobile)
		if err != nil {
			return failure(err)
		}
		return models.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Added mobile %s", a.Mobile),
			Data:    map[string]any{"mobile_id": mobile.ID.String()},
		}

	case *models.UpdateField:
		if err := s.contacts.UpdateField(ctx, a.ContactID, a.Field, a.Value); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: fmt.Sprintf("Updated %s", a.Field)}

	case *models.UpdateMobileType:
		if err := s.contacts.UpdateMobileType(ctx, a.MobileID, a.MobileType); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: fmt.Sprintf("Updated mobile type to %s", a.MobileType)}

	case *models.DeleteMobile:
		if err := s.contacts.DeleteMobile(ctx, a.MobileID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Mobile deleted"}

	case *models.UnsetMobilePrimary:
		if err := s.contacts.UnsetMobilePrimary(ctx, a.MobileID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Mobile primary unset"}

	case *models.DeleteContact:
		if err := s.contacts.Delete(ctx, a.DeleteID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Contact deleted"}

	case *models.MergeContacts:
		if err := s.contacts.Merge(ctx, a.KeepID, a.DeleteID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Contacts merged"}

	case *models.LinkCompany:
		linked, err := s.contacts.HasCompany(ctx, a.ContactID, a.CompanyID)
		if err != nil {
			return failure(err)
		}
		if linked {
			return models.ActionResult{Success: true, Message: fmt.Sprintf("Already linked to %s", a.CompanyName)}
		}
		if err := s.contacts.LinkCompany(ctx, a.ContactID, a.CompanyID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: fmt.Sprintf("Linked to %s", a.CompanyName)}

	case *models.FixCompanyDomain:
		if err := s.companies.FixDomain(ctx, a.CompanyID, a.OldDomain, a.NewDomain); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: fmt.Sprintf("Fixed domain: %s -> %s", a.OldDomain, a.NewDomain)}

	case *models.MergeCompanies:
		if err := s.companies.Merge(ctx, a.KeepID, a.DeleteID); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Companies merged"}

	case *models.CreateDeal:
		deal, err := s.engagements.CreateDeal(ctx, a.Deal.Opportunity, a.Deal.Stage, a.Deal.Description)
		if err != nil {
			return failure(err)
		}
		return models.ActionResult{
			Success: true,
			Message: "Deal created",
			Data:    map[string]any{"deal_id": deal.ID.String()},
		}

	case *models.LinkDeal:
		if err := s.engagements.LinkDealToContact(ctx, a.DealID, a.ContactID, ""); err != nil {
			return failure(err)
		}
		return models.ActionResult{Success: true, Message: "Deal linked to contact"}

	case *models.CreateIntroduction:
		intro, err := s.engagements.CreateIntroduction(ctx, a.Intro.Text, a.Intro.Status)
		if err != nil {
			return failure(err)
		}
		for i, contactID := range a.ContactIDs {
			role := models.IntroRoleIntroduced
			if i == 0 {
				role = models.IntroRoleIntroducer
			}
			if err := s.engagements.LinkIntroductionContact(ctx, intro.ID, contactID, role); err != nil {
				return failure(err)
			}
		}
		return models.ActionResult{
			Success: true,
			Message: "Introduction created",
			Data:    map[string]any{"introduction_id": intro.ID.String()},
		}

	default:
		return models.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Unknown action type: %s", action.Type()),
		}
	}
}

// actionTargets lists every entity id the action mutates. Merges and
// links name both sides: Merge(A,B) and Delete(B) must contend on B.
func actionTargets(action models.Action) []uuid.UUID {
	switch a := action.(type) {
	case *models.AddEmail:
		return []uuid.UUID{a.ContactID}
	case *models.AddMobile:
		return []uuid.UUID{a.ContactID}
	case *models.UpdateField:
		return []uuid.UUID{a.ContactID}
	case *models.UpdateMobileType:
		return []uuid.UUID{a.MobileID}
	case *models.DeleteMobile:
		return []uuid.UUID{a.MobileID}
	case *models.UnsetMobilePrimary:
		return []uuid.UUID{a.MobileID}
	case *models.DeleteContact:
		return []uuid.UUID{a.DeleteID}
	case *models.MergeContacts:
		return []uuid.UUID{a.KeepID, a.DeleteID}
	case *models.LinkCompany:
		return []uuid.UUID{a.ContactID, a.CompanyID}
	case *models.FixCompanyDomain:
		return []uuid.UUID{a.CompanyID}
	case *models.MergeCompanies:
		return []uuid.UUID{a.KeepID, a.DeleteID}
	case *models.LinkDeal:
		return []uuid.UUID{a.DealID, a.ContactID}
	default:
		return nil
	}
}

// entityLocks resolves ids to their mutexes in byte order, so two
// actions contending on overlapping entities always acquire locks in
// the same sequence and cannot deadlock.
func (s *executorService) entityLocks(ids []uuid.UUID) []*sync.Mutex {
	targets := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || slices.Contains(targets, id) {
			continue
		}
		targets = append(targets, id)
	}
	slices.SortFunc(targets, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	locks := make([]*sync.Mutex, 0, len(targets))
	for _, id := range targets {
		lock, ok := s.locks[id]
		if !ok {
			lock = &sync.Mutex{}
			s.locks[id] = lock
		}
		locks = append(locks, lock)
	}
	return locks
}

func failure(err error) models.ActionResult {
	return models.ActionResult{Success: false, Message: err.Error()}
}
