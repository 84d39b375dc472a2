package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type opportunityRepository interface {
	Create(opp *models.Opportunity) error
	Get(id string) (*models.Opportunity, error)
	Update(opp *models.Opportunity) error
	Delete(id string) error
	List() []models.Opportunity
	ListByRepresentative(repID string) []models.Opportunity
}

type opportunityRepReader interface {
	FindRepresentative(id string) (*models.Representative, error)
}

type opportunityApplicationCounter interface {
	ListByOpportunity(oppID string) []models.Application
	CountAcceptedByOpportunity(oppID string) int
}

// CreateOpportunityRequest describes a new posting.
type CreateOpportunityRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Level          string `json:"level" validate:"required"`
	PreferredMajor string `json:"preferred_major"`
	OpenDate       string `json:"open_date" validate:"required"`
	CloseDate      string `json:"close_date" validate:"required"`
	Slots          int    `json:"slots" validate:"required"`
}

// UpdateOpportunityRequest overwrites every mutable field of a pending
// posting.
type UpdateOpportunityRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Level          string `json:"level" validate:"required"`
	PreferredMajor string `json:"preferred_major"`
	OpenDate       string `json:"open_date" validate:"required"`
	CloseDate      string `json:"close_date" validate:"required"`
	Slots          int    `json:"slots" validate:"required"`
}

const dateLayout = "2006-01-02"

// OpportunityService owns the posting lifecycle on the representative side:
// create, edit while pending, visibility toggling, and deletion.
type OpportunityService struct {
	opps      opportunityRepository
	actors    opportunityRepReader
	apps      opportunityApplicationCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOpportunityService constructs OpportunityService.
func NewOpportunityService(opps opportunityRepository, actors opportunityRepReader, apps opportunityApplicationCounter, validate *validator.Validate, logger *zap.Logger) *OpportunityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpportunityService{opps: opps, actors: actors, apps: apps, validator: validate, logger: logger}
}

// Create registers a Pending, invisible posting owned by the representative.
func (s *OpportunityService) Create(ctx context.Context, repID string, req CreateOpportunityRequest) (*models.OpportunityDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opportunity payload")
	}
	rep, err := s.actors.FindRepresentative(repID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "representative not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load representative")
	}

	level, open, close, err := s.parseFields(req.Level, req.OpenDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	opp := &models.Opportunity{
		RepresentativeID: rep.ID,
		Title:            req.Title,
		Description:      req.Description,
		Level:            level,
		PreferredMajor:   req.PreferredMajor,
		OpenDate:         open,
		CloseDate:        close,
		Slots:            models.ClampSlots(req.Slots),
		Company:          rep.Company,
		Status:           models.OpportunityPending,
		Visible:          false,
	}
	if err := s.opps.Create(opp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create opportunity")
	}
	s.logger.Info("opportunity created", zap.String("opportunity_id", opp.ID), zap.String("company", opp.Company))
	return s.detail(opp), nil
}

// Edit overwrites all mutable fields. Allowed only while the posting is
// still Pending.
func (s *OpportunityService) Edit(ctx context.Context, repID, oppID string, req UpdateOpportunityRequest) (*models.OpportunityDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opportunity payload")
	}
	opp, err := s.ownedBy(repID, oppID)
	if err != nil {
		return nil, err
	}
	if opp.Status != models.OpportunityPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "opportunity can only be edited before approval")
	}

	level, open, close, err := s.parseFields(req.Level, req.OpenDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	opp.Title = req.Title
	opp.Description = req.Description
	opp.Level = level
	opp.PreferredMajor = req.PreferredMajor
	opp.OpenDate = open
	opp.CloseDate = close
	opp.Slots = models.ClampSlots(req.Slots)

	if err := s.opps.Update(opp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opportunity")
	}
	return s.detail(opp), nil
}

// ToggleVisibility flips the visible flag of an Approved posting.
func (s *OpportunityService) ToggleVisibility(ctx context.Context, repID, oppID string) (*models.OpportunityDetail, error) {
	opp, err := s.ownedBy(repID, oppID)
	if err != nil {
		return nil, err
	}
	if opp.Status != models.OpportunityApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "visibility can only be toggled after staff approval")
	}
	opp.Visible = !opp.Visible
	if err := s.opps.Update(opp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opportunity")
	}
	return s.detail(opp), nil
}

// Delete removes a posting that was never approved. Historical applications
// keep their denormalised title and company.
func (s *OpportunityService) Delete(ctx context.Context, repID, oppID string) error {
	opp, err := s.ownedBy(repID, oppID)
	if err != nil {
		return err
	}
	if opp.Status == models.OpportunityApproved {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "approved opportunities cannot be deleted")
	}
	if err := s.opps.Delete(opp.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete opportunity")
	}
	s.logger.Info("opportunity deleted", zap.String("opportunity_id", opp.ID), zap.String("status", string(opp.Status)))
	return nil
}

// Get returns a posting with derived counts.
func (s *OpportunityService) Get(ctx context.Context, oppID string) (*models.OpportunityDetail, error) {
	opp, err := s.opps.Get(oppID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}
	return s.detail(opp), nil
}

// ListForRepresentative returns the representative's own postings.
func (s *OpportunityService) ListForRepresentative(ctx context.Context, repID string) []models.OpportunityDetail {
	opps := s.opps.ListByRepresentative(repID)
	out := make([]models.OpportunityDetail, 0, len(opps))
	for i := range opps {
		out = append(out, *s.detail(&opps[i]))
	}
	return out
}

// Decorate computes derived counts for an already-retrieved list.
func (s *OpportunityService) Decorate(list []models.Opportunity) []models.OpportunityDetail {
	out := make([]models.OpportunityDetail, 0, len(list))
	for i := range list {
		out = append(out, *s.detail(&list[i]))
	}
	return out
}

// SlotsLeft computes remaining capacity, never below zero.
func (s *OpportunityService) SlotsLeft(opp *models.Opportunity) int {
	left := opp.Slots - s.apps.CountAcceptedByOpportunity(opp.ID)
	if left < 0 {
		return 0
	}
	return left
}

func (s *OpportunityService) detail(opp *models.Opportunity) *models.OpportunityDetail {
	return &models.OpportunityDetail{
		Opportunity:      *opp,
		SlotsLeft:        s.SlotsLeft(opp),
		ApplicationCount: len(s.apps.ListByOpportunity(opp.ID)),
	}
}

func (s *OpportunityService) ownedBy(repID, oppID string) (*models.Opportunity, error) {
	opp, err := s.opps.Get(oppID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}
	if opp.RepresentativeID != repID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "opportunity belongs to another representative")
	}
	return opp, nil
}

func (s *OpportunityService) parseFields(rawLevel, rawOpen, rawClose string) (models.Level, time.Time, time.Time, error) {
	level, ok := models.ParseLevel(rawLevel)
	if !ok {
		return "", time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "level must be Basic, Intermediate or Advanced")
	}
	open, err := time.Parse(dateLayout, rawOpen)
	if err != nil {
		return "", time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "open_date must use yyyy-mm-dd")
	}
	close, err := time.Parse(dateLayout, rawClose)
	if err != nil {
		return "", time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "close_date must use yyyy-mm-dd")
	}
	if close.Before(open) {
		return "", time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "close_date must not precede open_date")
	}
	return level, open, close, nil
}
