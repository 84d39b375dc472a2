package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type approvalActorStore interface {
	FindRepresentative(id string) (*models.Representative, error)
	ListUnapprovedRepresentatives() []models.Representative
	SetRepresentativeApproved(id string) (bool, error)
	FindStudent(id string) (*models.Student, error)
	SetAcceptedApplication(studentID, appID string) error
}

type approvalOpportunityStore interface {
	Get(id string) (*models.Opportunity, error)
	Update(opp *models.Opportunity) error
	ListByStatus(status models.OpportunityStatus) []models.Opportunity
}

type approvalApplicationStore interface {
	Get(id string) (*models.Application, error)
	Update(app *models.Application) error
	Delete(id string) error
	ListWithdrawalRequested() []models.Application
}

// approvalPersister mirrors approval decisions to durable storage. The
// in-memory state stays authoritative; persistence failures are logged
// and swallowed.
type approvalPersister interface {
	SetRepresentativeApproved(ctx context.Context, repID string, approved bool) error
}

type reportInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// WithdrawalDecision reports the outcome of one item in a bulk approval.
type WithdrawalDecision struct {
	ApplicationID string `json:"application_id"`
	StudentID     string `json:"student_id"`
	Approved      bool   `json:"approved"`
	Note          string `json:"note,omitempty"`
}

// ApprovalService is the staff side of the system: representative account
// approvals, opportunity approvals, and withdrawal review.
type ApprovalService struct {
	actors    approvalActorStore
	opps      approvalOpportunityStore
	apps      approvalApplicationStore
	persister approvalPersister
	reports   reportInvalidator
	logger    *zap.Logger
}

// NewApprovalService constructs ApprovalService. persister and reports may
// be nil when the corresponding backends are not configured.
func NewApprovalService(actors approvalActorStore, opps approvalOpportunityStore, apps approvalApplicationStore, persister approvalPersister, reports reportInvalidator, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{actors: actors, opps: opps, apps: apps, persister: persister, reports: reports, logger: logger}
}

// PendingRepresentatives lists representative accounts awaiting approval.
func (s *ApprovalService) PendingRepresentatives(ctx context.Context) []models.Representative {
	return s.actors.ListUnapprovedRepresentatives()
}

// PendingOpportunities lists postings awaiting a staff decision.
func (s *ApprovalService) PendingOpportunities(ctx context.Context) []models.Opportunity {
	return s.opps.ListByStatus(models.OpportunityPending)
}

// PendingWithdrawals lists applications with an outstanding withdrawal
// request.
func (s *ApprovalService) PendingWithdrawals(ctx context.Context) []models.Application {
	return s.apps.ListWithdrawalRequested()
}

// ApproveRepresentative clears the representative's hold. Approving an
// already-approved account is a reported no-op, not an error.
func (s *ApprovalService) ApproveRepresentative(ctx context.Context, repID string) (string, error) {
	already, err := s.actors.SetRepresentativeApproved(repID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "representative not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve representative")
	}
	if already {
		return fmt.Sprintf("representative %s is already approved", repID), nil
	}
	s.persistRepresentativeApproval(ctx, repID, true)
	s.logger.Info("representative approved", zap.String("representative_id", repID))
	return fmt.Sprintf("representative %s approved", repID), nil
}

// ApproveOpportunity publishes a pending posting. Re-approving is a
// reported no-op; Rejected and Filled postings cannot re-enter review.
func (s *ApprovalService) ApproveOpportunity(ctx context.Context, oppID string) (string, error) {
	opp, err := s.loadOpportunity(oppID)
	if err != nil {
		return "", err
	}
	switch opp.Status {
	case models.OpportunityApproved:
		return fmt.Sprintf("opportunity %s is already approved", oppID), nil
	case models.OpportunityPending:
	default:
		return "", appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("opportunity in status %s cannot be approved", opp.Status))
	}
	opp.Status = models.OpportunityApproved
	opp.Visible = true
	if err := s.opps.Update(opp); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opportunity")
	}
	s.invalidateReports(ctx)
	s.logger.Info("opportunity approved", zap.String("opportunity_id", oppID))
	return fmt.Sprintf("opportunity %s approved", oppID), nil
}

// RejectOpportunity declines a pending posting.
func (s *ApprovalService) RejectOpportunity(ctx context.Context, oppID string) error {
	opp, err := s.loadOpportunity(oppID)
	if err != nil {
		return err
	}
	if opp.Status != models.OpportunityPending {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only pending opportunities can be rejected")
	}
	opp.Status = models.OpportunityRejected
	opp.Visible = false
	if err := s.opps.Update(opp); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opportunity")
	}
	s.logger.Info("opportunity rejected", zap.String("opportunity_id", oppID))
	return nil
}

// ApproveWithdrawal finalises a withdrawal: the application is removed,
// and a placement pointer referencing it is cleared.
func (s *ApprovalService) ApproveWithdrawal(ctx context.Context, appID string) error {
	app, err := s.loadWithdrawalRequest(appID)
	if err != nil {
		return err
	}
	if err := s.releasePlacement(app); err != nil {
		return err
	}
	if err := s.apps.Delete(app.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove application")
	}
	s.invalidateReports(ctx)
	s.logger.Info("withdrawal approved",
		zap.String("application_id", app.ID), zap.String("student_id", app.StudentID))
	return nil
}

// RejectWithdrawal returns the application to Pending and clears the
// request flag.
func (s *ApprovalService) RejectWithdrawal(ctx context.Context, appID string) error {
	app, err := s.loadWithdrawalRequest(appID)
	if err != nil {
		return err
	}
	app.Status = models.ApplicationPending
	app.WithdrawRequested = false
	if err := s.apps.Update(app); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	s.logger.Info("withdrawal rejected", zap.String("application_id", app.ID))
	return nil
}

// ApproveAllWithdrawals drains the withdrawal queue. The queue is
// snapshotted first so requests filed mid-run wait for the next pass.
func (s *ApprovalService) ApproveAllWithdrawals(ctx context.Context) []WithdrawalDecision {
	queue := s.apps.ListWithdrawalRequested()
	decisions := make([]WithdrawalDecision, 0, len(queue))
	for _, app := range queue {
		decision := WithdrawalDecision{ApplicationID: app.ID, StudentID: app.StudentID, Approved: true}
		if err := s.ApproveWithdrawal(ctx, app.ID); err != nil {
			decision.Approved = false
			decision.Note = err.Error()
		}
		decisions = append(decisions, decision)
	}
	s.logger.Info("withdrawal queue drained", zap.Int("processed", len(decisions)))
	return decisions
}

func (s *ApprovalService) releasePlacement(app *models.Application) error {
	student, err := s.actors.FindStudent(app.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.AcceptedApplicationID != app.ID {
		return nil
	}
	if err := s.actors.SetAcceptedApplication(student.ID, ""); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear placement")
	}
	return nil
}

func (s *ApprovalService) loadOpportunity(oppID string) (*models.Opportunity, error) {
	opp, err := s.opps.Get(oppID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}
	return opp, nil
}

func (s *ApprovalService) loadWithdrawalRequest(appID string) (*models.Application, error) {
	app, err := s.apps.Get(appID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.Status != models.ApplicationWithdrawalRequested {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "application has no pending withdrawal request")
	}
	return app, nil
}

func (s *ApprovalService) persistRepresentativeApproval(ctx context.Context, repID string, approved bool) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SetRepresentativeApproved(ctx, repID, approved); err != nil {
		s.logger.Warn("failed to persist representative approval",
			zap.String("representative_id", repID), zap.Error(err))
	}
}

func (s *ApprovalService) invalidateReports(ctx context.Context) {
	if s.reports == nil {
		return
	}
	s.reports.InvalidateCache(ctx)
}
