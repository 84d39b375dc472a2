package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type applicationRepository interface {
	Create(app *models.Application) error
	Get(id string) (*models.Application, error)
	Update(app *models.Application) error
	ListByStudent(studentID string) []models.Application
	ListByOpportunity(oppID string) []models.Application
	HasLivePair(studentID, oppID string) bool
	CountActiveByStudent(studentID string) int
	CountAcceptedByOpportunity(oppID string) int
}

type applicationOpportunityStore interface {
	Get(id string) (*models.Opportunity, error)
	Update(opp *models.Opportunity) error
}

type applicationActorStore interface {
	FindStudent(id string) (*models.Student, error)
	SetAcceptedApplication(studentID, appID string) error
}

// ApplicationService drives the student/representative sides of the
// application lifecycle: apply, offer, accept, reject, and withdrawal
// requests. Withdrawal approvals belong to ApprovalService.
type ApplicationService struct {
	apps   applicationRepository
	opps   applicationOpportunityStore
	actors applicationActorStore
	logger *zap.Logger
	now    func() time.Time
}

// NewApplicationService constructs ApplicationService.
func NewApplicationService(apps applicationRepository, opps applicationOpportunityStore, actors applicationActorStore, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{apps: apps, opps: opps, actors: actors, logger: logger, now: time.Now}
}

// Apply files a new Pending application after the guard chain passes.
// Guards run in a fixed order so the first failure is the one reported.
func (s *ApplicationService) Apply(ctx context.Context, studentID, oppID string) (*models.Application, error) {
	student, err := s.actors.FindStudent(studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	opp, err := s.opps.Get(oppID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}

	if !opp.Visible || opp.Status != models.OpportunityApproved {
		return nil, appErrors.Clone(appErrors.ErrNotEligible, "opportunity is not open to applications")
	}
	if !opp.IsOpenOn(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrWindowClosed, "opportunity is outside its application window")
	}
	if s.apps.CountActiveByStudent(student.ID) >= models.MaxConcurrentApplications {
		return nil, appErrors.Clone(appErrors.ErrApplicationLimit, "active application limit reached")
	}
	if student.Year <= 2 && opp.Level != models.LevelBasic {
		return nil, appErrors.Clone(appErrors.ErrNotEligible, "years 1 and 2 may only apply for Basic opportunities")
	}
	if s.apps.HasLivePair(student.ID, opp.ID) {
		return nil, appErrors.Clone(appErrors.ErrAlreadyApplied, "an active application for this opportunity already exists")
	}

	app := &models.Application{
		StudentID:        student.ID,
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		Company:          opp.Company,
		Status:           models.ApplicationPending,
	}
	if err := s.apps.Create(app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}
	s.logger.Info("application filed",
		zap.String("application_id", app.ID),
		zap.String("student_id", student.ID),
		zap.String("opportunity_id", opp.ID))
	return app, nil
}

// Offer moves a Pending application to Offered. Only the representative
// owning the posting may offer.
func (s *ApplicationService) Offer(ctx context.Context, repID, appID string) (*models.Application, error) {
	app, _, err := s.ownedApplication(repID, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending applications can be offered")
	}
	app.Status = models.ApplicationOffered
	if err := s.apps.Update(app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	return app, nil
}

// Reject moves a Pending application to Rejected.
func (s *ApplicationService) Reject(ctx context.Context, repID, appID string) (*models.Application, error) {
	app, _, err := s.ownedApplication(repID, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending applications can be rejected")
	}
	app.Status = models.ApplicationRejected
	if err := s.apps.Update(app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	return app, nil
}

// Accept takes up an offer. The student's other offers are auto-rejected,
// the accepted application becomes the student's single placement, and the
// posting is closed once its last slot fills.
func (s *ApplicationService) Accept(ctx context.Context, studentID, appID string) (*models.Application, error) {
	app, err := s.apps.Get(appID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "application belongs to another student")
	}
	if app.Status != models.ApplicationOffered {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only offered applications can be accepted")
	}
	student, err := s.actors.FindStudent(studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.AcceptedApplicationID != "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "student already holds an accepted placement")
	}

	opp, err := s.opps.Get(app.OpportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}
	if opp.Slots-s.apps.CountAcceptedByOpportunity(opp.ID) <= 0 {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "opportunity has no remaining slots")
	}

	app.Status = models.ApplicationAccepted
	if err := s.apps.Update(app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	if err := s.actors.SetAcceptedApplication(studentID, app.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record placement")
	}

	// One placement per student: every other outstanding offer folds.
	for _, other := range s.apps.ListByStudent(studentID) {
		if other.ID == app.ID || other.Status != models.ApplicationOffered {
			continue
		}
		rejected := other
		rejected.Status = models.ApplicationRejected
		if err := s.apps.Update(&rejected); err != nil {
			s.logger.Warn("failed to auto-reject sibling offer",
				zap.String("application_id", other.ID), zap.Error(err))
		}
	}

	s.checkAndSetFilled(opp)
	s.logger.Info("offer accepted",
		zap.String("application_id", app.ID),
		zap.String("student_id", studentID),
		zap.String("opportunity_id", opp.ID))
	return app, nil
}

// RequestWithdrawal flags an application for staff review. The only
// terminal state that blocks a request is Withdrawn itself.
func (s *ApplicationService) RequestWithdrawal(ctx context.Context, studentID, appID string) (*models.Application, error) {
	app, err := s.apps.Get(appID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "application belongs to another student")
	}
	if app.Status == models.ApplicationWithdrawn {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "application is already withdrawn")
	}
	app.Status = models.ApplicationWithdrawalRequested
	app.WithdrawRequested = true
	if err := s.apps.Update(app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	return app, nil
}

// ListForStudent returns the student's full application history.
func (s *ApplicationService) ListForStudent(ctx context.Context, studentID string) []models.Application {
	return s.apps.ListByStudent(studentID)
}

// ListReceived returns applications filed against one of the
// representative's postings, enriched with applicant details.
func (s *ApplicationService) ListReceived(ctx context.Context, repID, oppID string) ([]models.ApplicationDetail, error) {
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
	apps := s.apps.ListByOpportunity(oppID)
	out := make([]models.ApplicationDetail, 0, len(apps))
	for _, app := range apps {
		detail := models.ApplicationDetail{Application: app}
		if student, err := s.actors.FindStudent(app.StudentID); err == nil {
			detail.StudentName = student.Name
			detail.StudentYear = student.Year
			detail.StudentMajor = student.Major
		}
		out = append(out, detail)
	}
	return out, nil
}

// checkAndSetFilled closes the posting once remaining capacity reaches
// zero. Idempotent: an already Filled posting is left untouched.
func (s *ApplicationService) checkAndSetFilled(opp *models.Opportunity) {
	left := opp.Slots - s.apps.CountAcceptedByOpportunity(opp.ID)
	if left > 0 || opp.Status == models.OpportunityFilled {
		return
	}
	opp.Status = models.OpportunityFilled
	opp.Visible = false
	if err := s.opps.Update(opp); err != nil {
		s.logger.Warn("failed to mark opportunity filled",
			zap.String("opportunity_id", opp.ID), zap.Error(err))
		return
	}
	s.logger.Info("opportunity filled", zap.String("opportunity_id", opp.ID))
}

func (s *ApplicationService) ownedApplication(repID, appID string) (*models.Application, *models.Opportunity, error) {
	app, err := s.apps.Get(appID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	opp, err := s.opps.Get(app.OpportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity")
	}
	if opp.RepresentativeID != repID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "application belongs to another company's posting")
	}
	return app, opp, nil
}
