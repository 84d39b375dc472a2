package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

type recordedApproval struct {
	repID    string
	approved bool
}

type mockApprovalPersister struct {
	calls []recordedApproval
	err   error
}

func (m *mockApprovalPersister) SetRepresentativeApproved(ctx context.Context, repID string, approved bool) error {
	m.calls = append(m.calls, recordedApproval{repID: repID, approved: approved})
	return m.err
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateCache(ctx context.Context) { m.calls++ }

func newApprovalService(t *testing.T) (*ApprovalService, *repository.ActorRepository, *repository.OpportunityRepository, *repository.ApplicationRepository, *mockApprovalPersister, *mockInvalidator) {
	t.Helper()
	actors := repository.NewActorRepository()
	actors.Seed(
		[]models.Student{{ID: "s1", Name: "Alice", Year: 3, Major: "Computer Science"}},
		[]models.Representative{
			{ID: "r1", Name: "Carol", Company: "Acme", Approved: false},
			{ID: "r2", Name: "Eve", Company: "Globex", Approved: true},
		},
		[]models.Staff{{ID: "st1", Name: "Dave"}},
	)
	opps := repository.NewOpportunityRepository()
	apps := repository.NewApplicationRepository()
	persister := &mockApprovalPersister{}
	invalidator := &mockInvalidator{}
	svc := NewApprovalService(actors, opps, apps, persister, invalidator, zap.NewNop())
	return svc, actors, opps, apps, persister, invalidator
}

func TestApprovalServiceApproveRepresentative(t *testing.T) {
	svc, actors, _, _, persister, _ := newApprovalService(t)

	require.Len(t, svc.PendingRepresentatives(context.Background()), 1)

	msg, err := svc.ApproveRepresentative(context.Background(), "r1")
	require.NoError(t, err)
	assert.Contains(t, msg, "approved")
	require.Len(t, persister.calls, 1)
	assert.Equal(t, recordedApproval{repID: "r1", approved: true}, persister.calls[0])

	rep, err := actors.FindRepresentative("r1")
	require.NoError(t, err)
	assert.True(t, rep.Approved)
	assert.Empty(t, svc.PendingRepresentatives(context.Background()))
}

func TestApprovalServiceApproveRepresentativeIdempotent(t *testing.T) {
	svc, _, _, _, persister, _ := newApprovalService(t)

	msg, err := svc.ApproveRepresentative(context.Background(), "r2")
	require.NoError(t, err)
	assert.Contains(t, msg, "already approved")
	assert.Empty(t, persister.calls)
}

func TestApprovalServiceApproveRepresentativeMissing(t *testing.T) {
	svc, _, _, _, _, _ := newApprovalService(t)

	_, err := svc.ApproveRepresentative(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceOpportunityLifecycle(t *testing.T) {
	svc, _, opps, _, _, invalidator := newApprovalService(t)
	opp := &models.Opportunity{
		RepresentativeID: "r2",
		Title:            "Intern",
		Level:            models.LevelBasic,
		Slots:            2,
		Company:          "Globex",
		Status:           models.OpportunityPending,
	}
	require.NoError(t, opps.Create(opp))
	require.Len(t, svc.PendingOpportunities(context.Background()), 1)

	msg, err := svc.ApproveOpportunity(context.Background(), opp.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "approved")
	assert.Equal(t, 1, invalidator.calls)

	approved, err := opps.Get(opp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityApproved, approved.Status)
	assert.True(t, approved.Visible)

	// Re-approving reports the no-op instead of failing.
	msg, err = svc.ApproveOpportunity(context.Background(), opp.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "already approved")

	// An approved posting cannot be rejected.
	err = svc.RejectOpportunity(context.Background(), opp.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceApproveFilledOpportunity(t *testing.T) {
	svc, _, opps, _, _, _ := newApprovalService(t)
	opp := &models.Opportunity{
		RepresentativeID: "r2",
		Title:            "Intern",
		Level:            models.LevelBasic,
		Slots:            1,
		Company:          "Globex",
		Status:           models.OpportunityFilled,
	}
	require.NoError(t, opps.Create(opp))

	_, err := svc.ApproveOpportunity(context.Background(), opp.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceRejectOpportunity(t *testing.T) {
	svc, _, opps, _, _, _ := newApprovalService(t)
	opp := &models.Opportunity{
		RepresentativeID: "r2",
		Title:            "Intern",
		Level:            models.LevelBasic,
		Slots:            1,
		Company:          "Globex",
		Status:           models.OpportunityPending,
	}
	require.NoError(t, opps.Create(opp))

	require.NoError(t, svc.RejectOpportunity(context.Background(), opp.ID))
	rejected, err := opps.Get(opp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityRejected, rejected.Status)
	assert.False(t, rejected.Visible)
}

func seedWithdrawalRequest(t *testing.T, actors *repository.ActorRepository, apps *repository.ApplicationRepository, accepted bool) *models.Application {
	t.Helper()
	app := &models.Application{
		StudentID:         "s1",
		OpportunityID:     "opp-1",
		OpportunityTitle:  "Intern",
		Company:           "Acme",
		Status:            models.ApplicationWithdrawalRequested,
		WithdrawRequested: true,
	}
	require.NoError(t, apps.Create(app))
	if accepted {
		require.NoError(t, actors.SetAcceptedApplication("s1", app.ID))
	}
	return app
}

func TestApprovalServiceApproveWithdrawal(t *testing.T) {
	svc, actors, _, apps, _, _ := newApprovalService(t)
	app := seedWithdrawalRequest(t, actors, apps, true)

	require.NoError(t, svc.ApproveWithdrawal(context.Background(), app.ID))

	_, err := apps.Get(app.ID)
	assert.ErrorIs(t, err, repository.ErrNoRecord)

	student, err := actors.FindStudent("s1")
	require.NoError(t, err)
	assert.Empty(t, student.AcceptedApplicationID)
}

func TestApprovalServiceRejectWithdrawal(t *testing.T) {
	svc, actors, _, apps, _, _ := newApprovalService(t)
	app := seedWithdrawalRequest(t, actors, apps, false)

	require.NoError(t, svc.RejectWithdrawal(context.Background(), app.ID))

	restored, err := apps.Get(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, restored.Status)
	assert.False(t, restored.WithdrawRequested)
	assert.Empty(t, apps.ListWithdrawalRequested())
}

func TestApprovalServiceWithdrawalRequiresRequest(t *testing.T) {
	svc, _, _, apps, _, _ := newApprovalService(t)
	app := &models.Application{StudentID: "s1", OpportunityID: "opp-1", Status: models.ApplicationPending}
	require.NoError(t, apps.Create(app))

	err := svc.ApproveWithdrawal(context.Background(), app.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestApprovalServiceApproveAllWithdrawals(t *testing.T) {
	svc, actors, _, apps, _, _ := newApprovalService(t)
	first := seedWithdrawalRequest(t, actors, apps, false)
	second := seedWithdrawalRequest(t, actors, apps, false)

	decisions := svc.ApproveAllWithdrawals(context.Background())
	require.Len(t, decisions, 2)
	for _, d := range decisions {
		assert.True(t, d.Approved)
	}

	_, err := apps.Get(first.ID)
	assert.ErrorIs(t, err, repository.ErrNoRecord)
	_, err = apps.Get(second.ID)
	assert.ErrorIs(t, err, repository.ErrNoRecord)
	assert.Empty(t, apps.ListWithdrawalRequested())
}
