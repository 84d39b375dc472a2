package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
)

func newEligibilityWorld(t *testing.T) (*EligibilityService, *repository.ActorRepository, *repository.OpportunityRepository) {
	t.Helper()
	actors := repository.NewActorRepository()
	actors.Seed(
		[]models.Student{
			{ID: "s1", Name: "Alice", Year: 2, Major: "Computer Science"},
			{ID: "s2", Name: "Bob", Year: 4, Major: "Computer Science"},
		},
		[]models.Representative{{ID: "r1", Name: "Carol", Company: "Acme", Approved: false}},
		nil,
	)
	opps := repository.NewOpportunityRepository()
	svc := NewEligibilityService(opps, actors, zap.NewNop())
	svc.now = func() time.Time { return testToday }
	return svc, actors, opps
}

func seedEligibleOpportunity(t *testing.T, opps *repository.OpportunityRepository, level models.Level, preferredMajor string) *models.Opportunity {
	t.Helper()
	opp := &models.Opportunity{
		RepresentativeID: "r1",
		Title:            "Intern",
		Level:            level,
		PreferredMajor:   preferredMajor,
		OpenDate:         testToday.AddDate(0, 0, -1),
		CloseDate:        testToday.AddDate(0, 0, 14),
		Slots:            2,
		Company:          "Acme",
		Status:           models.OpportunityApproved,
		Visible:          true,
	}
	require.NoError(t, opps.Create(opp))
	return opp
}

func TestEligibilityUnapprovedRepresentativeHidesPostings(t *testing.T) {
	svc, actors, opps := newEligibilityWorld(t)
	seedEligibleOpportunity(t, opps, models.LevelBasic, "")

	student, err := actors.FindStudent("s1")
	require.NoError(t, err)
	assert.Empty(t, svc.VisibleTo(student))

	_, err = actors.SetRepresentativeApproved("r1")
	require.NoError(t, err)
	assert.Len(t, svc.VisibleTo(student), 1)
}

func TestEligibilityLevelVersusYear(t *testing.T) {
	svc, actors, opps := newEligibilityWorld(t)
	_, err := actors.SetRepresentativeApproved("r1")
	require.NoError(t, err)

	basic := seedEligibleOpportunity(t, opps, models.LevelBasic, "")
	intermediate := seedEligibleOpportunity(t, opps, models.LevelIntermediate, "")
	advanced := seedEligibleOpportunity(t, opps, models.LevelAdvanced, "")

	sophomore, err := actors.FindStudent("s1")
	require.NoError(t, err)
	senior, err := actors.FindStudent("s2")
	require.NoError(t, err)

	assert.True(t, svc.Eligible(sophomore, basic))
	assert.False(t, svc.Eligible(sophomore, intermediate))
	assert.False(t, svc.Eligible(sophomore, advanced))

	assert.True(t, svc.Eligible(senior, basic))
	assert.True(t, svc.Eligible(senior, intermediate))
	assert.True(t, svc.Eligible(senior, advanced))
}

func TestEligibilityMajorPreference(t *testing.T) {
	svc, actors, opps := newEligibilityWorld(t)
	_, err := actors.SetRepresentativeApproved("r1")
	require.NoError(t, err)

	anyMajor := seedEligibleOpportunity(t, opps, models.LevelBasic, "")
	matching := seedEligibleOpportunity(t, opps, models.LevelBasic, "computer SCIENCE")
	other := seedEligibleOpportunity(t, opps, models.LevelBasic, "Business")

	student, err := actors.FindStudent("s1")
	require.NoError(t, err)

	assert.True(t, svc.Eligible(student, anyMajor))
	assert.True(t, svc.Eligible(student, matching))
	assert.False(t, svc.Eligible(student, other))
}

func TestEligibilityWindowAndVisibility(t *testing.T) {
	svc, actors, opps := newEligibilityWorld(t)
	_, err := actors.SetRepresentativeApproved("r1")
	require.NoError(t, err)

	opp := seedEligibleOpportunity(t, opps, models.LevelBasic, "")
	student, err := actors.FindStudent("s1")
	require.NoError(t, err)
	require.True(t, svc.Eligible(student, opp))

	hidden := *opp
	hidden.Visible = false
	assert.False(t, svc.Eligible(student, &hidden))

	stale := *opp
	stale.CloseDate = testToday.AddDate(0, 0, -1)
	assert.False(t, svc.Eligible(student, &stale))

	pending := *opp
	pending.Status = models.OpportunityPending
	assert.False(t, svc.Eligible(student, &pending))
}

// A freshly approved representative's postings still go through staff
// review before students see them, then the level rules bite per student.
func TestEligibilityEndToEnd(t *testing.T) {
	svc, actors, opps := newEligibilityWorld(t)
	opp := &models.Opportunity{
		RepresentativeID: "r1",
		Title:            "Research Intern",
		Level:            models.LevelAdvanced,
		OpenDate:         testToday.AddDate(0, 0, -1),
		CloseDate:        testToday.AddDate(0, 0, 14),
		Slots:            1,
		Company:          "Acme",
		Status:           models.OpportunityPending,
	}
	require.NoError(t, opps.Create(opp))

	approvals := NewApprovalService(actors, opps, repository.NewApplicationRepository(), nil, nil, zap.NewNop())
	_, err := approvals.ApproveRepresentative(context.Background(), "r1")
	require.NoError(t, err)

	sophomore, err := actors.FindStudent("s1")
	require.NoError(t, err)
	senior, err := actors.FindStudent("s2")
	require.NoError(t, err)

	assert.Empty(t, svc.VisibleTo(senior))

	_, err = approvals.ApproveOpportunity(context.Background(), opp.ID)
	require.NoError(t, err)

	assert.Len(t, svc.VisibleTo(senior), 1)
	assert.Empty(t, svc.VisibleTo(sophomore))
}
