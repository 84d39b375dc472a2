package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

// mockReportCache mirrors the Redis-backed cache with an in-process map.
type mockReportCache struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newMockReportCache() *mockReportCache {
	return &mockReportCache{entries: make(map[string][]byte)}
}

func (m *mockReportCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockReportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *mockReportCache) Delete(ctx context.Context, key string) {
	delete(m.entries, key)
	m.deletes++
}

type reportWorld struct {
	svc    *ReportService
	opps   *repository.OpportunityRepository
	apps   *repository.ApplicationRepository
	actors *repository.ActorRepository
	cache  *mockReportCache
}

func newReportWorld(t *testing.T) *reportWorld {
	t.Helper()
	opps := repository.NewOpportunityRepository()
	apps := repository.NewApplicationRepository()
	actors := repository.NewActorRepository()
	actors.Seed([]models.Student{
		{ID: "s1", Name: "Alice Tan", Year: 3, Major: "Computer Science", AcceptedApplicationID: "app-1"},
		{ID: "s2", Name: "Bob Lim", Year: 1, Major: "Business"},
	}, []models.Representative{
		{ID: "r1", Name: "Carol Ng", Company: "Acme", Approved: true},
		{ID: "r2", Name: "Erin Wu", Company: "Globex", Approved: false},
	}, nil)

	for _, opp := range []models.Opportunity{
		{RepresentativeID: "r1", Title: "Backend Intern", Company: "Acme", Level: models.LevelBasic, Slots: 2, Status: models.OpportunityApproved, Visible: true},
		{RepresentativeID: "r1", Title: "Frontend Intern", Company: "Acme", Level: models.LevelBasic, Slots: 1, Status: models.OpportunityPending},
		{RepresentativeID: "r2", Title: "Data Intern", Company: "Globex", Level: models.LevelAdvanced, Slots: 1, Status: models.OpportunityFilled},
	} {
		opp := opp
		require.NoError(t, opps.Create(&opp))
	}

	cache := newMockReportCache()
	svc := NewReportService(opps, apps, actors, cache, 10*time.Minute, nil, zap.NewNop())
	svc.now = func() time.Time { return testToday }
	return &reportWorld{svc: svc, opps: opps, apps: apps, actors: actors, cache: cache}
}

func (w *reportWorld) addApplication(t *testing.T, oppID, company string, status models.ApplicationStatus) {
	t.Helper()
	app := &models.Application{StudentID: "s1", OpportunityID: oppID, Company: company, Status: status}
	require.NoError(t, w.apps.Create(app))
}

func TestReportServiceOverviewCounts(t *testing.T) {
	world := newReportWorld(t)
	oppID := world.opps.List()[0].ID
	world.addApplication(t, oppID, "Acme", models.ApplicationPending)
	world.addApplication(t, oppID, "Acme", models.ApplicationAccepted)

	overview, err := world.svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalOpportunities)
	assert.Equal(t, 1, overview.PendingOpportunities)
	assert.Equal(t, 1, overview.ApprovedOpportunities)
	assert.Equal(t, 1, overview.FilledOpportunities)
	assert.Equal(t, 1, overview.VisibleOpportunities)
	assert.Equal(t, 2, overview.TotalStudents)
	assert.Equal(t, 1, overview.PlacedStudents)
	assert.Equal(t, 2, overview.TotalRepresentatives)
	assert.Equal(t, 1, overview.ApprovedRepresentatives)
	assert.Equal(t, 1, overview.PendingRepresentatives)
	assert.Equal(t, 2, overview.TotalApplications)
	assert.Equal(t, 1, overview.ApplicationsByStatus[models.ApplicationAccepted])
	assert.Equal(t, testToday, overview.GeneratedAt)
}

func TestReportServiceOverviewServedFromCache(t *testing.T) {
	world := newReportWorld(t)

	first, err := world.svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, world.cache.sets)

	// Later mutations are invisible until the snapshot is invalidated.
	extra := &models.Opportunity{RepresentativeID: "r1", Title: "Late Posting", Company: "Acme", Level: models.LevelBasic, Slots: 1, Status: models.OpportunityPending}
	require.NoError(t, world.opps.Create(extra))

	cached, err := world.svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOpportunities, cached.TotalOpportunities)
	assert.Equal(t, 1, world.cache.sets)

	world.svc.InvalidateCache(context.Background())
	require.Equal(t, 1, world.cache.deletes)

	fresh, err := world.svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOpportunities+1, fresh.TotalOpportunities)
	assert.Equal(t, 2, world.cache.sets)
}

func TestReportServiceCompanyBreakdown(t *testing.T) {
	world := newReportWorld(t)
	acmeID := world.opps.List()[0].ID
	world.addApplication(t, acmeID, "Acme", models.ApplicationAccepted)
	world.addApplication(t, acmeID, "Acme", models.ApplicationPending)
	world.addApplication(t, world.opps.List()[2].ID, "Globex", models.ApplicationRejected)

	lines := world.svc.CompanyBreakdown(context.Background())
	require.Len(t, lines, 2)

	acme := lines[0]
	assert.Equal(t, "Acme", acme.Company)
	assert.Equal(t, 2, acme.Postings)
	assert.Equal(t, 1, acme.Approved)
	assert.Equal(t, 2, acme.Applications)
	assert.Equal(t, 1, acme.SlotsFilled)

	globex := lines[1]
	assert.Equal(t, "Globex", globex.Company)
	assert.Equal(t, 1, globex.Postings)
	assert.Equal(t, 1, globex.Approved)
	assert.Equal(t, 1, globex.Applications)
}

func TestReportServiceExportCSV(t *testing.T) {
	world := newReportWorld(t)

	payload, contentType, err := world.svc.Export(context.Background(), ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	require.True(t, bytes.HasPrefix(payload, []byte("\uFEFF")))
	body := strings.TrimPrefix(string(payload), "\uFEFF")
	assert.True(t, strings.HasPrefix(body, "Company,Postings,Approved,Applications,Slots Filled\n"))
	assert.Contains(t, body, "Acme,2,")
	assert.Contains(t, body, "Globex,1,")
}

func TestReportServiceExportPDF(t *testing.T) {
	world := newReportWorld(t)

	payload, contentType, err := world.svc.Export(context.Background(), ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestReportServiceExportUnknownFormat(t *testing.T) {
	world := newReportWorld(t)

	_, _, err := world.svc.Export(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
