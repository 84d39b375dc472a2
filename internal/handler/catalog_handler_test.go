package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/dto"
	"github.com/yu47362/sc2002InternshipApplication/internal/middleware"
	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	"github.com/yu47362/sc2002InternshipApplication/internal/session"
)

type catalogWorld struct {
	handler  *CatalogHandler
	sessions *session.Registry
	opps     *repository.OpportunityRepository
}

// newCatalogWorld wires the in-memory stack behind the catalogue: one senior
// student with a live session, one approved representative, and two open
// postings plus a hidden one.
func newCatalogWorld(t *testing.T) *catalogWorld {
	t.Helper()
	gin.SetMode(gin.TestMode)

	actors := repository.NewActorRepository()
	student := models.Student{ID: "s1", Name: "Alice Tan", Year: 4, Major: "Computer Science"}
	actors.Seed(
		[]models.Student{student},
		[]models.Representative{{ID: "r1", Name: "Carol Ng", Company: "Acme", Approved: true}},
		nil,
	)

	opps := repository.NewOpportunityRepository()
	open := time.Now().UTC().Add(-48 * time.Hour)
	closing := time.Now().UTC().Add(14 * 24 * time.Hour)
	for _, opp := range []models.Opportunity{
		{RepresentativeID: "r1", Title: "Backend Intern", Company: "Acme", Level: models.LevelBasic, OpenDate: open, CloseDate: closing, Slots: 2, Status: models.OpportunityApproved, Visible: true},
		{RepresentativeID: "r1", Title: "Data Intern", Company: "Globex", Level: models.LevelAdvanced, OpenDate: open, CloseDate: closing, Slots: 1, Status: models.OpportunityApproved, Visible: true},
		{RepresentativeID: "r1", Title: "Hidden Intern", Company: "Acme", Level: models.LevelBasic, OpenDate: open, CloseDate: closing, Slots: 1, Status: models.OpportunityApproved, Visible: false},
	} {
		opp := opp
		require.NoError(t, opps.Create(&opp))
	}

	apps := repository.NewApplicationRepository()
	logger := zap.NewNop()
	sessions := session.NewRegistry(time.Minute, 30*time.Minute, logger)
	sessions.Create(models.Actor{Role: models.RoleStudent, Student: &student})

	h := NewCatalogHandler(
		service.NewEligibilityService(opps, actors, logger),
		service.NewFilterService(),
		service.NewOpportunityService(opps, actors, apps, nil, logger),
		actors,
		sessions,
	)
	return &catalogWorld{handler: h, sessions: sessions, opps: opps}
}

func catalogRequest(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestCatalogHandlerListReturnsVisiblePostings(t *testing.T) {
	world := newCatalogWorld(t)
	w, c := catalogRequest(t, http.MethodGet, "/opportunities", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	world.handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var views []dto.StudentOpportunityView
	decodeData(t, w, &views)
	require.Len(t, views, 2)
	// Default ordering is title ascending.
	assert.Equal(t, "Backend Intern", views[0].Title)
	assert.Equal(t, "Data Intern", views[1].Title)
	assert.Equal(t, 2, views[0].SlotsLeft)
}

func TestCatalogHandlerListRequiresClaims(t *testing.T) {
	world := newCatalogWorld(t)
	w, c := catalogRequest(t, http.MethodGet, "/opportunities", nil)

	world.handler.List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogHandlerSetFilterNarrowsList(t *testing.T) {
	world := newCatalogWorld(t)
	claims := &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}

	w, c := catalogRequest(t, http.MethodPut, "/opportunities/filter", dto.FilterRequest{Company: "Globex"})
	c.Set(middleware.ContextUserKey, claims)
	world.handler.SetFilter(c)
	require.Equal(t, http.StatusOK, w.Code)

	w, c = catalogRequest(t, http.MethodGet, "/opportunities", nil)
	c.Set(middleware.ContextUserKey, claims)
	world.handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var views []dto.StudentOpportunityView
	decodeData(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Globex", views[0].Company)

	w, c = catalogRequest(t, http.MethodGet, "/opportunities/filter", nil)
	c.Set(middleware.ContextUserKey, claims)
	world.handler.GetFilter(c)
	require.Equal(t, http.StatusOK, w.Code)

	var view dto.FilterView
	decodeData(t, w, &view)
	assert.Equal(t, "Globex", view.Company)
}

func TestCatalogHandlerSetFilterRejectsUnknownSortKey(t *testing.T) {
	world := newCatalogWorld(t)
	w, c := catalogRequest(t, http.MethodPut, "/opportunities/filter", dto.FilterRequest{SortBy: "salary"})
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	world.handler.SetFilter(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerClearFilterResetsOrdering(t *testing.T) {
	world := newCatalogWorld(t)
	claims := &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}

	w, c := catalogRequest(t, http.MethodPut, "/opportunities/filter", dto.FilterRequest{Company: "Globex"})
	c.Set(middleware.ContextUserKey, claims)
	world.handler.SetFilter(c)
	require.Equal(t, http.StatusOK, w.Code)

	w, c = catalogRequest(t, http.MethodDelete, "/opportunities/filter", nil)
	c.Set(middleware.ContextUserKey, claims)
	world.handler.ClearFilter(c)
	require.Equal(t, http.StatusOK, w.Code)

	var view dto.FilterView
	decodeData(t, w, &view)
	assert.Empty(t, view.Company)
	assert.Equal(t, string(models.SortByTitle), view.SortBy)
	assert.True(t, view.SortAscending)
}

func TestCatalogHandlerFilterWithoutSession(t *testing.T) {
	world := newCatalogWorld(t)
	world.sessions.Remove("s1")

	w, c := catalogRequest(t, http.MethodGet, "/opportunities/filter", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	world.handler.GetFilter(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogHandlerFacets(t *testing.T) {
	world := newCatalogWorld(t)
	w, c := catalogRequest(t, http.MethodGet, "/opportunities/facets", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})

	world.handler.Facets(c)
	require.Equal(t, http.StatusOK, w.Code)

	var facets models.Facets
	decodeData(t, w, &facets)
	assert.Equal(t, []string{"Acme", "Globex"}, facets.Companies)
}

func TestCatalogHandlerUnknownStudent(t *testing.T) {
	world := newCatalogWorld(t)
	w, c := catalogRequest(t, http.MethodGet, "/opportunities", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "ghost", Role: models.RoleStudent})

	world.handler.List(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
