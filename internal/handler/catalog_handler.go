package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yu47362/sc2002InternshipApplication/internal/dto"
	"github.com/yu47362/sc2002InternshipApplication/internal/middleware"
	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	"github.com/yu47362/sc2002InternshipApplication/internal/session"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
	"github.com/yu47362/sc2002InternshipApplication/pkg/response"
)

// CatalogHandler serves the student-facing opportunity catalogue. The
// caller's saved filter narrows and orders the eligible set; the filter
// itself lives in the session and survives between requests until logout.
type CatalogHandler struct {
	eligibility   *service.EligibilityService
	filters       *service.FilterService
	opportunities *service.OpportunityService
	actors        *repository.ActorRepository
	sessions      *session.Registry
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(eligibility *service.EligibilityService, filters *service.FilterService, opportunities *service.OpportunityService, actors *repository.ActorRepository, sessions *session.Registry) *CatalogHandler {
	return &CatalogHandler{
		eligibility:   eligibility,
		filters:       filters,
		opportunities: opportunities,
		actors:        actors,
		sessions:      sessions,
	}
}

// List godoc
// @Summary List eligible opportunities
// @Description Returns the opportunities the student may apply to, narrowed and ordered by the saved session filter
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /opportunities [get]
func (h *CatalogHandler) List(c *gin.Context) {
	student, filter, err := h.studentContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	visible := h.eligibility.VisibleTo(student)
	filtered := h.filters.Apply(visible, filter)
	details := h.opportunities.Decorate(filtered)
	response.JSON(c, http.StatusOK, dto.StudentOpportunityViews(details))
}

// Facets godoc
// @Summary List catalogue facets
// @Description Returns the distinct filterable values across the student's eligible opportunities
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /opportunities/facets [get]
func (h *CatalogHandler) Facets(c *gin.Context) {
	student, _, err := h.studentContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	visible := h.eligibility.VisibleTo(student)
	response.JSON(c, http.StatusOK, h.filters.Facets(visible))
}

// GetFilter godoc
// @Summary Get saved filter
// @Description Returns the caller's session filter
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /opportunities/filter [get]
func (h *CatalogHandler) GetFilter(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter, ok := h.sessions.Filter(claims.UserID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrSessionExpired, "session expired, log in again"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewFilterView(filter))
}

// SetFilter godoc
// @Summary Save filter
// @Description Stores the caller's catalogue filter in the session
// @Tags Catalogue
// @Accept json
// @Produce json
// @Param payload body dto.FilterRequest true "Filter payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /opportunities/filter [put]
func (h *CatalogHandler) SetFilter(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.sessions.SetFilter(claims.UserID, filter) {
		response.Error(c, appErrors.Clone(appErrors.ErrSessionExpired, "session expired, log in again"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewFilterView(filter))
}

// ClearFilter godoc
// @Summary Clear saved filter
// @Description Resets the caller's session filter to the default ordering
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /opportunities/filter [delete]
func (h *CatalogHandler) ClearFilter(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter, ok := h.sessions.Filter(claims.UserID)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrSessionExpired, "session expired, log in again"))
		return
	}
	filter.Clear()
	h.sessions.SetFilter(claims.UserID, filter)
	response.JSON(c, http.StatusOK, dto.NewFilterView(filter))
}

func (h *CatalogHandler) studentContext(c *gin.Context) (*models.Student, models.Filter, error) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil, models.Filter{}, appErrors.ErrUnauthorized
	}
	student, err := h.actors.FindStudent(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, models.Filter{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, models.Filter{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	filter, ok := h.sessions.Filter(claims.UserID)
	if !ok {
		filter = models.NewFilter()
	}
	return student, filter, nil
}
