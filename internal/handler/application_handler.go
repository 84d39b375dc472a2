package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yu47362/sc2002InternshipApplication/internal/dto"
	"github.com/yu47362/sc2002InternshipApplication/internal/middleware"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
	"github.com/yu47362/sc2002InternshipApplication/pkg/response"
)

// ApplicationHandler exposes the application lifecycle to students and
// representatives.
type ApplicationHandler struct {
	applications *service.ApplicationService
	metrics      *service.MetricsService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(applications *service.ApplicationService, metrics *service.MetricsService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, metrics: metrics}
}

// Apply godoc
// @Summary Apply for an opportunity
// @Description Files a new application after eligibility and limit checks
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body object{opportunity_id=string} true "Target opportunity"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		OpportunityID string `json:"opportunity_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "opportunity_id required"))
		return
	}

	app, err := h.applications.Apply(c.Request.Context(), claims.UserID, payload.OpportunityID)
	if err != nil {
		h.metrics.RecordApplicationOutcome("apply_rejected")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApplicationOutcome("applied")
	response.Created(c, dto.NewApplicationView(*app))
}

// List godoc
// @Summary List own applications
// @Description Returns the student's full application history
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	apps := h.applications.ListForStudent(c.Request.Context(), claims.UserID)
	response.JSON(c, http.StatusOK, dto.ApplicationViews(apps))
}

// Accept godoc
// @Summary Accept an offer
// @Description Takes up an offered placement; sibling offers are auto-rejected
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/accept [post]
func (h *ApplicationHandler) Accept(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	app, err := h.applications.Accept(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordApplicationOutcome("accepted")
	response.JSON(c, http.StatusOK, dto.NewApplicationView(*app))
}

// RequestWithdrawal godoc
// @Summary Request withdrawal
// @Description Flags an application for staff withdrawal review
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/withdraw [post]
func (h *ApplicationHandler) RequestWithdrawal(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	app, err := h.applications.RequestWithdrawal(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordApplicationOutcome("withdrawal_requested")
	response.JSON(c, http.StatusOK, dto.NewApplicationView(*app))
}

// Offer godoc
// @Summary Offer a placement
// @Description Moves a pending application to Offered
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/applications/{id}/offer [post]
func (h *ApplicationHandler) Offer(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	app, err := h.applications.Offer(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordApplicationOutcome("offered")
	response.JSON(c, http.StatusOK, dto.NewApplicationView(*app))
}

// Reject godoc
// @Summary Reject an application
// @Description Moves a pending application to Rejected
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	app, err := h.applications.Reject(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordApplicationOutcome("rejected")
	response.JSON(c, http.StatusOK, dto.NewApplicationView(*app))
}
