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

// OpportunityHandler exposes posting management to representatives.
type OpportunityHandler struct {
	opportunities *service.OpportunityService
	applications  *service.ApplicationService
}

// NewOpportunityHandler creates a new handler.
func NewOpportunityHandler(opportunities *service.OpportunityService, applications *service.ApplicationService) *OpportunityHandler {
	return &OpportunityHandler{opportunities: opportunities, applications: applications}
}

// Create godoc
// @Summary Create opportunity
// @Description Registers a new posting, pending staff approval
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param payload body service.CreateOpportunityRequest true "Opportunity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /company/opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid opportunity payload"))
		return
	}

	detail, err := h.opportunities.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewCompanyOpportunityView(*detail))
}

// List godoc
// @Summary List own opportunities
// @Description Returns the representative's postings with demand counts
// @Tags Opportunities
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /company/opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	details := h.opportunities.ListForRepresentative(c.Request.Context(), claims.UserID)
	response.JSON(c, http.StatusOK, dto.CompanyOpportunityViews(details))
}

// Update godoc
// @Summary Edit opportunity
// @Description Overwrites a posting's fields while it is still pending review
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param id path string true "Opportunity ID"
// @Param payload body service.UpdateOpportunityRequest true "Opportunity payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/opportunities/{id} [put]
func (h *OpportunityHandler) Update(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid opportunity payload"))
		return
	}

	detail, err := h.opportunities.Edit(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCompanyOpportunityView(*detail))
}

// ToggleVisibility godoc
// @Summary Toggle visibility
// @Description Flips the visible flag of an approved posting
// @Tags Opportunities
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/opportunities/{id}/visibility [patch]
func (h *OpportunityHandler) ToggleVisibility(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.opportunities.ToggleVisibility(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCompanyOpportunityView(*detail))
}

// Delete godoc
// @Summary Delete opportunity
// @Description Removes a posting that was never approved
// @Tags Opportunities
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.opportunities.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Applications godoc
// @Summary List received applications
// @Description Returns the applications filed against one of the representative's postings
// @Tags Opportunities
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /company/opportunities/{id}/applications [get]
func (h *OpportunityHandler) Applications(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	details, err := h.applications.ListReceived(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ReceivedApplicationViews(details))
}
