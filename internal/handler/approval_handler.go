package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yu47362/sc2002InternshipApplication/internal/dto"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	"github.com/yu47362/sc2002InternshipApplication/pkg/response"
)

// ApprovalHandler exposes the staff review queues and decisions.
type ApprovalHandler struct {
	approvals     *service.ApprovalService
	opportunities *service.OpportunityService
	metrics       *service.MetricsService
}

// NewApprovalHandler creates a new handler.
func NewApprovalHandler(approvals *service.ApprovalService, opportunities *service.OpportunityService, metrics *service.MetricsService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals, opportunities: opportunities, metrics: metrics}
}

// PendingRepresentatives godoc
// @Summary List representatives awaiting approval
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/representatives/pending [get]
func (h *ApprovalHandler) PendingRepresentatives(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.approvals.PendingRepresentatives(c.Request.Context()))
}

// ApproveRepresentative godoc
// @Summary Approve a representative account
// @Description Clears the representative's hold; re-approval is a reported no-op
// @Tags Approvals
// @Produce json
// @Param id path string true "Representative ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/representatives/{id}/approve [post]
func (h *ApprovalHandler) ApproveRepresentative(c *gin.Context) {
	msg, err := h.approvals.ApproveRepresentative(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.metrics.RecordApprovalDecision("representative", "error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalDecision("representative", "approved")
	response.JSON(c, http.StatusOK, nil, msg)
}

// PendingOpportunities godoc
// @Summary List opportunities awaiting approval
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/opportunities/pending [get]
func (h *ApprovalHandler) PendingOpportunities(c *gin.Context) {
	pending := h.approvals.PendingOpportunities(c.Request.Context())
	details := h.opportunities.Decorate(pending)
	response.JSON(c, http.StatusOK, dto.StaffOpportunityViews(details))
}

// ApproveOpportunity godoc
// @Summary Approve an opportunity
// @Description Publishes a pending posting and makes it visible
// @Tags Approvals
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/opportunities/{id}/approve [post]
func (h *ApprovalHandler) ApproveOpportunity(c *gin.Context) {
	msg, err := h.approvals.ApproveOpportunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.metrics.RecordApprovalDecision("opportunity", "error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalDecision("opportunity", "approved")
	response.JSON(c, http.StatusOK, nil, msg)
}

// RejectOpportunity godoc
// @Summary Reject an opportunity
// @Description Declines a pending posting
// @Tags Approvals
// @Produce json
// @Param id path string true "Opportunity ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/opportunities/{id}/reject [post]
func (h *ApprovalHandler) RejectOpportunity(c *gin.Context) {
	if err := h.approvals.RejectOpportunity(c.Request.Context(), c.Param("id")); err != nil {
		h.metrics.RecordApprovalDecision("opportunity", "error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalDecision("opportunity", "rejected")
	response.NoContent(c)
}

// PendingWithdrawals godoc
// @Summary List withdrawal requests
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/withdrawals/pending [get]
func (h *ApprovalHandler) PendingWithdrawals(c *gin.Context) {
	pending := h.approvals.PendingWithdrawals(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.ApplicationViews(pending))
}

// ApproveWithdrawal godoc
// @Summary Approve a withdrawal request
// @Description Removes the application and releases the student's placement
// @Tags Approvals
// @Produce json
// @Param id path string true "Application ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/withdrawals/{id}/approve [post]
func (h *ApprovalHandler) ApproveWithdrawal(c *gin.Context) {
	if err := h.approvals.ApproveWithdrawal(c.Request.Context(), c.Param("id")); err != nil {
		h.metrics.RecordApprovalDecision("withdrawal", "error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalDecision("withdrawal", "approved")
	response.NoContent(c)
}

// RejectWithdrawal godoc
// @Summary Reject a withdrawal request
// @Description Returns the application to Pending
// @Tags Approvals
// @Produce json
// @Param id path string true "Application ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff/withdrawals/{id}/reject [post]
func (h *ApprovalHandler) RejectWithdrawal(c *gin.Context) {
	if err := h.approvals.RejectWithdrawal(c.Request.Context(), c.Param("id")); err != nil {
		h.metrics.RecordApprovalDecision("withdrawal", "error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordApprovalDecision("withdrawal", "rejected")
	response.NoContent(c)
}

// ApproveAllWithdrawals godoc
// @Summary Drain the withdrawal queue
// @Description Approves every outstanding withdrawal request, reporting per-item outcomes
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/withdrawals/approve-all [post]
func (h *ApprovalHandler) ApproveAllWithdrawals(c *gin.Context) {
	decisions := h.approvals.ApproveAllWithdrawals(c.Request.Context())
	for _, d := range decisions {
		if d.Approved {
			h.metrics.RecordApprovalDecision("withdrawal", "approved")
		} else {
			h.metrics.RecordApprovalDecision("withdrawal", "error")
		}
	}
	response.JSON(c, http.StatusOK, decisions)
}
