package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yu47362/sc2002InternshipApplication/internal/middleware"
	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Catalog     *CatalogHandler
	Opportunity *OpportunityHandler
	Application *ApplicationHandler
	Approval    *ApprovalHandler
	Report      *ReportHandler
	Session     *SessionHandler
	Metrics     *MetricsHandler
}

// Register wires all routes onto the router group. Authentication and role
// checks are applied per segment: /opportunities and /applications are
// student territory, /company belongs to representatives, /staff to staff.
func Register(api *gin.RouterGroup, h Handlers, auth *service.AuthService) {
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)
		authed.GET("/auth/me", h.Auth.Me)
	}

	student := authed.Group("")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/opportunities", h.Catalog.List)
		student.GET("/opportunities/facets", h.Catalog.Facets)
		student.GET("/opportunities/filter", h.Catalog.GetFilter)
		student.PUT("/opportunities/filter", h.Catalog.SetFilter)
		student.DELETE("/opportunities/filter", h.Catalog.ClearFilter)

		student.POST("/applications", h.Application.Apply)
		student.GET("/applications", h.Application.List)
		student.POST("/applications/:id/accept", h.Application.Accept)
		student.POST("/applications/:id/withdraw", h.Application.RequestWithdrawal)
	}

	company := authed.Group("/company")
	company.Use(middleware.RequireRoles(models.RoleRepresentative))
	{
		company.POST("/opportunities", h.Opportunity.Create)
		company.GET("/opportunities", h.Opportunity.List)
		company.PUT("/opportunities/:id", h.Opportunity.Update)
		company.PATCH("/opportunities/:id/visibility", h.Opportunity.ToggleVisibility)
		company.DELETE("/opportunities/:id", h.Opportunity.Delete)
		company.GET("/opportunities/:id/applications", h.Opportunity.Applications)

		company.POST("/applications/:id/offer", h.Application.Offer)
		company.POST("/applications/:id/reject", h.Application.Reject)
	}

	staff := authed.Group("/staff")
	staff.Use(middleware.RequireRoles(models.RoleStaff))
	{
		staff.GET("/representatives/pending", h.Approval.PendingRepresentatives)
		staff.POST("/representatives/:id/approve", h.Approval.ApproveRepresentative)

		staff.GET("/opportunities/pending", h.Approval.PendingOpportunities)
		staff.POST("/opportunities/:id/approve", h.Approval.ApproveOpportunity)
		staff.POST("/opportunities/:id/reject", h.Approval.RejectOpportunity)

		staff.GET("/withdrawals/pending", h.Approval.PendingWithdrawals)
		staff.POST("/withdrawals/:id/approve", h.Approval.ApproveWithdrawal)
		staff.POST("/withdrawals/:id/reject", h.Approval.RejectWithdrawal)
		staff.POST("/withdrawals/approve-all", h.Approval.ApproveAllWithdrawals)

		staff.GET("/reports/overview", h.Report.Overview)
		staff.GET("/reports/companies", h.Report.CompanyBreakdown)
		staff.GET("/reports/export", h.Report.Export)
		staff.GET("/reports/download", h.Report.Download)

		staff.GET("/sessions", h.Session.List)
		staff.DELETE("/sessions/:id", h.Session.Revoke)
	}
}
