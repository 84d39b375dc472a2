package dto

import (
	"time"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// ApplicationView is the student-facing projection of an application. The
// posting title and company are denormalised so history survives posting
// deletion.
type ApplicationView struct {
	ID                string    `json:"id"`
	OpportunityID     string    `json:"opportunityId"`
	OpportunityTitle  string    `json:"opportunityTitle"`
	Company           string    `json:"company"`
	Status            string    `json:"status"`
	WithdrawRequested bool      `json:"withdrawRequested"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ReceivedApplicationView is the representative-facing projection with
// applicant details.
type ReceivedApplicationView struct {
	ApplicationView
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	StudentYear  int    `json:"studentYear"`
	StudentMajor string `json:"studentMajor"`
}

// NewApplicationView projects an application for its owner.
func NewApplicationView(app models.Application) ApplicationView {
	return ApplicationView{
		ID:                app.ID,
		OpportunityID:     app.OpportunityID,
		OpportunityTitle:  app.OpportunityTitle,
		Company:           app.Company,
		Status:            string(app.Status),
		WithdrawRequested: app.WithdrawRequested,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

// NewReceivedApplicationView projects an application for the posting owner.
func NewReceivedApplicationView(d models.ApplicationDetail) ReceivedApplicationView {
	return ReceivedApplicationView{
		ApplicationView: NewApplicationView(d.Application),
		StudentID:       d.StudentID,
		StudentName:     d.StudentName,
		StudentYear:     d.StudentYear,
		StudentMajor:    d.StudentMajor,
	}
}

// ApplicationViews projects a list for the owning student.
func ApplicationViews(list []models.Application) []ApplicationView {
	out := make([]ApplicationView, 0, len(list))
	for _, app := range list {
		out = append(out, NewApplicationView(app))
	}
	return out
}

// ReceivedApplicationViews projects a list for the posting owner.
func ReceivedApplicationViews(list []models.ApplicationDetail) []ReceivedApplicationView {
	out := make([]ReceivedApplicationView, 0, len(list))
	for _, d := range list {
		out = append(out, NewReceivedApplicationView(d))
	}
	return out
}
