package dto

import (
	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

const dateLayout = "2006-01-02"

// StudentOpportunityView is the catalogue projection shown to students.
// Ownership and review fields stay hidden; everything a student sees is
// already approved and visible.
type StudentOpportunityView struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Company        string `json:"company"`
	Level          string `json:"level"`
	PreferredMajor string `json:"preferredMajor,omitempty"`
	OpenDate       string `json:"openDate"`
	CloseDate      string `json:"closeDate"`
	SlotsLeft      int    `json:"slotsLeft"`
}

// CompanyOpportunityView is the owner projection for representatives,
// including review status and demand.
type CompanyOpportunityView struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Level            string `json:"level"`
	PreferredMajor   string `json:"preferredMajor,omitempty"`
	OpenDate         string `json:"openDate"`
	CloseDate        string `json:"closeDate"`
	Slots            int    `json:"slots"`
	SlotsLeft        int    `json:"slotsLeft"`
	Status           string `json:"status"`
	Visible          bool   `json:"visible"`
	ApplicationCount int    `json:"applicationCount"`
}

// StaffOpportunityView is the full audit projection for career-center
// staff.
type StaffOpportunityView struct {
	CompanyOpportunityView
	RepresentativeID string `json:"representativeId"`
	Company          string `json:"company"`
}

// NewStudentOpportunityView projects a posting for the student catalogue.
func NewStudentOpportunityView(d models.OpportunityDetail) StudentOpportunityView {
	return StudentOpportunityView{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Company:        d.Company,
		Level:          string(d.Level),
		PreferredMajor: d.PreferredMajor,
		OpenDate:       d.OpenDate.Format(dateLayout),
		CloseDate:      d.CloseDate.Format(dateLayout),
		SlotsLeft:      d.SlotsLeft,
	}
}

// NewCompanyOpportunityView projects a posting for its owner.
func NewCompanyOpportunityView(d models.OpportunityDetail) CompanyOpportunityView {
	return CompanyOpportunityView{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Level:            string(d.Level),
		PreferredMajor:   d.PreferredMajor,
		OpenDate:         d.OpenDate.Format(dateLayout),
		CloseDate:        d.CloseDate.Format(dateLayout),
		Slots:            d.Slots,
		SlotsLeft:        d.SlotsLeft,
		Status:           string(d.Status),
		Visible:          d.Visible,
		ApplicationCount: d.ApplicationCount,
	}
}

// NewStaffOpportunityView projects a posting for staff review.
func NewStaffOpportunityView(d models.OpportunityDetail) StaffOpportunityView {
	return StaffOpportunityView{
		CompanyOpportunityView: NewCompanyOpportunityView(d),
		RepresentativeID:       d.RepresentativeID,
		Company:                d.Company,
	}
}

// StudentOpportunityViews projects a list for the student catalogue.
func StudentOpportunityViews(list []models.OpportunityDetail) []StudentOpportunityView {
	out := make([]StudentOpportunityView, 0, len(list))
	for _, d := range list {
		out = append(out, NewStudentOpportunityView(d))
	}
	return out
}

// CompanyOpportunityViews projects a list for the owning representative.
func CompanyOpportunityViews(list []models.OpportunityDetail) []CompanyOpportunityView {
	out := make([]CompanyOpportunityView, 0, len(list))
	for _, d := range list {
		out = append(out, NewCompanyOpportunityView(d))
	}
	return out
}

// StaffOpportunityViews projects a list for staff review.
func StaffOpportunityViews(list []models.OpportunityDetail) []StaffOpportunityView {
	out := make([]StaffOpportunityView, 0, len(list))
	for _, d := range list {
		out = append(out, NewStaffOpportunityView(d))
	}
	return out
}
