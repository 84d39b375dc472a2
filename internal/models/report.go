package models

import "time"

// PlacementOverview aggregates system-wide counts for the staff dashboard.
type PlacementOverview struct {
	TotalOpportunities      int                       `json:"total_opportunities"`
	PendingOpportunities    int                       `json:"pending_opportunities"`
	ApprovedOpportunities   int                       `json:"approved_opportunities"`
	RejectedOpportunities   int                       `json:"rejected_opportunities"`
	FilledOpportunities     int                       `json:"filled_opportunities"`
	VisibleOpportunities    int                       `json:"visible_opportunities"`
	TotalStudents           int                       `json:"total_students"`
	PlacedStudents          int                       `json:"placed_students"`
	TotalRepresentatives    int                       `json:"total_representatives"`
	ApprovedRepresentatives int                       `json:"approved_representatives"`
	PendingRepresentatives  int                       `json:"pending_representatives"`
	TotalApplications       int                       `json:"total_applications"`
	ApplicationsByStatus    map[ApplicationStatus]int `json:"applications_by_status"`
	GeneratedAt             time.Time                 `json:"generated_at"`
}

// CompanyBreakdown is a per-company line in the staff report export.
type CompanyBreakdown struct {
	Company      string `json:"company"`
	Postings     int    `json:"postings"`
	Approved     int    `json:"approved"`
	Applications int    `json:"applications"`
	SlotsFilled  int    `json:"slots_filled"`
}
