package models

import "time"

// ApplicationStatus tracks a student's bid through its lifecycle.
type ApplicationStatus string

const (
	ApplicationPending             ApplicationStatus = "Pending"
	ApplicationOffered             ApplicationStatus = "Offered"
	ApplicationAccepted            ApplicationStatus = "Accepted"
	ApplicationRejected            ApplicationStatus = "Rejected"
	ApplicationWithdrawn           ApplicationStatus = "Withdrawn"
	ApplicationWithdrawalRequested ApplicationStatus = "Withdrawal Requested"
)

// MaxConcurrentApplications caps how many live applications a student may
// hold at once.
const MaxConcurrentApplications = 3

// Application binds one student to one opportunity. The arena keyed by ID
// is the canonical owner; student and opportunity listings are derived
// views. Title and company are denormalised at creation so the student's
// history survives deletion of a Pending/Rejected posting.
type Application struct {
	ID                string            `json:"id"`
	StudentID         string            `json:"student_id"`
	OpportunityID     string            `json:"opportunity_id"`
	OpportunityTitle  string            `json:"opportunity_title"`
	Company           string            `json:"company"`
	Status            ApplicationStatus `json:"status"`
	WithdrawRequested bool              `json:"withdraw_requested"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsActive reports whether the application still occupies one of the
// student's concurrent slots. Withdrawn and Rejected bids do not count.
func (a *Application) IsActive() bool {
	return a.Status != ApplicationWithdrawn && a.Status != ApplicationRejected
}
