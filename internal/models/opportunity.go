package models

import (
	"strings"
	"time"
)

// Level grades an internship posting by required seniority.
type Level string

const (
	LevelBasic        Level = "Basic"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// ParseLevel normalises a free-form level string, returning false when the
// value names no known level.
func ParseLevel(raw string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "basic":
		return LevelBasic, true
	case "intermediate":
		return LevelIntermediate, true
	case "advanced":
		return LevelAdvanced, true
	}
	return "", false
}

// OpportunityStatus tracks the posting lifecycle.
type OpportunityStatus string

const (
	OpportunityPending  OpportunityStatus = "Pending"
	OpportunityApproved OpportunityStatus = "Approved"
	OpportunityRejected OpportunityStatus = "Rejected"
	OpportunityFilled   OpportunityStatus = "Filled"
)

// Slot capacity bounds for a single posting.
const (
	MinSlots = 1
	MaxSlots = 10
)

// ClampSlots forces a requested capacity into the [MinSlots, MaxSlots] range.
func ClampSlots(slots int) int {
	if slots < MinSlots {
		return MinSlots
	}
	if slots > MaxSlots {
		return MaxSlots
	}
	return slots
}

// Opportunity is an internship posting owned by exactly one representative.
// Postings start Pending and invisible; visibility is only meaningful while
// Approved, and Filled postings are forced invisible.
type Opportunity struct {
	ID               string            `json:"id"`
	RepresentativeID string            `json:"representative_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Level            Level             `json:"level"`
	PreferredMajor   string            `json:"preferred_major,omitempty"`
	OpenDate         time.Time         `json:"open_date"`
	CloseDate        time.Time         `json:"close_date"`
	Slots            int               `json:"slots"`
	Company          string            `json:"company"`
	Status           OpportunityStatus `json:"status"`
	Visible          bool              `json:"visible"`
	CreatedAt        time.Time         `json:"created_at"`
}

// IsOpenOn reports whether the posting accepts applications on the given
// day, inclusive on both ends at date precision.
func (o *Opportunity) IsOpenOn(today time.Time) bool {
	day := DateOnly(today)
	return !day.Before(DateOnly(o.OpenDate)) && !day.After(DateOnly(o.CloseDate))
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
