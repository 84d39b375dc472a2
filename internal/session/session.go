package session

import (
	"time"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// Session tracks one logged-in actor together with their filter state.
// LastActivity is refreshed on every access through the registry.
type Session struct {
	Actor        models.Actor
	Filter       models.Filter
	LoginTime    time.Time
	LastActivity time.Time
}

// IdleFor returns how long the session has been inactive at the given time.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}

// Expired reports whether the session idled past the timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return s.IdleFor(now) > timeout
}

// Stats is the read-only projection exposed to staff.
type Stats struct {
	ActorID         string    `json:"actor_id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	LoginTime       time.Time `json:"login_time"`
	LastActivity    time.Time `json:"last_activity"`
	DurationMinutes int64     `json:"duration_minutes"`
	IdleMinutes     int64     `json:"idle_minutes"`
	HasFilters      bool      `json:"has_filters"`
}
