// Package session holds the process-wide registry of logged-in actors and
// the background sweep that expires idle sessions.
package session

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// Registry maps actor IDs to sessions. Foreground lookups and the periodic
// sweep share one mutex; every operation holds it for its full duration.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	idleTimeout   time.Duration
	sweepInterval time.Duration
	cron          *cron.Cron
	logger        *zap.Logger
	now           func() time.Time
	shutdown      bool
}

// NewRegistry constructs a registry sweeping at the given interval and
// expiring sessions idle past the timeout.
func NewRegistry(sweepInterval, idleTimeout time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Registry{
		sessions:      make(map[string]*Session),
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		logger:        logger,
		now:           time.Now,
	}
}

// Start schedules the expiry sweep. Safe to call once.
func (r *Registry) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil || r.shutdown {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc("@every "+r.sweepInterval.String(), r.Sweep); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	r.logger.Info("session registry started", zap.Duration("sweep_interval", r.sweepInterval), zap.Duration("idle_timeout", r.idleTimeout))
	return nil
}

// Create registers a session for the actor, replacing any existing one for
// the same identifier within this process run.
func (r *Registry) Create(actor models.Actor) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	s := &Session{
		Actor:        actor,
		Filter:       models.NewFilter(),
		LoginTime:    now,
		LastActivity: now,
	}
	r.sessions[actor.ID()] = s
	return s
}

// Touch refreshes the session's activity clock, reporting whether a live
// session exists for the actor.
func (r *Registry) Touch(actorID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[actorID]
	if !ok {
		return false
	}
	s.LastActivity = r.now()
	return true
}

// Filter returns a copy of the actor's filter state, refreshing activity.
func (r *Registry) Filter(actorID string) (models.Filter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[actorID]
	if !ok {
		return models.Filter{}, false
	}
	s.LastActivity = r.now()
	return s.Filter.Copy(), true
}

// SetFilter replaces the actor's filter state, refreshing activity.
func (r *Registry) SetFilter(actorID string, f models.Filter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[actorID]
	if !ok {
		return false
	}
	s.Filter = f.Copy()
	s.LastActivity = r.now()
	return true
}

// Remove drops the actor's session, reporting whether one existed.
func (r *Registry) Remove(actorID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[actorID]; !ok {
		return false
	}
	delete(r.sessions, actorID)
	return true
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Snapshot returns per-session stats for the staff view.
func (r *Registry) Snapshot() []Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	out := make([]Stats, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, Stats{
			ActorID:         id,
			Name:            s.Actor.Name(),
			Role:            string(s.Actor.Role),
			LoginTime:       s.LoginTime,
			LastActivity:    s.LastActivity,
			DurationMinutes: int64(now.Sub(s.LoginTime).Minutes()),
			IdleMinutes:     int64(s.IdleFor(now).Minutes()),
			HasFilters:      s.Filter.HasActiveFilters(),
		})
	}
	return out
}

// Sweep removes every session idle past the timeout.
func (r *Registry) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now, r.idleTimeout) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("expired idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(r.sessions)))
	}
}

// Shutdown stops the sweep and clears all sessions. Idempotent.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	alreadyDown := r.shutdown
	r.shutdown = true
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	if c != nil {
		// Wait for an in-flight sweep to finish before returning.
		<-c.Stop().Done()
	}
	if !alreadyDown {
		r.logger.Info("session registry shut down")
	}
}
