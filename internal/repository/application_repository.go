package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// ApplicationRepository owns the canonical application records, keyed by
// UUID. Per-student and per-opportunity listings are derived views, so a
// withdrawal approval is a single authoritative delete here.
type ApplicationRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Application
	order []string
}

// NewApplicationRepository constructs an empty application arena.
func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{items: make(map[string]*models.Application)}
}

// Create stores a new application, assigning its ID and timestamps.
func (r *ApplicationRepository) Create(app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	cp := *app
	r.items[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return nil
}

// Get returns a copy of the application.
func (r *ApplicationRepository) Get(id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.items[id]
	if !ok {
		return nil, ErrNoRecord
	}
	cp := *app
	return &cp, nil
}

// Update replaces the stored application and bumps its update time.
func (r *ApplicationRepository) Update(app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[app.ID]; !ok {
		return ErrNoRecord
	}
	app.UpdatedAt = time.Now().UTC()
	cp := *app
	r.items[cp.ID] = &cp
	return nil
}

// Delete removes the application from the arena. Both the student view and
// the opportunity view lose it in the same operation.
func (r *ApplicationRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNoRecord
	}
	delete(r.items, id)
	for i, aid := range r.order {
		if aid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns every application in insertion order.
func (r *ApplicationRepository) List() []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Application, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

// ListByStudent derives the student's application list.
func (r *ApplicationRepository) ListByStudent(studentID string) []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Application
	for _, id := range r.order {
		if r.items[id].StudentID == studentID {
			out = append(out, *r.items[id])
		}
	}
	return out
}

// ListByOpportunity derives the received-applications list for a posting.
func (r *ApplicationRepository) ListByOpportunity(oppID string) []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Application
	for _, id := range r.order {
		if r.items[id].OpportunityID == oppID {
			out = append(out, *r.items[id])
		}
	}
	return out
}

// HasLivePair reports whether the student already holds a live application
// for the opportunity.
func (r *ApplicationRepository) HasLivePair(studentID, oppID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		app := r.items[id]
		if app.StudentID == studentID && app.OpportunityID == oppID && app.IsActive() {
			return true
		}
	}
	return false
}

// CountActiveByStudent counts the student's live applications.
func (r *ApplicationRepository) CountActiveByStudent(studentID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, id := range r.order {
		app := r.items[id]
		if app.StudentID == studentID && app.IsActive() {
			count++
		}
	}
	return count
}

// CountAcceptedByOpportunity counts accepted applications for a posting,
// the basis of the slots-left invariant.
func (r *ApplicationRepository) CountAcceptedByOpportunity(oppID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, id := range r.order {
		app := r.items[id]
		if app.OpportunityID == oppID && app.Status == models.ApplicationAccepted {
			count++
		}
	}
	return count
}

// ListWithdrawalRequested returns the staff withdrawal queue in insertion
// order.
func (r *ApplicationRepository) ListWithdrawalRequested() []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Application
	for _, id := range r.order {
		if r.items[id].WithdrawRequested {
			out = append(out, *r.items[id])
		}
	}
	return out
}
