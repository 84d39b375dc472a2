package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// OpportunityRepository is the in-memory arena for internship postings.
// Iteration follows insertion order so listings and sort tie-breaks stay
// deterministic.
type OpportunityRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Opportunity
	order []string
}

// NewOpportunityRepository constructs an empty posting arena.
func NewOpportunityRepository() *OpportunityRepository {
	return &OpportunityRepository{items: make(map[string]*models.Opportunity)}
}

// Create stores a new posting, assigning its ID and creation time.
func (r *OpportunityRepository) Create(opp *models.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if opp.ID == "" {
		opp.ID = uuid.NewString()
	}
	if opp.CreatedAt.IsZero() {
		opp.CreatedAt = time.Now().UTC()
	}
	cp := *opp
	r.items[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return nil
}

// Get returns a copy of the posting.
func (r *OpportunityRepository) Get(id string) (*models.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opp, ok := r.items[id]
	if !ok {
		return nil, ErrNoRecord
	}
	cp := *opp
	return &cp, nil
}

// Update replaces the stored posting with the provided state.
func (r *OpportunityRepository) Update(opp *models.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[opp.ID]; !ok {
		return ErrNoRecord
	}
	cp := *opp
	r.items[cp.ID] = &cp
	return nil
}

// Delete removes the posting from the arena. Applications referencing it
// are left untouched; they carry denormalised title and company.
func (r *OpportunityRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNoRecord
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns every posting in insertion order.
func (r *OpportunityRepository) List() []models.Opportunity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Opportunity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

// ListByRepresentative returns the postings owned by one representative.
func (r *OpportunityRepository) ListByRepresentative(repID string) []models.Opportunity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Opportunity
	for _, id := range r.order {
		if r.items[id].RepresentativeID == repID {
			out = append(out, *r.items[id])
		}
	}
	return out
}

// ListByStatus returns postings in the given lifecycle state.
func (r *OpportunityRepository) ListByStatus(status models.OpportunityStatus) []models.Opportunity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Opportunity
	for _, id := range r.order {
		if r.items[id].Status == status {
			out = append(out, *r.items[id])
		}
	}
	return out
}
