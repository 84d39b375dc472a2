package repository

import (
	"errors"
	"sync"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// ErrNoRecord is returned by the in-memory repositories when a lookup finds
// nothing. Services translate it into the reported NOT_FOUND outcome, the
// same way the SQL-backed record source surfaces sql.ErrNoRows.
var ErrNoRecord = errors.New("record not found")

// ActorRepository holds every known actor in memory for the lifetime of the
// process, seeded once from the record source. Reads return copies; all
// mutation goes through repository methods under the lock.
type ActorRepository struct {
	mu sync.RWMutex

	students map[string]*models.Student
	reps     map[string]*models.Representative
	staff    map[string]*models.Staff

	studentOrder []string
	repOrder     []string
}

// NewActorRepository constructs an empty actor arena.
func NewActorRepository() *ActorRepository {
	return &ActorRepository{
		students: make(map[string]*models.Student),
		reps:     make(map[string]*models.Representative),
		staff:    make(map[string]*models.Staff),
	}
}

// Seed loads the already-validated records into the arena.
func (r *ActorRepository) Seed(students []models.Student, reps []models.Representative, staff []models.Staff) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range students {
		s := students[i]
		if _, exists := r.students[s.ID]; !exists {
			r.studentOrder = append(r.studentOrder, s.ID)
		}
		r.students[s.ID] = &s
	}
	for i := range reps {
		rep := reps[i]
		if _, exists := r.reps[rep.ID]; !exists {
			r.repOrder = append(r.repOrder, rep.ID)
		}
		r.reps[rep.ID] = &rep
	}
	for i := range staff {
		st := staff[i]
		r.staff[st.ID] = &st
	}
}

// FindActor resolves an identifier against all three account kinds.
func (r *ActorRepository) FindActor(id string) (models.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.students[id]; ok {
		cp := *s
		return models.Actor{Role: models.RoleStudent, Student: &cp}, nil
	}
	if rep, ok := r.reps[id]; ok {
		cp := *rep
		return models.Actor{Role: models.RoleRepresentative, Representative: &cp}, nil
	}
	if st, ok := r.staff[id]; ok {
		cp := *st
		return models.Actor{Role: models.RoleStaff, Staff: &cp}, nil
	}
	return models.Actor{}, ErrNoRecord
}

// FindStudent returns a copy of the student record.
func (r *ActorRepository) FindStudent(id string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[id]
	if !ok {
		return nil, ErrNoRecord
	}
	cp := *s
	return &cp, nil
}

// FindRepresentative returns a copy of the representative record.
func (r *ActorRepository) FindRepresentative(id string) (*models.Representative, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reps[id]
	if !ok {
		return nil, ErrNoRecord
	}
	cp := *rep
	return &cp, nil
}

// ListStudents returns all students in seed order.
func (r *ActorRepository) ListStudents() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Student, 0, len(r.studentOrder))
	for _, id := range r.studentOrder {
		out = append(out, *r.students[id])
	}
	return out
}

// ListRepresentatives returns all representatives in seed order.
func (r *ActorRepository) ListRepresentatives() []models.Representative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Representative, 0, len(r.repOrder))
	for _, id := range r.repOrder {
		out = append(out, *r.reps[id])
	}
	return out
}

// ListUnapprovedRepresentatives returns the staff approval queue in seed order.
func (r *ActorRepository) ListUnapprovedRepresentatives() []models.Representative {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Representative
	for _, id := range r.repOrder {
		if !r.reps[id].Approved {
			out = append(out, *r.reps[id])
		}
	}
	return out
}

// SetRepresentativeApproved marks a representative approved, reporting
// whether it already was.
func (r *ActorRepository) SetRepresentativeApproved(id string) (alreadyApproved bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reps[id]
	if !ok {
		return false, ErrNoRecord
	}
	if rep.Approved {
		return true, nil
	}
	rep.Approved = true
	return false, nil
}

// SetAcceptedApplication records the student's single accepted application.
// An empty applicationID clears the pointer.
func (r *ActorRepository) SetAcceptedApplication(studentID, applicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[studentID]
	if !ok {
		return ErrNoRecord
	}
	s.AcceptedApplicationID = applicationID
	return nil
}

// UpdatePasswordHash rotates the stored hash for any actor kind.
func (r *ActorRepository) UpdatePasswordHash(id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.students[id]; ok {
		s.PasswordHash = hash
		return nil
	}
	if rep, ok := r.reps[id]; ok {
		rep.PasswordHash = hash
		return nil
	}
	if st, ok := r.staff[id]; ok {
		st.PasswordHash = hash
		return nil
	}
	return ErrNoRecord
}
