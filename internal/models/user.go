package models

// Role identifies the actor kind for access control and view projection.
type Role string

const (
	RoleStudent        Role = "STUDENT"
	RoleRepresentative Role = "REPRESENTATIVE"
	RoleStaff          Role = "STAFF"
)

// Student is a learner who browses and applies to internships.
type Student struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Year         int    `db:"year" json:"year"`
	Major        string `db:"major" json:"major"`
	PasswordHash string `db:"password_hash" json:"-"`

	// AcceptedApplicationID points at the single application a student may
	// hold in Accepted state, empty when none.
	AcceptedApplicationID string `json:"accepted_application_id,omitempty"`
}

// Representative is a company contact who posts internships. New accounts
// start unapproved and stay invisible to students until staff approval.
type Representative struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Company      string `db:"company" json:"company"`
	Department   string `db:"department" json:"department"`
	Position     string `db:"position" json:"position"`
	Approved     bool   `db:"approved" json:"approved"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Staff is a career-center member who arbitrates approvals and withdrawals.
type Staff struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Department   string `db:"department" json:"department"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Actor is the tagged union over the three account kinds. Exactly one of
// the pointers matching Role is set.
type Actor struct {
	Role           Role            `json:"role"`
	Student        *Student        `json:"student,omitempty"`
	Representative *Representative `json:"representative,omitempty"`
	Staff          *Staff          `json:"staff,omitempty"`
}

// ID returns the identifier of whichever account the actor wraps.
func (a Actor) ID() string {
	switch a.Role {
	case RoleStudent:
		if a.Student != nil {
			return a.Student.ID
		}
	case RoleRepresentative:
		if a.Representative != nil {
			return a.Representative.ID
		}
	case RoleStaff:
		if a.Staff != nil {
			return a.Staff.ID
		}
	}
	return ""
}

// Name returns the display name of the wrapped account.
func (a Actor) Name() string {
	switch a.Role {
	case RoleStudent:
		if a.Student != nil {
			return a.Student.Name
		}
	case RoleRepresentative:
		if a.Representative != nil {
			return a.Representative.Name
		}
	case RoleStaff:
		if a.Staff != nil {
			return a.Staff.Name
		}
	}
	return ""
}

// PasswordHash returns the stored credential hash for the wrapped account.
func (a Actor) PasswordHash() string {
	switch a.Role {
	case RoleStudent:
		if a.Student != nil {
			return a.Student.PasswordHash
		}
	case RoleRepresentative:
		if a.Representative != nil {
			return a.Representative.PasswordHash
		}
	case RoleStaff:
		if a.Staff != nil {
			return a.Staff.PasswordHash
		}
	}
	return ""
}
