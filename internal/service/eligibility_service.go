package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

type eligibilityOpportunityLister interface {
	List() []models.Opportunity
}

type eligibilityRepresentativeReader interface {
	FindRepresentative(id string) (*models.Representative, error)
}

// EligibilityService decides which postings a student may currently see and
// apply to. The predicate runs per (student, opportunity) pair: approval
// chain, visibility, date window, major preference, and level-versus-year.
type EligibilityService struct {
	opps   eligibilityOpportunityLister
	actors eligibilityRepresentativeReader
	logger *zap.Logger
	now    func() time.Time
}

// NewEligibilityService constructs the eligibility engine.
func NewEligibilityService(opps eligibilityOpportunityLister, actors eligibilityRepresentativeReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{opps: opps, actors: actors, logger: logger, now: time.Now}
}

// VisibleTo returns the postings the student may see, in arena order.
func (s *EligibilityService) VisibleTo(student *models.Student) []models.Opportunity {
	var out []models.Opportunity
	for _, opp := range s.opps.List() {
		if s.Eligible(student, &opp) {
			out = append(out, opp)
		}
	}
	return out
}

// Eligible evaluates the full visibility predicate for one pair.
func (s *EligibilityService) Eligible(student *models.Student, opp *models.Opportunity) bool {
	rep, err := s.actors.FindRepresentative(opp.RepresentativeID)
	if err != nil || !rep.Approved {
		return false
	}
	if !opp.Visible || opp.Status != models.OpportunityApproved {
		return false
	}
	if !opp.IsOpenOn(s.now()) {
		return false
	}
	if !MajorMatches(opp.PreferredMajor, student.Major) {
		return false
	}
	return LevelEligible(opp.Level, student.Year)
}

// MajorMatches applies the preferred-major rule: unset means any major,
// otherwise a case-insensitive comparison.
func MajorMatches(preferredMajor, studentMajor string) bool {
	return preferredMajor == "" || strings.EqualFold(preferredMajor, studentMajor)
}

// LevelEligible applies the level-versus-year rule: Basic is open to all
// years, Intermediate requires year 3 or above, Advanced requires year 4.
func LevelEligible(level models.Level, year int) bool {
	switch level {
	case models.LevelIntermediate:
		return year >= 3
	case models.LevelAdvanced:
		return year == 4
	default:
		return true
	}
}
