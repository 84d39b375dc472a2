package service

import (
	"sort"
	"strings"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// FilterService narrows and orders opportunity lists. Apply is a pure
// function over its inputs: the same list and filter always produce the
// same result, and the input slice is never mutated.
type FilterService struct{}

// NewFilterService constructs the filter engine.
func NewFilterService() *FilterService {
	return &FilterService{}
}

// Apply evaluates every optional predicate conjunctively, then sorts by the
// requested key. Ties keep the input order, which makes the ordering
// deterministic for equal keys.
func (s *FilterService) Apply(list []models.Opportunity, f models.Filter) []models.Opportunity {
	filtered := make([]models.Opportunity, 0, len(list))
	for _, opp := range list {
		if !matchStatus(opp, f) || !matchLevel(opp, f) || !matchCompany(opp, f) || !matchPreferredMajor(opp, f) || !matchClosingDate(opp, f) {
			continue
		}
		filtered = append(filtered, opp)
	}

	sortKey := f.SortBy
	if sortKey == "" {
		sortKey = models.SortByTitle
	}
	less := comparatorFor(sortKey)
	sort.SliceStable(filtered, func(i, j int) bool {
		if f.SortAscending || f.SortBy == "" {
			return less(filtered[i], filtered[j])
		}
		return less(filtered[j], filtered[i])
	})

	return filtered
}

// Facets enumerates the distinct non-empty attribute values present in the
// list, ascending lexical order, no duplicates.
func (s *FilterService) Facets(list []models.Opportunity) models.Facets {
	return models.Facets{
		Levels:          distinct(list, func(o models.Opportunity) string { return string(o.Level) }),
		Companies:       distinct(list, func(o models.Opportunity) string { return o.Company }),
		Statuses:        distinct(list, func(o models.Opportunity) string { return string(o.Status) }),
		PreferredMajors: distinct(list, func(o models.Opportunity) string { return o.PreferredMajor }),
	}
}

func matchStatus(o models.Opportunity, f models.Filter) bool {
	return f.Status == "" || f.Status == string(o.Status)
}

func matchLevel(o models.Opportunity, f models.Filter) bool {
	return f.Level == "" || f.Level == string(o.Level)
}

func matchCompany(o models.Opportunity, f models.Filter) bool {
	return f.Company == "" || f.Company == o.Company
}

func matchPreferredMajor(o models.Opportunity, f models.Filter) bool {
	return f.PreferredMajor == "" || strings.EqualFold(f.PreferredMajor, o.PreferredMajor)
}

func matchClosingDate(o models.Opportunity, f models.Filter) bool {
	close := models.DateOnly(o.CloseDate)
	if f.ClosingDateFrom != nil && close.Before(models.DateOnly(*f.ClosingDateFrom)) {
		return false
	}
	if f.ClosingDateTo != nil && close.After(models.DateOnly(*f.ClosingDateTo)) {
		return false
	}
	return true
}

func comparatorFor(key models.SortKey) func(a, b models.Opportunity) bool {
	switch key {
	case models.SortByCompany:
		return func(a, b models.Opportunity) bool { return a.Company < b.Company }
	case models.SortByClosingDate:
		return func(a, b models.Opportunity) bool { return a.CloseDate.Before(b.CloseDate) }
	case models.SortByLevel:
		return func(a, b models.Opportunity) bool { return a.Level < b.Level }
	case models.SortByStatus:
		return func(a, b models.Opportunity) bool { return a.Status < b.Status }
	case models.SortByPreferredMajor:
		return func(a, b models.Opportunity) bool { return a.PreferredMajor < b.PreferredMajor }
	default:
		return func(a, b models.Opportunity) bool { return a.Title < b.Title }
	}
}

func distinct(list []models.Opportunity, pick func(models.Opportunity) string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, opp := range list {
		v := strings.TrimSpace(pick(opp))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
