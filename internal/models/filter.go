package models

import "time"

// SortKey names a sortable opportunity attribute.
type SortKey string

const (
	SortByTitle          SortKey = "title"
	SortByCompany        SortKey = "company"
	SortByClosingDate    SortKey = "closingDate"
	SortByLevel          SortKey = "level"
	SortByStatus         SortKey = "status"
	SortByPreferredMajor SortKey = "preferredMajor"
)

// Filter is a pure value object narrowing and ordering an opportunity list.
// Empty string fields and nil dates mean "no constraint". The zero filter
// is not usable directly; construct with NewFilter to get the default sort.
type Filter struct {
	Status          string     `json:"status,omitempty"`
	Level           string     `json:"level,omitempty"`
	Company         string     `json:"company,omitempty"`
	PreferredMajor  string     `json:"preferred_major,omitempty"`
	ClosingDateFrom *time.Time `json:"closing_date_from,omitempty"`
	ClosingDateTo   *time.Time `json:"closing_date_to,omitempty"`
	SortBy          SortKey    `json:"sort_by"`
	SortAscending   bool       `json:"sort_ascending"`
}

// NewFilter returns an empty filter with the default ordering.
func NewFilter() Filter {
	return Filter{SortBy: SortByTitle, SortAscending: true}
}

// HasActiveFilters reports whether any narrowing predicate is set.
func (f Filter) HasActiveFilters() bool {
	return f.Status != "" ||
		f.Level != "" ||
		f.Company != "" ||
		f.PreferredMajor != "" ||
		f.ClosingDateFrom != nil ||
		f.ClosingDateTo != nil
}

// Clear resets every predicate and restores the default ordering.
func (f *Filter) Clear() {
	*f = NewFilter()
}

// Copy returns an independent copy of the filter.
func (f Filter) Copy() Filter {
	cp := f
	if f.ClosingDateFrom != nil {
		v := *f.ClosingDateFrom
		cp.ClosingDateFrom = &v
	}
	if f.ClosingDateTo != nil {
		v := *f.ClosingDateTo
		cp.ClosingDateTo = &v
	}
	return cp
}

// Facets lists the distinct values present in an opportunity set, each
// deduplicated, blank-free, and in ascending lexical order.
type Facets struct {
	Levels          []string `json:"levels"`
	Companies       []string `json:"companies"`
	Statuses        []string `json:"statuses"`
	PreferredMajors []string `json:"preferred_majors"`
}
