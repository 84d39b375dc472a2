package dto

import (
	"time"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
)

// FilterRequest carries the caller's catalogue preferences. Omitted fields
// mean "no constraint"; an omitted sort key falls back to title ascending.
type FilterRequest struct {
	Status          string `json:"status"`
	Level           string `json:"level"`
	Company         string `json:"company"`
	PreferredMajor  string `json:"preferredMajor"`
	ClosingDateFrom string `json:"closingDateFrom"`
	ClosingDateTo   string `json:"closingDateTo"`
	SortBy          string `json:"sortBy"`
	SortDescending  bool   `json:"sortDescending"`
}

// ToFilter validates and converts the request into the domain filter.
func (r FilterRequest) ToFilter() (models.Filter, error) {
	f := models.NewFilter()
	f.Status = r.Status
	f.Level = r.Level
	f.Company = r.Company
	f.PreferredMajor = r.PreferredMajor

	if r.ClosingDateFrom != "" {
		from, err := time.Parse(dateLayout, r.ClosingDateFrom)
		if err != nil {
			return models.Filter{}, appErrors.Clone(appErrors.ErrValidation, "closingDateFrom must use yyyy-mm-dd")
		}
		f.ClosingDateFrom = &from
	}
	if r.ClosingDateTo != "" {
		to, err := time.Parse(dateLayout, r.ClosingDateTo)
		if err != nil {
			return models.Filter{}, appErrors.Clone(appErrors.ErrValidation, "closingDateTo must use yyyy-mm-dd")
		}
		f.ClosingDateTo = &to
	}

	if r.SortBy != "" {
		switch key := models.SortKey(r.SortBy); key {
		case models.SortByTitle, models.SortByCompany, models.SortByClosingDate,
			models.SortByLevel, models.SortByStatus, models.SortByPreferredMajor:
			f.SortBy = key
		default:
			return models.Filter{}, appErrors.Clone(appErrors.ErrValidation, "unknown sort key")
		}
		f.SortAscending = !r.SortDescending
	}
	return f, nil
}

// FilterView echoes the stored session filter back to the caller.
type FilterView struct {
	Status          string `json:"status,omitempty"`
	Level           string `json:"level,omitempty"`
	Company         string `json:"company,omitempty"`
	PreferredMajor  string `json:"preferredMajor,omitempty"`
	ClosingDateFrom string `json:"closingDateFrom,omitempty"`
	ClosingDateTo   string `json:"closingDateTo,omitempty"`
	SortBy          string `json:"sortBy"`
	SortAscending   bool   `json:"sortAscending"`
}

// NewFilterView projects the domain filter.
func NewFilterView(f models.Filter) FilterView {
	view := FilterView{
		Status:         f.Status,
		Level:          f.Level,
		Company:        f.Company,
		PreferredMajor: f.PreferredMajor,
		SortBy:         string(f.SortBy),
		SortAscending:  f.SortAscending,
	}
	if f.ClosingDateFrom != nil {
		view.ClosingDateFrom = f.ClosingDateFrom.Format(dateLayout)
	}
	if f.ClosingDateTo != nil {
		view.ClosingDateTo = f.ClosingDateTo.Format(dateLayout)
	}
	return view
}
