package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	appErrors "github.com/yu47362/sc2002InternshipApplication/pkg/errors"
	"github.com/yu47362/sc2002InternshipApplication/pkg/export"
)

const overviewCacheKey = "reports:placement_overview"

type reportOpportunityLister interface {
	List() []models.Opportunity
}

type reportApplicationLister interface {
	List() []models.Application
	CountAcceptedByOpportunity(oppID string) int
}

type reportActorLister interface {
	ListStudents() []models.Student
	ListRepresentatives() []models.Representative
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// ExportFormat selects the report rendering backend.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ReportService aggregates placement statistics for staff. Overview
// snapshots are cached in Redis; mutation paths invalidate the cache.
type ReportService struct {
	opps     reportOpportunityLister
	apps     reportApplicationLister
	actors   reportActorLister
	cache    reportCache
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService constructs ReportService. metrics may be nil.
func NewReportService(opps reportOpportunityLister, apps reportApplicationLister, actors reportActorLister, cache reportCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		opps:     opps,
		apps:     apps,
		actors:   actors,
		cache:    cache,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Overview returns the system-wide placement snapshot, served from cache
// when fresh.
func (s *ReportService) Overview(ctx context.Context) (*models.PlacementOverview, error) {
	var cached models.PlacementOverview
	if err := s.cache.Get(ctx, overviewCacheKey, &cached); err == nil {
		s.metrics.RecordCacheLookup(true)
		return &cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("overview cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheLookup(false)

	overview := s.buildOverview()
	if err := s.cache.Set(ctx, overviewCacheKey, overview, s.cacheTTL); err != nil {
		s.logger.Warn("overview cache write failed", zap.Error(err))
	}
	return overview, nil
}

// CompanyBreakdown aggregates postings and placements per company, sorted
// by company name.
func (s *ReportService) CompanyBreakdown(ctx context.Context) []models.CompanyBreakdown {
	byCompany := make(map[string]*models.CompanyBreakdown)
	for _, opp := range s.opps.List() {
		line, ok := byCompany[opp.Company]
		if !ok {
			line = &models.CompanyBreakdown{Company: opp.Company}
			byCompany[opp.Company] = line
		}
		line.Postings++
		if opp.Status == models.OpportunityApproved || opp.Status == models.OpportunityFilled {
			line.Approved++
		}
		line.SlotsFilled += s.apps.CountAcceptedByOpportunity(opp.ID)
	}
	for _, app := range s.apps.List() {
		if line, ok := byCompany[app.Company]; ok {
			line.Applications++
		}
	}

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.CompanyBreakdown, 0, len(names))
	for _, name := range names {
		out = append(out, *byCompany[name])
	}
	return out
}

// Export renders the company breakdown in the requested format.
func (s *ReportService) Export(ctx context.Context, format ExportFormat) ([]byte, string, error) {
	lines := s.CompanyBreakdown(ctx)
	dataset := export.Dataset{
		Headers: []string{"Company", "Postings", "Approved", "Applications", "Slots Filled"},
	}
	for _, line := range lines {
		dataset.Records = append(dataset.Records, []string{
			line.Company,
			strconv.Itoa(line.Postings),
			strconv.Itoa(line.Approved),
			strconv.Itoa(line.Applications),
			strconv.Itoa(line.SlotsFilled),
		})
	}

	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", nil
	case ExportPDF:
		payload, err := s.pdf.Render(dataset, "Placement Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// InvalidateCache drops the cached overview snapshot.
func (s *ReportService) InvalidateCache(ctx context.Context) {
	s.cache.Delete(ctx, overviewCacheKey)
}

func (s *ReportService) buildOverview() *models.PlacementOverview {
	overview := &models.PlacementOverview{
		ApplicationsByStatus: make(map[models.ApplicationStatus]int),
		GeneratedAt:          s.now().UTC(),
	}
	for _, opp := range s.opps.List() {
		overview.TotalOpportunities++
		switch opp.Status {
		case models.OpportunityPending:
			overview.PendingOpportunities++
		case models.OpportunityApproved:
			overview.ApprovedOpportunities++
		case models.OpportunityRejected:
			overview.RejectedOpportunities++
		case models.OpportunityFilled:
			overview.FilledOpportunities++
		}
		if opp.Visible {
			overview.VisibleOpportunities++
		}
	}
	for _, student := range s.actors.ListStudents() {
		overview.TotalStudents++
		if student.AcceptedApplicationID != "" {
			overview.PlacedStudents++
		}
	}
	for _, rep := range s.actors.ListRepresentatives() {
		overview.TotalRepresentatives++
		if rep.Approved {
			overview.ApprovedRepresentatives++
		} else {
			overview.PendingRepresentatives++
		}
	}
	for _, app := range s.apps.List() {
		overview.TotalApplications++
		overview.ApplicationsByStatus[app.Status]++
	}
	return overview
}
