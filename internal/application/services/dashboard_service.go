package services

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

// DashboardService aggregates the read models behind the admin dashboard:
// stats, paginated listings, per-visitor drill-down, and chart preferences.
type DashboardService struct {
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
	visitorRepo      visitor.Repository
	signalRepo       visitor.SignalRepository
	demoRepo         visitor.DemographicRepository
	eventRepo        analytics.EventRepository
	pageViewRepo     analytics.PageViewRepository
	registrationRepo analytics.RegistrationRepository
	chartRepo        admin.ChartConfigRepository
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	visitorRepo visitor.Repository,
	signalRepo visitor.SignalRepository,
	demoRepo visitor.DemographicRepository,
	eventRepo analytics.EventRepository,
	pageViewRepo analytics.PageViewRepository,
	registrationRepo analytics.RegistrationRepository,
	chartRepo admin.ChartConfigRepository,
) *DashboardService {
	return &DashboardService{
		logger:           logger,
		perfTracker:      perfTracker,
		visitorRepo:      visitorRepo,
		signalRepo:       signalRepo,
		demoRepo:         demoRepo,
		eventRepo:        eventRepo,
		pageViewRepo:     pageViewRepo,
		registrationRepo: registrationRepo,
		chartRepo:        chartRepo,
	}
}

// Stats is the aggregate counter block shown at the top of the dashboard.
type Stats struct {
	TotalVisitors      int `json:"totalVisitors"`
	VisitorsLast24h    int `json:"visitorsLast24h"`
	TotalRegistrations int `json:"totalRegistrations"`
	TotalEvents        int `json:"totalEvents"`
	TotalPageViews     int `json:"totalPageViews"`
}

// GetStats computes the aggregate counters.
func (s *DashboardService) GetStats() (*Stats, error) {
	marker := s.perfTracker.StartOperation("dashboard_stats")
	defer marker.Complete()

	stats := &Stats{}
	var err error

	if stats.TotalVisitors, err = s.visitorRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if stats.VisitorsLast24h, err = s.visitorRepo.CountSince(time.Now().UTC().Add(-24 * time.Hour)); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if stats.TotalRegistrations, err = s.registrationRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if stats.TotalEvents, err = s.eventRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if stats.TotalPageViews, err = s.pageViewRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	return stats, nil
}

// ListVisitors returns a page of visitors ordered by most recent visit.
func (s *DashboardService) ListVisitors(limit, offset int) ([]*visitor.Visitor, int, error) {
	visitors, err := s.visitorRepo.List(clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.visitorRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

// VisitorDetail is the full drill-down for one visitor.
type VisitorDetail struct {
	Visitor            *visitor.Visitor               `json:"visitor"`
	Signals            []*visitor.SignalRecord        `json:"signals"`
	InferenceHistory   []*visitor.InferredDemographic `json:"inferenceHistory"`
	Events             []*analytics.Event             `json:"events"`
	PageViews          []*analytics.PageView          `json:"pageViews"`
	LatestRegistration *analytics.Registration        `json:"latestRegistration"`
}

// GetVisitorDetail loads everything known about one visitor, or nil when the
// visitor is unknown.
func (s *DashboardService) GetVisitorDetail(visitorID string) (*VisitorDetail, error) {
	marker := s.perfTracker.StartOperation("visitor_detail")
	defer marker.Complete()

	if err := ValidateVisitorID(visitorID); err != nil {
		return nil, err
	}

	v, err := s.visitorRepo.FindByVisitorID(visitorID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	detail := &VisitorDetail{Visitor: v}
	if detail.Signals, err = s.signalRepo.FindByVisitorID(visitorID); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if detail.InferenceHistory, err = s.demoRepo.FindByVisitorID(visitorID); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if detail.Events, err = s.eventRepo.FindByVisitorID(visitorID); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if detail.PageViews, err = s.pageViewRepo.FindByVisitorID(visitorID); err != nil {
		marker.SetError(err)
		return nil, err
	}
	if detail.LatestRegistration, err = s.registrationRepo.FindLatestByVisitorID(visitorID); err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	return detail, nil
}

// ListRecentEvents returns the newest events with visitor geo columns.
func (s *DashboardService) ListRecentEvents(limit int) ([]*analytics.EventWithVisitor, error) {
	return s.eventRepo.ListRecent(clampLimit(limit))
}

// ListRegistrations returns a page of registrations with visitor columns.
func (s *DashboardService) ListRegistrations(limit, offset int) ([]*analytics.RegistrationWithVisitor, int, error) {
	registrations, err := s.registrationRepo.List(clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registrationRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return registrations, total, nil
}

// SaveChartConfig stores an admin's dashboard chart layout.
func (s *DashboardService) SaveChartConfig(username, configs string) error {
	return s.chartRepo.Upsert(username, configs)
}

// GetChartConfig loads an admin's stored chart layout, or nil when none is saved.
func (s *DashboardService) GetChartConfig(username string) (*admin.ChartConfig, error) {
	return s.chartRepo.FindByUsername(username)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}
