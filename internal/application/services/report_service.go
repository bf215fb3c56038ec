package services

import (
	"fmt"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/reports"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
)

// ReportService drives the Word export/import flow of the admin dashboard.
type ReportService struct {
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
	writer           *reports.WordReportWriter
	reader           *reports.WordReportReader
	visitorRepo      visitor.Repository
	eventRepo        analytics.EventRepository
	pageViewRepo     analytics.PageViewRepository
	registrationRepo analytics.RegistrationRepository
}

// NewReportService creates a new report service.
func NewReportService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	writer *reports.WordReportWriter,
	reader *reports.WordReportReader,
	visitorRepo visitor.Repository,
	eventRepo analytics.EventRepository,
	pageViewRepo analytics.PageViewRepository,
	registrationRepo analytics.RegistrationRepository,
) *ReportService {
	return &ReportService{
		logger:           logger,
		perfTracker:      perfTracker,
		writer:           writer,
		reader:           reader,
		visitorRepo:      visitorRepo,
		eventRepo:        eventRepo,
		pageViewRepo:     pageViewRepo,
		registrationRepo: registrationRepo,
	}
}

// ExportRegistrations builds the .docx lead report and returns its bytes plus
// a timestamped download filename.
func (s *ReportService) ExportRegistrations() ([]byte, string, error) {
	marker := s.perfTracker.StartOperation("export_word_report")
	defer marker.Complete()

	now := time.Now().UTC()
	stats := reports.ReportStats{GeneratedAt: now}
	var err error

	if stats.TotalVisitors, err = s.visitorRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, "", err
	}
	if stats.TotalRegistrations, err = s.registrationRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, "", err
	}
	if stats.TotalEvents, err = s.eventRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, "", err
	}
	if stats.TotalPageViews, err = s.pageViewRepo.Count(); err != nil {
		marker.SetError(err)
		return nil, "", err
	}

	registrations, err := s.registrationRepo.List(config.ReportRecordLimit, 0)
	if err != nil {
		marker.SetError(err)
		return nil, "", err
	}

	data, err := s.writer.BuildRegistrationsReport(stats, registrations)
	if err != nil {
		marker.SetError(err)
		return nil, "", err
	}

	marker.SetSuccess(true)
	filename := fmt.Sprintf("relatorio-leads-%s.docx", now.Format("2006-01-02"))
	return data, filename, nil
}

// ImportContacts parses an uploaded .docx document into contact candidates.
func (s *ReportService) ImportContacts(data []byte) (*reports.ImportResult, error) {
	marker := s.perfTracker.StartOperation("import_word_report")
	defer marker.Complete()

	result, err := s.reader.ParseContacts(data)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	return result, nil
}
