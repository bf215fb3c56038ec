package services

import (
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

// PrivacyService implements the LGPD right-to-erasure flow. Deletion is a
// fixed cascade: dependent rows first, the visitor row last, so a partial
// failure never leaves an orphaned visitor.
type PrivacyService struct {
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
	visitorRepo      visitor.Repository
	signalRepo       visitor.SignalRepository
	demoRepo         visitor.DemographicRepository
	eventRepo        analytics.EventRepository
	pageViewRepo     analytics.PageViewRepository
	registrationRepo analytics.RegistrationRepository
}

// NewPrivacyService creates a new privacy service.
func NewPrivacyService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	visitorRepo visitor.Repository,
	signalRepo visitor.SignalRepository,
	demoRepo visitor.DemographicRepository,
	eventRepo analytics.EventRepository,
	pageViewRepo analytics.PageViewRepository,
	registrationRepo analytics.RegistrationRepository,
) *PrivacyService {
	return &PrivacyService{
		logger:           logger,
		perfTracker:      perfTracker,
		visitorRepo:      visitorRepo,
		signalRepo:       signalRepo,
		demoRepo:         demoRepo,
		eventRepo:        eventRepo,
		pageViewRepo:     pageViewRepo,
		registrationRepo: registrationRepo,
	}
}

// DeleteMyData removes every row tied to a visitor across all six tables.
// No authentication is required: possession of the opaque visitor ID is the
// proof of ownership.
func (s *PrivacyService) DeleteMyData(visitorID string) error {
	marker := s.perfTracker.StartOperation("delete_my_data")
	defer marker.Complete()

	if err := ValidateVisitorID(visitorID); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(string) error
	}{
		{"signals", s.signalRepo.DeleteByVisitorID},
		{"demographics", s.demoRepo.DeleteByVisitorID},
		{"page_views", s.pageViewRepo.DeleteByVisitorID},
		{"events", s.eventRepo.DeleteByVisitorID},
		{"registrations", s.registrationRepo.DeleteByVisitorID},
		{"visitor", s.visitorRepo.Delete},
	}

	for _, step := range steps {
		if err := step.fn(visitorID); err != nil {
			marker.SetError(err)
			s.logger.Privacy().Error("Erasure cascade failed",
				"step", step.name,
				"error", err.Error(),
				"visitorId", logging.SanitizeVisitorID(visitorID))
			return err
		}
	}

	marker.SetSuccess(true)
	s.logger.Privacy().Info("Visitor data erased", "visitorId", logging.SanitizeVisitorID(visitorID))
	return nil
}
