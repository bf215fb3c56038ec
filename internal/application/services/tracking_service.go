package services

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/messaging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

// TrackingService records interaction events and page views. Both are
// append-only and intentionally skip the Do-Not-Track gate: only the
// demographic signal pipeline is privacy-gated.
type TrackingService struct {
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	eventRepo    analytics.EventRepository
	pageViewRepo analytics.PageViewRepository
	broadcaster  *messaging.ActivityBroadcaster
}

// NewTrackingService creates a new tracking service.
func NewTrackingService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	eventRepo analytics.EventRepository,
	pageViewRepo analytics.PageViewRepository,
	broadcaster *messaging.ActivityBroadcaster,
) *TrackingService {
	return &TrackingService{
		logger:       logger,
		perfTracker:  perfTracker,
		eventRepo:    eventRepo,
		pageViewRepo: pageViewRepo,
		broadcaster:  broadcaster,
	}
}

// RecordEvent stores one interaction event and pushes it to the live feed.
func (s *TrackingService) RecordEvent(event *analytics.Event) error {
	marker := s.perfTracker.StartOperation("record_event")
	defer marker.Complete()

	if err := ValidateVisitorID(event.VisitorID); err != nil {
		return err
	}
	if event.EventType == "" {
		return validationErrorf("event_type is required")
	}

	if err := s.eventRepo.Create(event); err != nil {
		marker.SetError(err)
		return err
	}

	s.broadcaster.Publish(messaging.ActivityMessage{
		Kind:       "event",
		VisitorID:  logging.SanitizeVisitorID(event.VisitorID),
		Detail:     event.EventType,
		OccurredAt: time.Now().UTC(),
	})

	marker.SetSuccess(true)
	return nil
}

// RecordPageView stores one page view and pushes it to the live feed.
func (s *TrackingService) RecordPageView(view *analytics.PageView) error {
	marker := s.perfTracker.StartOperation("record_pageview")
	defer marker.Complete()

	if err := ValidateVisitorID(view.VisitorID); err != nil {
		return err
	}

	if err := s.pageViewRepo.Create(view); err != nil {
		marker.SetError(err)
		return err
	}

	detail := ""
	if view.PageURL != nil {
		detail = *view.PageURL
	}
	s.broadcaster.Publish(messaging.ActivityMessage{
		Kind:       "pageview",
		VisitorID:  logging.SanitizeVisitorID(view.VisitorID),
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})

	marker.SetSuccess(true)
	return nil
}
