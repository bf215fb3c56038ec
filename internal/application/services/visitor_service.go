package services

import (
	"strings"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

// VisitorIDPrefix is the required prefix on every client-generated visitor ID.
const VisitorIDPrefix = "visitor_"

// ValidateVisitorID rejects IDs that are missing or carry the wrong prefix.
func ValidateVisitorID(visitorID string) error {
	if visitorID == "" {
		return validationErrorf("visitor_id is required")
	}
	if !strings.HasPrefix(visitorID, VisitorIDPrefix) {
		return validationErrorf("visitor_id must start with %q", VisitorIDPrefix)
	}
	return nil
}

// VisitorService handles visitor upserts: first contact creates a row,
// revisits bump the counter and refresh mutable attributes.
type VisitorService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	visitorRepo visitor.Repository
}

// NewVisitorService creates a new visitor service.
func NewVisitorService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, visitorRepo visitor.Repository) *VisitorService {
	return &VisitorService{
		logger:      logger,
		perfTracker: perfTracker,
		visitorRepo: visitorRepo,
	}
}

// Track upserts a visitor. It reports whether this was the first contact.
func (s *VisitorService) Track(visitorID string, data visitor.UserData) (isNew bool, err error) {
	marker := s.perfTracker.StartOperation("visitor_track")
	defer marker.Complete()

	if err := ValidateVisitorID(visitorID); err != nil {
		return false, err
	}

	existing, err := s.visitorRepo.FindByVisitorID(visitorID)
	if err != nil {
		marker.SetError(err)
		return false, err
	}

	if existing == nil {
		if err := s.visitorRepo.Create(visitorID, data); err != nil {
			marker.SetError(err)
			return false, err
		}
		marker.SetSuccess(true)
		s.logger.Analytics().Info("New visitor tracked", "visitorId", logging.SanitizeVisitorID(visitorID))
		return true, nil
	}

	if err := s.visitorRepo.Touch(visitorID, data.IP, data.UserAgent); err != nil {
		marker.SetError(err)
		return false, err
	}

	marker.SetSuccess(true)
	s.logger.Analytics().Debug("Returning visitor touched",
		"visitorId", logging.SanitizeVisitorID(visitorID),
		"totalVisits", existing.TotalVisits+1)
	return false, nil
}

// Get loads a visitor, or nil when unknown.
func (s *VisitorService) Get(visitorID string) (*visitor.Visitor, error) {
	if err := ValidateVisitorID(visitorID); err != nil {
		return nil, err
	}
	return s.visitorRepo.FindByVisitorID(visitorID)
}
