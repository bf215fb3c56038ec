package services

import (
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/email"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/messaging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

// RegistrationService captures leads from the landing page form and notifies
// the configured address.
type RegistrationService struct {
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
	registrationRepo analytics.RegistrationRepository
	emailService     email.Service
	broadcaster      *messaging.ActivityBroadcaster
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	registrationRepo analytics.RegistrationRepository,
	emailService email.Service,
	broadcaster *messaging.ActivityBroadcaster,
) *RegistrationService {
	return &RegistrationService{
		logger:           logger,
		perfTracker:      perfTracker,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		broadcaster:      broadcaster,
	}
}

// Register stores a lead registration. The email notification is sent in the
// background so delivery problems never fail the capture.
func (s *RegistrationService) Register(registration *analytics.Registration) error {
	marker := s.perfTracker.StartOperation("register_lead")
	defer marker.Complete()

	if err := ValidateVisitorID(registration.VisitorID); err != nil {
		return err
	}
	if registration.Email == nil && registration.Phone == nil {
		return validationErrorf("email or phone is required")
	}

	if err := s.registrationRepo.Create(registration); err != nil {
		marker.SetError(err)
		return err
	}

	name := valueOr(registration.Name, "-")
	go func() {
		if err := s.emailService.SendLeadNotification(name, valueOr(registration.Email, "-"), valueOr(registration.Phone, "-")); err != nil {
			s.logger.Email().Error("Lead notification failed", "error", err.Error())
		}
	}()

	s.broadcaster.Publish(messaging.ActivityMessage{
		Kind:       "registration",
		VisitorID:  logging.SanitizeVisitorID(registration.VisitorID),
		Detail:     name,
		OccurredAt: time.Now().UTC(),
	})

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Lead registered", "visitorId", logging.SanitizeVisitorID(registration.VisitorID))
	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
