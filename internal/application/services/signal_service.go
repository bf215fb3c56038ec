package services

import (
	"encoding/json"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/inference"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/security"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
)

// SignalService runs the signal ingestion pipeline: Do-Not-Track gate, raw
// signal storage, demographic inference, and threshold-gated persistence.
type SignalService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	visitorRepo visitor.Repository
	signalRepo  visitor.SignalRepository
	demoRepo    visitor.DemographicRepository
}

// NewSignalService creates a new signal service.
func NewSignalService(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	visitorRepo visitor.Repository,
	signalRepo visitor.SignalRepository,
	demoRepo visitor.DemographicRepository,
) *SignalService {
	return &SignalService{
		logger:      logger,
		perfTracker: perfTracker,
		visitorRepo: visitorRepo,
		signalRepo:  signalRepo,
		demoRepo:    demoRepo,
	}
}

// SignalOutcome is the result of one signal submission.
type SignalOutcome struct {
	OptedOut  bool              `json:"optedOut"`
	Inference *inference.Result `json:"inference"`
}

// DNTEnabled implements the privacy gate, deny-by-default: tracking is only
// allowed when the submitted value explicitly says it is. An absent, "null"
// or "undefined" payload counts as opted out, as does the browser's DNT
// header.
func DNTEnabled(payloadValue, headerValue string) bool {
	if payloadValue == "1" || payloadValue == "yes" {
		return true
	}
	if headerValue == "1" {
		return true
	}
	switch payloadValue {
	case "", "null", "undefined":
		return true
	}
	return false
}

// ProcessSignals stores a signal submission and runs demographic inference.
// When the visitor has Do-Not-Track enabled, previously collected signals and
// inferences are purged instead and no inference is returned.
func (s *SignalService) ProcessSignals(visitorID string, device inference.DeviceSignals, behavioral inference.BehavioralSignals, dntHeader string) (*SignalOutcome, error) {
	marker := s.perfTracker.StartOperation("process_signals")
	defer marker.Complete()

	if err := ValidateVisitorID(visitorID); err != nil {
		return nil, err
	}

	if DNTEnabled(device.DoNotTrack, dntHeader) {
		if err := s.purge(visitorID); err != nil {
			marker.SetError(err)
			return nil, err
		}
		marker.SetSuccess(true)
		marker.AddMetadata("optedOut", true)
		s.logger.Privacy().Info("DNT opt-out honored, signals purged", "visitorId", logging.SanitizeVisitorID(visitorID))
		return &SignalOutcome{OptedOut: true, Inference: nil}, nil
	}

	record := buildSignalRecord(visitorID, device, behavioral)
	if err := s.signalRepo.Create(record); err != nil {
		marker.SetError(err)
		return nil, err
	}

	result := inference.InferDemographics(device, behavioral)
	s.logger.Inference().Debug("Inference run",
		"visitorId", logging.SanitizeVisitorID(visitorID),
		"ageRange", result.AgeRange,
		"confidence", result.Confidence)

	if result.Confidence > config.InferencePersistThreshold {
		if err := s.persistInference(visitorID, result); err != nil {
			marker.SetError(err)
			return nil, err
		}
	}

	marker.SetSuccess(true)
	return &SignalOutcome{OptedOut: false, Inference: &result}, nil
}

// purge removes everything inference-related for a visitor: the raw signal
// history, the inference history, and the denormalized visitor columns.
func (s *SignalService) purge(visitorID string) error {
	if err := s.signalRepo.DeleteByVisitorID(visitorID); err != nil {
		return err
	}
	if err := s.demoRepo.DeleteByVisitorID(visitorID); err != nil {
		return err
	}
	return s.visitorRepo.ClearDemographics(visitorID)
}

func (s *SignalService) persistInference(visitorID string, result inference.Result) error {
	ageRange := result.AgeRange
	row := &visitor.InferredDemographic{
		ID:               security.GenerateULID(),
		VisitorID:        visitorID,
		AgeRange:         &ageRange,
		Gender:           result.Gender,
		Occupation:       result.Occupation,
		EducationLevel:   result.EducationLevel,
		Interests:        result.Interests,
		ConfidenceScore:  result.Confidence,
		AlgorithmVersion: config.AlgorithmVersion,
		InferredAt:       time.Now().UTC(),
	}
	if err := s.demoRepo.Create(row); err != nil {
		return err
	}

	return s.visitorRepo.UpdateDemographics(visitorID, visitor.Demographics{
		AgeRange:       &ageRange,
		Gender:         result.Gender,
		Interests:      result.Interests,
		Occupation:     result.Occupation,
		EducationLevel: result.EducationLevel,
	})
}

func buildSignalRecord(visitorID string, device inference.DeviceSignals, behavioral inference.BehavioralSignals) *visitor.SignalRecord {
	record := &visitor.SignalRecord{
		ID:                  security.GenerateULID(),
		VisitorID:           visitorID,
		ColorDepth:          device.ColorDepth,
		HardwareConcurrency: device.HardwareConcurrency,
		DeviceMemory:        device.DeviceMemory,
		TouchSupport:        device.TouchSupport,
		CookieEnabled:       device.CookieEnabled,
		HourOfDay:           behavioral.HourOfDay,
		DayOfWeek:           behavioral.DayOfWeek,
		IsWeekday:           behavioral.IsWeekday,
		IsBusinessHours:     behavioral.IsBusinessHours,
		CollectedAt:         time.Now().UTC(),
	}

	record.FingerprintID = optional(device.FingerprintID)
	record.Timezone = optional(device.Timezone)
	record.Language = optional(device.Language)
	record.ScreenResolution = optional(device.ScreenResolution)
	record.Platform = optional(device.Platform)
	record.DoNotTrack = optional(device.DoNotTrack)
	record.Referrer = optional(behavioral.Referrer)
	record.LandingPage = optional(behavioral.LandingPage)

	if len(device.Languages) > 0 {
		if encoded, err := json.Marshal(device.Languages); err == nil {
			languages := string(encoded)
			record.Languages = &languages
		}
	}

	return record
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
