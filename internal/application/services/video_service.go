package services

import (
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
)

var validVideoTypes = map[string]bool{
	"youtube": true,
	"vimeo":   true,
	"direct":  true,
}

// VideoService manages the landing page video configuration. At most one
// configuration is active; activating a new one retires all others.
type VideoService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	videoRepo   admin.VideoRepository
}

// NewVideoService creates a new video service.
func NewVideoService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, videoRepo admin.VideoRepository) *VideoService {
	return &VideoService{
		logger:      logger,
		perfTracker: perfTracker,
		videoRepo:   videoRepo,
	}
}

// Current returns the active configuration for the public landing page, or
// nil when no video is configured.
func (s *VideoService) Current() (*admin.VideoConfig, error) {
	return s.videoRepo.FindActive()
}

// Latest returns the newest configuration regardless of its active flag, for
// the admin dashboard form.
func (s *VideoService) Latest() (*admin.VideoConfig, error) {
	return s.videoRepo.FindLatest()
}

// Set validates and activates a new video configuration.
func (s *VideoService) Set(videoURL, videoType string, buttonDelaySeconds int) (*admin.VideoConfig, error) {
	marker := s.perfTracker.StartOperation("video_set")
	defer marker.Complete()

	if videoURL == "" {
		return nil, validationErrorf("video_url is required")
	}
	if videoType == "" {
		videoType = "youtube"
	}
	if !validVideoTypes[videoType] {
		return nil, validationErrorf("video_type must be one of youtube, vimeo, direct")
	}
	if buttonDelaySeconds < 0 {
		return nil, validationErrorf("button_delay_seconds must not be negative")
	}
	if buttonDelaySeconds == 0 {
		buttonDelaySeconds = 90
	}

	cfg, err := s.videoRepo.Activate(videoURL, videoType, buttonDelaySeconds)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.System().Info("Video configuration activated", "id", cfg.ID, "videoType", cfg.VideoType)
	return cfg, nil
}

// Delete removes a configuration row.
func (s *VideoService) Delete(id int64) error {
	if err := s.videoRepo.Delete(id); err != nil {
		return err
	}
	s.logger.System().Info("Video configuration deleted", "id", id)
	return nil
}
