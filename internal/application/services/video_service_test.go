package services

import (
	"testing"

	adminpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoFixture(t *testing.T) *VideoService {
	t.Helper()

	db := newTestDB(t)
	logger := newTestLogger(t)
	videoRepo := adminpersistence.NewSQLVideoRepository(db, logger)
	return NewVideoService(logger, newTestTracker(), videoRepo)
}

func TestVideoSetDefaults(t *testing.T) {
	videoService := newVideoFixture(t)

	cfg, err := videoService.Set("https://youtu.be/abc", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "youtube", cfg.VideoType)
	assert.Equal(t, 90, cfg.ButtonDelaySeconds)
	assert.True(t, cfg.IsActive)
}

func TestVideoSetValidation(t *testing.T) {
	videoService := newVideoFixture(t)

	_, err := videoService.Set("", "youtube", 30)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = videoService.Set("https://youtu.be/abc", "dailymotion", 30)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = videoService.Set("https://youtu.be/abc", "youtube", -5)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestVideoSetReplacesActive(t *testing.T) {
	videoService := newVideoFixture(t)

	_, err := videoService.Set("https://youtu.be/first", "youtube", 30)
	require.NoError(t, err)

	second, err := videoService.Set("https://example.com/video.mp4", "direct", 45)
	require.NoError(t, err)

	current, err := videoService.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, "https://example.com/video.mp4", current.VideoURL)
}

func TestVideoCurrentWhenUnset(t *testing.T) {
	videoService := newVideoFixture(t)

	current, err := videoService.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestVideoDelete(t *testing.T) {
	videoService := newVideoFixture(t)

	cfg, err := videoService.Set("https://youtu.be/abc", "youtube", 30)
	require.NoError(t, err)

	require.NoError(t, videoService.Delete(cfg.ID))

	current, err := videoService.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}
