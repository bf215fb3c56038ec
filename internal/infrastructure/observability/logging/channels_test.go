package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeVisitorID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"visitor_abc123xyz789", "visitor_abc1****"},
		{"visitor_ab", "visitor_****"},
		{"", "visitor_****"},
		{"short", "visitor_****"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeVisitorID(tc.in), "input %q", tc.in)
	}
}

func TestChannelAccessorsNeverNil(t *testing.T) {
	logger, err := NewChanneledLogger(&LoggerConfig{
		DefaultLevel:  slog.LevelError,
		ChannelLevels: map[Channel]slog.Level{},
	})
	require.NoError(t, err)

	for _, l := range []*slog.Logger{
		logger.System(), logger.Startup(), logger.Shutdown(),
		logger.Auth(), logger.Analytics(), logger.Inference(), logger.Privacy(),
		logger.Database(), logger.Email(), logger.WS(),
		logger.Perf(), logger.SlowQuery(), logger.Debug(),
	} {
		assert.NotNil(t, l)
	}
}

func TestSetChannelLevel(t *testing.T) {
	logger, err := NewChanneledLogger(&LoggerConfig{
		DefaultLevel:  slog.LevelInfo,
		ChannelLevels: map[Channel]slog.Level{},
	})
	require.NoError(t, err)

	require.NoError(t, logger.SetChannelLevel(ChannelDebug, slog.LevelDebug))
	assert.True(t, logger.Debug().Enabled(context.Background(), slog.LevelDebug))
}
