package services

import (
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/inference"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
	visitorpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNTEnabled(t *testing.T) {
	cases := []struct {
		payload string
		header  string
		want    bool
	}{
		{"1", "", true},
		{"yes", "", true},
		{"", "", true},
		{"null", "", true},
		{"undefined", "", true},
		{"0", "1", true}, // browser header wins over payload
		{"0", "", false},
		{"unspecified", "", false},
		{"no", "0", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DNTEnabled(tc.payload, tc.header),
			"payload=%q header=%q", tc.payload, tc.header)
	}
}

func newSignalFixture(t *testing.T) (*SignalService, *VisitorService, *databaseHandles) {
	t.Helper()

	db := newTestDB(t)
	logger := newTestLogger(t)
	tracker := newTestTracker()

	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	signalRepo := visitorpersistence.NewSQLSignalRepository(db, logger)
	demoRepo := visitorpersistence.NewSQLDemographicRepository(db, logger)

	signalService := NewSignalService(logger, tracker, visitorRepo, signalRepo, demoRepo)
	visitorService := NewVisitorService(logger, tracker, visitorRepo)
	return signalService, visitorService, &databaseHandles{db: db, visitorRepo: visitorRepo}
}

type databaseHandles struct {
	db          *database.DB
	visitorRepo visitor.Repository
}

func trackedSignals() (inference.DeviceSignals, inference.BehavioralSignals) {
	device := inference.DeviceSignals{
		HardwareConcurrency: 16,
		ScreenResolution:    "2560x1440",
		Timezone:            "America/Sao_Paulo",
		Language:            "pt-BR",
		Languages:           []string{"pt-BR", "en-US"},
		Platform:            "Linux x86_64",
		ColorDepth:          24,
		CookieEnabled:       true,
		DoNotTrack:          "0",
	}
	behavioral := inference.BehavioralSignals{
		HourOfDay:       10,
		DayOfWeek:       2,
		IsWeekday:       true,
		IsBusinessHours: true,
		LandingPage:     "/",
	}
	return device, behavioral
}

func TestProcessSignalsStoresAndPersistsInference(t *testing.T) {
	signalService, visitorService, h := newSignalFixture(t)

	const id = "visitor_abc123"
	_, err := visitorService.Track(id, visitor.UserData{})
	require.NoError(t, err)

	device, behavioral := trackedSignals()
	outcome, err := signalService.ProcessSignals(id, device, behavioral, "")
	require.NoError(t, err)

	assert.False(t, outcome.OptedOut)
	require.NotNil(t, outcome.Inference)
	assert.Equal(t, "35-44", outcome.Inference.AgeRange)

	assert.Equal(t, 1, countRows(t, h.db, "visitor_signals", id))
	assert.Equal(t, 1, countRows(t, h.db, "inferred_demographics", id))

	stored, err := h.visitorRepo.FindByVisitorID(id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.AgeRange)
	assert.Equal(t, "35-44", *stored.AgeRange)
	require.NotNil(t, stored.Occupation)
	assert.Equal(t, "professional", *stored.Occupation)
	assert.Nil(t, stored.Gender)
}

func TestProcessSignalsAppendsHistory(t *testing.T) {
	signalService, visitorService, h := newSignalFixture(t)

	const id = "visitor_history"
	_, err := visitorService.Track(id, visitor.UserData{})
	require.NoError(t, err)

	device, behavioral := trackedSignals()
	for i := 0; i < 2; i++ {
		_, err := signalService.ProcessSignals(id, device, behavioral, "")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, countRows(t, h.db, "visitor_signals", id))
	assert.Equal(t, 2, countRows(t, h.db, "inferred_demographics", id))
}

func TestProcessSignalsOptOutPurges(t *testing.T) {
	signalService, visitorService, h := newSignalFixture(t)

	const id = "visitor_optout"
	_, err := visitorService.Track(id, visitor.UserData{})
	require.NoError(t, err)

	device, behavioral := trackedSignals()
	_, err = signalService.ProcessSignals(id, device, behavioral, "")
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, h.db, "visitor_signals", id))

	device.DoNotTrack = "1"
	outcome, err := signalService.ProcessSignals(id, device, behavioral, "")
	require.NoError(t, err)

	assert.True(t, outcome.OptedOut)
	assert.Nil(t, outcome.Inference)
	assert.Equal(t, 0, countRows(t, h.db, "visitor_signals", id))
	assert.Equal(t, 0, countRows(t, h.db, "inferred_demographics", id))

	stored, err := h.visitorRepo.FindByVisitorID(id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.AgeRange)
	assert.Nil(t, stored.Interests)
	assert.Nil(t, stored.Occupation)
}

func TestProcessSignalsHonorsBrowserHeader(t *testing.T) {
	signalService, visitorService, h := newSignalFixture(t)

	const id = "visitor_header"
	_, err := visitorService.Track(id, visitor.UserData{})
	require.NoError(t, err)

	device, behavioral := trackedSignals()
	outcome, err := signalService.ProcessSignals(id, device, behavioral, "1")
	require.NoError(t, err)

	assert.True(t, outcome.OptedOut)
	assert.Equal(t, 0, countRows(t, h.db, "visitor_signals", id))
}

func TestProcessSignalsRejectsInvalidVisitorID(t *testing.T) {
	signalService, _, _ := newSignalFixture(t)

	device, behavioral := trackedSignals()
	for _, id := range []string{"", "abc123", "user_123"} {
		_, err := signalService.ProcessSignals(id, device, behavioral, "")
		require.Error(t, err, "id %q", id)
		assert.True(t, IsValidationError(err))
	}
}
