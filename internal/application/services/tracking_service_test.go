package services

import (
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/email"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/messaging"
	analyticspersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEvent(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	eventRepo := analyticspersistence.NewSQLEventRepository(db, logger)
	pageViewRepo := analyticspersistence.NewSQLPageViewRepository(db, logger)
	trackingService := NewTrackingService(logger, newTestTracker(), eventRepo, pageViewRepo, messaging.NewActivityBroadcaster(logger))

	pageURL := "/"
	eventData := `{"section":"hero"}`
	event := &analytics.Event{
		VisitorID: "visitor_abc",
		EventType: "cta_click",
		EventData: &eventData,
		PageURL:   &pageURL,
	}
	require.NoError(t, trackingService.RecordEvent(event))
	assert.NotZero(t, event.ID)

	stored, err := eventRepo.FindByVisitorID("visitor_abc")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "cta_click", stored[0].EventType)
	require.NotNil(t, stored[0].EventData)
	assert.Equal(t, eventData, *stored[0].EventData)
	assert.False(t, stored[0].Timestamp.IsZero())
}

func TestRecordEventValidation(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	eventRepo := analyticspersistence.NewSQLEventRepository(db, logger)
	pageViewRepo := analyticspersistence.NewSQLPageViewRepository(db, logger)
	trackingService := NewTrackingService(logger, newTestTracker(), eventRepo, pageViewRepo, messaging.NewActivityBroadcaster(logger))

	err := trackingService.RecordEvent(&analytics.Event{VisitorID: "visitor_abc"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	err = trackingService.RecordEvent(&analytics.Event{VisitorID: "bogus", EventType: "cta_click"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRecordPageView(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	eventRepo := analyticspersistence.NewSQLEventRepository(db, logger)
	pageViewRepo := analyticspersistence.NewSQLPageViewRepository(db, logger)
	trackingService := NewTrackingService(logger, newTestTracker(), eventRepo, pageViewRepo, messaging.NewActivityBroadcaster(logger))

	pageURL := "/"
	title := "Fórmula Engajamento"
	require.NoError(t, trackingService.RecordPageView(&analytics.PageView{
		VisitorID:   "visitor_abc",
		PageURL:     &pageURL,
		PageTitle:   &title,
		TimeSpent:   45,
		ScrollDepth: 70,
	}))

	stored, err := pageViewRepo.FindByVisitorID("visitor_abc")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 45, stored[0].TimeSpent)
	assert.Equal(t, 70, stored[0].ScrollDepth)
}

func TestRegisterLead(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	registrationRepo := analyticspersistence.NewSQLRegistrationRepository(db, logger)
	registrationService := NewRegistrationService(logger, newTestTracker(), registrationRepo, email.NewService(logger), messaging.NewActivityBroadcaster(logger))

	name := "Maria Silva"
	emailAddr := "maria@example.com"
	require.NoError(t, registrationService.Register(&analytics.Registration{
		VisitorID: "visitor_abc",
		Name:      &name,
		Email:     &emailAddr,
	}))

	latest, err := registrationRepo.FindLatestByVisitorID("visitor_abc")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, emailAddr, *latest.Email)
}

func TestRegisterLeadRequiresContact(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	registrationRepo := analyticspersistence.NewSQLRegistrationRepository(db, logger)
	registrationService := NewRegistrationService(logger, newTestTracker(), registrationRepo, email.NewService(logger), messaging.NewActivityBroadcaster(logger))

	name := "Sem Contato"
	err := registrationService.Register(&analytics.Registration{VisitorID: "visitor_abc", Name: &name})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	phone := "(11) 98765-4321"
	require.NoError(t, registrationService.Register(&analytics.Registration{VisitorID: "visitor_abc", Phone: &phone}))
}
