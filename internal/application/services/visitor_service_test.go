package services

import (
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	visitorpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVisitorID(t *testing.T) {
	assert.NoError(t, ValidateVisitorID("visitor_abc123"))

	for _, id := range []string{"", "abc123", "Visitor_abc", "visitante_abc"} {
		err := ValidateVisitorID(id)
		require.Error(t, err, "id %q", id)
		assert.True(t, IsValidationError(err))
	}
}

func TestTrackFirstContactCreatesVisitor(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	visitorService := NewVisitorService(logger, newTestTracker(), visitorRepo)

	ip := "200.150.10.1"
	ua := "Mozilla/5.0"
	landing := "/"
	isNew, err := visitorService.Track("visitor_novo", visitor.UserData{
		IP:          &ip,
		UserAgent:   &ua,
		LandingPage: &landing,
	})
	require.NoError(t, err)
	assert.True(t, isNew)

	stored, err := visitorService.Get("visitor_novo")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.TotalVisits)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, ip, *stored.IPAddress)
}

func TestTrackRevisitBumpsCounter(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	visitorService := NewVisitorService(logger, newTestTracker(), visitorRepo)

	ip := "200.150.10.1"
	_, err := visitorService.Track("visitor_volta", visitor.UserData{IP: &ip})
	require.NoError(t, err)

	// Revisit without an IP keeps the stored one.
	isNew, err := visitorService.Track("visitor_volta", visitor.UserData{})
	require.NoError(t, err)
	assert.False(t, isNew)

	stored, err := visitorService.Get("visitor_volta")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.TotalVisits)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, ip, *stored.IPAddress)
}

func TestGetUnknownVisitor(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	visitorService := NewVisitorService(logger, newTestTracker(), visitorRepo)

	stored, err := visitorService.Get("visitor_ghost")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
