package services

import (
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	adminpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/admin"
	analyticspersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/analytics"
	visitorpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	dashboard *DashboardService
	visitors  *VisitorService
	signals   *SignalService
	events    analytics.EventRepository
	pageViews analytics.PageViewRepository
	leads     analytics.RegistrationRepository
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	db := newTestDB(t)
	logger := newTestLogger(t)
	tracker := newTestTracker()

	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	signalRepo := visitorpersistence.NewSQLSignalRepository(db, logger)
	demoRepo := visitorpersistence.NewSQLDemographicRepository(db, logger)
	eventRepo := analyticspersistence.NewSQLEventRepository(db, logger)
	pageViewRepo := analyticspersistence.NewSQLPageViewRepository(db, logger)
	registrationRepo := analyticspersistence.NewSQLRegistrationRepository(db, logger)
	chartRepo := adminpersistence.NewSQLChartConfigRepository(db, logger)

	return &dashboardFixture{
		dashboard: NewDashboardService(logger, tracker, visitorRepo, signalRepo, demoRepo, eventRepo, pageViewRepo, registrationRepo, chartRepo),
		visitors:  NewVisitorService(logger, tracker, visitorRepo),
		signals:   NewSignalService(logger, tracker, visitorRepo, signalRepo, demoRepo),
		events:    eventRepo,
		pageViews: pageViewRepo,
		leads:     registrationRepo,
	}
}

func TestGetStats(t *testing.T) {
	f := newDashboardFixture(t)

	for _, id := range []string{"visitor_a", "visitor_b", "visitor_c"} {
		_, err := f.visitors.Track(id, visitor.UserData{})
		require.NoError(t, err)
	}
	email := "lead@example.com"
	require.NoError(t, f.leads.Create(&analytics.Registration{VisitorID: "visitor_a", Email: &email}))
	require.NoError(t, f.events.Create(&analytics.Event{VisitorID: "visitor_a", EventType: "cta_click"}))
	require.NoError(t, f.events.Create(&analytics.Event{VisitorID: "visitor_b", EventType: "video_play"}))
	require.NoError(t, f.pageViews.Create(&analytics.PageView{VisitorID: "visitor_c"}))

	stats, err := f.dashboard.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVisitors)
	assert.Equal(t, 3, stats.VisitorsLast24h)
	assert.Equal(t, 1, stats.TotalRegistrations)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 1, stats.TotalPageViews)
}

func TestListVisitorsPagination(t *testing.T) {
	f := newDashboardFixture(t)

	for _, id := range []string{"visitor_a", "visitor_b", "visitor_c"} {
		_, err := f.visitors.Track(id, visitor.UserData{})
		require.NoError(t, err)
	}

	page, total, err := f.dashboard.ListVisitors(2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, 3, total)

	rest, _, err := f.dashboard.ListVisitors(2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestGetVisitorDetail(t *testing.T) {
	f := newDashboardFixture(t)

	const id = "visitor_detail"
	landing := "/"
	_, err := f.visitors.Track(id, visitor.UserData{LandingPage: &landing})
	require.NoError(t, err)

	device, behavioral := trackedSignals()
	_, err = f.signals.ProcessSignals(id, device, behavioral, "")
	require.NoError(t, err)

	email := "lead@example.com"
	require.NoError(t, f.events.Create(&analytics.Event{VisitorID: id, EventType: "cta_click"}))
	require.NoError(t, f.pageViews.Create(&analytics.PageView{VisitorID: id, PageURL: &landing}))
	require.NoError(t, f.leads.Create(&analytics.Registration{VisitorID: id, Email: &email}))

	detail, err := f.dashboard.GetVisitorDetail(id)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, id, detail.Visitor.VisitorID)
	assert.Len(t, detail.Signals, 1)
	assert.Len(t, detail.InferenceHistory, 1)
	assert.Len(t, detail.Events, 1)
	assert.Len(t, detail.PageViews, 1)
	require.NotNil(t, detail.LatestRegistration)
	assert.Equal(t, email, *detail.LatestRegistration.Email)
}

func TestGetVisitorDetailUnknownVisitor(t *testing.T) {
	f := newDashboardFixture(t)

	detail, err := f.dashboard.GetVisitorDetail("visitor_ghost")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestChartConfigRoundTrip(t *testing.T) {
	f := newDashboardFixture(t)

	missing, err := f.dashboard.GetChartConfig("rafael")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, f.dashboard.SaveChartConfig("rafael", `{"charts":["funnel"]}`))

	saved, err := f.dashboard.GetChartConfig("rafael")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, `{"charts":["funnel"]}`, saved.Configs)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0))
	assert.Equal(t, 50, clampLimit(-10))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, 500, clampLimit(9999))
}
