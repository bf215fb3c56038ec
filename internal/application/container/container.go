// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/email"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/messaging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	adminpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/admin"
	analyticspersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
	visitorpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/reports"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	AuthService         *services.AuthService
	VisitorService      *services.VisitorService
	SignalService       *services.SignalService
	TrackingService     *services.TrackingService
	RegistrationService *services.RegistrationService
	DashboardService    *services.DashboardService
	VideoService        *services.VideoService
	ReportService       *services.ReportService
	PrivacyService      *services.PrivacyService

	// Infrastructure Dependencies
	DB          *database.DB
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	Broadcaster *messaging.ActivityBroadcaster
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	visitorRepo := visitorpersistence.NewSQLVisitorRepository(db, logger)
	signalRepo := visitorpersistence.NewSQLSignalRepository(db, logger)
	demoRepo := visitorpersistence.NewSQLDemographicRepository(db, logger)
	eventRepo := analyticspersistence.NewSQLEventRepository(db, logger)
	pageViewRepo := analyticspersistence.NewSQLPageViewRepository(db, logger)
	registrationRepo := analyticspersistence.NewSQLRegistrationRepository(db, logger)
	userRepo := adminpersistence.NewSQLUserRepository(db, logger)
	videoRepo := adminpersistence.NewSQLVideoRepository(db, logger)
	chartRepo := adminpersistence.NewSQLChartConfigRepository(db, logger)

	emailService := email.NewService(logger)
	broadcaster := messaging.NewActivityBroadcaster(logger)
	reportWriter := reports.NewWordReportWriter(logger)
	reportReader := reports.NewWordReportReader(logger)

	return &Container{
		AuthService:         services.NewAuthService(logger, perfTracker, userRepo),
		VisitorService:      services.NewVisitorService(logger, perfTracker, visitorRepo),
		SignalService:       services.NewSignalService(logger, perfTracker, visitorRepo, signalRepo, demoRepo),
		TrackingService:     services.NewTrackingService(logger, perfTracker, eventRepo, pageViewRepo, broadcaster),
		RegistrationService: services.NewRegistrationService(logger, perfTracker, registrationRepo, emailService, broadcaster),
		DashboardService:    services.NewDashboardService(logger, perfTracker, visitorRepo, signalRepo, demoRepo, eventRepo, pageViewRepo, registrationRepo, chartRepo),
		VideoService:        services.NewVideoService(logger, perfTracker, videoRepo),
		ReportService:       services.NewReportService(logger, perfTracker, reportWriter, reportReader, visitorRepo, eventRepo, pageViewRepo, registrationRepo),
		PrivacyService:      services.NewPrivacyService(logger, perfTracker, visitorRepo, signalRepo, demoRepo, eventRepo, pageViewRepo, registrationRepo),

		DB:          db,
		Logger:      logger,
		PerfTracker: perfTracker,
		Broadcaster: broadcaster,
	}
}
