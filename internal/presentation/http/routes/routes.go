// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/FormulaEngajamento/engajamento-go/internal/application/container"
	"github.com/FormulaEngajamento/engajamento-go/internal/presentation/http/handlers"
	"github.com/FormulaEngajamento/engajamento-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(
		container.VisitorService,
		container.SignalService,
		container.TrackingService,
		container.RegistrationService,
		container.PrivacyService,
		container.Logger,
		container.PerfTracker,
	)
	adminHandlers := handlers.NewAdminHandlers(container.DashboardService, container.Logger, container.PerfTracker)
	videoHandlers := handlers.NewVideoHandlers(container.VideoService, container.Logger, container.PerfTracker)
	reportHandlers := handlers.NewReportHandlers(container.ReportService, container.Logger, container.PerfTracker)
	activityHandlers := handlers.NewActivityHandlers(container.Broadcaster, container.Logger)

	// Public collection endpoints hit by the landing page
	analyticsAPI := r.Group("/api/analytics")
	{
		analyticsAPI.POST("/visitor", analyticsHandlers.PostVisitor)
		analyticsAPI.POST("/event", analyticsHandlers.PostEvent)
		analyticsAPI.POST("/pageview", analyticsHandlers.PostPageView)
		analyticsAPI.POST("/signals", analyticsHandlers.PostSignals)
		analyticsAPI.POST("/registration", analyticsHandlers.PostRegistration)
		analyticsAPI.POST("/delete-my-data", analyticsHandlers.PostDeleteMyData)
	}

	// Public video lookup for the landing page player
	r.GET("/api/video/current", videoHandlers.GetCurrentVideo)

	// Admin endpoints
	adminAPI := r.Group("/api/admin")
	{
		adminAPI.POST("/login", authHandlers.PostLogin)
		adminAPI.POST("/logout", authHandlers.PostLogout)
		adminAPI.POST("/create", authHandlers.PostCreateAdmin)

		// Authenticated dashboard endpoints
		authenticated := adminAPI.Group("")
		authenticated.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			authenticated.GET("/verify", authHandlers.GetVerify)
			authenticated.POST("/change-password", authHandlers.PostChangePassword)

			authenticated.GET("/stats", adminHandlers.GetStats)
			authenticated.GET("/visitors", adminHandlers.GetVisitors)
			authenticated.GET("/visitor/:visitorId", adminHandlers.GetVisitorDetail)
			authenticated.GET("/events", adminHandlers.GetEvents)
			authenticated.GET("/registrations", adminHandlers.GetRegistrations)

			authenticated.GET("/chart-config", adminHandlers.GetChartConfig)
			authenticated.POST("/chart-config", adminHandlers.PostChartConfig)

			authenticated.GET("/video", videoHandlers.GetVideo)
			authenticated.POST("/video", videoHandlers.PostVideo)
			authenticated.DELETE("/video/:id", videoHandlers.DeleteVideo)

			authenticated.GET("/export/word", reportHandlers.GetExportWord)
			authenticated.POST("/import/word", reportHandlers.PostImportWord)

			authenticated.GET("/activity/ws", activityHandlers.GetActivityWS)
		}
	}

	return r
}
