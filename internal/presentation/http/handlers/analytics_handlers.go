package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/inference"
	"github.com/FormulaEngajamento/engajamento-go/internal/domain/visitor"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandlers contains the public collection endpoints hit by the
// landing page: visitor upsert, events, page views, signals, registrations,
// and the LGPD erasure endpoint.
type AnalyticsHandlers struct {
	visitorService      *services.VisitorService
	signalService       *services.SignalService
	trackingService     *services.TrackingService
	registrationService *services.RegistrationService
	privacyService      *services.PrivacyService
	logger              *logging.ChanneledLogger
	perfTracker         *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(
	visitorService *services.VisitorService,
	signalService *services.SignalService,
	trackingService *services.TrackingService,
	registrationService *services.RegistrationService,
	privacyService *services.PrivacyService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		visitorService:      visitorService,
		signalService:       signalService,
		trackingService:     trackingService,
		registrationService: registrationService,
		privacyService:      privacyService,
		logger:              logger,
		perfTracker:         perfTracker,
	}
}

type visitorRequest struct {
	VisitorID string           `json:"visitorId" binding:"required"`
	UserData  visitor.UserData `json:"userData"`
}

// PostVisitor handles POST /api/analytics/visitor.
func (h *AnalyticsHandlers) PostVisitor(c *gin.Context) {
	var req visitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId is required"})
		return
	}

	isNew, err := h.visitorService.Track(req.VisitorID, req.UserData)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isNewVisitor": isNew})
}

type eventRequest struct {
	VisitorID string          `json:"visitorId" binding:"required"`
	EventType string          `json:"eventType" binding:"required"`
	EventData json.RawMessage `json:"eventData"`
	PageURL   *string         `json:"pageUrl"`
	SessionID *string         `json:"sessionId"`
}

// PostEvent handles POST /api/analytics/event.
func (h *AnalyticsHandlers) PostEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId and eventType are required"})
		return
	}

	event := &analytics.Event{
		VisitorID: req.VisitorID,
		EventType: req.EventType,
		EventData: rawToString(req.EventData),
		PageURL:   req.PageURL,
		SessionID: req.SessionID,
	}
	if err := h.trackingService.RecordEvent(event); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type pageViewRequest struct {
	VisitorID   string  `json:"visitorId" binding:"required"`
	PageURL     *string `json:"pageUrl"`
	PageTitle   *string `json:"pageTitle"`
	SessionID   *string `json:"sessionId"`
	TimeSpent   int     `json:"timeSpent"`
	ScrollDepth int     `json:"scrollDepth"`
}

// PostPageView handles POST /api/analytics/pageview.
func (h *AnalyticsHandlers) PostPageView(c *gin.Context) {
	var req pageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId is required"})
		return
	}

	view := &analytics.PageView{
		VisitorID:   req.VisitorID,
		PageURL:     req.PageURL,
		PageTitle:   req.PageTitle,
		SessionID:   req.SessionID,
		TimeSpent:   req.TimeSpent,
		ScrollDepth: req.ScrollDepth,
	}
	if err := h.trackingService.RecordPageView(view); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type signalsRequest struct {
	VisitorID         string                      `json:"visitorId" binding:"required"`
	DeviceSignals     inference.DeviceSignals     `json:"deviceSignals"`
	BehavioralSignals inference.BehavioralSignals `json:"behavioralSignals"`
}

// PostSignals handles POST /api/analytics/signals. This is the only endpoint
// gated by Do-Not-Track; events and page views are not demographic data.
func (h *AnalyticsHandlers) PostSignals(c *gin.Context) {
	var req signalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId is required"})
		return
	}

	outcome, err := h.signalService.ProcessSignals(req.VisitorID, req.DeviceSignals, req.BehavioralSignals, c.GetHeader("DNT"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"optedOut":  outcome.OptedOut,
		"inference": outcome.Inference,
	})
}

type registrationRequest struct {
	VisitorID        string          `json:"visitorId" binding:"required"`
	Email            *string         `json:"email"`
	Name             *string         `json:"name"`
	Phone            *string         `json:"phone"`
	RegistrationData json.RawMessage `json:"registrationData"`
}

// PostRegistration handles POST /api/analytics/registration.
func (h *AnalyticsHandlers) PostRegistration(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId is required"})
		return
	}

	registration := &analytics.Registration{
		VisitorID:        req.VisitorID,
		Email:            req.Email,
		Name:             req.Name,
		Phone:            req.Phone,
		RegistrationData: rawToString(req.RegistrationData),
	}
	if err := h.registrationService.Register(registration); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type deleteMyDataRequest struct {
	VisitorID string `json:"visitorId" binding:"required"`
}

// PostDeleteMyData handles POST /api/analytics/delete-my-data. No auth:
// possession of the opaque visitor ID is the proof of ownership.
func (h *AnalyticsHandlers) PostDeleteMyData(c *gin.Context) {
	var req deleteMyDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitorId is required"})
		return
	}

	if err := h.privacyService.DeleteMyData(req.VisitorID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All data deleted"})
}

// respondServiceError maps validation failures to 400 and everything else to
// a generic 500.
func (h *AnalyticsHandlers) respondServiceError(c *gin.Context, err error) {
	if services.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Analytics().Error("Request failed", "path", c.Request.URL.Path, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func rawToString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := string(raw)
	return &s
}
