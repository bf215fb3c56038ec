package handlers

import (
	"net/http"
	"strconv"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// VideoHandlers contains the video configuration endpoints: the public
// current-video lookup and the authenticated management operations.
type VideoHandlers struct {
	videoService *services.VideoService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewVideoHandlers creates video handlers with injected dependencies
func NewVideoHandlers(videoService *services.VideoService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *VideoHandlers {
	return &VideoHandlers{
		videoService: videoService,
		perfTracker:  perfTracker,
		logger:       logger,
	}
}

// GetCurrentVideo handles GET /api/video/current for the landing page.
func (h *VideoHandlers) GetCurrentVideo(c *gin.Context) {
	cfg, err := h.videoService.Current()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"video": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": cfg})
}

// GetVideo handles GET /api/admin/video for the dashboard form.
func (h *VideoHandlers) GetVideo(c *gin.Context) {
	cfg, err := h.videoService.Latest()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": cfg})
}

type videoRequest struct {
	VideoURL           string `json:"video_url" binding:"required"`
	VideoType          string `json:"video_type"`
	ButtonDelaySeconds int    `json:"button_delay_seconds"`
}

// PostVideo handles POST /api/admin/video, activating a new configuration.
func (h *VideoHandlers) PostVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_url is required"})
		return
	}

	cfg, err := h.videoService.Set(req.VideoURL, req.VideoType, req.ButtonDelaySeconds)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "video": cfg})
}

// DeleteVideo handles DELETE /api/admin/video/:id.
func (h *VideoHandlers) DeleteVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	if err := h.videoService.Delete(id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *VideoHandlers) respondServiceError(c *gin.Context, err error) {
	if services.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.System().Error("Video request failed", "path", c.Request.URL.Path, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
