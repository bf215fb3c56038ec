package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdminHandlers contains the authenticated dashboard read endpoints: stats,
// listings, visitor drill-down, and chart layout preferences.
type AdminHandlers struct {
	dashboardService *services.DashboardService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(dashboardService *services.DashboardService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		dashboardService: dashboardService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetStats handles GET /api/admin/stats.
func (h *AdminHandlers) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetVisitors handles GET /api/admin/visitors with page/limit pagination.
func (h *AdminHandlers) GetVisitors(c *gin.Context) {
	page, limit := queryPage(c)

	visitors, total, err := h.dashboardService.ListVisitors(limit, (page-1)*limit)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"visitors":   visitors,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages(total, limit),
	})
}

// GetVisitorDetail handles GET /api/admin/visitor/:visitorId.
func (h *AdminHandlers) GetVisitorDetail(c *gin.Context) {
	detail, err := h.dashboardService.GetVisitorDetail(c.Param("visitorId"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetEvents handles GET /api/admin/events.
func (h *AdminHandlers) GetEvents(c *gin.Context) {
	events, err := h.dashboardService.ListRecentEvents(queryInt(c, "limit", 100))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetRegistrations handles GET /api/admin/registrations with page/limit
// pagination.
func (h *AdminHandlers) GetRegistrations(c *gin.Context) {
	page, limit := queryPage(c)

	registrations, total, err := h.dashboardService.ListRegistrations(limit, (page-1)*limit)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"registrations": registrations,
		"total":         total,
		"page":          page,
		"limit":         limit,
		"totalPages":    totalPages(total, limit),
	})
}

type chartConfigRequest struct {
	Configs json.RawMessage `json:"configs" binding:"required"`
}

// PostChartConfig handles POST /api/admin/chart-config, storing the calling
// admin's chart layout as raw JSON.
func (h *AdminHandlers) PostChartConfig(c *gin.Context) {
	var req chartConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "configs is required"})
		return
	}

	username := middleware.AdminUsername(c)
	if err := h.dashboardService.SaveChartConfig(username, string(req.Configs)); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetChartConfig handles GET /api/admin/chart-config.
func (h *AdminHandlers) GetChartConfig(c *gin.Context) {
	cfg, err := h.dashboardService.GetChartConfig(middleware.AdminUsername(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"configs": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configs": json.RawMessage(cfg.Configs), "updatedAt": cfg.UpdatedAt})
}

func (h *AdminHandlers) respondServiceError(c *gin.Context, err error) {
	if services.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.System().Error("Admin request failed", "path", c.Request.URL.Path, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

// queryPage reads the page/limit query pair used by the listing endpoints.
// The limit bounds mirror what the dashboard service enforces, so the echoed
// page math always matches the rows actually returned.
func queryPage(c *gin.Context) (page, limit int) {
	page = queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(c, "limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
