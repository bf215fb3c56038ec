package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/security"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
	"github.com/gin-gonic/gin"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ReportHandlers contains the Word export/import endpoints.
type ReportHandlers struct {
	reportService *services.ReportService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewReportHandlers creates report handlers with injected dependencies
func NewReportHandlers(reportService *services.ReportService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ReportHandlers {
	return &ReportHandlers{
		reportService: reportService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetExportWord handles GET /api/admin/export/word, streaming the generated
// .docx as a download.
func (h *ReportHandlers) GetExportWord(c *gin.Context) {
	data, filename, err := h.reportService.ExportRegistrations()
	if err != nil {
		h.logger.System().Error("Report export failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, docxContentType, data)
}

// PostImportWord handles POST /api/admin/import/word. The upload is staged to
// a temp file that is removed on every path, success or failure.
func (h *ReportHandlers) PostImportWord(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".docx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .docx files are accepted"})
		return
	}
	if fileHeader.Size > int64(config.MaxUploadSizeMB)<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	if err := os.MkdirAll(config.UploadDir, 0o755); err != nil {
		h.logger.System().Error("Upload dir creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tempPath := filepath.Join(config.UploadDir, security.GenerateULID()+".docx")
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		h.logger.System().Error("Upload staging failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer os.Remove(tempPath) // best effort on every path

	data, err := os.ReadFile(tempPath)
	if err != nil {
		h.logger.System().Error("Upload read failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	result, err := h.reportService.ImportContacts(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
