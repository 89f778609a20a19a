package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplay/session-service/internal/services"
	"github.com/eduplay/session-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// GetClassSummary returns aggregate session statistics for a class
// @Summary Get class summary
// @Tags reports
// @Produce json
// @Param class_id path string true "Class ID"
// @Success 200 {object} services.ClassSummaryResponse
// @Router /reports/classes/{class_id}/summary [get]
func (h *ReportHandler) GetClassSummary(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}

	summary, err := h.reportService.GetClassSummary(c.Request.Context(), classID)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to build class summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportClassResults streams the class's completed session results as a file
// @Summary Export class results
// @Tags reports
// @Produce application/octet-stream
// @Param class_id path string true "Class ID"
// @Param format query string false "csv or xlsx" default(xlsx)
// @Success 200 {file} binary
// @Router /reports/classes/{class_id}/export [get]
func (h *ReportHandler) ExportClassResults(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}

	format := c.DefaultQuery("format", "xlsx")
	switch format {
	case "csv":
		data, err := h.reportService.ExportClassResultsCSV(c.Request.Context(), classID)
		if err != nil {
			h.RespondWithError(c, http.StatusInternalServerError, "Failed to export class results", err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=class_%s_results.csv", classID))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.reportService.ExportClassResultsExcel(c.Request.Context(), classID)
		if err != nil {
			h.RespondWithError(c, http.StatusInternalServerError, "Failed to export class results", err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=class_%s_results.xlsx", classID))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: "format must be csv or xlsx",
		})
	}
}
