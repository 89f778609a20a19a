package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplay/session-service/internal/services"
	"github.com/eduplay/session-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// GetProgress returns the student's aggregated metrics for a class
// @Summary Get progress metrics
// @Tags progress
// @Produce json
// @Param class_id path string true "Class ID"
// @Success 200 {object} models.ProgressMetrics
// @Failure 404 {object} ErrorResponse
// @Router /progress/{class_id} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	metrics, err := h.progressService.Get(c.Request.Context(), studentID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// RecomputeProgress rebuilds the student's metrics from session history
// @Summary Recompute progress metrics
// @Tags progress
// @Produce json
// @Param class_id path string true "Class ID"
// @Success 200 {object} models.ProgressMetrics
// @Router /progress/{class_id}/recompute [post]
func (h *ProgressHandler) RecomputeProgress(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	metrics, err := h.progressService.Recompute(c.Request.Context(), studentID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// GetQuestionStats returns per-question answer statistics for a quiz
// @Summary Get question statistics
// @Tags progress
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {array} repositories.QuestionStats
// @Router /quizzes/{quiz_id}/question-stats [get]
func (h *ProgressHandler) GetQuestionStats(c *gin.Context) {
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	stats, err := h.progressService.GetQuestionStats(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ProgressHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProgressNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No progress recorded for this class yet",
		})
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
