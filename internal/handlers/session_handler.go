package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/services"
	"github.com/eduplay/session-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// StartSession starts a new play session or returns the student's active one
// @Summary Start or resume a play session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Quiz to play"
// @Success 200 {object} services.SessionStateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /sessions/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	state, err := h.sessionService.StartOrResume(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetSession returns the current state of a session
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionStateResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	state, err := h.sessionService.GetState(c.Request.Context(), studentID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SubmitAnswer scores an answer for the session's current question
// @Summary Submit an answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body models.AnswerSubmission true "Answer payload"
// @Success 200 {object} services.SubmitAnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	var submission models.AnswerSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.sessionService.SubmitAnswer(c.Request.Context(), studentID, sessionID, &submission)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PauseSession pauses an in-progress session
// @Summary Pause a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionStateResponse
// @Router /sessions/{id}/pause [post]
func (h *SessionHandler) PauseSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	state, err := h.sessionService.Pause(c.Request.Context(), studentID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ResumeSession reactivates a paused session
// @Summary Resume a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionStateResponse
// @Router /sessions/{id}/resume [post]
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	state, err := h.sessionService.Resume(c.Request.Context(), studentID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// AbandonSession permanently abandons a session
// @Summary Abandon a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Router /sessions/{id}/abandon [post]
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	if err := h.sessionService.Abandon(c.Request.Context(), studentID, sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session abandoned"})
}

// GetSessionResults returns the per-question results of a completed session
// @Summary Get session results
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionResultsResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/results [get]
func (h *SessionHandler) GetSessionResults(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	studentID := h.StudentID(c)
	if studentID == "" {
		return
	}

	results, err := h.sessionService.GetResults(c.Request.Context(), studentID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrQuizNotAccessible):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Quiz is not accessible for play",
		})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Play session not found",
		})
	case errors.Is(err, services.ErrSessionAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied to play session",
		})
	case errors.Is(err, services.ErrSessionNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Play session is not active",
		})
	case errors.Is(err, services.ErrSessionNotPaused):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Play session is not paused",
		})
	case errors.Is(err, services.ErrSessionNotCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Play session is not completed",
		})
	case errors.Is(err, services.ErrQuestionMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Submitted question does not match the current question",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Concurrent modification detected, please retry",
		})
	case errors.Is(err, services.ErrStoreFailure):
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
