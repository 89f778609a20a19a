package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplay/session-service/internal/services"
	"github.com/eduplay/session-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	progressHandler *ProgressHandler
	reportHandler   *ReportHandler
}

func NewHandlerManager(
	sessionService services.SessionService,
	progressService services.ProgressService,
	reportService services.ReportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:  NewSessionHandler(sessionService, logger),
		progressHandler: NewProgressHandler(progressService, logger),
		reportHandler:   NewReportHandler(reportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "session-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(UserContextMiddleware())
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/pause", hm.sessionHandler.PauseSession)
			sessions.POST("/:id/resume", hm.sessionHandler.ResumeSession)
			sessions.POST("/:id/abandon", hm.sessionHandler.AbandonSession)
			sessions.GET("/:id/results", hm.sessionHandler.GetSessionResults)
		}

		progress := v1.Group("/progress")
		{
			progress.GET("/:class_id", hm.progressHandler.GetProgress)
			progress.POST("/:class_id/recompute", hm.progressHandler.RecomputeProgress)
		}

		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/question-stats", hm.progressHandler.GetQuestionStats)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/classes/:class_id/summary", hm.reportHandler.GetClassSummary)
			reports.GET("/classes/:class_id/export", hm.reportHandler.ExportClassResults)
		}
	}
}

// UserContextMiddleware copies the gateway-authenticated user id into the
// request context. Authentication itself happens upstream; this service only
// trusts the forwarded header.
func UserContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
