package repositories

import (
	"time"

	"github.com/eduplay/session-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	StudentID *string               `json:"student_id"`
	QuizID    *string               `json:"quiz_id"`
	ClassID   *string               `json:"class_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "start_time", "score"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

// QuestionStats aggregates answers grouped by question id across all
// sessions of one quiz.
type QuestionStats struct {
	QuestionID         string  `json:"question_id"`
	TotalAnswers       int     `json:"total_answers"`
	CorrectAnswers     int     `json:"correct_answers"`
	AccuracyRate       float64 `json:"accuracy_rate"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
	HintRate           float64 `json:"hint_rate"`
}

// ClassSessionStats summarizes the completed sessions of one class.
type ClassSessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AbandonedSessions int     `json:"abandoned_sessions"`
	AverageScore      float64 `json:"average_score"`
	AverageTimeSpent  int     `json:"average_time_spent"`
}
