package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProgressMetrics is the materialized per-(student, class) rollup derived
// from completed sessions. It is not a source of truth: it can be rebuilt at
// any time from session and answer history.
type ProgressMetrics struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_progress_student_class"`
	ClassID   string `json:"class_id" gorm:"not null;size:36;uniqueIndex:idx_progress_student_class"`

	TotalGamesPlayed       int `json:"total_games_played"`
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	TotalCorrectAnswers    int `json:"total_correct_answers"`

	// Percentage scores, comparable across quizzes with different point scales.
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	LastActivity *time.Time `json:"last_activity"`

	PreferredTopics  datatypes.JSON `json:"preferred_topics" gorm:"type:jsonb"`  // []string
	CommonMistakes   datatypes.JSON `json:"common_mistakes" gorm:"type:jsonb"`   // []string
	ImprovementAreas datatypes.JSON `json:"improvement_areas" gorm:"type:jsonb"` // []string

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProgressMetrics) TableName() string {
	return "progress_metrics"
}
