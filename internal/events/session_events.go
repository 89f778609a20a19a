package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of session lifecycle events
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"

	EventProgressRecomputed EventType = "progress.recomputed"
)

// SessionEvent is the envelope for all session lifecycle events
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session lifecycle event payloads

type SessionStartedEvent struct {
	SessionID      string    `json:"session_id"`
	QuizID         string    `json:"quiz_id"`
	ClassID        string    `json:"class_id"`
	StudentID      string    `json:"student_id"`
	TotalQuestions int       `json:"total_questions"`
	StartedAt      time.Time `json:"started_at"`
	Resumed        bool      `json:"resumed"`
}

type SessionCompletedEvent struct {
	SessionID        string    `json:"session_id"`
	QuizID           string    `json:"quiz_id"`
	ClassID          string    `json:"class_id"`
	StudentID        string    `json:"student_id"`
	Score            int       `json:"score"`
	PercentageScore  float64   `json:"percentage_score"`
	CorrectCount     int       `json:"correct_count"`
	IncorrectCount   int       `json:"incorrect_count"`
	TotalTimeSeconds int       `json:"total_time_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}

type SessionAbandonedEvent struct {
	SessionID         string    `json:"session_id"`
	QuizID            string    `json:"quiz_id"`
	ClassID           string    `json:"class_id"`
	StudentID         string    `json:"student_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	AbandonedAt       time.Time `json:"abandoned_at"`
}

type ProgressRecomputedEvent struct {
	StudentID        string    `json:"student_id"`
	ClassID          string    `json:"class_id"`
	TotalGamesPlayed int       `json:"total_games_played"`
	AverageScore     float64   `json:"average_score"`
	LongestStreak    int       `json:"longest_streak"`
	RecomputedAt     time.Time `json:"recomputed_at"`
}

// Event factory functions

func NewSessionStartedEvent(sessionID, quizID, classID, studentID string, totalQuestions int, startedAt time.Time, resumed bool) *SessionEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:      sessionID,
		QuizID:         quizID,
		ClassID:        classID,
		StudentID:      studentID,
		TotalQuestions: totalQuestions,
		StartedAt:      startedAt,
		Resumed:        resumed,
	})
}

func NewSessionCompletedEvent(sessionID, quizID, classID, studentID string, score int, percentage float64, correct, incorrect, totalTimeSeconds int, completedAt time.Time) *SessionEvent {
	return newEvent(EventSessionCompleted, SessionCompletedEvent{
		SessionID:        sessionID,
		QuizID:           quizID,
		ClassID:          classID,
		StudentID:        studentID,
		Score:            score,
		PercentageScore:  percentage,
		CorrectCount:     correct,
		IncorrectCount:   incorrect,
		TotalTimeSeconds: totalTimeSeconds,
		CompletedAt:      completedAt,
	})
}

func NewSessionAbandonedEvent(sessionID, quizID, classID, studentID string, questionsAnswered int, abandonedAt time.Time) *SessionEvent {
	return newEvent(EventSessionAbandoned, SessionAbandonedEvent{
		SessionID:         sessionID,
		QuizID:            quizID,
		ClassID:           classID,
		StudentID:         studentID,
		QuestionsAnswered: questionsAnswered,
		AbandonedAt:       abandonedAt,
	})
}

func NewProgressRecomputedEvent(studentID, classID string, gamesPlayed int, averageScore float64, longestStreak int, recomputedAt time.Time) *SessionEvent {
	return newEvent(EventProgressRecomputed, ProgressRecomputedEvent{
		StudentID:        studentID,
		ClassID:          classID,
		TotalGamesPlayed: gamesPlayed,
		AverageScore:     averageScore,
		LongestStreak:    longestStreak,
		RecomputedAt:     recomputedAt,
	})
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "session-service",
		Version:   "1.0",
		Data:      data,
	}
}
