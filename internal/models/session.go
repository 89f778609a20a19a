package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ErrUnknownSessionStatus is returned when a status string is not part of the
// closed enum set.
var ErrUnknownSessionStatus = errors.New("unknown session status")

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionPaused     SessionStatus = "paused"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// ParseSessionStatus maps raw input onto the closed set of session statuses.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case SessionInProgress, SessionPaused, SessionCompleted, SessionAbandoned:
		return SessionStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSessionStatus, s)
	}
}

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// PlaySession is one student's attempt at playing through a quiz.
//
// The cursor (CurrentQuestionIndex) is authoritative for which question the
// session expects an answer for; it never exceeds TotalQuestions. Score is
// monotonically non-decreasing while in progress. The quiz definition is
// frozen into QuizSnapshot at creation so author edits cannot shift the
// cursor or the answer key mid-session.
//
// The partial unique index on (student_id, quiz_id) admits at most one
// non-terminal session per student and quiz, so concurrent starts cannot
// create duplicates even across instances.
type PlaySession struct {
	ID        string        `json:"id" gorm:"primaryKey;size:36"`
	StudentID string        `json:"student_id" gorm:"not null;size:255;index:idx_sessions_student_quiz;uniqueIndex:uidx_sessions_active,where:status = 'in_progress' OR status = 'paused'" validate:"required"`
	QuizID    string        `json:"quiz_id" gorm:"not null;size:36;index:idx_sessions_student_quiz;uniqueIndex:uidx_sessions_active,where:status = 'in_progress' OR status = 'paused'" validate:"required"`
	ClassID   string        `json:"class_id" gorm:"not null;size:36;index"`
	Status    SessionStatus `json:"status" gorm:"not null;default:in_progress;index"`

	CurrentQuestionIndex int `json:"current_question_index" gorm:"not null;default:0"`
	Score                int `json:"score" gorm:"not null;default:0"`
	TotalQuestions       int `json:"total_questions" gorm:"not null"`
	TotalPoints          int `json:"total_points" gorm:"not null"`
	CorrectCount         int `json:"correct_count" gorm:"not null;default:0"`
	IncorrectCount       int `json:"incorrect_count" gorm:"not null;default:0"`
	HintsUsed            int `json:"hints_used" gorm:"not null;default:0"`

	StartTime        time.Time  `json:"start_time" gorm:"not null"`
	EndTime          *time.Time `json:"end_time"`
	TotalTimeSeconds *int       `json:"total_time_seconds"`

	// Frozen copy of the QuizDefinition the session plays against.
	QuizSnapshot datatypes.JSON `json:"-" gorm:"type:jsonb;not null"`

	// Optimistic concurrency control; bumped on every write.
	Version int `json:"-" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (PlaySession) TableName() string {
	return "play_sessions"
}

// Snapshot decodes the frozen quiz definition.
func (s *PlaySession) Snapshot() (*QuizDefinition, error) {
	var def QuizDefinition
	if err := json.Unmarshal(s.QuizSnapshot, &def); err != nil {
		return nil, fmt.Errorf("corrupt quiz snapshot on session %s: %w", s.ID, err)
	}
	return &def, nil
}

// SetSnapshot encodes and stores the frozen quiz definition.
func (s *PlaySession) SetSnapshot(def *QuizDefinition) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode quiz snapshot: %w", err)
	}
	s.QuizSnapshot = raw
	return nil
}

// PercentageScore expresses the score relative to the quiz's total points,
// comparable across quizzes with different point scales.
func (s *PlaySession) PercentageScore() float64 {
	if s.TotalPoints == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalPoints) * 100
}

// Completed reports whether the cursor has consumed every question.
func (s *PlaySession) Completed() bool {
	return s.CurrentQuestionIndex == s.TotalQuestions
}
