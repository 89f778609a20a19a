package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownConfidenceLevel is returned when a confidence string is not part
// of the closed enum set.
var ErrUnknownConfidenceLevel = errors.New("unknown confidence level")

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ParseConfidenceLevel maps raw input onto the closed set of confidence levels.
func ParseConfidenceLevel(s string) (ConfidenceLevel, error) {
	switch ConfidenceLevel(s) {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return ConfidenceLevel(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConfidenceLevel, s)
	}
}

// Answer records a single scored submission within a session. Created exactly
// once per question per session and immutable after creation; it is removed
// only when its owning session is deleted.
type Answer struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;index"`
	QuestionID    string `json:"question_id" gorm:"not null;size:36;index"`
	QuestionIndex int    `json:"question_index" gorm:"not null"`

	SelectedAnswerIndex *int   `json:"selected_answer_index,omitempty"`
	TextAnswer          string `json:"text_answer,omitempty"`
	IsCorrect           bool   `json:"is_correct" gorm:"not null"`
	PointsAwarded       int    `json:"points_awarded" gorm:"not null"`

	TimeTakenSeconds int              `json:"time_taken_seconds"`
	Attempts         int              `json:"attempts" gorm:"not null;default:1"`
	HintUsed         bool             `json:"hint_used" gorm:"not null;default:false"`
	ConfidenceLevel  *ConfidenceLevel `json:"confidence_level,omitempty" gorm:"size:10"`

	AnsweredAt time.Time `json:"answered_at" gorm:"not null;index"`
}

func (Answer) TableName() string {
	return "session_answers"
}

// AnswerSubmission is the client-supplied payload for one answer. Which
// fields are meaningful depends on the current question's type: choice
// questions read SelectedAnswerIndex, fill_blank reads TextAnswer, matching
// reads Pairs.
type AnswerSubmission struct {
	QuestionID          string      `json:"question_id" validate:"required"`
	SelectedAnswerIndex *int        `json:"selected_answer_index,omitempty" validate:"omitempty,min=0"`
	TextAnswer          string      `json:"text_answer,omitempty"`
	Pairs               []MatchPair `json:"pairs,omitempty"`

	TimeTakenSeconds int              `json:"time_taken_seconds" validate:"min=0"`
	HintUsed         bool             `json:"hint_used"`
	ConfidenceLevel  *ConfidenceLevel `json:"confidence_level,omitempty" validate:"omitempty,confidence_level"`
}
