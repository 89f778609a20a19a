package models

import (
	"errors"
	"fmt"
)

// ErrUnknownQuestionType is returned when a question type string is not part
// of the closed enum set.
var ErrUnknownQuestionType = errors.New("unknown question type")

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
)

// ParseQuestionType maps raw input onto the closed set of question types.
// Unrecognized input is a typed error, never coerced.
func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(s) {
	case MultipleChoice, TrueFalse, FillBlank, Matching:
		return QuestionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
	}
}

// MatchPair is one left/right pairing in a matching question.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is one entry in a quiz definition. The Type tag selects which
// fields carry the answer key: choice types use Options/CorrectAnswerIndex,
// fill_blank uses AcceptedAnswers, matching uses Pairs.
type Question struct {
	ID     string       `json:"id" validate:"required"`
	Type   QuestionType `json:"type" validate:"required,question_type"`
	Prompt string       `json:"prompt" validate:"required"`
	Topic  string       `json:"topic,omitempty"`
	Points int          `json:"points" validate:"required,min=1,max=100"`

	// Choice questions (multiple_choice, true_false)
	Options            []string `json:"options,omitempty"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`

	// Fill-in-the-blank questions
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`

	// Matching questions
	Pairs []MatchPair `json:"pairs,omitempty"`

	TimeLimitSeconds *int   `json:"time_limit_seconds,omitempty" validate:"omitempty,min=5,max=3600"`
	Hint             string `json:"hint,omitempty"`
}

// QuizDefinition is the read-only input to a play session: an ordered list of
// questions. It is snapshotted into the session at start time so that edits
// to the source quiz never affect an in-flight session.
type QuizDefinition struct {
	ID        string     `json:"id"`
	ClassID   string     `json:"class_id"`
	Title     string     `json:"title"`
	Published bool       `json:"published"`
	Active    bool       `json:"active"`
	Questions []Question `json:"questions"`
}

// Playable reports whether the quiz is eligible to be played at all.
// Enrollment checks belong to the identity layer, not the engine.
func (d *QuizDefinition) Playable() bool {
	return d.Published && d.Active && len(d.Questions) > 0
}

// TotalPoints is the maximum score achievable on this quiz.
func (d *QuizDefinition) TotalPoints() int {
	total := 0
	for _, q := range d.Questions {
		total += q.Points
	}
	return total
}

// QuestionAt returns the question at the cursor position, or nil when the
// cursor is out of range.
func (d *QuizDefinition) QuestionAt(index int) *Question {
	if index < 0 || index >= len(d.Questions) {
		return nil
	}
	return &d.Questions[index]
}
