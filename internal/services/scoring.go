package services

import (
	"sort"
	"strings"

	"github.com/eduplay/session-service/internal/models"
)

// ScoreResult is the outcome of checking one submission against one question.
type ScoreResult struct {
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
}

// CheckAnswer validates a submission against a question and returns the
// resulting score. Incorrect answers always award zero points; the session
// score is therefore monotonically non-decreasing.
func CheckAnswer(question *models.Question, submission *models.AnswerSubmission) (ScoreResult, error) {
	var correct bool
	var err error

	switch question.Type {
	case models.MultipleChoice:
		correct, err = checkMultipleChoice(question, submission)
	case models.TrueFalse:
		correct, err = checkTrueFalse(question, submission)
	case models.FillBlank:
		correct = checkFillBlank(question, submission)
	case models.Matching:
		correct = checkMatching(question, submission)
	default:
		return ScoreResult{}, models.ErrUnknownQuestionType
	}
	if err != nil {
		return ScoreResult{}, err
	}

	result := ScoreResult{IsCorrect: correct}
	if correct {
		result.PointsAwarded = question.Points
	}
	return result, nil
}

func checkMultipleChoice(question *models.Question, submission *models.AnswerSubmission) (bool, error) {
	if submission.SelectedAnswerIndex == nil {
		return false, NewValidationError("selected_answer_index", "selected answer index is required for multiple choice questions", nil)
	}
	idx := *submission.SelectedAnswerIndex
	if idx < 0 || idx >= len(question.Options) {
		return false, NewValidationError("selected_answer_index", "selected answer index is out of range", idx)
	}
	return idx == question.CorrectAnswerIndex, nil
}

func checkTrueFalse(question *models.Question, submission *models.AnswerSubmission) (bool, error) {
	if submission.SelectedAnswerIndex == nil {
		return false, NewValidationError("selected_answer_index", "selected answer index is required for true/false questions", nil)
	}
	idx := *submission.SelectedAnswerIndex
	if idx != 0 && idx != 1 {
		return false, NewValidationError("selected_answer_index", "true/false answers must be 0 or 1", idx)
	}
	return idx == question.CorrectAnswerIndex, nil
}

// Fill-in-the-blank comparison is case-insensitive and ignores surrounding
// whitespace. An empty submission never matches.
func checkFillBlank(question *models.Question, submission *models.AnswerSubmission) bool {
	given := strings.ToLower(strings.TrimSpace(submission.TextAnswer))
	if given == "" {
		return false
	}
	for _, accepted := range question.AcceptedAnswers {
		if given == strings.ToLower(strings.TrimSpace(accepted)) {
			return true
		}
	}
	return false
}

// Matching requires every pair to be present and correctly matched; order of
// pairs does not matter.
func checkMatching(question *models.Question, submission *models.AnswerSubmission) bool {
	if len(submission.Pairs) != len(question.Pairs) {
		return false
	}

	expected := make(map[string]string, len(question.Pairs))
	for _, pair := range question.Pairs {
		expected[pair.Left] = pair.Right
	}

	seen := make(map[string]bool, len(submission.Pairs))
	for _, pair := range submission.Pairs {
		right, ok := expected[pair.Left]
		if !ok || right != pair.Right {
			return false
		}
		if seen[pair.Left] {
			return false
		}
		seen[pair.Left] = true
	}
	return true
}

// QuestionView is the client-facing projection of a question. It never
// carries the correct answer or the accepted answer list.
type QuestionView struct {
	ID               string              `json:"id"`
	Index            int                 `json:"index"`
	Type             models.QuestionType `json:"type"`
	Prompt           string              `json:"prompt"`
	Points           int                 `json:"points"`
	Options          []string            `json:"options,omitempty"`
	LeftItems        []string            `json:"left_items,omitempty"`
	RightItems       []string            `json:"right_items,omitempty"`
	TimeLimitSeconds *int                `json:"time_limit_seconds,omitempty"`
	Hint             string              `json:"hint,omitempty"`
}

// NewQuestionView builds the sanitized view of the question at the given
// index. For matching questions the two columns are exposed separately so the
// client cannot infer the pairing.
func NewQuestionView(question *models.Question, index int) *QuestionView {
	view := &QuestionView{
		ID:               question.ID,
		Index:            index,
		Type:             question.Type,
		Prompt:           question.Prompt,
		Points:           question.Points,
		Options:          question.Options,
		TimeLimitSeconds: question.TimeLimitSeconds,
		Hint:             question.Hint,
	}

	if question.Type == models.Matching {
		view.LeftItems = make([]string, len(question.Pairs))
		view.RightItems = make([]string, len(question.Pairs))
		for i, pair := range question.Pairs {
			view.LeftItems[i] = pair.Left
			view.RightItems[i] = pair.Right
		}
		// The right column must not mirror pair order, otherwise the view
		// hands out the answer key by index alignment.
		sort.Strings(view.RightItems)
	}

	return view
}
