package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduplay/session-service/internal/models"
)

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	question := &models.Question{
		ID:                 "q1",
		Type:               models.MultipleChoice,
		Prompt:             "Pick one",
		Points:             10,
		Options:            []string{"a", "b", "c"},
		CorrectAnswerIndex: 1,
	}

	result, err := CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", SelectedAnswerIndex: intPtr(1)})
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 10, result.PointsAwarded)

	result, err = CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", SelectedAnswerIndex: intPtr(0)})
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)

	// Missing index is a validation error, not an incorrect answer.
	_, err = CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1"})
	assert.Error(t, err)

	// Out-of-range index as well.
	_, err = CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", SelectedAnswerIndex: intPtr(7)})
	assert.Error(t, err)
}

func TestCheckAnswer_TrueFalse(t *testing.T) {
	question := &models.Question{
		ID:                 "q1",
		Type:               models.TrueFalse,
		Points:             5,
		Options:            []string{"True", "False"},
		CorrectAnswerIndex: 1,
	}

	result, err := CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", SelectedAnswerIndex: intPtr(1)})
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)

	_, err = CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", SelectedAnswerIndex: intPtr(2)})
	assert.Error(t, err)
}

func TestCheckAnswer_FillBlank(t *testing.T) {
	question := &models.Question{
		ID:              "q1",
		Type:            models.FillBlank,
		Points:          15,
		AcceptedAnswers: []string{"0.5", ".5"},
	}

	cases := []struct {
		answer  string
		correct bool
	}{
		{"0.5", true},
		{" 0.5 ", true},
		{".5", true},
		{"0.50", false},
		{"", false},
	}

	for _, tc := range cases {
		result, err := CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", TextAnswer: tc.answer})
		assert.NoError(t, err)
		assert.Equal(t, tc.correct, result.IsCorrect, "answer %q", tc.answer)
	}
}

func TestCheckAnswer_FillBlankCaseInsensitive(t *testing.T) {
	question := &models.Question{
		ID:              "q1",
		Type:            models.FillBlank,
		Points:          5,
		AcceptedAnswers: []string{"Paris"},
	}

	result, err := CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1", TextAnswer: "paris"})
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
}

func TestCheckAnswer_Matching(t *testing.T) {
	question := &models.Question{
		ID:     "q1",
		Type:   models.Matching,
		Points: 20,
		Pairs: []models.MatchPair{
			{Left: "1/2", Right: "0.5"},
			{Left: "1/4", Right: "0.25"},
		},
	}

	// Order of submitted pairs does not matter.
	result, err := CheckAnswer(question, &models.AnswerSubmission{
		QuestionID: "q1",
		Pairs: []models.MatchPair{
			{Left: "1/4", Right: "0.25"},
			{Left: "1/2", Right: "0.5"},
		},
	})
	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 20, result.PointsAwarded)

	// One wrong pairing fails the whole question.
	result, err = CheckAnswer(question, &models.AnswerSubmission{
		QuestionID: "q1",
		Pairs: []models.MatchPair{
			{Left: "1/2", Right: "0.25"},
			{Left: "1/4", Right: "0.5"},
		},
	})
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)

	// Incomplete submissions fail.
	result, err = CheckAnswer(question, &models.AnswerSubmission{
		QuestionID: "q1",
		Pairs:      []models.MatchPair{{Left: "1/2", Right: "0.5"}},
	})
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)

	// Duplicated left side cannot sneak past the count check.
	result, err = CheckAnswer(question, &models.AnswerSubmission{
		QuestionID: "q1",
		Pairs: []models.MatchPair{
			{Left: "1/2", Right: "0.5"},
			{Left: "1/2", Right: "0.5"},
		},
	})
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestCheckAnswer_UnknownType(t *testing.T) {
	question := &models.Question{ID: "q1", Type: "essay", Points: 10}

	_, err := CheckAnswer(question, &models.AnswerSubmission{QuestionID: "q1"})
	assert.ErrorIs(t, err, models.ErrUnknownQuestionType)
}

func TestNewQuestionView_HidesAnswerKey(t *testing.T) {
	question := &models.Question{
		ID:                 "q1",
		Type:               models.Matching,
		Prompt:             "Match fractions to decimals",
		Points:             20,
		CorrectAnswerIndex: 1,
		AcceptedAnswers:    []string{"secret"},
		Pairs: []models.MatchPair{
			{Left: "1/2", Right: "0.5"},
			{Left: "1/4", Right: "0.25"},
		},
	}

	view := NewQuestionView(question, 2)

	assert.Equal(t, "q1", view.ID)
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, []string{"1/2", "1/4"}, view.LeftItems)
	assert.ElementsMatch(t, []string{"0.5", "0.25"}, view.RightItems)
}

func TestNewQuestionView_MatchingColumnsCarryNoPairing(t *testing.T) {
	question := &models.Question{
		ID:     "q1",
		Type:   models.Matching,
		Points: 20,
		Pairs: []models.MatchPair{
			{Left: "1/2", Right: "0.5"},
			{Left: "3/4", Right: "0.75"},
			{Left: "1/4", Right: "0.25"},
		},
	}

	view := NewQuestionView(question, 0)

	// Pairing the columns by index must not reconstruct the answer key.
	submission := &models.AnswerSubmission{QuestionID: "q1"}
	for i := range view.LeftItems {
		submission.Pairs = append(submission.Pairs, models.MatchPair{
			Left:  view.LeftItems[i],
			Right: view.RightItems[i],
		})
	}

	result, err := CheckAnswer(question, submission)
	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
}
