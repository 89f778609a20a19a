package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuestionType(t *testing.T) {
	for _, valid := range []string{"multiple_choice", "true_false", "fill_blank", "matching"} {
		parsed, err := ParseQuestionType(valid)
		assert.NoError(t, err)
		assert.Equal(t, QuestionType(valid), parsed)
	}

	for _, invalid := range []string{"", "essay", "MULTIPLE_CHOICE", "multiple-choice"} {
		_, err := ParseQuestionType(invalid)
		assert.ErrorIs(t, err, ErrUnknownQuestionType, "input %q", invalid)
	}
}

func TestParseSessionStatus(t *testing.T) {
	for _, valid := range []string{"in_progress", "paused", "completed", "abandoned"} {
		parsed, err := ParseSessionStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, SessionStatus(valid), parsed)
	}

	_, err := ParseSessionStatus("active")
	assert.ErrorIs(t, err, ErrUnknownSessionStatus)
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, SessionInProgress.Terminal())
	assert.False(t, SessionPaused.Terminal())
	assert.True(t, SessionCompleted.Terminal())
	assert.True(t, SessionAbandoned.Terminal())
}

func TestParseConfidenceLevel(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high"} {
		parsed, err := ParseConfidenceLevel(valid)
		assert.NoError(t, err)
		assert.Equal(t, ConfidenceLevel(valid), parsed)
	}

	_, err := ParseConfidenceLevel("very_high")
	assert.ErrorIs(t, err, ErrUnknownConfidenceLevel)
}

func TestQuizDefinitionHelpers(t *testing.T) {
	quiz := &QuizDefinition{
		ID:        "quiz-1",
		Published: true,
		Active:    true,
		Questions: []Question{
			{ID: "q1", Points: 10},
			{ID: "q2", Points: 15},
			{ID: "q3", Points: 10},
		},
	}

	assert.True(t, quiz.Playable())
	assert.Equal(t, 35, quiz.TotalPoints())
	assert.Equal(t, "q2", quiz.QuestionAt(1).ID)
	assert.Nil(t, quiz.QuestionAt(3))
	assert.Nil(t, quiz.QuestionAt(-1))

	quiz.Published = false
	assert.False(t, quiz.Playable())

	quiz.Published = true
	quiz.Questions = nil
	assert.False(t, quiz.Playable())
}

func TestPlaySessionSnapshotRoundTrip(t *testing.T) {
	quiz := &QuizDefinition{
		ID:        "quiz-1",
		Title:     "Fractions",
		Published: true,
		Active:    true,
		Questions: []Question{
			{ID: "q1", Type: MultipleChoice, Points: 10, Options: []string{"a", "b"}, CorrectAnswerIndex: 1},
		},
	}

	session := &PlaySession{ID: "session-1"}
	assert.NoError(t, session.SetSnapshot(quiz))

	restored, err := session.Snapshot()
	assert.NoError(t, err)
	assert.Equal(t, quiz.ID, restored.ID)
	assert.Equal(t, quiz.Questions[0].CorrectAnswerIndex, restored.Questions[0].CorrectAnswerIndex)
}

func TestPlaySessionPercentageScore(t *testing.T) {
	session := &PlaySession{Score: 20, TotalPoints: 35}
	assert.InDelta(t, 57.14, session.PercentageScore(), 0.01)

	// Guard against empty quizzes.
	session = &PlaySession{Score: 0, TotalPoints: 0}
	assert.Equal(t, 0.0, session.PercentageScore())
}

func TestPlaySessionCompleted(t *testing.T) {
	session := &PlaySession{CurrentQuestionIndex: 2, TotalQuestions: 3}
	assert.False(t, session.Completed())

	session.CurrentQuestionIndex = 3
	assert.True(t, session.Completed())
}
