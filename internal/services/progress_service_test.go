package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/eduplay/session-service/internal/events"
	"github.com/eduplay/session-service/internal/models"
)

func completedSession(id string, score, totalPoints int, endedAt time.Time) *models.PlaySession {
	return &models.PlaySession{
		ID:          id,
		StudentID:   "student-1",
		ClassID:     "class-1",
		Status:      models.SessionCompleted,
		Score:       score,
		TotalPoints: totalPoints,
		EndTime:     &endedAt,
	}
}

func TestComputeProgress_Empty(t *testing.T) {
	summary := ComputeProgress(nil, nil)

	assert.Equal(t, 0, summary.TotalGamesPlayed)
	assert.Equal(t, 0.0, summary.AverageScore)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Nil(t, summary.LastActivity)
}

func TestComputeProgress_Aggregates(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	sessions := []*models.PlaySession{
		completedSession("s1", 20, 35, first),  // 57.14%
		completedSession("s2", 30, 40, second), // 75%
	}
	answers := []*models.Answer{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: true},
		{QuestionID: "q3", IsCorrect: false},
		{QuestionID: "q4", IsCorrect: true},
		{QuestionID: "q5", IsCorrect: true},
		{QuestionID: "q6", IsCorrect: true},
	}

	summary := ComputeProgress(sessions, answers)

	assert.Equal(t, 2, summary.TotalGamesPlayed)
	assert.Equal(t, 6, summary.TotalQuestionsAnswered)
	assert.Equal(t, 5, summary.TotalCorrectAnswers)
	assert.InDelta(t, 66.07, summary.AverageScore, 0.01)
	assert.InDelta(t, 75.0, summary.BestScore, 0.01)
	assert.Equal(t, 3, summary.CurrentStreak)
	assert.Equal(t, 3, summary.LongestStreak)
	assert.Equal(t, second, *summary.LastActivity)
}

func TestComputeProgress_StreakResetsOnMiss(t *testing.T) {
	answers := []*models.Answer{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: true},
		{QuestionID: "q3", IsCorrect: true},
		{QuestionID: "q4", IsCorrect: false},
		{QuestionID: "q5", IsCorrect: true},
	}

	summary := ComputeProgress(nil, answers)

	assert.Equal(t, 3, summary.LongestStreak)
	assert.Equal(t, 1, summary.CurrentStreak)
}

func TestComputeProgress_CommonMistakes(t *testing.T) {
	answers := []*models.Answer{
		{QuestionID: "q1", IsCorrect: false},
		{QuestionID: "q1", IsCorrect: false},
		{QuestionID: "q2", IsCorrect: false},
		{QuestionID: "q1", IsCorrect: false},
	}

	summary := ComputeProgress(nil, answers)

	// Only questions missed at least twice qualify, each listed once.
	assert.Equal(t, []string{"q1"}, summary.CommonMistakes)
}

func TestComputeProgress_TopicClassification(t *testing.T) {
	endedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	quiz := &models.QuizDefinition{
		ID: "quiz-1",
		Questions: []models.Question{
			{ID: "q1", Topic: "fractions", Points: 10},
			{ID: "q2", Topic: "fractions", Points: 10},
			{ID: "q3", Topic: "decimals", Points: 10},
			{ID: "q4", Topic: "geometry", Points: 10},
		},
	}
	session := completedSession("s1", 30, 40, endedAt)
	if err := session.SetSnapshot(quiz); err != nil {
		t.Fatalf("failed to set snapshot: %v", err)
	}

	answers := []*models.Answer{
		// fractions: 3 of 3 correct.
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: true},
		{QuestionID: "q1", IsCorrect: true},
		// decimals: 1 of 3 correct.
		{QuestionID: "q3", IsCorrect: false},
		{QuestionID: "q3", IsCorrect: false},
		{QuestionID: "q3", IsCorrect: true},
		// geometry: only one answer, too few to classify.
		{QuestionID: "q4", IsCorrect: false},
	}

	summary := ComputeProgress([]*models.PlaySession{session}, answers)

	assert.Equal(t, []string{"fractions"}, summary.PreferredTopics)
	assert.Equal(t, []string{"decimals"}, summary.ImprovementAreas)
	assert.Equal(t, []string{"q3"}, summary.CommonMistakes)
}

func TestComputeProgress_Idempotent(t *testing.T) {
	endedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.PlaySession{completedSession("s1", 20, 35, endedAt)}
	answers := []*models.Answer{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: false},
	}

	assert.Equal(t, ComputeProgress(sessions, answers), ComputeProgress(sessions, answers))
}

func TestRecompute_PersistsAndPublishes(t *testing.T) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewProgressService(repo, publisher, testLogger())

	endedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.SessionRepo.On("ListCompleted", mock.Anything, "student-1", "class-1").
		Return([]*models.PlaySession{completedSession("s1", 20, 35, endedAt)}, nil)
	repo.AnswerRepo.On("ListByStudentAndClass", mock.Anything, "student-1", "class-1").
		Return([]*models.Answer{
			{QuestionID: "q1", IsCorrect: true},
			{QuestionID: "q2", IsCorrect: false},
			{QuestionID: "q3", IsCorrect: true},
		}, nil)
	repo.ProgressRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.ProgressMetrics")).Return(nil)

	metrics, err := service.Recompute(context.Background(), "student-1", "class-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.TotalGamesPlayed)
	assert.Equal(t, 3, metrics.TotalQuestionsAnswered)
	assert.Equal(t, 2, metrics.TotalCorrectAnswers)
	assert.InDelta(t, 57.14, metrics.AverageScore, 0.01)
	assert.Equal(t, 1, metrics.CurrentStreak)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventProgressRecomputed, published[0].Type)
	repo.ProgressRepo.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewProgressService(repo, publisher, testLogger())

	repo.ProgressRepo.On("GetByStudentAndClass", mock.Anything, "student-1", "class-1").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Get(context.Background(), "student-1", "class-1")

	assert.ErrorIs(t, err, ErrProgressNotFound)
}
