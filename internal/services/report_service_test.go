package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

func TestExportClassResultsCSV(t *testing.T) {
	repo := NewMockRepository()
	service := NewReportService(repo, testLogger())

	endedAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	sessions := []*models.PlaySession{
		{
			ID:               "s1",
			StudentID:        "student-1",
			QuizID:           "quiz-1",
			Status:           models.SessionCompleted,
			Score:            20,
			TotalPoints:      35,
			CorrectCount:     2,
			IncorrectCount:   1,
			StartTime:        endedAt.Add(-2 * time.Minute),
			EndTime:          &endedAt,
			TotalTimeSeconds: intPtr(120),
		},
	}
	repo.SessionRepo.On("GetByClass", mock.Anything, "class-1", mock.AnythingOfType("repositories.SessionFilters")).
		Return(sessions, int64(1), nil)

	data, err := service.ExportClassResultsCSV(context.Background(), "class-1")
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "Session ID", records[0][0])
	assert.Equal(t, "s1", records[1][0])
	assert.Equal(t, "57.14", records[1][6])
}

func TestGetClassSummary(t *testing.T) {
	repo := NewMockRepository()
	service := NewReportService(repo, testLogger())

	repo.SessionRepo.On("GetClassStats", mock.Anything, "class-1").Return(&repositories.ClassSessionStats{
		TotalSessions:     10,
		CompletedSessions: 7,
		AbandonedSessions: 2,
		AverageScore:      64.5,
		AverageTimeSpent:  180,
	}, nil)

	summary, err := service.GetClassSummary(context.Background(), "class-1")

	assert.NoError(t, err)
	assert.Equal(t, "class-1", summary.ClassID)
	assert.Equal(t, 7, summary.CompletedSessions)
	assert.InDelta(t, 64.5, summary.AverageScore, 0.001)
}
