package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

// ReportService produces teacher-facing exports and summaries over the
// sessions of a class.
type ReportService interface {
	GetClassSummary(ctx context.Context, classID string) (*ClassSummaryResponse, error)
	ExportClassResultsCSV(ctx context.Context, classID string) ([]byte, error)
	ExportClassResultsExcel(ctx context.Context, classID string) ([]byte, error)
}

type ClassSummaryResponse struct {
	ClassID           string  `json:"class_id"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AbandonedSessions int     `json:"abandoned_sessions"`
	AverageScore      float64 `json:"average_score"`
	AverageTimeSpent  int     `json:"average_time_spent_seconds"`
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger.With("service", "report"),
	}
}

func (s *reportService) GetClassSummary(ctx context.Context, classID string) (*ClassSummaryResponse, error) {
	stats, err := s.repo.Session().GetClassStats(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return &ClassSummaryResponse{
		ClassID:           classID,
		TotalSessions:     stats.TotalSessions,
		CompletedSessions: stats.CompletedSessions,
		AbandonedSessions: stats.AbandonedSessions,
		AverageScore:      stats.AverageScore,
		AverageTimeSpent:  stats.AverageTimeSpent,
	}, nil
}

var resultExportHeaders = []string{
	"Session ID", "Student ID", "Quiz ID", "Status",
	"Score", "Total Points", "Percentage",
	"Correct", "Incorrect", "Hints Used",
	"Started At", "Finished At", "Time (s)",
}

func (s *reportService) ExportClassResultsCSV(ctx context.Context, classID string) ([]byte, error) {
	sessions, err := s.completedSessions(ctx, classID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(resultExportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, session := range sessions {
		if err := writer.Write(sessionToExportRow(session)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *reportService) ExportClassResultsExcel(ctx context.Context, classID string) ([]byte, error) {
	sessions, err := s.completedSessions(ctx, classID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range resultExportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, session := range sessions {
		row := sessionToExportRow(session)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported class results",
		"class_id", classID,
		"sessions", len(sessions),
		"format", "xlsx")

	return buf.Bytes(), nil
}

func (s *reportService) completedSessions(ctx context.Context, classID string) ([]*models.PlaySession, error) {
	status := models.SessionCompleted
	sessions, _, err := s.repo.Session().GetByClass(ctx, classID, repositories.SessionFilters{
		Status:    &status,
		SortBy:    "start_time",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return sessions, nil
}

func sessionToExportRow(session *models.PlaySession) []string {
	finishedAt := ""
	if session.EndTime != nil {
		finishedAt = session.EndTime.Format(time.RFC3339)
	}
	totalTime := ""
	if session.TotalTimeSeconds != nil {
		totalTime = strconv.Itoa(*session.TotalTimeSeconds)
	}
	return []string{
		session.ID,
		session.StudentID,
		session.QuizID,
		string(session.Status),
		strconv.Itoa(session.Score),
		strconv.Itoa(session.TotalPoints),
		fmt.Sprintf("%.2f", session.PercentageScore()),
		strconv.Itoa(session.CorrectCount),
		strconv.Itoa(session.IncorrectCount),
		strconv.Itoa(session.HintsUsed),
		session.StartTime.Format(time.RFC3339),
		finishedAt,
		totalTime,
	}
}
