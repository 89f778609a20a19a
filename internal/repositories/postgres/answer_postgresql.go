package postgres

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a AnswerPostgreSQL) Create(ctx context.Context, answer *models.Answer) error {
	return a.db.WithContext(ctx).Create(answer).Error
}

func (a AnswerPostgreSQL) HasAnswer(ctx context.Context, sessionID, questionID string) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a AnswerPostgreSQL) ListByStudentAndClass(ctx context.Context, studentID, classID string) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := a.db.WithContext(ctx).
		Joins("JOIN play_sessions ON play_sessions.id = session_answers.session_id").
		Where("play_sessions.student_id = ? AND play_sessions.class_id = ? AND play_sessions.status = ?",
			studentID, classID, models.SessionCompleted).
		Order("session_answers.answered_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a AnswerPostgreSQL) GetQuestionStats(ctx context.Context, quizID string) ([]*repositories.QuestionStats, error) {
	var rows []struct {
		QuestionID string
		Total      int64
		Correct    int64
		AvgTime    float64
		Hints      int64
	}

	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select(`session_answers.question_id AS question_id,
			COUNT(*) AS total,
			SUM(CASE WHEN session_answers.is_correct THEN 1 ELSE 0 END) AS correct,
			COALESCE(AVG(session_answers.time_taken_seconds), 0) AS avg_time,
			SUM(CASE WHEN session_answers.hint_used THEN 1 ELSE 0 END) AS hints`).
		Joins("JOIN play_sessions ON play_sessions.id = session_answers.session_id").
		Where("play_sessions.quiz_id = ?", quizID).
		Group("session_answers.question_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]*repositories.QuestionStats, len(rows))
	for i, row := range rows {
		stat := &repositories.QuestionStats{
			QuestionID:         row.QuestionID,
			TotalAnswers:       int(row.Total),
			CorrectAnswers:     int(row.Correct),
			AverageTimeSeconds: row.AvgTime,
		}
		if row.Total > 0 {
			stat.AccuracyRate = float64(row.Correct) / float64(row.Total)
			stat.HintRate = float64(row.Hints) / float64(row.Total)
		}
		stats[i] = stat
	}
	return stats, nil
}
