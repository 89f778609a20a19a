package repositories

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
)

// AnswerRepository persists immutable answer records. There is no Update or
// Delete: an answer is written exactly once and removed only by the session
// cascade.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error

	// HasAnswer reports whether the session already holds an answer for the
	// question, the store-level backstop for one answer per question.
	HasAnswer(ctx context.Context, sessionID, questionID string) (bool, error)

	// ListByStudentAndClass returns the student's answers across all
	// completed sessions of the class in chronological order, the scan order
	// for streak computation.
	ListByStudentAndClass(ctx context.Context, studentID, classID string) ([]*models.Answer, error)

	// GetQuestionStats aggregates answers grouped by question id across all
	// sessions of the quiz.
	GetQuestionStats(ctx context.Context, quizID string) ([]*QuestionStats, error)
}
