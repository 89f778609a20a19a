package repositories

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
)

// SessionRepository persists play sessions.
//
// Update performs an optimistic version check: the write succeeds only when
// the stored row still carries the version the session was read with, which
// together with the service's per-session lock gives the at-most-one-in-flight
// submission guarantee.
type SessionRepository interface {
	Create(ctx context.Context, session *models.PlaySession) error
	GetByID(ctx context.Context, id string) (*models.PlaySession, error)
	GetByIDWithAnswers(ctx context.Context, id string) (*models.PlaySession, error)
	Update(ctx context.Context, session *models.PlaySession) error

	// GetActiveSession returns the single in_progress or paused session for
	// (studentID, quizID), or nil when none exists.
	GetActiveSession(ctx context.Context, studentID, quizID string) (*models.PlaySession, error)

	// ListCompleted returns the student's completed sessions restricted to
	// quizzes of the given class, ordered by end time ascending.
	ListCompleted(ctx context.Context, studentID, classID string) ([]*models.PlaySession, error)

	List(ctx context.Context, filters SessionFilters) ([]*models.PlaySession, int64, error)
	GetByClass(ctx context.Context, classID string, filters SessionFilters) ([]*models.PlaySession, int64, error)
	GetClassStats(ctx context.Context, classID string) (*ClassSessionStats, error)
}
