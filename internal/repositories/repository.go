package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned when an optimistic session update observes a
// stale version; callers should re-read and retry.
var ErrVersionConflict = errors.New("session was modified concurrently")

// Repository is the facade over the engine's persistence collaborators.
type Repository interface {
	Session() SessionRepository
	Answer() AnswerRepository
	Quiz() QuizRepository
	Progress() ProgressRepository
}

// TransactionRepository is implemented by repositories that can scope all
// sub-repositories to a single transaction. Begin returns a Repository whose
// writes are atomic until Commit or Rollback.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (Repository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// IsNotFoundError reports whether err is the store's "no such record" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
