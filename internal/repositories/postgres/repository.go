package postgres

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB

	// Optional override for quiz reads, used to put a cache in front of the
	// quiz_definitions table.
	quiz repositories.QuizRepository
}

// NewRepository builds the gorm-backed repository facade. The returned value
// also implements repositories.TransactionRepository.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{db: db}
}

// NewRepositoryWithQuizSource builds the facade with quiz definition reads
// served by the given repository instead of the database directly.
func NewRepositoryWithQuizSource(db *gorm.DB, quiz repositories.QuizRepository) repositories.Repository {
	return &repository{db: db, quiz: quiz}
}

func (r *repository) Session() repositories.SessionRepository {
	return NewSessionPostgreSQL(r.db)
}

func (r *repository) Answer() repositories.AnswerRepository {
	return NewAnswerPostgreSQL(r.db)
}

func (r *repository) Quiz() repositories.QuizRepository {
	if r.quiz != nil {
		return r.quiz
	}
	return NewQuizPostgreSQL(r.db)
}

func (r *repository) Progress() repositories.ProgressRepository {
	return NewProgressPostgreSQL(r.db)
}

func (r *repository) Begin(ctx context.Context) (repositories.Repository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &repository{db: tx, quiz: r.quiz}, nil
}

func (r *repository) Commit(ctx context.Context) error {
	return r.db.Commit().Error
}

func (r *repository) Rollback(ctx context.Context) error {
	return r.db.Rollback().Error
}

// AutoMigrate creates or updates the engine's tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PlaySession{},
		&models.Answer{},
		&models.ProgressMetrics{},
		&QuizDefinitionRecord{},
	)
}
