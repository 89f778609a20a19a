package repositories

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
)

// ProgressRepository persists the materialized per-(student, class) rollups.
type ProgressRepository interface {
	// Upsert writes the metrics row, replacing any existing row for the same
	// (student, class) pair.
	Upsert(ctx context.Context, metrics *models.ProgressMetrics) error
	GetByStudentAndClass(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error)
}
