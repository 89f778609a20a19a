package postgres

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p ProgressPostgreSQL) Upsert(ctx context.Context, metrics *models.ProgressMetrics) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "class_id"}},
			UpdateAll: true,
		}).
		Create(metrics).Error
}

func (p ProgressPostgreSQL) GetByStudentAndClass(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	var metrics models.ProgressMetrics
	if err := p.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		First(&metrics).Error; err != nil {
		return nil, err
	}
	return &metrics, nil
}
