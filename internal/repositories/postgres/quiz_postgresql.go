package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizDefinitionRecord is the engine-side read model of a quiz authored in
// the (excluded) authoring service. Questions are stored as one JSONB
// document; the engine never writes this table.
type QuizDefinitionRecord struct {
	ID        string         `gorm:"primaryKey;size:36"`
	ClassID   string         `gorm:"not null;size:36;index"`
	Title     string         `gorm:"not null;size:200"`
	Published bool           `gorm:"not null;default:false"`
	Active    bool           `gorm:"not null;default:true"`
	Questions datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (QuizDefinitionRecord) TableName() string {
	return "quiz_definitions"
}

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q QuizPostgreSQL) GetDefinition(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	var record QuizDefinitionRecord
	if err := q.db.WithContext(ctx).First(&record, "id = ?", quizID).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	if err := json.Unmarshal(record.Questions, &questions); err != nil {
		return nil, fmt.Errorf("corrupt question document for quiz %s: %w", quizID, err)
	}

	return &models.QuizDefinition{
		ID:        record.ID,
		ClassID:   record.ClassID,
		Title:     record.Title,
		Published: record.Published,
		Active:    record.Active,
		Questions: questions,
	}, nil
}
