package postgres

import (
	"context"
	"errors"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s SessionPostgreSQL) Create(ctx context.Context, session *models.PlaySession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.PlaySession, error) {
	var session models.PlaySession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) GetByIDWithAnswers(ctx context.Context, id string) (*models.PlaySession, error) {
	var session models.PlaySession
	if err := s.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_index ASC")
		}).
		First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Update writes the session guarded by its version column. A stale version
// matches zero rows and surfaces as ErrVersionConflict.
func (s SessionPostgreSQL) Update(ctx context.Context, session *models.PlaySession) error {
	currentVersion := session.Version
	session.Version = currentVersion + 1

	result := s.db.WithContext(ctx).
		Model(&models.PlaySession{}).
		Where("id = ? AND version = ?", session.ID, currentVersion).
		Select("*").
		Omit("id", "created_at", "answers").
		Updates(session)
	if result.Error != nil {
		session.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		session.Version = currentVersion
		return repositories.ErrVersionConflict
	}
	return nil
}

func (s SessionPostgreSQL) GetActiveSession(ctx context.Context, studentID, quizID string) (*models.PlaySession, error) {
	var session models.PlaySession
	if err := s.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ? AND status IN ?", studentID, quizID,
			[]models.SessionStatus{models.SessionInProgress, models.SessionPaused}).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) ListCompleted(ctx context.Context, studentID, classID string) ([]*models.PlaySession, error) {
	var sessions []*models.PlaySession
	if err := s.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ? AND status = ?", studentID, classID, models.SessionCompleted).
		Order("end_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.PlaySession, int64, error) {
	var sessions []*models.PlaySession
	var total int64

	query := s.db.WithContext(ctx).Model(&models.PlaySession{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyPaginationAndSort(query, filters)
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s SessionPostgreSQL) GetByClass(ctx context.Context, classID string, filters repositories.SessionFilters) ([]*models.PlaySession, int64, error) {
	filters.ClassID = &classID
	return s.List(ctx, filters)
}

func (s SessionPostgreSQL) GetClassStats(ctx context.Context, classID string) (*repositories.ClassSessionStats, error) {
	var total, completed, abandoned int64

	base := s.db.WithContext(ctx).Model(&models.PlaySession{}).Where("class_id = ?", classID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.SessionCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", models.SessionAbandoned).Count(&abandoned).Error; err != nil {
		return nil, err
	}

	var avgScore, avgTime float64
	row := s.db.WithContext(ctx).
		Model(&models.PlaySession{}).
		Where("class_id = ? AND status = ?", classID, models.SessionCompleted).
		Select("COALESCE(AVG(score * 100.0 / NULLIF(total_points, 0)), 0), COALESCE(AVG(total_time_seconds), 0)").
		Row()
	if err := row.Scan(&avgScore, &avgTime); err != nil {
		return nil, err
	}

	return &repositories.ClassSessionStats{
		TotalSessions:     int(total),
		CompletedSessions: int(completed),
		AbandonedSessions: int(abandoned),
		AverageScore:      avgScore,
		AverageTimeSpent:  int(avgTime),
	}, nil
}

func (s SessionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.ClassID != nil {
		query = query.Where("class_id = ?", *filters.ClassID)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_time <= ?", *filters.DateTo)
	}
	return query
}

func (s SessionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "start_time", "score", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
