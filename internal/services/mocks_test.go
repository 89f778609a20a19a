package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.PlaySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*models.PlaySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaySession), args.Error(1)
}

func (m *MockSessionRepository) GetByIDWithAnswers(ctx context.Context, id string) (*models.PlaySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaySession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *models.PlaySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetActiveSession(ctx context.Context, studentID, quizID string) (*models.PlaySession, error) {
	args := m.Called(ctx, studentID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlaySession), args.Error(1)
}

func (m *MockSessionRepository) ListCompleted(ctx context.Context, studentID, classID string) ([]*models.PlaySession, error) {
	args := m.Called(ctx, studentID, classID)
	return args.Get(0).([]*models.PlaySession), args.Error(1)
}

func (m *MockSessionRepository) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.PlaySession, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.PlaySession), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) GetByClass(ctx context.Context, classID string, filters repositories.SessionFilters) ([]*models.PlaySession, int64, error) {
	args := m.Called(ctx, classID, filters)
	return args.Get(0).([]*models.PlaySession), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) GetClassStats(ctx context.Context, classID string) (*repositories.ClassSessionStats, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(*repositories.ClassSessionStats), args.Error(1)
}

// MockAnswerRepository is a mock implementation of AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) HasAnswer(ctx context.Context, sessionID, questionID string) (bool, error) {
	args := m.Called(ctx, sessionID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnswerRepository) ListByStudentAndClass(ctx context.Context, studentID, classID string) ([]*models.Answer, error) {
	args := m.Called(ctx, studentID, classID)
	return args.Get(0).([]*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetQuestionStats(ctx context.Context, quizID string) ([]*repositories.QuestionStats, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]*repositories.QuestionStats), args.Error(1)
}

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetDefinition(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizDefinition), args.Error(1)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Upsert(ctx context.Context, metrics *models.ProgressMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockProgressRepository) GetByStudentAndClass(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	args := m.Called(ctx, studentID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressMetrics), args.Error(1)
}

// MockRepository bundles the sub-repository mocks behind the facade. Begin
// hands back the same facade so transactional code paths exercise the same
// expectations.
type MockRepository struct {
	mock.Mock
	SessionRepo  *MockSessionRepository
	AnswerRepo   *MockAnswerRepository
	QuizRepo     *MockQuizRepository
	ProgressRepo *MockProgressRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		SessionRepo:  &MockSessionRepository{},
		AnswerRepo:   &MockAnswerRepository{},
		QuizRepo:     &MockQuizRepository{},
		ProgressRepo: &MockProgressRepository{},
	}
}

func (m *MockRepository) Session() repositories.SessionRepository {
	return m.SessionRepo
}

func (m *MockRepository) Answer() repositories.AnswerRepository {
	return m.AnswerRepo
}

func (m *MockRepository) Quiz() repositories.QuizRepository {
	return m.QuizRepo
}

func (m *MockRepository) Progress() repositories.ProgressRepository {
	return m.ProgressRepo
}

func (m *MockRepository) Begin(ctx context.Context) (repositories.Repository, error) {
	args := m.Called(ctx)
	return m, args.Error(0)
}

func (m *MockRepository) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockProgressService is a mock implementation of ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Recompute(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	args := m.Called(ctx, studentID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressMetrics), args.Error(1)
}

func (m *MockProgressService) Get(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	args := m.Called(ctx, studentID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressMetrics), args.Error(1)
}

func (m *MockProgressService) GetQuestionStats(ctx context.Context, quizID string) ([]*repositories.QuestionStats, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]*repositories.QuestionStats), args.Error(1)
}
