package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eduplay/session-service/internal/events"
	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

// ===== REQUEST / RESPONSE TYPES =====

type StartSessionRequest struct {
	QuizID string `json:"quiz_id" validate:"required"`
}

// SessionStateResponse is the client view of a session. CurrentQuestion is
// nil once the session is terminal.
type SessionStateResponse struct {
	SessionID            string               `json:"session_id"`
	QuizID               string               `json:"quiz_id"`
	QuizTitle            string               `json:"quiz_title"`
	ClassID              string               `json:"class_id"`
	Status               models.SessionStatus `json:"status"`
	CurrentQuestionIndex int                  `json:"current_question_index"`
	TotalQuestions       int                  `json:"total_questions"`
	Score                int                  `json:"score"`
	TotalPoints          int                  `json:"total_points"`
	CorrectCount         int                  `json:"correct_count"`
	IncorrectCount       int                  `json:"incorrect_count"`
	StartTime            time.Time            `json:"start_time"`
	Resumed              bool                 `json:"resumed"`
	CurrentQuestion      *QuestionView        `json:"current_question,omitempty"`
}

type SubmitAnswerResponse struct {
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
	Score         int  `json:"score"`
	CorrectCount  int  `json:"correct_count"`
	Completed     bool `json:"completed"`

	// Next question to present, nil when the session just completed.
	NextQuestion *QuestionView `json:"next_question,omitempty"`

	// Populated only on completion.
	PercentageScore  *float64 `json:"percentage_score,omitempty"`
	TotalTimeSeconds *int     `json:"total_time_seconds,omitempty"`
}

// QuestionResult pairs one question with the answer given for it.
type QuestionResult struct {
	QuestionID    string              `json:"question_id"`
	QuestionIndex int                 `json:"question_index"`
	Type          models.QuestionType `json:"type"`
	Prompt        string              `json:"prompt"`
	Points        int                 `json:"points"`
	IsCorrect     bool                `json:"is_correct"`
	PointsAwarded int                 `json:"points_awarded"`
	TimeTaken     int                 `json:"time_taken_seconds"`
	HintUsed      bool                `json:"hint_used"`
}

type SessionResultsResponse struct {
	SessionID        string           `json:"session_id"`
	QuizID           string           `json:"quiz_id"`
	QuizTitle        string           `json:"quiz_title"`
	Score            int              `json:"score"`
	TotalPoints      int              `json:"total_points"`
	PercentageScore  float64          `json:"percentage_score"`
	CorrectCount     int              `json:"correct_count"`
	IncorrectCount   int              `json:"incorrect_count"`
	HintsUsed        int              `json:"hints_used"`
	TotalTimeSeconds int              `json:"total_time_seconds"`
	CompletedAt      time.Time        `json:"completed_at"`
	Questions        []QuestionResult `json:"questions"`
}

// ===== SERVICE INTERFACE =====

type SessionService interface {
	// StartOrResume returns the student's active session for the quiz if one
	// exists, otherwise creates a new one. Repeated calls never create a
	// second active session for the same (student, quiz) pair.
	StartOrResume(ctx context.Context, studentID string, req *StartSessionRequest) (*SessionStateResponse, error)

	// SubmitAnswer validates the submission against the question at the
	// session cursor, records the scored answer, and advances the cursor.
	// Completion of the final question transitions the session to completed
	// and triggers a progress recompute.
	SubmitAnswer(ctx context.Context, studentID, sessionID string, submission *models.AnswerSubmission) (*SubmitAnswerResponse, error)

	GetState(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error)
	Pause(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error)
	Resume(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error)
	Abandon(ctx context.Context, studentID, sessionID string) error
	GetResults(ctx context.Context, studentID, sessionID string) (*SessionResultsResponse, error)
}

type sessionService struct {
	repo      repositories.Repository
	progress  ProgressService
	publisher events.EventPublisher
	validator *validator.Validate
	logger    *slog.Logger

	// One mutex per live session serializes submissions; the repository's
	// version check catches writers on other instances.
	locks sync.Map
}

func NewSessionService(
	repo repositories.Repository,
	progress ProgressService,
	publisher events.EventPublisher,
	v *validator.Validate,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		repo:      repo,
		progress:  progress,
		publisher: publisher,
		validator: v,
		logger:    logger.With("service", "session"),
	}
}

func (s *sessionService) lockSession(sessionID string) func() {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// ===== START / RESUME =====

func (s *sessionService) StartOrResume(ctx context.Context, studentID string, req *StartSessionRequest) (*SessionStateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Starts for the same (student, quiz) are serialized in-process; the
	// partial unique index on sessions catches races across instances.
	unlock := s.lockSession("start:" + studentID + ":" + req.QuizID)
	defer unlock()

	existing, err := s.repo.Session().GetActiveSession(ctx, studentID, req.QuizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if existing != nil {
		// Resuming a paused session reactivates it.
		if existing.Status == models.SessionPaused {
			existing.Status = models.SessionInProgress
			if err := s.repo.Session().Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
			}
		}
		s.logger.Info("Resumed play session",
			"session_id", existing.ID,
			"student_id", studentID,
			"quiz_id", req.QuizID,
			"question_index", existing.CurrentQuestionIndex)
		return s.stateResponse(existing, true)
	}

	quiz, err := s.repo.Quiz().GetDefinition(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotAccessible
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if !quiz.Playable() {
		return nil, ErrQuizNotAccessible
	}

	now := time.Now()
	session := &models.PlaySession{
		ID:             uuid.NewString(),
		StudentID:      studentID,
		QuizID:         quiz.ID,
		ClassID:        quiz.ClassID,
		Status:         models.SessionInProgress,
		TotalQuestions: len(quiz.Questions),
		TotalPoints:    quiz.TotalPoints(),
		StartTime:      now,
		Version:        1,
	}
	if err := session.SetSnapshot(quiz); err != nil {
		return nil, err
	}

	if err := s.repo.Session().Create(ctx, session); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			// Lost a concurrent start race; the winner's session is the
			// active one, so hand that back instead of failing.
			winner, werr := s.repo.Session().GetActiveSession(ctx, studentID, req.QuizID)
			if werr == nil && winner != nil {
				return s.stateResponse(winner, true)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	s.publishEvent(ctx, events.NewSessionStartedEvent(
		session.ID, session.QuizID, session.ClassID, session.StudentID,
		session.TotalQuestions, session.StartTime, false))

	s.logger.Info("Started play session",
		"session_id", session.ID,
		"student_id", studentID,
		"quiz_id", quiz.ID,
		"total_questions", session.TotalQuestions)

	return s.stateResponse(session, false)
}

// ===== ANSWER SUBMISSION =====

func (s *sessionService) SubmitAnswer(ctx context.Context, studentID, sessionID string, submission *models.AnswerSubmission) (*SubmitAnswerResponse, error) {
	if err := s.validator.Struct(submission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwnedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	quiz, err := session.Snapshot()
	if err != nil {
		return nil, err
	}

	question := quiz.QuestionAt(session.CurrentQuestionIndex)
	if question == nil {
		// Cursor at TotalQuestions means the session should already be
		// terminal; treat any submission as inactive rather than panic.
		return nil, ErrSessionNotActive
	}
	if submission.QuestionID != question.ID {
		return nil, fmt.Errorf("%w: expected %s at index %d, got %s",
			ErrQuestionMismatch, question.ID, session.CurrentQuestionIndex, submission.QuestionID)
	}

	// One answer per question per session. The cursor already enforces this
	// for well-formed snapshots; the store check catches replays that slip
	// past it, such as a snapshot carrying a duplicate question id.
	answered, err := s.repo.Answer().HasAnswer(ctx, session.ID, question.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if answered {
		return nil, fmt.Errorf("%w: question %s already answered in session %s",
			ErrConflict, question.ID, session.ID)
	}

	result, err := CheckAnswer(question, submission)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	answer := &models.Answer{
		ID:                  uuid.NewString(),
		SessionID:           session.ID,
		QuestionID:          question.ID,
		QuestionIndex:       session.CurrentQuestionIndex,
		SelectedAnswerIndex: submission.SelectedAnswerIndex,
		TextAnswer:          submission.TextAnswer,
		IsCorrect:           result.IsCorrect,
		PointsAwarded:       result.PointsAwarded,
		TimeTakenSeconds:    submission.TimeTakenSeconds,
		Attempts:            1,
		HintUsed:            submission.HintUsed,
		ConfidenceLevel:     submission.ConfidenceLevel,
		AnsweredAt:          now,
	}

	session.CurrentQuestionIndex++
	session.Score += result.PointsAwarded
	if result.IsCorrect {
		session.CorrectCount++
	} else {
		session.IncorrectCount++
	}
	if submission.HintUsed {
		session.HintsUsed++
	}

	completed := session.Completed()
	if completed {
		session.Status = models.SessionCompleted
		session.EndTime = &now
		elapsed := int(now.Sub(session.StartTime).Seconds())
		session.TotalTimeSeconds = &elapsed
	}

	tx, err := s.repo.(repositories.TransactionRepository).Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	txRepo := tx.(repositories.TransactionRepository)

	if err := tx.Answer().Create(ctx, answer); err != nil {
		txRepo.Rollback(ctx)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if err := tx.Session().Update(ctx, session); err != nil {
		txRepo.Rollback(ctx)
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: concurrent submission on session %s", ErrConflict, session.ID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if err := txRepo.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	response := &SubmitAnswerResponse{
		IsCorrect:     result.IsCorrect,
		PointsAwarded: result.PointsAwarded,
		Score:         session.Score,
		CorrectCount:  session.CorrectCount,
		Completed:     completed,
	}

	if completed {
		s.finishSession(ctx, session)
		percentage := session.PercentageScore()
		response.PercentageScore = &percentage
		response.TotalTimeSeconds = session.TotalTimeSeconds
		s.locks.Delete(session.ID)
	} else if next := quiz.QuestionAt(session.CurrentQuestionIndex); next != nil {
		response.NextQuestion = NewQuestionView(next, session.CurrentQuestionIndex)
	}

	s.logger.Info("Answer submitted",
		"session_id", session.ID,
		"question_id", question.ID,
		"question_index", answer.QuestionIndex,
		"is_correct", result.IsCorrect,
		"points_awarded", result.PointsAwarded,
		"score", session.Score,
		"completed", completed)

	return response, nil
}

// finishSession runs the completion side effects. They happen after the
// commit; failures are logged but never fail the submission.
func (s *sessionService) finishSession(ctx context.Context, session *models.PlaySession) {
	totalTime := 0
	if session.TotalTimeSeconds != nil {
		totalTime = *session.TotalTimeSeconds
	}

	s.publishEvent(ctx, events.NewSessionCompletedEvent(
		session.ID, session.QuizID, session.ClassID, session.StudentID,
		session.Score, session.PercentageScore(),
		session.CorrectCount, session.IncorrectCount, totalTime, *session.EndTime))

	if _, err := s.progress.Recompute(ctx, session.StudentID, session.ClassID); err != nil {
		s.logger.Error("Progress recompute after completion failed",
			"session_id", session.ID,
			"student_id", session.StudentID,
			"class_id", session.ClassID,
			"error", err)
	}
}

// ===== LIFECYCLE =====

func (s *sessionService) GetState(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error) {
	session, err := s.loadOwnedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.stateResponse(session, false)
}

func (s *sessionService) Pause(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwnedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	session.Status = models.SessionPaused
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	s.logger.Info("Paused play session", "session_id", session.ID, "student_id", studentID)
	return s.stateResponse(session, false)
}

func (s *sessionService) Resume(ctx context.Context, studentID, sessionID string) (*SessionStateResponse, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwnedSession(ctx, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionPaused {
		return nil, ErrSessionNotPaused
	}

	session.Status = models.SessionInProgress
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	s.logger.Info("Resumed play session", "session_id", session.ID, "student_id", studentID)
	return s.stateResponse(session, true)
}

func (s *sessionService) Abandon(ctx context.Context, studentID, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadOwnedSession(ctx, studentID, sessionID)
	if err != nil {
		return err
	}
	if session.Status.Terminal() {
		return ErrSessionNotActive
	}

	now := time.Now()
	session.Status = models.SessionAbandoned
	session.EndTime = &now
	elapsed := int(now.Sub(session.StartTime).Seconds())
	session.TotalTimeSeconds = &elapsed

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	s.publishEvent(ctx, events.NewSessionAbandonedEvent(
		session.ID, session.QuizID, session.ClassID, session.StudentID,
		session.CurrentQuestionIndex, now))

	s.logger.Info("Abandoned play session",
		"session_id", session.ID,
		"student_id", studentID,
		"questions_answered", session.CurrentQuestionIndex)

	s.locks.Delete(session.ID)
	return nil
}

// ===== RESULTS =====

func (s *sessionService) GetResults(ctx context.Context, studentID, sessionID string) (*SessionResultsResponse, error) {
	session, err := s.repo.Session().GetByIDWithAnswers(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if session.StudentID != studentID {
		return nil, ErrSessionAccessDenied
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	quiz, err := session.Snapshot()
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]*models.Answer, len(session.Answers))
	for i := range session.Answers {
		byQuestion[session.Answers[i].QuestionID] = &session.Answers[i]
	}

	results := make([]QuestionResult, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		qr := QuestionResult{
			QuestionID:    q.ID,
			QuestionIndex: i,
			Type:          q.Type,
			Prompt:        q.Prompt,
			Points:        q.Points,
		}
		if answer, ok := byQuestion[q.ID]; ok {
			qr.IsCorrect = answer.IsCorrect
			qr.PointsAwarded = answer.PointsAwarded
			qr.TimeTaken = answer.TimeTakenSeconds
			qr.HintUsed = answer.HintUsed
		}
		results = append(results, qr)
	}

	totalTime := 0
	if session.TotalTimeSeconds != nil {
		totalTime = *session.TotalTimeSeconds
	}

	return &SessionResultsResponse{
		SessionID:        session.ID,
		QuizID:           session.QuizID,
		QuizTitle:        quiz.Title,
		Score:            session.Score,
		TotalPoints:      session.TotalPoints,
		PercentageScore:  session.PercentageScore(),
		CorrectCount:     session.CorrectCount,
		IncorrectCount:   session.IncorrectCount,
		HintsUsed:        session.HintsUsed,
		TotalTimeSeconds: totalTime,
		CompletedAt:      *session.EndTime,
		Questions:        results,
	}, nil
}

// ===== HELPERS =====

func (s *sessionService) loadOwnedSession(ctx context.Context, studentID, sessionID string) (*models.PlaySession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if session.StudentID != studentID {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}

func (s *sessionService) stateResponse(session *models.PlaySession, resumed bool) (*SessionStateResponse, error) {
	quiz, err := session.Snapshot()
	if err != nil {
		return nil, err
	}

	response := &SessionStateResponse{
		SessionID:            session.ID,
		QuizID:               session.QuizID,
		QuizTitle:            quiz.Title,
		ClassID:              session.ClassID,
		Status:               session.Status,
		CurrentQuestionIndex: session.CurrentQuestionIndex,
		TotalQuestions:       session.TotalQuestions,
		Score:                session.Score,
		TotalPoints:          session.TotalPoints,
		CorrectCount:         session.CorrectCount,
		IncorrectCount:       session.IncorrectCount,
		StartTime:            session.StartTime,
		Resumed:              resumed,
	}

	if !session.Status.Terminal() {
		if question := quiz.QuestionAt(session.CurrentQuestionIndex); question != nil {
			response.CurrentQuestion = NewQuestionView(question, session.CurrentQuestionIndex)
		}
	}

	return response, nil
}

func (s *sessionService) publishEvent(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish session event",
			"event_type", event.Type,
			"error", err)
	}
}
