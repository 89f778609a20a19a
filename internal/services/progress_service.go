package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gorm.io/datatypes"

	"github.com/eduplay/session-service/internal/events"
	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

// ProgressService maintains the per-(student, class) aggregate metrics. The
// aggregation is a pure function of the completed sessions and their answers,
// so a recompute is always idempotent: running it twice over the same data
// yields the same row.
type ProgressService interface {
	Recompute(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error)
	Get(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error)
	GetQuestionStats(ctx context.Context, quizID string) ([]*repositories.QuestionStats, error)
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("service", "progress"),
	}
}

// ProgressSummary is the computed aggregate before it is attached to a
// metrics row.
type ProgressSummary struct {
	TotalGamesPlayed       int
	TotalQuestionsAnswered int
	TotalCorrectAnswers    int
	AverageScore           float64
	BestScore              float64
	CurrentStreak          int
	LongestStreak          int
	LastActivity           *time.Time

	// Question IDs missed more than once, candidates for review.
	CommonMistakes []string

	// Topics classified by accuracy, once they have enough answers.
	PreferredTopics  []string
	ImprovementAreas []string
}

const (
	// A topic needs this many answers before it is classified at all.
	minTopicAnswers = 3

	preferredTopicAccuracy  = 0.8
	improvementAreaAccuracy = 0.5
)

// ComputeProgress derives the aggregate metrics from completed sessions and
// their answers. Sessions must be ordered by completion time ascending and
// answers by answer time ascending; streaks are runs of consecutive correct
// answers across session boundaries, with CurrentStreak being the trailing
// run.
func ComputeProgress(sessions []*models.PlaySession, answers []*models.Answer) ProgressSummary {
	var summary ProgressSummary

	summary.TotalGamesPlayed = len(sessions)

	var percentageSum float64
	for _, session := range sessions {
		percentage := session.PercentageScore()
		percentageSum += percentage
		if percentage > summary.BestScore {
			summary.BestScore = percentage
		}
		if session.EndTime != nil {
			if summary.LastActivity == nil || session.EndTime.After(*summary.LastActivity) {
				end := *session.EndTime
				summary.LastActivity = &end
			}
		}
	}
	if len(sessions) > 0 {
		summary.AverageScore = percentageSum / float64(len(sessions))
	}

	// Topic membership comes from the snapshots the sessions played against;
	// a session with an unreadable snapshot contributes no topics.
	questionTopics := make(map[string]string)
	for _, session := range sessions {
		quiz, err := session.Snapshot()
		if err != nil {
			continue
		}
		for _, q := range quiz.Questions {
			if q.Topic != "" {
				questionTopics[q.ID] = q.Topic
			}
		}
	}

	type topicTally struct {
		total   int
		correct int
	}

	streak := 0
	missCounts := make(map[string]int)
	topics := make(map[string]*topicTally)
	for _, answer := range answers {
		summary.TotalQuestionsAnswered++
		if answer.IsCorrect {
			summary.TotalCorrectAnswers++
			streak++
			if streak > summary.LongestStreak {
				summary.LongestStreak = streak
			}
		} else {
			streak = 0
			missCounts[answer.QuestionID]++
			if missCounts[answer.QuestionID] == 2 {
				summary.CommonMistakes = append(summary.CommonMistakes, answer.QuestionID)
			}
		}

		if topic, ok := questionTopics[answer.QuestionID]; ok {
			tally := topics[topic]
			if tally == nil {
				tally = &topicTally{}
				topics[topic] = tally
			}
			tally.total++
			if answer.IsCorrect {
				tally.correct++
			}
		}
	}
	summary.CurrentStreak = streak

	for topic, tally := range topics {
		if tally.total < minTopicAnswers {
			continue
		}
		accuracy := float64(tally.correct) / float64(tally.total)
		switch {
		case accuracy >= preferredTopicAccuracy:
			summary.PreferredTopics = append(summary.PreferredTopics, topic)
		case accuracy < improvementAreaAccuracy:
			summary.ImprovementAreas = append(summary.ImprovementAreas, topic)
		}
	}
	sort.Strings(summary.PreferredTopics)
	sort.Strings(summary.ImprovementAreas)

	return summary
}

func (s *progressService) Recompute(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	sessions, err := s.repo.Session().ListCompleted(ctx, studentID, classID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	answers, err := s.repo.Answer().ListByStudentAndClass(ctx, studentID, classID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	summary := ComputeProgress(sessions, answers)

	mistakes, err := marshalStringList(summary.CommonMistakes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode common mistakes: %w", err)
	}
	preferred, err := marshalStringList(summary.PreferredTopics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferred topics: %w", err)
	}
	improvements, err := marshalStringList(summary.ImprovementAreas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode improvement areas: %w", err)
	}

	metrics := &models.ProgressMetrics{
		StudentID:              studentID,
		ClassID:                classID,
		TotalGamesPlayed:       summary.TotalGamesPlayed,
		TotalQuestionsAnswered: summary.TotalQuestionsAnswered,
		TotalCorrectAnswers:    summary.TotalCorrectAnswers,
		AverageScore:           summary.AverageScore,
		BestScore:              summary.BestScore,
		CurrentStreak:          summary.CurrentStreak,
		LongestStreak:          summary.LongestStreak,
		LastActivity:           summary.LastActivity,
		PreferredTopics:        preferred,
		CommonMistakes:         mistakes,
		ImprovementAreas:       improvements,
	}

	if err := s.repo.Progress().Upsert(ctx, metrics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	if err := s.publisher.PublishSessionEvent(ctx, events.NewProgressRecomputedEvent(
		studentID, classID,
		metrics.TotalGamesPlayed, metrics.AverageScore, metrics.LongestStreak,
		time.Now())); err != nil {
		s.logger.Error("Failed to publish progress event",
			"student_id", studentID,
			"class_id", classID,
			"error", err)
	}

	s.logger.Info("Recomputed progress metrics",
		"student_id", studentID,
		"class_id", classID,
		"games_played", metrics.TotalGamesPlayed,
		"average_score", metrics.AverageScore,
		"longest_streak", metrics.LongestStreak)

	return metrics, nil
}

func marshalStringList(values []string) (datatypes.JSON, error) {
	if len(values) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *progressService) Get(ctx context.Context, studentID, classID string) (*models.ProgressMetrics, error) {
	metrics, err := s.repo.Progress().GetByStudentAndClass(ctx, studentID, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return metrics, nil
}

func (s *progressService) GetQuestionStats(ctx context.Context, quizID string) ([]*repositories.QuestionStats, error) {
	stats, err := s.repo.Answer().GetQuestionStats(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return stats, nil
}
