package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduplay/session-service/internal/models"
	"github.com/eduplay/session-service/internal/repositories"
)

const quizKeyPrefix = "session-service:quiz:"

// QuizCache is a read-through Redis cache in front of a QuizRepository.
// Definitions are immutable from the engine's point of view, so a short TTL
// is only needed to pick up publish/unpublish flips.
type QuizCache struct {
	inner  repositories.QuizRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewQuizCache(inner repositories.QuizRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *QuizCache {
	return &QuizCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "quiz_cache"),
	}
}

func (c *QuizCache) GetDefinition(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	key := quizKeyPrefix + quizID

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var def models.QuizDefinition
		if uerr := json.Unmarshal(raw, &def); uerr == nil {
			return &def, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Quiz cache read failed, falling back to store",
			"quiz_id", quizID,
			"error", err)
	}

	def, err := c.inner.GetDefinition(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if raw, merr := json.Marshal(def); merr == nil {
		if serr := c.client.Set(ctx, key, raw, c.ttl).Err(); serr != nil {
			c.logger.Warn("Quiz cache write failed",
				"quiz_id", quizID,
				"error", serr)
		}
	}

	return def, nil
}

// Invalidate removes a cached definition, used when an authoring event
// signals that a quiz changed.
func (c *QuizCache) Invalidate(ctx context.Context, quizID string) error {
	if err := c.client.Del(ctx, quizKeyPrefix+quizID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate quiz %s: %w", quizID, err)
	}
	return nil
}
