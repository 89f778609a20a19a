package repositories

import (
	"context"

	"github.com/eduplay/session-service/internal/models"
)

// QuizRepository is the engine's read-only view onto quiz authoring. The
// definition returned here is immutable from the engine's perspective; a
// session freezes its own copy at start time.
type QuizRepository interface {
	GetDefinition(ctx context.Context, quizID string) (*models.QuizDefinition, error)
}
