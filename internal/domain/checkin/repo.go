package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *CheckIn) error
	GetByID(ctx context.Context, id uuid.UUID) (*CheckIn, error)
	// GetRecent returns check-ins from the last `days` days, newest first.
	GetRecent(ctx context.Context, userID uuid.UUID, days int) ([]*CheckIn, error)
	GetAverageRatings(ctx context.Context, userID uuid.UUID, days int) (*AverageRatings, error)
	// GetStreak returns the number of consecutive days ending today with a check-in.
	GetStreak(ctx context.Context, userID uuid.UUID) (int, error)
	// IncrementAIInteractions bumps the interaction counter on the day's check-in.
	IncrementAIInteractions(ctx context.Context, userID uuid.UUID, date time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CheckIn, int, error)
}
