package milestone

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Milestone) error
	// GetRecent returns the most recently achieved milestones, newest first.
	GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Milestone, error)
}
