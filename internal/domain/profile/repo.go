package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no recovery profile exists for a user. Risk
// assessment treats this as a hard error: without recovery history there is
// nothing to assess, and onboarding must be fixed first.
var ErrNotFound = errors.New("recovery profile not found")

type Repository interface {
	Create(ctx context.Context, p *RecoveryProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*RecoveryProfile, error)
	Update(ctx context.Context, p *RecoveryProfile) error
	// UpdateStage persists a stage transition. The upsert is idempotent;
	// callers may retry freely.
	UpdateStage(ctx context.Context, userID uuid.UUID, stage string) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
