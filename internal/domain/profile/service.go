package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	profiles Repository
}

func NewService(profiles Repository) *Service {
	return &Service{profiles: profiles}
}

func (s *Service) CreateProfile(ctx context.Context, p *RecoveryProfile) error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if p.CurrentStage == "" {
		p.CurrentStage = StageEarly
	}
	if !ValidStages[p.CurrentStage] {
		return fmt.Errorf("invalid stage: %s", p.CurrentStage)
	}
	if p.DaysSinceLastSetback < 0 || p.TotalRecoveryDays < 0 {
		return fmt.Errorf("day counts must not be negative")
	}
	return s.profiles.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*RecoveryProfile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, p *RecoveryProfile) error {
	if p.CurrentStage != "" && !ValidStages[p.CurrentStage] {
		return fmt.Errorf("invalid stage: %s", p.CurrentStage)
	}
	return s.profiles.Update(ctx, p)
}

func (s *Service) UpdateStage(ctx context.Context, userID uuid.UUID, stage string) error {
	if !ValidStages[stage] {
		return fmt.Errorf("invalid stage: %s", stage)
	}
	return s.profiles.UpdateStage(ctx, userID, stage)
}

func (s *Service) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	return s.profiles.Delete(ctx, userID)
}
