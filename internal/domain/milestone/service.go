package milestone

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	milestones Repository
}

func NewService(milestones Repository) *Service {
	return &Service{milestones: milestones}
}

func (s *Service) CreateMilestone(ctx context.Context, m *Milestone) error {
	if m.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	if m.AchievedAt.IsZero() {
		m.AchievedAt = time.Now()
	}
	return s.milestones.Create(ctx, m)
}

func (s *Service) GetRecentMilestones(ctx context.Context, userID uuid.UUID, limit int) ([]*Milestone, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.milestones.GetRecent(ctx, userID, limit)
}
