package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	checkIns Repository
}

func NewService(checkIns Repository) *Service {
	return &Service{checkIns: checkIns}
}

func validRating(v int) bool { return v >= 1 && v <= 10 }

func (s *Service) CreateCheckIn(ctx context.Context, c *CheckIn) error {
	if c.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if !validRating(c.Mood) || !validRating(c.Energy) || !validRating(c.Stress) || !validRating(c.Sleep) {
		return fmt.Errorf("mood, energy, stress and sleep ratings must be between 1 and 10")
	}
	for i, ev := range c.Triggers {
		if !ValidTriggerTypes[ev.Type] {
			return fmt.Errorf("invalid trigger type: %s", ev.Type)
		}
		if !validRating(ev.Intensity) {
			return fmt.Errorf("trigger intensity must be between 1 and 10")
		}
		if ev.Outcome != "" && !validOutcomes[ev.Outcome] {
			return fmt.Errorf("invalid trigger outcome: %s", ev.Outcome)
		}
		if ev.Timestamp.IsZero() {
			c.Triggers[i].Timestamp = time.Now()
		}
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return s.checkIns.Create(ctx, c)
}

func (s *Service) GetCheckIn(ctx context.Context, id uuid.UUID) (*CheckIn, error) {
	return s.checkIns.GetByID(ctx, id)
}

func (s *Service) GetRecentCheckIns(ctx context.Context, userID uuid.UUID, days int) ([]*CheckIn, error) {
	if days <= 0 {
		days = 7
	}
	return s.checkIns.GetRecent(ctx, userID, days)
}

func (s *Service) GetAverageRatings(ctx context.Context, userID uuid.UUID, days int) (*AverageRatings, error) {
	if days <= 0 {
		days = 7
	}
	return s.checkIns.GetAverageRatings(ctx, userID, days)
}

func (s *Service) GetCheckInStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.checkIns.GetStreak(ctx, userID)
}

func (s *Service) ListCheckIns(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CheckIn, int, error) {
	return s.checkIns.ListByUser(ctx, userID, limit, offset)
}
