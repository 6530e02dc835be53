package checkin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	records map[uuid.UUID]*CheckIn
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*CheckIn)}
}

func (m *mockRepo) Create(_ context.Context, c *CheckIn) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.records[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*CheckIn, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return c, nil
}

func (m *mockRepo) GetRecent(_ context.Context, userID uuid.UUID, days int) ([]*CheckIn, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var result []*CheckIn
	for _, c := range m.records {
		if c.UserID == userID && c.Date.After(cutoff) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockRepo) GetAverageRatings(ctx context.Context, userID uuid.UUID, days int) (*AverageRatings, error) {
	items, _ := m.GetRecent(ctx, userID, days)
	avg := &AverageRatings{}
	if len(items) == 0 {
		return avg, nil
	}
	for _, c := range items {
		avg.Mood += float64(c.Mood)
		avg.Energy += float64(c.Energy)
		avg.Stress += float64(c.Stress)
		avg.Sleep += float64(c.Sleep)
	}
	n := float64(len(items))
	avg.Mood /= n
	avg.Energy /= n
	avg.Stress /= n
	avg.Sleep /= n
	return avg, nil
}

func (m *mockRepo) GetStreak(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, c := range m.records {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) IncrementAIInteractions(_ context.Context, userID uuid.UUID, date time.Time) error {
	for _, c := range m.records {
		if c.UserID == userID && c.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			c.AIInteractions++
			return nil
		}
	}
	return fmt.Errorf("no check-in for date")
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*CheckIn, int, error) {
	var result []*CheckIn
	for _, c := range m.records {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

// -- Tests --

func validCheckIn(userID uuid.UUID) *CheckIn {
	return &CheckIn{UserID: userID, Mood: 6, Energy: 5, Stress: 4, Sleep: 7}
}

func TestCreateCheckIn(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCheckIn(uuid.New())
	err := svc.CreateCheckIn(context.Background(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if c.Date.IsZero() {
		t.Error("expected date to default to now")
	}
}

func TestCreateCheckIn_UserRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCheckIn(uuid.Nil)
	if err := svc.CreateCheckIn(context.Background(), c); err == nil {
		t.Error("expected error for missing user_id")
	}
}

func TestCreateCheckIn_RatingBounds(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, mood := range []int{0, 11, -3} {
		c := validCheckIn(uuid.New())
		c.Mood = mood
		if err := svc.CreateCheckIn(context.Background(), c); err == nil {
			t.Errorf("expected error for mood %d", mood)
		}
	}
}

func TestCreateCheckIn_InvalidTriggerType(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCheckIn(uuid.New())
	c.Triggers = []TriggerEvent{{Type: "bogus", Intensity: 5, Outcome: OutcomeManaged}}
	if err := svc.CreateCheckIn(context.Background(), c); err == nil {
		t.Error("expected error for invalid trigger type")
	}
}

func TestCreateCheckIn_InvalidTriggerOutcome(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCheckIn(uuid.New())
	c.Triggers = []TriggerEvent{{Type: TriggerStress, Intensity: 5, Outcome: "bogus"}}
	if err := svc.CreateCheckIn(context.Background(), c); err == nil {
		t.Error("expected error for invalid trigger outcome")
	}
}

func TestCreateCheckIn_TriggerTimestampDefaulted(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCheckIn(uuid.New())
	c.Triggers = []TriggerEvent{{Type: TriggerAnxiety, Intensity: 7, Outcome: OutcomePartial}}
	if err := svc.CreateCheckIn(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Triggers[0].Timestamp.IsZero() {
		t.Error("expected trigger timestamp to be defaulted")
	}
}

func TestGetRecentCheckInsDefaultsWindow(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()
	c := validCheckIn(userID)
	c.Date = time.Now()
	svc.CreateCheckIn(context.Background(), c)

	items, err := svc.GetRecentCheckIns(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 check-in, got %d", len(items))
	}
}

func TestGetAverageRatings(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()
	for _, mood := range []int{4, 6} {
		c := validCheckIn(userID)
		c.Mood = mood
		c.Date = time.Now()
		svc.CreateCheckIn(context.Background(), c)
	}
	avg, err := svc.GetAverageRatings(context.Background(), userID, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg.Mood != 5 {
		t.Errorf("expected average mood 5, got %.1f", avg.Mood)
	}
}
