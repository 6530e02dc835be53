package milestone

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records []*Milestone
}

func (m *mockRepo) Create(_ context.Context, ms *Milestone) error {
	ms.ID = uuid.New()
	ms.CreatedAt = time.Now()
	m.records = append(m.records, ms)
	return nil
}

func (m *mockRepo) GetRecent(_ context.Context, userID uuid.UUID, limit int) ([]*Milestone, error) {
	var result []*Milestone
	for _, ms := range m.records {
		if ms.UserID == userID {
			result = append(result, ms)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievedAt.After(result[j].AchievedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func TestCreateMilestone(t *testing.T) {
	svc := NewService(&mockRepo{})
	m := &Milestone{UserID: uuid.New(), Title: "30 days", DaysMarker: 30}
	if err := svc.CreateMilestone(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.AchievedAt.IsZero() {
		t.Error("expected achieved_at to default")
	}
}

func TestCreateMilestone_TitleRequired(t *testing.T) {
	svc := NewService(&mockRepo{})
	m := &Milestone{UserID: uuid.New()}
	if err := svc.CreateMilestone(context.Background(), m); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestGetRecentMilestones_DefaultLimit(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	userID := uuid.New()
	for i := 0; i < 8; i++ {
		svc.CreateMilestone(context.Background(), &Milestone{
			UserID:     userID,
			Title:      "milestone",
			AchievedAt: time.Now().AddDate(0, 0, -i),
		})
	}
	items, err := svc.GetRecentMilestones(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("expected default limit 5, got %d", len(items))
	}
}
