package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	records map[uuid.UUID]*RecoveryProfile
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*RecoveryProfile)}
}

func (m *mockRepo) Create(_ context.Context, p *RecoveryProfile) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.records[p.UserID] = p
	return nil
}

func (m *mockRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*RecoveryProfile, error) {
	p, ok := m.records[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *RecoveryProfile) error {
	m.records[p.UserID] = p
	return nil
}

func (m *mockRepo) UpdateStage(_ context.Context, userID uuid.UUID, stage string) error {
	p, ok := m.records[userID]
	if !ok {
		return ErrNotFound
	}
	p.CurrentStage = stage
	return nil
}

func (m *mockRepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(m.records, userID)
	return nil
}

// -- Tests --

func TestCreateProfile(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &RecoveryProfile{UserID: uuid.New()}
	err := svc.CreateProfile(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CurrentStage != StageEarly {
		t.Errorf("expected default stage early, got %s", p.CurrentStage)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreateProfile_UserRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.CreateProfile(context.Background(), &RecoveryProfile{})
	if err == nil {
		t.Error("expected error for missing user_id")
	}
}

func TestCreateProfile_InvalidStage(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &RecoveryProfile{UserID: uuid.New(), CurrentStage: "bogus"}
	err := svc.CreateProfile(context.Background(), p)
	if err == nil {
		t.Error("expected error for invalid stage")
	}
}

func TestCreateProfile_NegativeDayCounts(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &RecoveryProfile{UserID: uuid.New(), DaysSinceLastSetback: -1}
	err := svc.CreateProfile(context.Background(), p)
	if err == nil {
		t.Error("expected error for negative day count")
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.GetProfile(context.Background(), uuid.New())
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStage(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &RecoveryProfile{UserID: uuid.New()}
	svc.CreateProfile(context.Background(), p)
	err := svc.UpdateStage(context.Background(), p.UserID, StageChallenge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fetched, _ := svc.GetProfile(context.Background(), p.UserID)
	if fetched.CurrentStage != StageChallenge {
		t.Errorf("expected stage challenge, got %s", fetched.CurrentStage)
	}
}

func TestUpdateStage_InvalidStage(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.UpdateStage(context.Background(), uuid.New(), "bogus")
	if err == nil {
		t.Error("expected error for invalid stage")
	}
}

func TestDeleteProfile(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &RecoveryProfile{UserID: uuid.New()}
	svc.CreateProfile(context.Background(), p)
	if err := svc.DeleteProfile(context.Background(), p.UserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetProfile(context.Background(), p.UserID); err == nil {
		t.Error("expected error after deletion")
	}
}
