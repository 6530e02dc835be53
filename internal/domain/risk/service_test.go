package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
)

// -- Mocks --

type mockProfileRepo struct {
	profiles map[uuid.UUID]*profile.RecoveryProfile
	err      error
}

func (m *mockProfileRepo) Create(_ context.Context, p *profile.RecoveryProfile) error { return nil }

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*profile.RecoveryProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) Update(_ context.Context, _ *profile.RecoveryProfile) error { return nil }
func (m *mockProfileRepo) UpdateStage(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (m *mockProfileRepo) Delete(_ context.Context, _ uuid.UUID) error                { return nil }

type mockCheckInRepo struct {
	checkIns []*checkin.CheckIn
	err      error
}

func (m *mockCheckInRepo) Create(_ context.Context, _ *checkin.CheckIn) error { return nil }

func (m *mockCheckInRepo) GetByID(_ context.Context, _ uuid.UUID) (*checkin.CheckIn, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCheckInRepo) GetRecent(_ context.Context, userID uuid.UUID, _ int) ([]*checkin.CheckIn, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*checkin.CheckIn
	for _, c := range m.checkIns {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCheckInRepo) GetAverageRatings(ctx context.Context, userID uuid.UUID, days int) (*checkin.AverageRatings, error) {
	if m.err != nil {
		return nil, m.err
	}
	items, _ := m.GetRecent(ctx, userID, days)
	avg := &checkin.AverageRatings{}
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

func (m *mockCheckInRepo) GetStreak(_ context.Context, _ uuid.UUID) (int, error) { return 0, nil }

func (m *mockCheckInRepo) IncrementAIInteractions(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (m *mockCheckInRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]*checkin.CheckIn, int, error) {
	return nil, 0, nil
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// -- Fixtures --

// Saturday 23:00 — weekend and late-night.
var crisisTime = time.Date(2025, 1, 4, 23, 0, 0, 0, time.UTC)

// Wednesday 12:00 — unremarkable.
var calmTime = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

func newTestAssessor(profiles *mockProfileRepo, checkIns *mockCheckInRepo, now time.Time) *Assessor {
	return NewAssessor(profiles, checkIns, fixedClock{t: now}, zerolog.Nop())
}

func crisisProfile(userID uuid.UUID) *profile.RecoveryProfile {
	return &profile.RecoveryProfile{
		UserID:           userID,
		CurrentStage:     profile.StageEarly,
		PersonalTriggers: []string{"stress", "anxiety"},
		CopingStrategies: []string{"breathing", "walking"},
	}
}

// crisisCheckIns builds a week of check-ins showing severe distress: bottom
// ratings, no reflection or coping, and overwhelming late-night trigger
// events matching the declared personal triggers.
func crisisCheckIns(userID uuid.UUID, now time.Time) []*checkin.CheckIn {
	var out []*checkin.CheckIn
	for i := 0; i < 5; i++ {
		day := now.AddDate(0, 0, -i)
		eventType := checkin.TriggerStress
		if i == 1 {
			eventType = checkin.TriggerAnxiety
		}
		out = append(out, &checkin.CheckIn{
			ID:     uuid.New(),
			UserID: userID,
			Date:   day,
			Mood:   2,
			Energy: 2,
			Stress: 9,
			Sleep:  2,
			Triggers: []checkin.TriggerEvent{{
				Type:      eventType,
				Intensity: 9,
				Outcome:   checkin.OutcomeOverwhelmed,
				Timestamp: time.Date(day.Year(), day.Month(), day.Day(), 23, 15, 0, 0, time.UTC),
			}},
			ReflectionCompleted: false,
		})
	}
	return out
}

func calmCheckIns(userID uuid.UUID, now time.Time) []*checkin.CheckIn {
	var out []*checkin.CheckIn
	for i := 0; i < 5; i++ {
		out = append(out, &checkin.CheckIn{
			ID:                   uuid.New(),
			UserID:               userID,
			Date:                 now.AddDate(0, 0, -i),
			Mood:                 7,
			Energy:               7,
			Stress:               4,
			Sleep:                7,
			CopingStrategiesUsed: []string{"breathing"},
			ReflectionCompleted:  true,
		})
	}
	return out
}

// -- AssessCrisisRisk --

func TestAssessCrisisRisk_CrisisScenario(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{checkIns: crisisCheckIns(userID, crisisTime)}
	a := newTestAssessor(profiles, checkIns, crisisTime)

	got, err := a.AssessCrisisRisk(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskScore <= 80 {
		t.Errorf("expected score above 80, got %.2f", got.RiskScore)
	}
	if got.OverallRiskLevel != SeverityCritical {
		t.Errorf("expected critical level, got %s", got.OverallRiskLevel)
	}
	if !got.EscalationRequired {
		t.Error("expected escalation to be required")
	}
	if !got.InterventionRecommended {
		t.Error("expected intervention to be recommended")
	}
	if got.TimeToIntervention != UrgencyImmediate {
		t.Errorf("expected immediate urgency, got %s", got.TimeToIntervention)
	}
	if len(got.Indicators) == 0 {
		t.Fatal("expected indicators")
	}

	categories := make(map[Category]bool)
	for _, ind := range got.Indicators {
		categories[ind.Category] = true
	}
	for _, cat := range []Category{CategoryTemporal, CategoryEmotional, CategoryBehavioral, CategoryEnvironmental, CategoryPhysiological} {
		if !categories[cat] {
			t.Errorf("expected an indicator in category %s", cat)
		}
	}

	foundStress := false
	for _, tt := range got.TriggerTypes {
		if tt == checkin.TriggerStress {
			foundStress = true
		}
	}
	if !foundStress {
		t.Error("expected stress among active trigger types")
	}
}

func TestAssessCrisisRisk_CalmScenario(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{checkIns: calmCheckIns(userID, calmTime)}
	a := newTestAssessor(profiles, checkIns, calmTime)

	got, err := a.AssessCrisisRisk(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OverallRiskLevel != SeverityLow {
		t.Errorf("expected low level, got %s (score %.2f)", got.OverallRiskLevel, got.RiskScore)
	}
	if got.RiskScore != 0 {
		t.Errorf("expected score 0, got %.2f", got.RiskScore)
	}
	if got.InterventionRecommended {
		t.Error("expected no intervention recommendation")
	}
	if got.EscalationRequired {
		t.Error("expected no escalation")
	}
	if got.TimeToIntervention != UrgencyMonitor {
		t.Errorf("expected monitor urgency, got %s", got.TimeToIntervention)
	}
}

func TestAssessCrisisRisk_NoCheckIns(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	a := newTestAssessor(profiles, &mockCheckInRepo{}, calmTime)

	got, err := a.AssessCrisisRisk(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Zero check-ins reads as disengagement, nothing more.
	if got.OverallRiskLevel != SeverityLow {
		t.Errorf("expected low level, got %s (score %.2f)", got.OverallRiskLevel, got.RiskScore)
	}
	foundEngagement := false
	for _, ind := range got.Indicators {
		if ind.Category == CategoryBehavioral {
			foundEngagement = true
		}
		if ind.Category == CategoryEmotional || ind.Category == CategoryPhysiological {
			t.Errorf("average-based indicator fired without check-ins: %s", ind.Description)
		}
	}
	if !foundEngagement {
		t.Error("expected a low-engagement indicator")
	}
}

func TestAssessCrisisRisk_UnknownUser(t *testing.T) {
	a := newTestAssessor(&mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{}}, &mockCheckInRepo{}, calmTime)

	_, err := a.AssessCrisisRisk(context.Background(), uuid.New())
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssessCrisisRisk_RepoFailureSafeDefaults(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{err: errors.New("connection reset")}
	a := newTestAssessor(profiles, checkIns, calmTime)

	got, err := a.AssessCrisisRisk(context.Background(), userID)
	if err != nil {
		t.Fatalf("expected safe defaults, got error: %v", err)
	}
	if got.OverallRiskLevel != SeverityMedium {
		t.Errorf("expected medium level, got %s", got.OverallRiskLevel)
	}
	if got.RiskScore != 50 {
		t.Errorf("expected score 50, got %.2f", got.RiskScore)
	}
	if !got.InterventionRecommended {
		t.Error("expected intervention recommendation in safe defaults")
	}
	if got.TimeToIntervention != UrgencyWithinHour {
		t.Errorf("expected within_hour urgency, got %s", got.TimeToIntervention)
	}
	if len(got.ContextualFactors) != 1 || got.ContextualFactors[0] != "assessment error - safe defaults" {
		t.Errorf("unexpected contextual factors: %v", got.ContextualFactors)
	}
}

func TestAssessCrisisRisk_MoodVolatility(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}

	// Swinging moods with an otherwise healthy week: only the volatility
	// indicator should fire on the emotional side.
	var swings []*checkin.CheckIn
	for i := 0; i < 5; i++ {
		mood := 9
		if i%2 == 1 {
			mood = 3
		}
		swings = append(swings, &checkin.CheckIn{
			ID:                   uuid.New(),
			UserID:               userID,
			Date:                 calmTime.AddDate(0, 0, -i),
			Mood:                 mood,
			Energy:               7,
			Stress:               4,
			Sleep:                7,
			CopingStrategiesUsed: []string{"breathing"},
			ReflectionCompleted:  true,
		})
	}
	a := newTestAssessor(profiles, &mockCheckInRepo{checkIns: swings}, calmTime)

	got, err := a.AssessCrisisRisk(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var emotional []Indicator
	for _, ind := range got.Indicators {
		if ind.Category == CategoryEmotional {
			emotional = append(emotional, ind)
		}
	}
	if len(emotional) != 1 {
		t.Fatalf("expected exactly one emotional indicator, got %d: %+v", len(emotional), emotional)
	}
	if emotional[0].Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %s", emotional[0].Severity)
	}
	if len(emotional[0].TriggerFactors) != 1 || emotional[0].TriggerFactors[0] != "mood_volatility" {
		t.Errorf("expected mood_volatility factor, got %v", emotional[0].TriggerFactors)
	}
}

// -- DetectImmediateCrisis --

func TestDetectImmediateCrisis_Crisis(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{checkIns: crisisCheckIns(userID, crisisTime)}
	a := newTestAssessor(profiles, checkIns, crisisTime)

	inCrisis, err := a.DetectImmediateCrisis(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inCrisis {
		t.Error("expected crisis to be detected")
	}
}

func TestDetectImmediateCrisis_Calm(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{checkIns: calmCheckIns(userID, calmTime)}
	a := newTestAssessor(profiles, checkIns, calmTime)

	inCrisis, err := a.DetectImmediateCrisis(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inCrisis {
		t.Error("expected no crisis")
	}
}

func TestDetectImmediateCrisis_FailsOpen(t *testing.T) {
	a := newTestAssessor(&mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{}}, &mockCheckInRepo{}, calmTime)

	inCrisis, err := a.DetectImmediateCrisis(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inCrisis {
		t.Error("expected fail-open crisis detection for unknown user")
	}
}

// -- GetRiskPatterns --

func TestGetRiskPatterns_CrisisHistory(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}
	checkIns := &mockCheckInRepo{checkIns: crisisCheckIns(userID, crisisTime)}
	a := newTestAssessor(profiles, checkIns, crisisTime)

	patterns := a.GetRiskPatterns(context.Background(), userID)
	if len(patterns) == 0 {
		t.Fatal("expected patterns from crisis history")
	}
	types := make(map[string]Pattern)
	for _, p := range patterns {
		types[p.PatternType] = p
		if p.RiskMultiplier <= 1.2 {
			t.Errorf("pattern %q below multiplier floor: %.2f", p.Pattern, p.RiskMultiplier)
		}
	}
	temporal, ok := types["temporal"]
	if !ok {
		t.Fatal("expected a temporal pattern")
	}
	// 5 high-intensity events at the same hour: 1.5 + 0.2*5.
	if temporal.RiskMultiplier != 2.5 {
		t.Errorf("expected temporal multiplier 2.5, got %.2f", temporal.RiskMultiplier)
	}
	if temporal.HistoricalOccurrences != 5 {
		t.Errorf("expected 5 occurrences, got %d", temporal.HistoricalOccurrences)
	}
	if _, ok := types["emotional"]; !ok {
		t.Error("expected an emotional pattern")
	}
	if _, ok := types["usage"]; !ok {
		t.Error("expected a usage pattern")
	}
}

func TestGetRiskPatterns_WeekendClustering(t *testing.T) {
	userID := uuid.New()
	profiles := &mockProfileRepo{profiles: map[uuid.UUID]*profile.RecoveryProfile{userID: crisisProfile(userID)}}

	// Two weekend days with severe events, one managed and one not. Hours
	// differ so no hour cluster forms alongside.
	saturday := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	weekends := []*checkin.CheckIn{
		{
			ID: uuid.New(), UserID: userID, Date: saturday,
			Mood: 7, Energy: 7, Stress: 4, Sleep: 7,
			ReflectionCompleted: true,
			Triggers: []checkin.TriggerEvent{{
				Type:      checkin.TriggerBoredom,
				Intensity: 8,
				Outcome:   checkin.OutcomeManaged,
				Timestamp: saturday.Add(14 * time.Hour),
			}},
		},
		{
			ID: uuid.New(), UserID: userID, Date: sunday,
			Mood: 7, Energy: 7, Stress: 4, Sleep: 7,
			ReflectionCompleted: true,
			Triggers: []checkin.TriggerEvent{{
				Type:      checkin.TriggerBoredom,
				Intensity: 8,
				Outcome:   checkin.OutcomeOverwhelmed,
				Timestamp: sunday.Add(20 * time.Hour),
			}},
		},
	}
	a := newTestAssessor(profiles, &mockCheckInRepo{checkIns: weekends}, calmTime)

	patterns := a.GetRiskPatterns(context.Background(), userID)
	if len(patterns) != 1 {
		t.Fatalf("expected exactly one pattern, got %d: %+v", len(patterns), patterns)
	}
	got := patterns[0]
	if got.PatternType != "environmental" {
		t.Errorf("expected environmental pattern, got %s", got.PatternType)
	}
	if got.RiskMultiplier != 1.3 {
		t.Errorf("expected multiplier 1.3, got %.2f", got.RiskMultiplier)
	}
	if got.HistoricalOccurrences != 2 {
		t.Errorf("expected 2 occurrences, got %d", got.HistoricalOccurrences)
	}
	if got.Effectiveness != 0.5 {
		t.Errorf("expected effectiveness 0.5, got %.2f", got.Effectiveness)
	}
}

func TestGetRiskPatterns_EmptyOnError(t *testing.T) {
	userID := uuid.New()
	a := newTestAssessor(&mockProfileRepo{}, &mockCheckInRepo{err: errors.New("timeout")}, calmTime)

	patterns := a.GetRiskPatterns(context.Background(), userID)
	if patterns == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(patterns) != 0 {
		t.Errorf("expected no patterns, got %d", len(patterns))
	}
}

func TestGetRiskPatterns_CalmHistoryEmpty(t *testing.T) {
	userID := uuid.New()
	checkIns := &mockCheckInRepo{checkIns: calmCheckIns(userID, calmTime)}
	a := newTestAssessor(&mockProfileRepo{}, checkIns, calmTime)

	patterns := a.GetRiskPatterns(context.Background(), userID)
	if len(patterns) != 0 {
		t.Errorf("expected no patterns from calm history, got %d", len(patterns))
	}
}

// -- Policy --

func TestLevelForBands(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		score float64
		want  Severity
	}{
		{0, SeverityLow},
		{44.9, SeverityLow},
		{45, SeverityMedium},
		{64.9, SeverityMedium},
		{65, SeverityHigh},
		{79.9, SeverityHigh},
		{80, SeverityCritical},
		{100, SeverityCritical},
	}
	for _, tc := range cases {
		if got := p.LevelFor(tc.score); got != tc.want {
			t.Errorf("LevelFor(%.1f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestIsLateNightWrapsMidnight(t *testing.T) {
	p := DefaultPolicy()
	for _, hour := range []int{22, 23, 0, 1} {
		if !p.isLateNight(hour) {
			t.Errorf("expected hour %d to be late night", hour)
		}
	}
	for _, hour := range []int{2, 12, 21} {
		if p.isLateNight(hour) {
			t.Errorf("expected hour %d not to be late night", hour)
		}
	}
}
