package stage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/milestone"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

const (
	metricsWindowDays    = 7
	recentMilestoneLimit = 5
)

// Tracker evaluates recovery-stage transitions and computes stage metrics.
// Unlike risk assessment, this path propagates errors: coaching cadence can
// wait for a fixed data problem, crisis response cannot.
type Tracker struct {
	profiles   profile.Repository
	checkIns   checkin.Repository
	milestones milestone.Repository
	clock      risk.Clock
	policy     Policy
	log        zerolog.Logger
}

func NewTracker(profiles profile.Repository, checkIns checkin.Repository, milestones milestone.Repository, clock risk.Clock, log zerolog.Logger) *Tracker {
	if clock == nil {
		clock = risk.SystemClock()
	}
	return &Tracker{
		profiles:   profiles,
		checkIns:   checkIns,
		milestones: milestones,
		clock:      clock,
		policy:     DefaultPolicy(),
		log:        log,
	}
}

// EvaluateStageProgression decides whether the user's stage should change
// and persists the new stage when it does. Returns nil when no transition
// applies.
func (t *Tracker) EvaluateStageProgression(ctx context.Context, userID uuid.UUID) (*Transition, error) {
	prof, err := t.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("evaluate stage progression: %w", err)
	}

	recent, err := t.checkIns.GetRecent(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("evaluate stage progression: %w", err)
	}

	// Setback regression is checked before any progress rule.
	if prof.CurrentStage != profile.StageChallenge && t.recentSetback(prof, recent) {
		return t.transition(ctx, prof, profile.StageChallenge, TriggerSetback, 0.9, []string{
			fmt.Sprintf("setback %d days ago", prof.DaysSinceLastSetback),
			"high-intensity or overwhelming trigger event this week",
		})
	}

	avg, err := t.checkIns.GetAverageRatings(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("evaluate stage progression: %w", err)
	}

	switch prof.CurrentStage {
	case profile.StageChallenge:
		if prof.DaysSinceLastSetback >= t.policy.RecoveryDays && !t.ratingsPoor(recent, avg) {
			return t.transition(ctx, prof, profile.StageEarly, TriggerProgress, 0.8, []string{
				fmt.Sprintf("%d days since setback", prof.DaysSinceLastSetback),
				"stable mood and stress ratings",
			})
		}
	case profile.StageEarly:
		if prof.TotalRecoveryDays >= t.policy.MaintenanceDays &&
			prof.DaysSinceLastSetback >= t.policy.MaintenanceStableDays {
			return t.transition(ctx, prof, profile.StageMaintenance, TriggerProgress, 0.75, []string{
				fmt.Sprintf("%d total recovery days", prof.TotalRecoveryDays),
				fmt.Sprintf("%d days since setback", prof.DaysSinceLastSetback),
			})
		}
	case profile.StageMaintenance:
		if prof.TotalRecoveryDays >= t.policy.GrowthDays &&
			prof.DaysSinceLastSetback >= t.policy.GrowthStableDays {
			return t.transition(ctx, prof, profile.StageGrowth, TriggerProgress, 0.75, []string{
				fmt.Sprintf("%d total recovery days", prof.TotalRecoveryDays),
				fmt.Sprintf("%d days since setback", prof.DaysSinceLastSetback),
			})
		}
	}

	return nil, nil
}

// GetStageMetrics describes where the user sits in their current stage.
// Non-mutating.
func (t *Tracker) GetStageMetrics(ctx context.Context, userID uuid.UUID) (*Metrics, error) {
	prof, err := t.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get stage metrics: %w", err)
	}
	avg, err := t.checkIns.GetAverageRatings(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("get stage metrics: %w", err)
	}
	recent, err := t.checkIns.GetRecent(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("get stage metrics: %w", err)
	}

	m := &Metrics{
		UserID:                userID,
		CurrentStage:          prof.CurrentStage,
		DaysInStage:           t.daysInStage(prof),
		StageProgress:         t.stageProgress(prof),
		NextStageRequirements: t.nextStageRequirements(prof),
		RecommendedActions:    recommendedActions[prof.CurrentStage],
	}
	if len(recent) > 0 && avg != nil {
		m.RiskFactors = t.riskFactors(avg)
	}
	return m, nil
}

// GetRecoveryProgression forecasts the user's trajectory from recent ratings
// and milestones.
func (t *Tracker) GetRecoveryProgression(ctx context.Context, userID uuid.UUID) (*Progression, error) {
	prof, err := t.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get recovery progression: %w", err)
	}
	avg, err := t.checkIns.GetAverageRatings(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("get recovery progression: %w", err)
	}
	recent, err := t.checkIns.GetRecent(ctx, userID, metricsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("get recovery progression: %w", err)
	}

	trend := TrendSteady
	confidence := 0.5
	if len(recent) > 0 && avg != nil {
		switch {
		case avg.Mood > t.policy.PoorMood+2 && avg.Stress < t.policy.HighStress-2:
			trend = TrendImproving
			confidence = 0.8
		case avg.Mood <= t.policy.PoorMood || avg.Stress >= t.policy.HighStress:
			trend = TrendDeclining
			confidence = 0.7
		}
	}

	var milestoneTitles []string
	if ms, err := t.milestones.GetRecent(ctx, userID, recentMilestoneLimit); err == nil {
		for _, item := range ms {
			milestoneTitles = append(milestoneTitles, item.Title)
		}
		// Recent milestones are corroborating evidence for the trend call.
		if len(ms) > 0 && trend == TrendImproving && confidence < 0.9 {
			confidence += 0.1
		}
	} else {
		t.log.Warn().Err(err).Str("user_id", userID.String()).Msg("milestone lookup failed, forecasting without them")
	}

	return &Progression{
		UserID:                  userID,
		CurrentStage:            prof.CurrentStage,
		OverallTrend:            trend,
		ProjectedNextStage:      nextStage[prof.CurrentStage],
		ConfidenceInProgression: confidence,
		RecentMilestones:        milestoneTitles,
	}, nil
}

func (t *Tracker) transition(ctx context.Context, prof *profile.RecoveryProfile, toStage, trigger string, confidence float64, factors []string) (*Transition, error) {
	if err := t.profiles.UpdateStage(ctx, prof.UserID, toStage); err != nil {
		return nil, fmt.Errorf("persist stage transition: %w", err)
	}

	t.log.Info().
		Str("user_id", prof.UserID.String()).
		Str("from_stage", prof.CurrentStage).
		Str("to_stage", toStage).
		Str("trigger_event", trigger).
		Msg("recovery stage transition")

	return &Transition{
		UserID:                  prof.UserID,
		FromStage:               prof.CurrentStage,
		ToStage:                 toStage,
		TransitionDate:          t.clock.Now(),
		TriggerEvent:            trigger,
		DaysSinceLastTransition: prof.DaysSinceLastSetback,
		Confidence:              confidence,
		SupportingFactors:       factors,
	}, nil
}

// recentSetback reports a setback signal: a setback within the window plus a
// high-intensity or overwhelming trigger event in the recent check-ins.
func (t *Tracker) recentSetback(prof *profile.RecoveryProfile, recent []*checkin.CheckIn) bool {
	if prof.DaysSinceLastSetback > t.policy.SetbackWindowDays {
		return false
	}
	for _, ci := range recent {
		for _, ev := range ci.Triggers {
			if ev.Intensity >= t.policy.SetbackIntensity || ev.Outcome == checkin.OutcomeOverwhelmed {
				return true
			}
		}
	}
	return false
}

func (t *Tracker) ratingsPoor(recent []*checkin.CheckIn, avg *checkin.AverageRatings) bool {
	if len(recent) == 0 || avg == nil {
		return false
	}
	return avg.Mood <= t.policy.PoorMood || avg.Stress >= t.policy.HighStress
}

// daysInStage derives time in stage from the day threshold that defined
// entry. Challenge is entered by setback, so the setback counter applies.
func (t *Tracker) daysInStage(prof *profile.RecoveryProfile) int {
	if prof.CurrentStage == profile.StageChallenge {
		return prof.DaysSinceLastSetback
	}
	entry, ok := t.policy.stageEntryDays(prof.CurrentStage)
	if !ok {
		return 0
	}
	days := prof.TotalRecoveryDays - entry
	if days < 0 {
		return 0
	}
	return days
}

func (t *Tracker) stageProgress(prof *profile.RecoveryProfile) float64 {
	var needed float64
	switch prof.CurrentStage {
	case profile.StageChallenge:
		needed = float64(t.policy.RecoveryDays)
		return clampFraction(float64(prof.DaysSinceLastSetback) / needed)
	case profile.StageEarly:
		needed = float64(t.policy.MaintenanceDays)
	case profile.StageMaintenance:
		needed = float64(t.policy.GrowthDays)
	case profile.StageGrowth:
		return 1
	default:
		return 0
	}
	return clampFraction(float64(prof.TotalRecoveryDays) / needed)
}

func (t *Tracker) nextStageRequirements(prof *profile.RecoveryProfile) []string {
	switch prof.CurrentStage {
	case profile.StageChallenge:
		return []string{fmt.Sprintf("%d days since last setback with stable ratings", t.policy.RecoveryDays)}
	case profile.StageEarly:
		return []string{
			fmt.Sprintf("%d total recovery days", t.policy.MaintenanceDays),
			fmt.Sprintf("%d days since last setback", t.policy.MaintenanceStableDays),
		}
	case profile.StageMaintenance:
		return []string{
			fmt.Sprintf("%d total recovery days", t.policy.GrowthDays),
			fmt.Sprintf("%d days since last setback", t.policy.GrowthStableDays),
		}
	default:
		return []string{"maintain current practices"}
	}
}

func (t *Tracker) riskFactors(avg *checkin.AverageRatings) []string {
	var factors []string
	if avg.Mood <= t.policy.PoorMood {
		factors = append(factors, fmt.Sprintf("low mood average (%.1f)", avg.Mood))
	}
	if avg.Stress >= t.policy.HighStress {
		factors = append(factors, fmt.Sprintf("high stress average (%.1f)", avg.Stress))
	}
	if avg.Sleep <= t.policy.PoorSleep {
		factors = append(factors, fmt.Sprintf("poor sleep average (%.1f)", avg.Sleep))
	}
	return factors
}

func clampFraction(f float64) float64 {
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

var nextStage = map[string]string{
	profile.StageChallenge:   profile.StageEarly,
	profile.StageEarly:       profile.StageMaintenance,
	profile.StageMaintenance: profile.StageGrowth,
	profile.StageGrowth:      profile.StageGrowth,
}

var recommendedActions = map[string][]string{
	profile.StageChallenge: {
		"complete a daily check-in even on hard days",
		"use a declared coping strategy when a trigger hits",
		"reach out to a support contact",
	},
	profile.StageEarly: {
		"keep the daily check-in streak going",
		"practice coping strategies before triggers escalate",
		"record milestones as you reach them",
	},
	profile.StageMaintenance: {
		"review which coping strategies work best",
		"plan ahead for known high-risk times",
	},
	profile.StageGrowth: {
		"mentor or support others where possible",
		"revisit and refresh your support network",
	},
}
