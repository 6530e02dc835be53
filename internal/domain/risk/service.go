package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
)

const recentWindowDays = 7

// Assessor computes crisis-risk assessments from recovery profiles and
// check-in history. Assessments are derived on demand and never stored.
type Assessor struct {
	profiles profile.Repository
	checkIns checkin.Repository
	clock    Clock
	policy   Policy
	log      zerolog.Logger
}

func NewAssessor(profiles profile.Repository, checkIns checkin.Repository, clock Clock, log zerolog.Logger) *Assessor {
	if clock == nil {
		clock = SystemClock()
	}
	return &Assessor{
		profiles: profiles,
		checkIns: checkIns,
		clock:    clock,
		policy:   DefaultPolicy(),
		log:      log,
	}
}

// AssessCrisisRisk runs all detectors against the user's current state.
// An unknown user is a hard error; any internal failure past that point
// degrades to a safe-default medium assessment instead of failing.
func (a *Assessor) AssessCrisisRisk(ctx context.Context, userID uuid.UUID) (*Assessment, error) {
	prof, err := a.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("assess crisis risk: %w", err)
		}
		a.log.Error().Err(err).Str("user_id", userID.String()).Msg("profile lookup failed, using safe defaults")
		return a.safeDefaultAssessment(userID), nil
	}

	recent, err := a.checkIns.GetRecent(ctx, userID, recentWindowDays)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID.String()).Msg("recent check-in lookup failed, using safe defaults")
		return a.safeDefaultAssessment(userID), nil
	}

	var avg *checkin.AverageRatings
	if len(recent) > 0 {
		avg, err = a.checkIns.GetAverageRatings(ctx, userID, recentWindowDays)
		if err != nil {
			a.log.Error().Err(err).Str("user_id", userID.String()).Msg("average ratings lookup failed, using safe defaults")
			return a.safeDefaultAssessment(userID), nil
		}
	}

	hourHistory, err := a.checkIns.GetRecent(ctx, userID, a.policy.PersonalHourWindow)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID.String()).Msg("hour-pattern history lookup failed, using safe defaults")
		return a.safeDefaultAssessment(userID), nil
	}

	now := a.clock.Now()

	var indicators []Indicator
	indicators = append(indicators, temporalIndicators(a.policy, now, hourHistory)...)
	indicators = append(indicators, emotionalIndicators(a.policy, prof, recent, avg, now)...)
	indicators = append(indicators, behavioralIndicators(a.policy, prof, recent, avg, now)...)
	indicators = append(indicators, environmentalIndicators(a.policy, now)...)
	indicators = append(indicators, physiologicalIndicators(a.policy, recent, avg, now)...)

	score := a.score(indicators)
	level := a.policy.LevelFor(score)

	immediate := level == SeverityCritical
	for _, ind := range indicators {
		if ind.RequiresImmediate {
			immediate = true
		}
	}

	assessment := &Assessment{
		UserID:                  userID,
		OverallRiskLevel:        level,
		RiskScore:               score,
		Indicators:              indicators,
		TriggerTypes:            declaredTriggerTypes(prof),
		InterventionRecommended: score >= a.policy.MediumScore,
		EscalationRequired:      score >= a.policy.CriticalScore,
		TimeToIntervention:      a.urgencyFor(level, immediate),
		ContextualFactors:       contextualFactors(indicators),
		AssessedAt:              now,
	}

	a.log.Info().
		Str("user_id", userID.String()).
		Float64("risk_score", score).
		Str("risk_level", string(level)).
		Int("indicators", len(indicators)).
		Bool("escalation_required", assessment.EscalationRequired).
		Msg("crisis risk assessed")

	return assessment, nil
}

// DetectImmediateCrisis reports whether the user needs intervention right
// now: any indicator marked requires-immediate, or a score in the critical
// band. Fails open: any error counts as a crisis.
func (a *Assessor) DetectImmediateCrisis(ctx context.Context, userID uuid.UUID) (bool, error) {
	assessment, err := a.AssessCrisisRisk(ctx, userID)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", userID.String()).Msg("crisis detection failed, failing open")
		return true, nil
	}
	if assessment.RiskScore >= a.policy.CriticalScore {
		return true, nil
	}
	for _, ind := range assessment.Indicators {
		if ind.RequiresImmediate {
			return true, nil
		}
	}
	return false, nil
}

// GetRiskPatterns mines recurring patterns from the last 30 days of
// check-ins. Returns an empty slice, never an error, when history is
// unavailable.
func (a *Assessor) GetRiskPatterns(ctx context.Context, userID uuid.UUID) []Pattern {
	history, err := a.checkIns.GetRecent(ctx, userID, patternWindowDays)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", userID.String()).Msg("pattern mining skipped, history unavailable")
		return []Pattern{}
	}
	patterns := minePatterns(a.policy, history)
	if patterns == nil {
		patterns = []Pattern{}
	}
	return patterns
}

// score sums base points scaled by confidence and category weight, then
// stretches onto the 0-100 band.
func (a *Assessor) score(indicators []Indicator) float64 {
	sum := 0.0
	for _, ind := range indicators {
		sum += a.policy.BasePoints[ind.Severity] * ind.Confidence * a.policy.CategoryWeights[ind.Category]
	}
	score := sum * a.policy.ScoreMultiplier
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func (a *Assessor) urgencyFor(level Severity, immediate bool) Urgency {
	if immediate {
		return UrgencyImmediate
	}
	switch level {
	case SeverityHigh:
		return UrgencyWithinHour
	case SeverityMedium:
		return UrgencyWithinDay
	default:
		return UrgencyMonitor
	}
}

// safeDefaultAssessment is the fail-safe returned when internal state cannot
// be read. Medium risk with intervention recommended errs toward care.
func (a *Assessor) safeDefaultAssessment(userID uuid.UUID) *Assessment {
	return &Assessment{
		UserID:                  userID,
		OverallRiskLevel:        SeverityMedium,
		RiskScore:               50,
		Indicators:              []Indicator{},
		TriggerTypes:            []checkin.TriggerType{},
		InterventionRecommended: true,
		EscalationRequired:      false,
		TimeToIntervention:      UrgencyWithinHour,
		ContextualFactors:       []string{"assessment error - safe defaults"},
		AssessedAt:              a.clock.Now(),
	}
}

// declaredTriggerTypes dedupes the profile's personal triggers, preserving
// declaration order.
func declaredTriggerTypes(prof *profile.RecoveryProfile) []checkin.TriggerType {
	seen := make(map[checkin.TriggerType]bool)
	var out []checkin.TriggerType
	for _, t := range prof.PersonalTriggers {
		tt := checkin.TriggerType(t)
		if !seen[tt] {
			seen[tt] = true
			out = append(out, tt)
		}
	}
	return out
}

// contextualFactors dedupes indicator trigger factors, preserving order.
func contextualFactors(indicators []Indicator) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ind := range indicators {
		for _, f := range ind.TriggerFactors {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}
