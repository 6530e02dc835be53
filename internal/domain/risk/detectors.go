package risk

import (
	"fmt"
	"time"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
)

// Per-indicator confidence levels. Confidence scales an indicator's point
// contribution before the category weight is applied.
const (
	confLateNight        = 0.75
	confWeekend          = 0.6
	confPersonalHour     = 0.85
	confMoodCritical     = 0.9
	confMoodLow          = 0.85
	confMoodModerate     = 0.7
	confStressHigh       = 0.85
	confStressModerate   = 0.7
	confMoodVolatility   = 0.65
	confTriggerOverlap   = 0.9
	confLowEngagement    = 0.8
	confLowCopingUsage   = 0.7
	confSevereEvents     = 0.9
	confPoorSleepHabits  = 0.75
	confEnvWeekend       = 0.6
	confEnvLateNight     = 0.7
	confLowEnergy        = 0.8
	confPoorSleepPhysio  = 0.8
)

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// temporalIndicators flags statistically elevated-risk times plus the user's
// own hour-of-day correlation with high-intensity trigger events.
func temporalIndicators(p Policy, now time.Time, history []*checkin.CheckIn) []Indicator {
	var out []Indicator

	if p.isLateNight(now.Hour()) {
		out = append(out, Indicator{
			Category:       CategoryTemporal,
			Severity:       SeverityMedium,
			Confidence:     confLateNight,
			Description:    "check occurred during elevated-risk late-night hours",
			TriggerFactors: []string{"late_night"},
			DetectedAt:     now,
		})
	}
	if isWeekend(now) {
		out = append(out, Indicator{
			Category:       CategoryTemporal,
			Severity:       SeverityLow,
			Confidence:     confWeekend,
			Description:    "weekend days carry elevated relapse risk",
			TriggerFactors: []string{"weekend"},
			DetectedAt:     now,
		})
	}

	// Personal hour-of-day correlation: high-intensity events recorded at the
	// current hour within the mining window.
	matches := 0
	for _, ci := range history {
		for _, ev := range ci.Triggers {
			if ev.Intensity >= p.HighIntensity && ev.Timestamp.Hour() == now.Hour() {
				matches++
			}
		}
	}
	if matches >= p.PersonalHourMatches {
		out = append(out, Indicator{
			Category:   CategoryTemporal,
			Severity:   SeverityHigh,
			Confidence: confPersonalHour,
			Description: fmt.Sprintf(
				"%d high-intensity trigger events previously recorded around %02d:00", matches, now.Hour()),
			TriggerFactors: []string{"personal_hour_pattern"},
			DetectedAt:     now,
		})
	}

	return out
}

// emotionalIndicators thresholds the rating averages and checks the overlap
// between declared personal triggers and triggers seen in the recent window.
func emotionalIndicators(p Policy, prof *profile.RecoveryProfile, recent []*checkin.CheckIn, avg *checkin.AverageRatings, now time.Time) []Indicator {
	var out []Indicator

	if len(recent) > 0 && avg != nil {
		switch {
		case avg.Mood <= p.CriticalMood:
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityCritical,
				Confidence:     confMoodCritical,
				Description:    fmt.Sprintf("severely depressed mood average (%.1f)", avg.Mood),
				TriggerFactors: []string{"low_mood"},
				DetectedAt:     now,
			})
		case avg.Mood <= p.LowMood:
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityHigh,
				Confidence:     confMoodLow,
				Description:    fmt.Sprintf("low mood average (%.1f)", avg.Mood),
				TriggerFactors: []string{"low_mood"},
				DetectedAt:     now,
			})
		case avg.Mood <= p.ModerateMood:
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityMedium,
				Confidence:     confMoodModerate,
				Description:    fmt.Sprintf("below-baseline mood average (%.1f)", avg.Mood),
				TriggerFactors: []string{"low_mood"},
				DetectedAt:     now,
			})
		}

		switch {
		case avg.Stress >= p.HighStress:
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityHigh,
				Confidence:     confStressHigh,
				Description:    fmt.Sprintf("sustained high stress average (%.1f)", avg.Stress),
				TriggerFactors: []string{"high_stress"},
				DetectedAt:     now,
			})
		case avg.Stress >= p.ModerateStress:
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityMedium,
				Confidence:     confStressModerate,
				Description:    fmt.Sprintf("elevated stress average (%.1f)", avg.Stress),
				TriggerFactors: []string{"high_stress"},
				DetectedAt:     now,
			})
		}

		if v := moodVariance(recent); v > p.MoodVariance {
			out = append(out, Indicator{
				Category:       CategoryEmotional,
				Severity:       SeverityMedium,
				Confidence:     confMoodVolatility,
				Description:    fmt.Sprintf("volatile mood across recent check-ins (variance %.1f)", v),
				TriggerFactors: []string{"mood_volatility"},
				DetectedAt:     now,
			})
		}
	}

	// Overlap of declared personal triggers with trigger types seen recently.
	if hits := triggerOverlap(prof.PersonalTriggers, recent); len(hits) >= p.TriggerOverlapHits {
		out = append(out, Indicator{
			Category:          CategoryEmotional,
			Severity:          SeverityHigh,
			Confidence:        confTriggerOverlap,
			Description:       fmt.Sprintf("%d declared personal triggers active in the last week", len(hits)),
			TriggerFactors:    hits,
			DetectedAt:        now,
			RequiresImmediate: true,
		})
	}

	return out
}

// behavioralIndicators checks engagement, coping usage and severe trigger
// events in the recent window.
func behavioralIndicators(p Policy, prof *profile.RecoveryProfile, recent []*checkin.CheckIn, avg *checkin.AverageRatings, now time.Time) []Indicator {
	var out []Indicator

	reflected := 0
	usedCoping := 0
	severeDays := 0
	for _, ci := range recent {
		if ci.ReflectionCompleted {
			reflected++
		}
		if len(ci.CopingStrategiesUsed) > 0 {
			usedCoping++
		}
		for _, ev := range ci.Triggers {
			if ev.Intensity >= p.SevereIntensity || ev.Outcome == checkin.OutcomeOverwhelmed {
				severeDays++
				break
			}
		}
	}

	engagementRate := 0.0
	copingRate := 0.0
	if len(recent) > 0 {
		engagementRate = float64(reflected) / float64(len(recent))
		copingRate = float64(usedCoping) / float64(len(recent))
	}

	if engagementRate < p.MinEngagementRate {
		out = append(out, Indicator{
			Category:       CategoryBehavioral,
			Severity:       SeverityMedium,
			Confidence:     confLowEngagement,
			Description:    fmt.Sprintf("low reflection engagement (%.0f%%)", engagementRate*100),
			TriggerFactors: []string{"low_engagement"},
			DetectedAt:     now,
		})
	}
	if len(prof.CopingStrategies) > 0 && len(recent) > 0 && copingRate < p.MinCopingUsageRate {
		out = append(out, Indicator{
			Category:       CategoryBehavioral,
			Severity:       SeverityMedium,
			Confidence:     confLowCopingUsage,
			Description:    fmt.Sprintf("declared coping strategies rarely used (%.0f%%)", copingRate*100),
			TriggerFactors: []string{"unused_coping_strategies"},
			DetectedAt:     now,
		})
	}
	if severeDays >= p.SevereEventDays {
		out = append(out, Indicator{
			Category:          CategoryBehavioral,
			Severity:          SeverityHigh,
			Confidence:        confSevereEvents,
			Description:       fmt.Sprintf("%d recent check-ins with severe or overwhelming trigger events", severeDays),
			TriggerFactors:    []string{"overwhelming_triggers"},
			DetectedAt:        now,
			RequiresImmediate: true,
		})
	}
	if len(recent) > 0 && avg != nil && avg.Sleep <= p.PoorSleepBehavior {
		out = append(out, Indicator{
			Category:       CategoryBehavioral,
			Severity:       SeverityMedium,
			Confidence:     confPoorSleepHabits,
			Description:    fmt.Sprintf("poor sleep quality average (%.1f)", avg.Sleep),
			TriggerFactors: []string{"poor_sleep"},
			DetectedAt:     now,
		})
	}

	return out
}

// environmentalIndicators flags the current context independent of personal
// history. Never marks requires-immediate.
func environmentalIndicators(p Policy, now time.Time) []Indicator {
	var out []Indicator

	if isWeekend(now) {
		out = append(out, Indicator{
			Category:       CategoryEnvironmental,
			Severity:       SeverityLow,
			Confidence:     confEnvWeekend,
			Description:    "weekend environment with reduced structure",
			TriggerFactors: []string{"weekend"},
			DetectedAt:     now,
		})
	}
	if p.isLateNight(now.Hour()) {
		out = append(out, Indicator{
			Category:       CategoryEnvironmental,
			Severity:       SeverityMedium,
			Confidence:     confEnvLateNight,
			Description:    "late-night environment with fewer support options",
			TriggerFactors: []string{"late_night"},
			DetectedAt:     now,
		})
	}

	return out
}

// physiologicalIndicators thresholds the energy and sleep averages.
func physiologicalIndicators(p Policy, recent []*checkin.CheckIn, avg *checkin.AverageRatings, now time.Time) []Indicator {
	if len(recent) == 0 || avg == nil {
		return nil
	}

	var out []Indicator
	if avg.Energy <= p.LowEnergy {
		out = append(out, Indicator{
			Category:       CategoryPhysiological,
			Severity:       SeverityMedium,
			Confidence:     confLowEnergy,
			Description:    fmt.Sprintf("depleted energy average (%.1f)", avg.Energy),
			TriggerFactors: []string{"low_energy"},
			DetectedAt:     now,
		})
	}
	if avg.Sleep <= p.PoorSleep {
		out = append(out, Indicator{
			Category:       CategoryPhysiological,
			Severity:       SeverityMedium,
			Confidence:     confPoorSleepPhysio,
			Description:    fmt.Sprintf("insufficient sleep average (%.1f)", avg.Sleep),
			TriggerFactors: []string{"poor_sleep"},
			DetectedAt:     now,
		})
	}

	return out
}

// moodVariance returns the population variance of mood ratings.
func moodVariance(checkIns []*checkin.CheckIn) float64 {
	if len(checkIns) < 2 {
		return 0
	}
	mean := 0.0
	for _, ci := range checkIns {
		mean += float64(ci.Mood)
	}
	mean /= float64(len(checkIns))

	variance := 0.0
	for _, ci := range checkIns {
		d := float64(ci.Mood) - mean
		variance += d * d
	}
	return variance / float64(len(checkIns))
}

// triggerOverlap returns the declared personal triggers that also appear in
// the recent check-in window.
func triggerOverlap(personal []string, recent []*checkin.CheckIn) []string {
	seen := make(map[checkin.TriggerType]bool)
	for _, ci := range recent {
		for _, ev := range ci.Triggers {
			seen[ev.Type] = true
		}
	}

	var hits []string
	for _, t := range personal {
		if seen[checkin.TriggerType(t)] {
			hits = append(hits, t)
		}
	}
	return hits
}
