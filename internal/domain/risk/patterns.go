package risk

import (
	"fmt"
	"sort"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
)

// Pattern mining thresholds. Patterns below the multiplier floor are noise
// and never surfaced.
const (
	patternWindowDays      = 30
	patternMultiplierFloor = 1.2

	hourPatternMinEvents    = 2
	lowMoodPatternMinDays   = 3
	highStressPatternMin    = 2
	lowEngagementPatternMin = 3
	weekendPatternMinDays   = 2

	// Mining thresholds are deliberately looser than the live detector
	// thresholds: patterns summarize tendency, not acute state.
	patternLowMood    = 4
	patternHighStress = 7
)

// minePatterns derives recurring risk patterns from a 30-day check-in window.
func minePatterns(p Policy, history []*checkin.CheckIn) []Pattern {
	var out []Pattern

	out = append(out, mineHourPatterns(p, history)...)
	out = append(out, mineEmotionalPatterns(p, history)...)
	out = append(out, mineUsagePatterns(p, history)...)
	out = append(out, mineEnvironmentalPatterns(p, history)...)

	filtered := out[:0]
	for _, pat := range out {
		if pat.RiskMultiplier > patternMultiplierFloor {
			filtered = append(filtered, pat)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].RiskMultiplier > filtered[j].RiskMultiplier
	})
	return filtered
}

// mineHourPatterns groups high-intensity trigger events by hour of day.
func mineHourPatterns(p Policy, history []*checkin.CheckIn) []Pattern {
	byHour := make(map[int]int)
	managedByHour := make(map[int]int)
	for _, ci := range history {
		for _, ev := range ci.Triggers {
			if ev.Intensity < p.HighIntensity {
				continue
			}
			h := ev.Timestamp.Hour()
			byHour[h]++
			if ev.Outcome == checkin.OutcomeManaged {
				managedByHour[h]++
			}
		}
	}

	var out []Pattern
	for hour, count := range byHour {
		if count < hourPatternMinEvents {
			continue
		}
		out = append(out, Pattern{
			PatternType:           "temporal",
			Pattern:               fmt.Sprintf("high-intensity triggers cluster around %02d:00", hour),
			RiskMultiplier:        1.5 + 0.2*float64(count),
			HistoricalOccurrences: count,
			Effectiveness:         float64(managedByHour[hour]) / float64(count),
		})
	}
	return out
}

// mineEmotionalPatterns counts low-mood and high-stress days in the window.
func mineEmotionalPatterns(_ Policy, history []*checkin.CheckIn) []Pattern {
	lowMoodDays := 0
	lowMoodReflected := 0
	highStressDays := 0
	highStressReflected := 0
	for _, ci := range history {
		if ci.Mood <= patternLowMood {
			lowMoodDays++
			if ci.ReflectionCompleted {
				lowMoodReflected++
			}
		}
		if ci.Stress >= patternHighStress {
			highStressDays++
			if ci.ReflectionCompleted {
				highStressReflected++
			}
		}
	}

	var out []Pattern
	if lowMoodDays >= lowMoodPatternMinDays {
		out = append(out, Pattern{
			PatternType:           "emotional",
			Pattern:               fmt.Sprintf("recurring low-mood days (%d in the last %d days)", lowMoodDays, patternWindowDays),
			RiskMultiplier:        1.8,
			HistoricalOccurrences: lowMoodDays,
			Effectiveness:         float64(lowMoodReflected) / float64(lowMoodDays),
		})
	}
	if highStressDays >= highStressPatternMin {
		out = append(out, Pattern{
			PatternType:           "emotional",
			Pattern:               fmt.Sprintf("recurring high-stress days (%d in the last %d days)", highStressDays, patternWindowDays),
			RiskMultiplier:        1.6,
			HistoricalOccurrences: highStressDays,
			Effectiveness:         float64(highStressReflected) / float64(highStressDays),
		})
	}
	return out
}

// mineUsagePatterns flags disengagement runs.
func mineUsagePatterns(_ Policy, history []*checkin.CheckIn) []Pattern {
	skipped := 0
	for _, ci := range history {
		if !ci.ReflectionCompleted {
			skipped++
		}
	}
	if skipped < lowEngagementPatternMin {
		return nil
	}
	return []Pattern{{
		PatternType:           "usage",
		Pattern:               fmt.Sprintf("reflection skipped on %d of the last %d recorded days", skipped, len(history)),
		RiskMultiplier:        1.4,
		HistoricalOccurrences: skipped,
		Effectiveness:         float64(len(history)-skipped) / float64(len(history)),
	}}
}

// mineEnvironmentalPatterns looks for weekend clustering of severe events.
func mineEnvironmentalPatterns(p Policy, history []*checkin.CheckIn) []Pattern {
	weekendDays := 0
	weekendManaged := 0
	for _, ci := range history {
		if !isWeekend(ci.Date) {
			continue
		}
		severe := false
		managed := true
		for _, ev := range ci.Triggers {
			if ev.Intensity >= p.HighIntensity {
				severe = true
				if ev.Outcome != checkin.OutcomeManaged {
					managed = false
				}
			}
		}
		if severe {
			weekendDays++
			if managed {
				weekendManaged++
			}
		}
	}
	if weekendDays < weekendPatternMinDays {
		return nil
	}
	return []Pattern{{
		PatternType:           "environmental",
		Pattern:               fmt.Sprintf("severe trigger events concentrate on weekends (%d days)", weekendDays),
		RiskMultiplier:        1.3,
		HistoricalOccurrences: weekendDays,
		Effectiveness:         float64(weekendManaged) / float64(weekendDays),
	}}
}
