package stage

import "github.com/recoverypath/recovery-engine/internal/domain/profile"

// Policy holds the day-count and rating thresholds behind stage transitions.
// Tunable operating values, not behavioral contracts.
type Policy struct {
	// Setback regression (any stage except challenge)
	SetbackWindowDays int // daysSinceLastSetback at or under this counts as recent
	SetbackIntensity  int // trigger-event intensity regarded as a setback signal

	// challenge -> early
	RecoveryDays int // daysSinceLastSetback needed to exit challenge

	// early -> maintenance
	MaintenanceDays       int // totalRecoveryDays needed
	MaintenanceStableDays int // daysSinceLastSetback needed

	// maintenance -> growth
	GrowthDays       int
	GrowthStableDays int

	// Rating thresholds shared by transition checks and metrics
	PoorMood   float64
	HighStress float64
	PoorSleep  float64
}

// DefaultPolicy returns the standard operating policy. The early->maintenance
// and maintenance->growth day counts are deliberate policy choices; only the
// challenge transitions carry externally fixed thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SetbackWindowDays: 3,
		SetbackIntensity:  8,

		RecoveryDays: 7,

		MaintenanceDays:       30,
		MaintenanceStableDays: 14,

		GrowthDays:       90,
		GrowthStableDays: 30,

		PoorMood:   4,
		HighStress: 7,
		PoorSleep:  4,
	}
}

// stageEntryDays maps a stage to the totalRecoveryDays threshold that defined
// entry into it. Challenge is entered by setback, not by day count.
func (p Policy) stageEntryDays(stage string) (int, bool) {
	switch stage {
	case profile.StageEarly:
		return 0, true
	case profile.StageMaintenance:
		return p.MaintenanceDays, true
	case profile.StageGrowth:
		return p.GrowthDays, true
	default:
		return 0, false
	}
}
