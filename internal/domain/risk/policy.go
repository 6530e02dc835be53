package risk

// Policy collects the heuristic constants behind risk scoring. These are
// tunable operating values, not behavioral contracts; keeping them in one
// table makes the tuning surface explicit.
type Policy struct {
	// Scoring
	BasePoints      map[Severity]float64
	CategoryWeights map[Category]float64
	ScoreMultiplier float64
	CriticalScore   float64
	HighScore       float64
	MediumScore     float64

	// Temporal detection
	LateNightStartHour  int // inclusive
	LateNightEndHour    int // exclusive
	PersonalHourWindow  int // days of history mined for hour-of-day correlation
	PersonalHourMatches int // events at the current hour needed to escalate

	// Emotional detection
	CriticalMood       float64
	LowMood            float64
	ModerateMood       float64
	HighStress         float64
	ModerateStress     float64
	MoodVariance       float64
	TriggerOverlapHits int // personal triggers seen recently

	// Behavioral detection
	MinEngagementRate  float64
	MinCopingUsageRate float64
	SevereIntensity    int
	SevereEventDays    int
	PoorSleepBehavior  float64

	// Physiological detection
	LowEnergy float64
	PoorSleep float64

	// Event intensity regarded as high across detectors and pattern mining
	HighIntensity int
}

// DefaultPolicy returns the standard operating policy.
func DefaultPolicy() Policy {
	return Policy{
		BasePoints: map[Severity]float64{
			SeverityCritical: 25,
			SeverityHigh:     20,
			SeverityMedium:   15,
			SeverityLow:      10,
		},
		CategoryWeights: map[Category]float64{
			CategoryTemporal:      0.20,
			CategoryEmotional:     0.30,
			CategoryBehavioral:    0.25,
			CategoryEnvironmental: 0.15,
			CategoryPhysiological: 0.10,
		},
		ScoreMultiplier: 2.0,
		CriticalScore:   80,
		HighScore:       65,
		MediumScore:     45,

		LateNightStartHour:  22,
		LateNightEndHour:    2,
		PersonalHourWindow:  14,
		PersonalHourMatches: 2,

		CriticalMood:       2,
		LowMood:            3,
		ModerateMood:       5,
		HighStress:         8,
		ModerateStress:     6,
		MoodVariance:       6,
		TriggerOverlapHits: 2,

		MinEngagementRate:  0.3,
		MinCopingUsageRate: 0.5,
		SevereIntensity:    8,
		SevereEventDays:    3,
		PoorSleepBehavior:  3,

		LowEnergy: 3,
		PoorSleep: 4,

		HighIntensity: 7,
	}
}

// LevelFor maps a risk score onto the fixed severity bands.
func (p Policy) LevelFor(score float64) Severity {
	switch {
	case score >= p.CriticalScore:
		return SeverityCritical
	case score >= p.HighScore:
		return SeverityHigh
	case score >= p.MediumScore:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// isLateNight reports whether the hour falls in the elevated-risk window.
func (p Policy) isLateNight(hour int) bool {
	return hour >= p.LateNightStartHour || hour < p.LateNightEndHour
}
