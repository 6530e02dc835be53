package stage

import (
	"time"

	"github.com/google/uuid"
)

// Transition trigger events.
const (
	TriggerProgress = "progress"
	TriggerSetback  = "setback"
)

// Transition describes one recovery-stage change. Produced by the tracker
// and persisted to the profile; the transition record itself is a return
// value.
type Transition struct {
	UserID                  uuid.UUID `json:"user_id"`
	FromStage               string    `json:"from_stage"`
	ToStage                 string    `json:"to_stage"`
	TransitionDate          time.Time `json:"transition_date"`
	TriggerEvent            string    `json:"trigger_event"` // progress | setback
	DaysSinceLastTransition int       `json:"days_since_last_transition"`
	Confidence              float64   `json:"confidence"` // 0..1
	SupportingFactors       []string  `json:"supporting_factors"`
}

// Metrics is a descriptive, non-mutating snapshot of where the user sits
// within their current stage.
type Metrics struct {
	UserID                uuid.UUID `json:"user_id"`
	CurrentStage          string    `json:"current_stage"`
	DaysInStage           int       `json:"days_in_stage"`
	StageProgress         float64   `json:"stage_progress"` // 0..1 toward the next stage
	NextStageRequirements []string  `json:"next_stage_requirements"`
	RiskFactors           []string  `json:"risk_factors"`
	RecommendedActions    []string  `json:"recommended_actions"`
}

// Progression is a coarse forecast of the user's recovery trajectory.
type Progression struct {
	UserID                  uuid.UUID `json:"user_id"`
	CurrentStage            string    `json:"current_stage"`
	OverallTrend            string    `json:"overall_trend"` // improving | steady | declining
	ProjectedNextStage      string    `json:"projected_next_stage"`
	ConfidenceInProgression float64   `json:"confidence_in_progression"` // 0..1
	RecentMilestones        []string  `json:"recent_milestones"`
}

// Trend values.
const (
	TrendImproving = "improving"
	TrendSteady    = "steady"
	TrendDeclining = "declining"
)
