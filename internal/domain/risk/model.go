package risk

import (
	"time"

	"github.com/google/uuid"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
)

// Category classifies the source of a risk indicator.
type Category string

const (
	CategoryTemporal      Category = "temporal"
	CategoryEmotional     Category = "emotional"
	CategoryBehavioral    Category = "behavioral"
	CategoryEnvironmental Category = "environmental"
	CategoryPhysiological Category = "physiological"
)

// Severity grades an indicator or an overall assessment.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Urgency describes how soon an intervention should happen.
type Urgency string

const (
	UrgencyImmediate  Urgency = "immediate"
	UrgencyWithinHour Urgency = "within_hour"
	UrgencyWithinDay  Urgency = "within_day"
	UrgencyMonitor    Urgency = "monitor"
)

// Indicator is one detected risk signal. Produced fresh on every assessment,
// never persisted.
type Indicator struct {
	Category          Category  `json:"category"`
	Severity          Severity  `json:"severity"`
	Confidence        float64   `json:"confidence"` // 0..1
	Description       string    `json:"description"`
	TriggerFactors    []string  `json:"trigger_factors,omitempty"`
	DetectedAt        time.Time `json:"detected_at"`
	RequiresImmediate bool      `json:"requires_immediate"`
}

// Assessment is the aggregate output of one risk-assessment call. Purely a
// return value; the engine does not persist it.
type Assessment struct {
	UserID                  uuid.UUID             `json:"user_id"`
	OverallRiskLevel        Severity              `json:"overall_risk_level"`
	RiskScore               float64               `json:"risk_score"` // 0..100
	Indicators              []Indicator           `json:"indicators"`
	TriggerTypes            []checkin.TriggerType `json:"trigger_types"`
	InterventionRecommended bool                  `json:"intervention_recommended"`
	EscalationRequired      bool                  `json:"escalation_required"`
	TimeToIntervention      Urgency               `json:"time_to_intervention"`
	ContextualFactors       []string              `json:"contextual_factors"`
	AssessedAt              time.Time             `json:"assessed_at"`
}

// Pattern is a recurring risk pattern mined from at least 30 days of
// check-in history. Only patterns with RiskMultiplier > 1.2 are surfaced.
type Pattern struct {
	PatternType           string  `json:"pattern_type"` // temporal | emotional | usage | environmental
	Pattern               string  `json:"pattern"`
	RiskMultiplier        float64 `json:"risk_multiplier"`
	HistoricalOccurrences int     `json:"historical_occurrences"`
	Effectiveness         float64 `json:"effectiveness"`
}
