package checkin

import (
	"time"

	"github.com/google/uuid"
)

// TriggerType categorizes a cause of urge or relapse risk.
type TriggerType string

const (
	TriggerStress     TriggerType = "stress"
	TriggerLoneliness TriggerType = "loneliness"
	TriggerBoredom    TriggerType = "boredom"
	TriggerAnxiety    TriggerType = "anxiety"
	TriggerDepression TriggerType = "depression"
	TriggerAnger      TriggerType = "anger"
	TriggerFatigue    TriggerType = "fatigue"
	TriggerCustom     TriggerType = "custom"
)

// ValidTriggerTypes enumerates the recognized trigger categories.
var ValidTriggerTypes = map[TriggerType]bool{
	TriggerStress:     true,
	TriggerLoneliness: true,
	TriggerBoredom:    true,
	TriggerAnxiety:    true,
	TriggerDepression: true,
	TriggerAnger:      true,
	TriggerFatigue:    true,
	TriggerCustom:     true,
}

// Trigger event outcomes.
const (
	OutcomeManaged     = "managed"
	OutcomePartial     = "partial"
	OutcomeOverwhelmed = "overwhelmed"
)

var validOutcomes = map[string]bool{
	OutcomeManaged: true, OutcomePartial: true, OutcomeOverwhelmed: true,
}

// TriggerEvent records one trigger occurrence inside a daily check-in.
// Immutable once recorded.
type TriggerEvent struct {
	Type            TriggerType `json:"type"`
	Intensity       int         `json:"intensity"` // 1-10
	DurationMinutes int         `json:"duration_minutes"`
	Context         string      `json:"context,omitempty"`
	CopingResponse  string      `json:"coping_response,omitempty"`
	Outcome         string      `json:"outcome"` // managed | partial | overwhelmed
	Timestamp       time.Time   `json:"timestamp"`
}

// CheckIn maps to the check_in table. One per user per day.
type CheckIn struct {
	ID                   uuid.UUID      `db:"id" json:"id"`
	UserID               uuid.UUID      `db:"user_id" json:"user_id"`
	Date                 time.Time      `db:"check_in_date" json:"date"`
	Mood                 int            `db:"mood" json:"mood"`     // 1-10
	Energy               int            `db:"energy" json:"energy"` // 1-10
	Stress               int            `db:"stress" json:"stress"` // 1-10
	Sleep                int            `db:"sleep" json:"sleep"`   // 1-10
	Triggers             []TriggerEvent `db:"triggers" json:"triggers"`
	CopingStrategiesUsed []string       `db:"coping_strategies_used" json:"coping_strategies_used"`
	ReflectionCompleted  bool           `db:"reflection_completed" json:"reflection_completed"`
	AIInteractions       int            `db:"ai_interactions" json:"ai_interactions"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
}

// AverageRatings holds rating averages over a check-in window.
type AverageRatings struct {
	Mood   float64 `json:"mood"`
	Energy float64 `json:"energy"`
	Stress float64 `json:"stress"`
	Sleep  float64 `json:"sleep"`
}
