package intervention

import (
	"time"

	"github.com/google/uuid"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

// Type classifies how an intervention is delivered.
type Type string

const (
	TypeImmediate  Type = "immediate"
	TypeSupportive Type = "supportive"
	TypePreventive Type = "preventive"
)

// Intervention is one composed crisis response. Built fresh per request and
// returned to the caller; not persisted by this engine.
type Intervention struct {
	ID                 uuid.UUID           `json:"intervention_id"`
	UserID             uuid.UUID           `json:"user_id"`
	TriggerType        checkin.TriggerType `json:"trigger_type"`
	Severity           risk.Severity       `json:"severity"`
	InterventionType   Type                `json:"intervention_type"`
	Content            Content             `json:"content"`
	EmergencyResources []EmergencyResource `json:"emergency_resources"`
	FollowUpRequired   bool                `json:"follow_up_required"`
	FollowUpScheduled  *time.Time          `json:"follow_up_scheduled,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`

	// Degradations records which content sub-steps fell back to static
	// content and why.
	Degradations []Degradation `json:"degradations,omitempty"`
}

// Content is the composed support payload of an intervention.
type Content struct {
	PrimaryMessage       string              `json:"primary_message"`
	CopingStrategies     []CrisisStrategy    `json:"coping_strategies"`
	BreathingExercise    *BreathingExercise  `json:"breathing_exercise,omitempty"`
	GroundingTechnique   *GroundingTechnique `json:"grounding_technique,omitempty"`
	Affirmations         []string            `json:"affirmations"`
	SafetyPlan           *SafetyPlan         `json:"safety_plan,omitempty"` // present iff severity is critical
	PersonalizedElements []string            `json:"personalized_elements"`
}

// CrisisStrategy is one concrete coping technique.
type CrisisStrategy struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Instructions  string  `json:"instructions"`
	TimeRequired  string  `json:"time_required"`
	Difficulty    string  `json:"difficulty"`    // easy | moderate | advanced
	Effectiveness float64 `json:"effectiveness"` // 0..1
	Category      string  `json:"category"`
}

// BreathingExercise is a guided breathing pattern.
type BreathingExercise struct {
	Name           string `json:"name"`
	Pattern        string `json:"pattern"` // e.g. "4-6": inhale 4, exhale 6
	Description    string `json:"description"`
	DurationCycles int    `json:"duration_cycles"`
}

// GroundingTechnique anchors attention away from the crisis.
type GroundingTechnique struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"` // sensory | physical
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// SafetyPlan is composed only for critical-severity interventions.
type SafetyPlan struct {
	WarningSignals       []string `json:"warning_signals"`
	CopingStrategies     []string `json:"coping_strategies"`
	SupportContacts      []string `json:"support_contacts"`
	ProfessionalContacts []string `json:"professional_contacts"`
	ReasonsForLiving     []string `json:"reasons_for_living"`
	EnvironmentalSafety  []string `json:"environmental_safety"`
}

// EmergencyResource is a static catalog entry.
type EmergencyResource struct {
	Type           string   `json:"type"` // hotline | text_line | emergency | helpline
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Contact        string   `json:"contact"`
	Availability   string   `json:"availability"`
	Specialization []string `json:"specialization,omitempty"`
	Anonymous      bool     `json:"anonymous"`
	Immediate      bool     `json:"immediate"`
}

// FollowUp is the minimal scheduled follow-up record.
type FollowUp struct {
	InterventionID   uuid.UUID `json:"intervention_id"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	EscalationNeeded bool      `json:"escalation_needed"`
}
