package profile

import (
	"time"

	"github.com/google/uuid"
)

// Recovery stages. Exactly one stage is active per profile at any time.
const (
	StageEarly       = "early"
	StageMaintenance = "maintenance"
	StageChallenge   = "challenge"
	StageGrowth      = "growth"
)

// ValidStages enumerates the four recovery stages.
var ValidStages = map[string]bool{
	StageEarly:       true,
	StageMaintenance: true,
	StageChallenge:   true,
	StageGrowth:      true,
}

// RecoveryProfile maps to the recovery_profile table. One per user.
type RecoveryProfile struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	UserID               uuid.UUID `db:"user_id" json:"user_id"`
	CurrentStage         string    `db:"current_stage" json:"current_stage"`
	DaysSinceLastSetback int       `db:"days_since_last_setback" json:"days_since_last_setback"`
	TotalRecoveryDays    int       `db:"total_recovery_days" json:"total_recovery_days"`
	PersonalTriggers     []string  `db:"personal_triggers" json:"personal_triggers"`
	CopingStrategies     []string  `db:"coping_strategies" json:"coping_strategies"`
	SupportContacts      []string  `db:"support_contacts" json:"support_contacts"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
