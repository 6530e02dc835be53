package milestone

import (
	"time"

	"github.com/google/uuid"
)

// Milestone maps to the milestone table. Marks a recovery achievement such as
// a day-count or a completed program step.
type Milestone struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	DaysMarker  int       `db:"days_marker" json:"days_marker"`
	AchievedAt  time.Time `db:"achieved_at" json:"achieved_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
