package intervention

import (
	"time"

	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

// followUpDelays holds the fixed follow-up offsets. Low severity gets no
// follow-up.
var followUpDelays = map[risk.Severity]time.Duration{
	risk.SeverityCritical: time.Hour,
	risk.SeverityHigh:     4 * time.Hour,
	risk.SeverityMedium:   24 * time.Hour,
}

// followUpAt returns the scheduled follow-up time for a severity, or nil
// when none applies.
func followUpAt(severity risk.Severity, now time.Time) *time.Time {
	delay, ok := followUpDelays[severity]
	if !ok {
		return nil
	}
	at := now.Add(delay)
	return &at
}
