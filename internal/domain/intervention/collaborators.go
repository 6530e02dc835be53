package intervention

import (
	"context"

	"github.com/google/uuid"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

// GeneratedText is the output of an external text-generation call.
type GeneratedText struct {
	Content    string
	Confidence float64
}

// SafePrompt is an anonymized prompt safe to send to an external generator.
type SafePrompt struct {
	Prompt         string
	ContextMarkers []string
}

// PersonalizedText is the output of an external personalization call.
type PersonalizedText struct {
	Content string
	Tone    string
	Factors []string
}

// TextGenerator produces supportive text from an anonymized prompt. May fail
// or time out; callers must degrade to static content.
type TextGenerator interface {
	Generate(ctx context.Context, prompt SafePrompt, category string) (*GeneratedText, error)
}

// PromptAnonymizer strips identifying details from prompt text before it
// leaves the process.
type PromptAnonymizer interface {
	CreateSafePrompt(text string, context map[string]string) (*SafePrompt, error)
}

// ContentPersonalizer adapts generated text to the user's history and tone.
type ContentPersonalizer interface {
	Personalize(ctx context.Context, userID uuid.UUID, text, category string, context map[string]string) (*PersonalizedText, error)
}

// CoachingAdapter supplies personalized coping strategies.
type CoachingAdapter interface {
	ProvideCopingStrategies(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, urgency string) ([]CrisisStrategy, error)
}

// RiskAssessor is the slice of the risk engine the planner needs.
type RiskAssessor interface {
	AssessCrisisRisk(ctx context.Context, userID uuid.UUID) (*risk.Assessment, error)
	DetectImmediateCrisis(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Degradation records why a content sub-step fell back to static content.
// Collected so responses can be inspected and tested for the exact reason a
// fallback was used.
type Degradation struct {
	Step   string `json:"step"` // message_generation | personalization | coaching
	Reason string `json:"reason"`
}
