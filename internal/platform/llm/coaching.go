package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/intervention"
)

const coachingSystemPrompt = "You are a recovery coach. Suggest 2-3 concrete coping techniques. One per line, formatted exactly as: name | one-sentence description | step-by-step instructions. No numbering, no extra text."

// Coaching is the LLM-backed CoachingAdapter. Failures surface as errors so
// the planner can fall back to its static strategy table.
type Coaching struct {
	client *Client
}

func NewCoaching(client *Client) *Coaching {
	return &Coaching{client: client}
}

func (c *Coaching) ProvideCopingStrategies(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, urgency string) ([]intervention.CrisisStrategy, error) {
	prompt := fmt.Sprintf("Coping techniques for a %s trigger at %s urgency.", trigger, urgency)

	content, err := c.client.complete(ctx, coachingSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("coaching strategies: %w", err)
	}

	strategies := parseStrategies(content, urgency)
	if len(strategies) == 0 {
		return nil, fmt.Errorf("coaching response unparseable")
	}

	c.client.log.Debug().
		Str("user_id", userID.String()).
		Str("trigger_type", string(trigger)).
		Int("strategies", len(strategies)).
		Msg("coping strategies coached")

	return strategies, nil
}

// parseStrategies splits "name | description | instructions" lines. Lines
// that don't fit the shape are skipped rather than failing the batch.
func parseStrategies(content, urgency string) []intervention.CrisisStrategy {
	var out []intervention.CrisisStrategy
	for _, line := range strings.Split(content, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		desc := strings.TrimSpace(parts[1])
		instr := strings.TrimSpace(parts[2])
		if name == "" || instr == "" {
			continue
		}
		out = append(out, intervention.CrisisStrategy{
			Name:          name,
			Description:   desc,
			Instructions:  instr,
			TimeRequired:  "5-15 minutes",
			Difficulty:    difficultyFor(urgency),
			Effectiveness: 0.75,
			Category:      "coached",
		})
	}
	return out
}

// difficultyFor keeps high-urgency suggestions easy to execute.
func difficultyFor(urgency string) string {
	if urgency == "high" {
		return "easy"
	}
	return "moderate"
}
