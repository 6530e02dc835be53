// Package llm adapts an OpenAI-compatible chat API to the intervention
// planner's text-generation and personalization collaborators. Every call
// carries its own timeout; a slow model degrades to static content upstream,
// it never blocks an intervention.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/recoverypath/recovery-engine/internal/domain/intervention"
)

const (
	generationSystemPrompt = "You write brief, compassionate support messages for people in behavioral recovery. Two to four sentences. No medical advice, no diagnoses, no platitudes."

	personalizationSystemPrompt = "You adapt a support message to feel personally addressed, keeping its meaning intact. Return only the adapted message."
)

// Client wraps an OpenAI chat client. Implements both TextGenerator and
// ContentPersonalizer.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

// Generate produces supportive text from an anonymized prompt.
func (c *Client) Generate(ctx context.Context, prompt intervention.SafePrompt, category string) (*intervention.GeneratedText, error) {
	content, err := c.complete(ctx, generationSystemPrompt, prompt.Prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", category, err)
	}
	return &intervention.GeneratedText{Content: content, Confidence: 0.8}, nil
}

// Personalize adapts generated text to the user. The user id is logged, not
// sent to the model; personalization context travels as anonymous markers.
func (c *Client) Personalize(ctx context.Context, userID uuid.UUID, text, category string, pctx map[string]string) (*intervention.PersonalizedText, error) {
	prompt := fmt.Sprintf("Adapt this message for someone facing a %s trigger at %s severity:\n\n%s",
		pctx["trigger_type"], pctx["severity"], text)

	content, err := c.complete(ctx, personalizationSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("personalize %s: %w", category, err)
	}

	c.log.Debug().Str("user_id", userID.String()).Str("category", category).Msg("content personalized")

	factors := make([]string, 0, len(pctx))
	for k := range pctx {
		factors = append(factors, k)
	}
	return &intervention.PersonalizedText{Content: content, Tone: "warm", Factors: factors}, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
