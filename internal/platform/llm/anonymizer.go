package llm

import (
	"regexp"

	"github.com/recoverypath/recovery-engine/internal/domain/intervention"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	// Capitalized word pairs are treated as probable names. Coarse on
	// purpose: a false positive costs a marker, a false negative leaks PII.
	namePattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// Anonymizer strips identifying details from prompt text before it leaves
// the process. Implements PromptAnonymizer.
type Anonymizer struct{}

func NewAnonymizer() *Anonymizer { return &Anonymizer{} }

func (a *Anonymizer) CreateSafePrompt(text string, context map[string]string) (*intervention.SafePrompt, error) {
	var markers []string

	if emailPattern.MatchString(text) {
		text = emailPattern.ReplaceAllString(text, "[email]")
		markers = append(markers, "email_removed")
	}
	if phonePattern.MatchString(text) {
		text = phonePattern.ReplaceAllString(text, "[phone]")
		markers = append(markers, "phone_removed")
	}
	if namePattern.MatchString(text) {
		text = namePattern.ReplaceAllString(text, "[name]")
		markers = append(markers, "name_removed")
	}

	for k := range context {
		markers = append(markers, "context:"+k)
	}

	return &intervention.SafePrompt{Prompt: text, ContextMarkers: markers}, nil
}
