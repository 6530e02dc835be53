package intervention

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

const defaultTrigger = checkin.TriggerStress

// Planner composes crisis interventions. Every content sub-step degrades to
// static fallback content on failure; only a total pipeline failure produces
// the emergency fallback intervention. The caller always gets support.
type Planner struct {
	profiles     profile.Repository
	checkIns     checkin.Repository
	assessor     RiskAssessor
	textGen      TextGenerator
	anonymizer   PromptAnonymizer
	personalizer ContentPersonalizer
	coaching     CoachingAdapter
	clock        risk.Clock
	log          zerolog.Logger
}

// NewPlanner wires the planner. The LLM-backed collaborators (textGen,
// anonymizer, personalizer, coaching) may be nil; the planner then serves
// static content only.
func NewPlanner(
	profiles profile.Repository,
	checkIns checkin.Repository,
	assessor RiskAssessor,
	textGen TextGenerator,
	anonymizer PromptAnonymizer,
	personalizer ContentPersonalizer,
	coaching CoachingAdapter,
	clock risk.Clock,
	log zerolog.Logger,
) *Planner {
	if clock == nil {
		clock = risk.SystemClock()
	}
	return &Planner{
		profiles:     profiles,
		checkIns:     checkIns,
		assessor:     assessor,
		textGen:      textGen,
		anonymizer:   anonymizer,
		personalizer: personalizer,
		coaching:     coaching,
		clock:        clock,
		log:          log,
	}
}

// ProvideCrisisIntervention composes an intervention for the user. Trigger
// and severity may be empty; the risk assessor fills them in. Never returns
// an error to the caller: a total failure yields the emergency fallback.
func (p *Planner) ProvideCrisisIntervention(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, severity risk.Severity) *Intervention {
	iv, err := p.buildIntervention(ctx, userID, trigger, severity)
	if err != nil {
		p.log.Error().Err(err).Str("user_id", userID.String()).Msg("intervention pipeline failed, serving emergency fallback")
		return p.emergencyFallback(userID, trigger)
	}
	return iv
}

// CheckForCrisisIntervention runs crisis detection and, when it fires,
// composes an intervention. Returns nil when no crisis is detected.
// Detection failure fails open into an intervention.
func (p *Planner) CheckForCrisisIntervention(ctx context.Context, userID uuid.UUID) *Intervention {
	inCrisis, err := p.assessor.DetectImmediateCrisis(ctx, userID)
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", userID.String()).Msg("crisis detection errored, intervening anyway")
		return p.ProvideCrisisIntervention(ctx, userID, "", "")
	}
	if !inCrisis {
		return nil
	}
	return p.ProvideCrisisIntervention(ctx, userID, "", "")
}

// ProvideCrisisFollowUp produces the minimal follow-up record for a prior
// intervention.
func (p *Planner) ProvideCrisisFollowUp(interventionID uuid.UUID) *FollowUp {
	return &FollowUp{
		InterventionID:   interventionID,
		ScheduledAt:      p.clock.Now(),
		EscalationNeeded: false,
	}
}

func (p *Planner) buildIntervention(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, severity risk.Severity) (*Intervention, error) {
	escalation := false
	if severity == "" {
		assessment, err := p.assessor.AssessCrisisRisk(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("risk assessment: %w", err)
		}
		severity = assessment.OverallRiskLevel
		escalation = assessment.EscalationRequired
		if trigger == "" {
			if len(assessment.TriggerTypes) > 0 {
				trigger = assessment.TriggerTypes[0]
			} else {
				trigger = defaultTrigger
			}
		}
	}
	if trigger == "" {
		trigger = defaultTrigger
	}

	ivType := classify(severity, escalation)
	now := p.clock.Now()

	content, degradations := p.buildContent(ctx, userID, trigger, severity, ivType)

	iv := &Intervention{
		ID:                 uuid.New(),
		UserID:             userID,
		TriggerType:        trigger,
		Severity:           severity,
		InterventionType:   ivType,
		Content:            content,
		EmergencyResources: filterEmergencyResources(trigger, severity),
		FollowUpRequired:   severity == risk.SeverityCritical || severity == risk.SeverityHigh,
		FollowUpScheduled:  followUpAt(severity, now),
		CreatedAt:          now,
	}
	iv.Degradations = degradations

	// Interaction counting must never affect the response.
	if err := p.checkIns.IncrementAIInteractions(ctx, userID, now); err != nil {
		p.log.Warn().Err(err).Str("user_id", userID.String()).Msg("interaction count not recorded")
	}

	p.log.Info().
		Str("user_id", userID.String()).
		Str("trigger_type", string(trigger)).
		Str("severity", string(severity)).
		Str("intervention_type", string(ivType)).
		Int("degraded_steps", len(degradations)).
		Msg("crisis intervention composed")

	return iv, nil
}

// buildContent composes the support payload, recording a Degradation for
// every sub-step that fell back to static content.
func (p *Planner) buildContent(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, severity risk.Severity, ivType Type) (Content, []Degradation) {
	var degradations []Degradation
	var elements []string

	message, err := p.generateMessage(ctx, userID, trigger, severity)
	if err != nil {
		degradations = append(degradations, Degradation{Step: "message_generation", Reason: err.Error()})
		message = fallbackMessages[ivType]
	} else {
		elements = append(elements, "crisis_specific", "severity_appropriate")
	}

	strategies, err := p.fetchCopingStrategies(ctx, userID, trigger, severity)
	if err != nil {
		degradations = append(degradations, Degradation{Step: "coaching", Reason: err.Error()})
		strategies = strategiesFor(trigger)
	} else {
		elements = append(elements, "user_history")
	}

	breathing := breathingFor(trigger, severity)
	grounding := groundingFor(trigger, severity)

	content := Content{
		PrimaryMessage:     message,
		CopingStrategies:   strategies,
		BreathingExercise:  &breathing,
		GroundingTechnique: &grounding,
		Affirmations:       affirmationsFor(trigger),
	}

	if severity == risk.SeverityCritical {
		content.SafetyPlan = p.buildSafetyPlan(ctx, userID)
	}

	if len(elements) == 0 {
		elements = []string{"fallback_content"}
	}
	content.PersonalizedElements = elements

	return content, degradations
}

// generateMessage runs the anonymize -> generate -> personalize chain. Any
// failure aborts the whole chain; the caller substitutes static content.
func (p *Planner) generateMessage(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, severity risk.Severity) (string, error) {
	if p.textGen == nil || p.anonymizer == nil {
		return "", fmt.Errorf("text generation unavailable")
	}

	promptCtx := map[string]string{
		"trigger_type": string(trigger),
		"severity":     string(severity),
	}
	raw := fmt.Sprintf(
		"Write a short, compassionate crisis-support message for someone in behavioral recovery facing a %s trigger at %s severity. No platitudes, no medical advice.",
		trigger, severity)

	safe, err := p.anonymizer.CreateSafePrompt(raw, promptCtx)
	if err != nil {
		return "", fmt.Errorf("anonymize prompt: %w", err)
	}
	generated, err := p.textGen.Generate(ctx, *safe, "crisis_support")
	if err != nil {
		return "", fmt.Errorf("generate message: %w", err)
	}

	if p.personalizer == nil {
		return "", fmt.Errorf("personalization unavailable")
	}
	personalized, err := p.personalizer.Personalize(ctx, userID, generated.Content, "crisis_support", promptCtx)
	if err != nil {
		return "", fmt.Errorf("personalize message: %w", err)
	}
	return personalized.Content, nil
}

func (p *Planner) fetchCopingStrategies(ctx context.Context, userID uuid.UUID, trigger checkin.TriggerType, severity risk.Severity) ([]CrisisStrategy, error) {
	if p.coaching == nil {
		return nil, fmt.Errorf("coaching unavailable")
	}
	strategies, err := p.coaching.ProvideCopingStrategies(ctx, userID, trigger, coachingUrgency(severity))
	if err != nil {
		return nil, fmt.Errorf("coping strategies: %w", err)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("coaching returned no strategies")
	}
	return strategies, nil
}

// buildSafetyPlan combines the profile's declared resources with the fixed
// professional-contact list. A missing or unreadable profile degrades to
// generic defaults rather than failing a critical intervention.
func (p *Planner) buildSafetyPlan(ctx context.Context, userID uuid.UUID) *SafetyPlan {
	coping := defaultCopingForPlan
	contacts := []string{"A trusted friend or family member"}

	prof, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", userID.String()).Msg("safety plan built from generic defaults")
	} else {
		if len(prof.CopingStrategies) > 0 {
			coping = prof.CopingStrategies
		}
		if len(prof.SupportContacts) > 0 {
			contacts = prof.SupportContacts
		}
	}

	return &SafetyPlan{
		WarningSignals:       defaultWarningSignals,
		CopingStrategies:     coping,
		SupportContacts:      contacts,
		ProfessionalContacts: professionalContacts,
		ReasonsForLiving:     defaultReasonsForLiving,
		EnvironmentalSafety:  defaultEnvironmentalSafety,
	}
}

// emergencyFallback is the intervention of last resort: static content,
// immediate type, urgent resources. Served when the pipeline itself fails.
func (p *Planner) emergencyFallback(userID uuid.UUID, trigger checkin.TriggerType) *Intervention {
	if trigger == "" {
		trigger = defaultTrigger
	}
	now := p.clock.Now()
	at := now.Add(followUpDelays[risk.SeverityCritical])

	return &Intervention{
		ID:               uuid.New(),
		UserID:           userID,
		TriggerType:      trigger,
		Severity:         risk.SeverityHigh,
		InterventionType: TypeImmediate,
		Content: Content{
			PrimaryMessage:       fallbackMessages[TypeImmediate],
			CopingStrategies:     strategiesFor(trigger),
			BreathingExercise:    &defaultBreathing,
			GroundingTechnique:   &sensoryGrounding,
			Affirmations:         defaultAffirmations,
			PersonalizedElements: []string{"emergency_fallback"},
		},
		EmergencyResources: filterEmergencyResources(trigger, risk.SeverityHigh),
		FollowUpRequired:   true,
		FollowUpScheduled:  &at,
		CreatedAt:          now,
	}
}

// classify maps severity (and assessed escalation) to a delivery type.
func classify(severity risk.Severity, escalation bool) Type {
	if severity == risk.SeverityCritical || escalation {
		return TypeImmediate
	}
	if severity == risk.SeverityHigh || severity == risk.SeverityMedium {
		return TypeSupportive
	}
	return TypePreventive
}

// coachingUrgency maps intervention severity onto the coaching adapter's
// urgency scale.
func coachingUrgency(severity risk.Severity) string {
	switch severity {
	case risk.SeverityCritical:
		return "high"
	case risk.SeverityHigh:
		return "medium"
	default:
		return "low"
	}
}
