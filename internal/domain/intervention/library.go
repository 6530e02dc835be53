package intervention

import (
	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

// Static fallback messages keyed by intervention type. Used whenever text
// generation or personalization fails.
var fallbackMessages = map[Type]string{
	TypeImmediate:  "You are not alone right now. This moment is intense, but it will pass. Take one slow breath, and if you feel unsafe, reach out to a crisis line immediately.",
	TypeSupportive: "This is a hard moment, and noticing it is already a step. Pick one small coping action below and give it a few minutes.",
	TypePreventive: "Checking in regularly is how recovery holds. Reviewing your coping strategies now makes them easier to reach for later.",
}

// strategyTable maps each trigger type to its static coping strategies.
var strategyTable = map[checkin.TriggerType][]CrisisStrategy{
	checkin.TriggerStress: {
		{
			Name:          "Box breathing",
			Description:   "Slow, structured breathing to discharge acute stress.",
			Instructions:  "Inhale for 4 counts, hold for 4, exhale for 4, hold for 4. Repeat for 2 minutes.",
			TimeRequired:  "2-5 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.8,
			Category:      "breathing",
		},
		{
			Name:          "Brain dump",
			Description:   "Move the stressors out of your head and onto paper.",
			Instructions:  "Write every open worry as one line. Circle the single one you can act on today.",
			TimeRequired:  "10 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.7,
			Category:      "cognitive",
		},
	},
	checkin.TriggerLoneliness: {
		{
			Name:          "Reach out",
			Description:   "One small social contact interrupts the isolation spiral.",
			Instructions:  "Send a short message to one person from your support contacts. You do not need a reason.",
			TimeRequired:  "5 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.85,
			Category:      "social",
		},
		{
			Name:          "Shared space",
			Description:   "Being around people helps even without interaction.",
			Instructions:  "Take yourself to a cafe, library, or park for half an hour.",
			TimeRequired:  "30-60 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.7,
			Category:      "social",
		},
	},
	checkin.TriggerBoredom: {
		{
			Name:          "Two-minute start",
			Description:   "Boredom-driven urges fade once any activity begins.",
			Instructions:  "Pick any activity from your list and commit to only the first two minutes of it.",
			TimeRequired:  "2+ minutes",
			Difficulty:    "easy",
			Effectiveness: 0.75,
			Category:      "behavioral",
		},
	},
	checkin.TriggerAnxiety: {
		{
			Name:          "5-4-3-2-1 grounding",
			Description:   "Sensory grounding pulls attention out of anxious loops.",
			Instructions:  "Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, 1 you taste.",
			TimeRequired:  "5 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.85,
			Category:      "grounding",
		},
		{
			Name:          "Extended exhale",
			Description:   "A longer exhale activates the parasympathetic response.",
			Instructions:  "Inhale for 4 counts, exhale for 6. Repeat for ten breaths.",
			TimeRequired:  "3 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.8,
			Category:      "breathing",
		},
	},
	checkin.TriggerDepression: {
		{
			Name:          "Behavioral activation",
			Description:   "Action precedes motivation, not the other way around.",
			Instructions:  "Choose the smallest possible version of one task (make the bed, step outside) and do only that.",
			TimeRequired:  "5-15 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.8,
			Category:      "behavioral",
		},
		{
			Name:          "Light and movement",
			Description:   "Daylight and gentle movement shift low mood measurably.",
			Instructions:  "Walk outside for ten minutes, without your phone if you can.",
			TimeRequired:  "10 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.75,
			Category:      "physical",
		},
	},
	checkin.TriggerAnger: {
		{
			Name:          "Time-out",
			Description:   "Physical distance from the trigger lets arousal drop.",
			Instructions:  "Leave the situation for 20 minutes. Walk, do not ruminate; count steps if thoughts loop.",
			TimeRequired:  "20 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.8,
			Category:      "behavioral",
		},
		{
			Name:          "Discharge",
			Description:   "Anger is physical energy that can be spent safely.",
			Instructions:  "Do 20 push-ups, squats, or a fast walk around the block.",
			TimeRequired:  "5-10 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.7,
			Category:      "physical",
		},
	},
	checkin.TriggerFatigue: {
		{
			Name:          "Permission to rest",
			Description:   "Fatigue-driven urges weaken after genuine rest.",
			Instructions:  "Set a 20-minute timer and lie down, eyes closed. No screens.",
			TimeRequired:  "20 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.75,
			Category:      "physical",
		},
	},
	checkin.TriggerCustom: {
		{
			Name:          "Name it to tame it",
			Description:   "Labeling the feeling reduces its intensity.",
			Instructions:  "Say or write exactly what you are feeling and what set it off, in one sentence.",
			TimeRequired:  "2 minutes",
			Difficulty:    "easy",
			Effectiveness: 0.7,
			Category:      "cognitive",
		},
		{
			Name:          "Urge surfing",
			Description:   "Urges crest and fall like waves; they do not need action.",
			Instructions:  "Set a 10-minute timer. Observe the urge without acting, noticing how it changes.",
			TimeRequired:  "10 minutes",
			Difficulty:    "moderate",
			Effectiveness: 0.8,
			Category:      "mindfulness",
		},
	},
}

// exerciseKey is an explicit trigger-by-severity lookup key for breathing
// exercises.
type exerciseKey struct {
	Trigger  checkin.TriggerType
	Severity risk.Severity
}

// defaultBreathing is used when no specific trigger/severity entry exists.
var defaultBreathing = BreathingExercise{
	Name:           "Calming breath",
	Pattern:        "4-6",
	Description:    "Inhale for 4 counts, exhale for 6. The extended exhale settles the nervous system.",
	DurationCycles: 10,
}

var breathingExercises = map[exerciseKey]BreathingExercise{
	{checkin.TriggerAnxiety, risk.SeverityHigh}: {
		Name:           "Extended exhale",
		Pattern:        "4-7-8",
		Description:    "Inhale for 4, hold for 7, exhale for 8. Strong downshift for acute anxiety.",
		DurationCycles: 8,
	},
	{checkin.TriggerAnxiety, risk.SeverityCritical}: {
		Name:           "Paced breathing",
		Pattern:        "3-6",
		Description:    "Short inhale, long exhale, nothing to count under pressure. Inhale 3, exhale 6.",
		DurationCycles: 12,
	},
	{checkin.TriggerStress, risk.SeverityHigh}: {
		Name:           "Box breathing",
		Pattern:        "4-4-4-4",
		Description:    "Inhale 4, hold 4, exhale 4, hold 4. Structured rhythm for high stress.",
		DurationCycles: 10,
	},
	{checkin.TriggerAnger, risk.SeverityHigh}: {
		Name:           "Cooling breath",
		Pattern:        "4-8",
		Description:    "Inhale through the nose for 4, exhale slowly through pursed lips for 8.",
		DurationCycles: 10,
	},
}

var sensoryGrounding = GroundingTechnique{
	Name:        "5-4-3-2-1",
	Category:    "sensory",
	Description: "Anchors attention in the senses, one notch at a time.",
	Steps: []string{
		"Name 5 things you can see",
		"Name 4 things you can touch",
		"Name 3 things you can hear",
		"Name 2 things you can smell",
		"Name 1 thing you can taste",
	},
}

var physicalGrounding = GroundingTechnique{
	Name:        "Body anchor",
	Category:    "physical",
	Description: "Uses physical sensation to return to the present.",
	Steps: []string{
		"Press your feet firmly into the floor",
		"Grip and release your hands five times",
		"Roll your shoulders back slowly",
		"Notice three points where your body touches something solid",
	},
}

var defaultAffirmations = []string{
	"This feeling is temporary, even when it does not feel that way.",
	"I have gotten through hard moments before.",
	"Asking for help is a strength, not a failure.",
}

var affirmationTable = map[checkin.TriggerType][]string{
	checkin.TriggerStress: {
		"I only need to handle this one moment, not everything at once.",
		"Stress is a signal, not a sentence.",
	},
	checkin.TriggerLoneliness: {
		"Feeling alone is not the same as being alone.",
		"There are people who want to hear from me.",
	},
	checkin.TriggerBoredom: {
		"Restlessness passes; my recovery is worth more than a distraction.",
		"I can choose what fills this moment.",
	},
	checkin.TriggerAnxiety: {
		"My anxiety is loud, but it is not in charge.",
		"I can be uncomfortable and still be safe.",
	},
	checkin.TriggerDepression: {
		"Small steps still count as movement.",
		"My worst days have always ended.",
	},
	checkin.TriggerAnger: {
		"I can feel this anger without acting on it.",
		"Waiting is also a decision, and it is mine.",
	},
	checkin.TriggerFatigue: {
		"Rest is part of recovery, not a break from it.",
		"I do not have to earn the right to stop.",
	},
	checkin.TriggerCustom: defaultAffirmations,
}

// professionalContacts is the fixed contact list composed into every safety
// plan.
var professionalContacts = []string{
	"Crisis Hotline: 988",
	"Crisis Text Line: Text HOME to 741741",
	"Emergency Services: 911",
}

var defaultReasonsForLiving = []string{
	"The people who care about you, even the ones you have not heard from lately",
	"The progress you have already made, which nobody can take back",
	"The future moments you have not had yet",
}

var defaultEnvironmentalSafety = []string{
	"Remove or lock away anything you could use to hurt yourself",
	"Stay in shared or public spaces until the crisis passes",
	"Keep your phone charged and within reach",
}

var defaultWarningSignals = []string{
	"Feeling trapped or like a burden",
	"Withdrawing from everyone",
	"Sudden calm after intense distress",
}

var defaultCopingForPlan = []string{
	"Slow breathing for two minutes",
	"Call or text someone from your support list",
	"Go to a public place",
}

// emergencyCatalog is the static resource list filtered per intervention.
var emergencyCatalog = []EmergencyResource{
	{
		Type:           "hotline",
		Name:           "988 Suicide & Crisis Lifeline",
		Description:    "24/7 free and confidential support for people in distress.",
		Contact:        "988",
		Availability:   "24/7",
		Specialization: []string{"suicide_prevention", "mental_health"},
		Anonymous:      true,
		Immediate:      true,
	},
	{
		Type:           "text_line",
		Name:           "Crisis Text Line",
		Description:    "Text HOME to reach a trained crisis counselor.",
		Contact:        "741741",
		Availability:   "24/7",
		Specialization: []string{"mental_health"},
		Anonymous:      true,
		Immediate:      true,
	},
	{
		Type:         "emergency",
		Name:         "Emergency Services",
		Description:  "Immediate emergency response for life-threatening situations.",
		Contact:      "911",
		Availability: "24/7",
		Anonymous:    false,
		Immediate:    true,
	},
	{
		Type:           "helpline",
		Name:           "SAMHSA National Helpline",
		Description:    "Treatment referral and information service for substance use and mental health.",
		Contact:        "1-800-662-4357",
		Availability:   "24/7",
		Specialization: []string{"substance_use", "treatment_referral"},
		Anonymous:      true,
		Immediate:      false,
	},
	{
		Type:           "helpline",
		Name:           "NAMI HelpLine",
		Description:    "Peer-support information and resource referrals for mental health.",
		Contact:        "1-800-950-6264",
		Availability:   "Mon-Fri 10am-10pm ET",
		Specialization: []string{"mental_health", "peer_support"},
		Anonymous:      true,
		Immediate:      false,
	},
}

const maxEmergencyResources = 3

// filterEmergencyResources narrows the catalog for one intervention: only
// immediate resources for high/critical severity, mental-health and
// suicide-prevention specializations for depression/anxiety, capped at 3.
func filterEmergencyResources(trigger checkin.TriggerType, severity risk.Severity) []EmergencyResource {
	urgent := severity == risk.SeverityHigh || severity == risk.SeverityCritical
	specialized := trigger == checkin.TriggerDepression || trigger == checkin.TriggerAnxiety

	var out []EmergencyResource
	for _, r := range emergencyCatalog {
		if urgent && !r.Immediate {
			continue
		}
		if specialized && !hasMentalHealthFocus(r) {
			continue
		}
		out = append(out, r)
		if len(out) == maxEmergencyResources {
			break
		}
	}
	return out
}

func hasMentalHealthFocus(r EmergencyResource) bool {
	for _, s := range r.Specialization {
		if s == "mental_health" || s == "suicide_prevention" {
			return true
		}
	}
	return false
}

// strategiesFor returns the static strategies for a trigger, defaulting to
// the custom list for unknown types.
func strategiesFor(trigger checkin.TriggerType) []CrisisStrategy {
	if s, ok := strategyTable[trigger]; ok {
		return s
	}
	return strategyTable[checkin.TriggerCustom]
}

// breathingFor looks up the trigger/severity-specific exercise with a
// universal default.
func breathingFor(trigger checkin.TriggerType, severity risk.Severity) BreathingExercise {
	if ex, ok := breathingExercises[exerciseKey{trigger, severity}]; ok {
		return ex
	}
	return defaultBreathing
}

// groundingFor selects sensory grounding for anxiety or high severity,
// physical grounding otherwise.
func groundingFor(trigger checkin.TriggerType, severity risk.Severity) GroundingTechnique {
	if trigger == checkin.TriggerAnxiety || severity == risk.SeverityHigh {
		return sensoryGrounding
	}
	return physicalGrounding
}

func affirmationsFor(trigger checkin.TriggerType) []string {
	if a, ok := affirmationTable[trigger]; ok {
		return a
	}
	return defaultAffirmations
}
