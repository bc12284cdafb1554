package generator

import (
	"fmt"
	"strings"
)

// Trait is a named persuasive dimension scored 1–10.
type Trait string

const (
	Urgency            Trait = "Urgency"
	DataRichness       Trait = "Data_Richness"
	SocialProof        Trait = "Social_Proof"
	ComparativeFraming Trait = "Comparative_Framing"
	Imagery            Trait = "Imagery"
	ConversationalTone Trait = "Conversational_Tone"
	FOMO               Trait = "FOMO"
	Repetition         Trait = "Repetition"
)

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// Traits is the canonical order used by the guide and the UI.
var Traits = []Trait{
	Urgency,
	DataRichness,
	SocialProof,
	ComparativeFraming,
	Imagery,
	ConversationalTone,
	FOMO,
	Repetition,
}

// Display renders the identifier with spaces, e.g. "Data Richness".
func (t Trait) Display() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Label is the longer slider caption.
func (t Trait) Label() string {
	if l, ok := traitLabels[t]; ok {
		return l
	}
	return t.Display()
}

var traitLabels = map[Trait]string{
	Urgency:            "Urgency & Time Sensitivity",
	DataRichness:       "Data-Richness & Numerical Emphasis",
	SocialProof:        "Social Proof & Testimonials",
	ComparativeFraming: "Comparative Framing",
	Imagery:            "Imagery & Metaphors",
	ConversationalTone: "Conversational Tone",
	FOMO:               "FOMO",
	Repetition:         "Repetition for Emphasis",
}

// ParseTrait resolves identifiers case-insensitively; spaces and dashes match underscores.
func ParseTrait(s string) (Trait, error) {
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(s))
	for _, t := range Traits {
		if strings.EqualFold(string(t), key) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown trait %q", ErrInvalidSpec, s)
}

// TraitScores maps every trait to its intensity.
type TraitScores map[Trait]int

// ParseTraitScores resolves user-supplied trait names. Two names for the same trait
// ("urgency" and "Urgency") are rejected since map order would pick one at random.
func ParseTraitScores(in map[string]int) (TraitScores, error) {
	out := make(TraitScores, len(in))
	for name, v := range in {
		t, err := ParseTrait(name)
		if err != nil {
			return nil, err
		}
		if _, dup := out[t]; dup {
			return nil, fmt.Errorf("%w: duplicate score for %s", ErrInvalidSpec, t)
		}
		out[t] = v
	}
	return out, nil
}

// DefaultTraitScores returns the slider defaults.
func DefaultTraitScores() TraitScores {
	return TraitScores{
		Urgency:            8,
		DataRichness:       7,
		SocialProof:        6,
		ComparativeFraming: 6,
		Imagery:            7,
		ConversationalTone: 8,
		FOMO:               7,
		Repetition:         5,
	}
}

// Validate requires exactly one in-range score per known trait.
func (s TraitScores) Validate() error {
	for _, t := range Traits {
		v, ok := s[t]
		if !ok {
			return fmt.Errorf("%w: missing score for %s", ErrInvalidSpec, t)
		}
		if v < MinIntensity || v > MaxIntensity {
			return fmt.Errorf("%w: %s score %d outside %d-%d", ErrInvalidSpec, t, v, MinIntensity, MaxIntensity)
		}
	}
	for t := range s {
		if !isCanonical(t) {
			return fmt.Errorf("%w: unknown trait %q", ErrInvalidSpec, t)
		}
	}
	return nil
}

func isCanonical(t Trait) bool {
	for _, c := range Traits {
		if c == t {
			return true
		}
	}
	return false
}

// Merge returns a copy of s with the given overrides applied.
func (s TraitScores) Merge(overrides TraitScores) TraitScores {
	out := make(TraitScores, len(Traits))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

var traitExamples = map[Trait][]string{
	Urgency: {
		"This isn't a drill — once midnight hits, your chance to secure these savings is gone forever.",
		"Time’s ticking — when the clock hits zero tonight, you’re out of luck.",
		"You have exactly one shot. Miss today’s deadline, and it's gone forever.",
	},
	DataRichness: {
		"Last year alone, our recommendations averaged returns 220% higher than the market average.",
		"Our analysis has identified 73% higher returns than the average ASX investor over three consecutive years.",
		"More than 85% of our recommended stocks outperformed the market last fiscal year alone.",
	},
	SocialProof: {
		"Thousands of investors trust Motley Fool every year to transform their financial future.",
		"Australia’s leading financial experts have rated us #1 three years in a row.",
		"Join over 125,000 smart investors who rely on Motley Fool’s stock advice every month.",
	},
	ComparativeFraming: {
		"Think back to those who seized early opportunities in the smartphone revolution.",
		"Imagine being among the first to see Netflix’s potential in 2002. That’s the kind of opportunity we’re talking about.",
		"Just like the early days of Tesla, these stocks could define your investing success for years.",
	},
	Imagery: {
		"When that switch flips, the next phase could accelerate even faster.",
		"Think of it as a snowball rolling downhill—small at first, but soon unstoppable.",
		"Like a rocket on the launch pad, the countdown has begun and liftoff is imminent.",
	},
	ConversationalTone: {
		"Look — investing can feel complicated, but what if it didn't have to be?",
		"We get it—investing can seem overwhelming. But what if you had someone guiding you every step of the way?",
		"Here’s the truth: investing doesn’t have to be complicated. Let’s simplify this together.",
	},
	FOMO: {
		"Opportunities like these pass quickly — and regret can last forever.",
		"Don’t be the one who has to tell their friends, ‘I missed out when I had the chance.’",
		"By tomorrow, your chance to act will be history. Don’t live with that regret.",
	},
	Repetition: {
		"This offer is for today only. Today only means exactly that: today only.",
		"Act now. This offer expires tonight. Again, it expires tonight—no exceptions.",
		"This is a limited-time deal. Limited-time means exactly that: limited-time.",
	},
}

// ExampleCount is the number of exemplars shown for an intensity.
func ExampleCount(intensity int) int {
	switch {
	case intensity >= 8:
		return 3
	case intensity >= 4:
		return 2
	default:
		return 1
	}
}

// TraitExamples returns the exemplars included for a trait at the given intensity.
func TraitExamples(t Trait, intensity int) []string {
	pool := traitExamples[t]
	n := ExampleCount(intensity)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// TraitGuide renders one numbered line per trait in canonical order.
func TraitGuide(scores TraitScores) string {
	lines := make([]string, 0, len(Traits))
	for i, t := range Traits {
		score := scores[t]
		examples := TraitExamples(t, score)
		quoted := make([]string, len(examples))
		for j, e := range examples {
			quoted[j] = "“" + e + "”"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%d/10) — e.g. %s", i+1, t.Display(), score, strings.Join(quoted, " / ")))
	}
	return strings.Join(lines, "\n")
}
