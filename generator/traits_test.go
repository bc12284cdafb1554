package generator_test

import (
	"fmt"
	"strings"
	"testing"

	"ai_copywriter/generator"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformScores(v int) generator.TraitScores {
	s := generator.TraitScores{}
	for _, t := range generator.Traits {
		s[t] = v
	}
	return s
}

func TestExampleCount(t *testing.T) {
	want := map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 5: 2, 6: 2, 7: 2, 8: 3, 9: 3, 10: 3}
	for intensity, n := range want {
		assert.Equal(t, n, generator.ExampleCount(intensity), "intensity %d", intensity)
		for _, trait := range generator.Traits {
			assert.Len(t, generator.TraitExamples(trait, intensity), n, "%s at %d", trait, intensity)
		}
	}
}

func TestTraitGuide_CanonicalOrder(t *testing.T) {
	// Insert in reverse; map iteration order must not leak into the guide.
	scores := generator.TraitScores{}
	for i := len(generator.Traits) - 1; i >= 0; i-- {
		scores[generator.Traits[i]] = i + 3
	}

	lines := strings.Split(generator.TraitGuide(scores), "\n")
	require.Len(t, lines, len(generator.Traits))

	var got []string
	for i, line := range lines {
		trait := generator.Traits[i]
		prefix := fmt.Sprintf("%d. %s (%d/10) — e.g. ", i+1, trait.Display(), scores[trait])
		require.True(t, strings.HasPrefix(line, prefix), "line %q", line)
		assert.Equal(t, generator.ExampleCount(scores[trait]), strings.Count(line, "“"), "line %q", line)
		got = append(got, trait.Display())
	}

	want := []string{"Urgency", "Data Richness", "Social Proof", "Comparative Framing", "Imagery", "Conversational Tone", "FOMO", "Repetition"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trait order mismatch (-want +got):\n%s", diff)
	}
}

func TestTraitGuide_NoUnderscores(t *testing.T) {
	guide := generator.TraitGuide(uniformScores(1))
	for _, line := range strings.Split(guide, "\n") {
		name := line[:strings.Index(line, " (")]
		assert.NotContains(t, name, "_")
	}
}

func TestTraitScores_Validate(t *testing.T) {
	assert.NoError(t, generator.DefaultTraitScores().Validate())

	missing := generator.DefaultTraitScores()
	delete(missing, generator.FOMO)
	assert.ErrorIs(t, missing.Validate(), generator.ErrInvalidSpec)

	high := generator.DefaultTraitScores()
	high[generator.Urgency] = 11
	assert.ErrorIs(t, high.Validate(), generator.ErrInvalidSpec)

	low := generator.DefaultTraitScores()
	low[generator.Imagery] = 0
	assert.ErrorIs(t, low.Validate(), generator.ErrInvalidSpec)

	extra := generator.DefaultTraitScores()
	extra["Sarcasm"] = 5
	assert.ErrorIs(t, extra.Validate(), generator.ErrInvalidSpec)
}

func TestParseTrait(t *testing.T) {
	for in, want := range map[string]generator.Trait{
		"urgency":             generator.Urgency,
		"data-richness":       generator.DataRichness,
		"Social Proof":        generator.SocialProof,
		"fomo":                generator.FOMO,
		"CONVERSATIONAL_TONE": generator.ConversationalTone,
	} {
		got, err := generator.ParseTrait(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := generator.ParseTrait("volume")
	assert.ErrorIs(t, err, generator.ErrInvalidSpec)
}

func TestTraitScores_Merge(t *testing.T) {
	base := generator.DefaultTraitScores()
	merged := base.Merge(generator.TraitScores{generator.Urgency: 2})
	assert.Equal(t, 2, merged[generator.Urgency])
	assert.Equal(t, 8, base[generator.Urgency], "merge must not mutate the receiver")
}

func TestParseTraitScores(t *testing.T) {
	got, err := generator.ParseTraitScores(map[string]int{"urgency": 9, "Social Proof": 3})
	require.NoError(t, err)
	assert.Equal(t, generator.TraitScores{generator.Urgency: 9, generator.SocialProof: 3}, got)

	_, err = generator.ParseTraitScores(map[string]int{"urgency": 9, "Urgency": 2, "URGENCY": 5})
	assert.ErrorIs(t, err, generator.ErrInvalidSpec)
	assert.ErrorContains(t, err, "duplicate score")

	_, err = generator.ParseTraitScores(map[string]int{"sarcasm": 1})
	assert.ErrorIs(t, err, generator.ErrInvalidSpec)
}
