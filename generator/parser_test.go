package generator_test

import (
	"encoding/json"
	"testing"

	"ai_copywriter/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft_Structured(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"plan":  "  - hook first  ",
		"copy":  "\n## Headline\nBody\n",
		"notes": "ignored",
	})
	require.NoError(t, err)

	res := generator.ParseDraft("  " + string(raw) + "\n")
	assert.Equal(t, generator.ParsedStructured, res.Kind)
	assert.Equal(t, "- hook first", res.Plan)
	assert.Equal(t, "## Headline\nBody", res.Copy)
	assert.NoError(t, res.DecodeErr)
}

func TestParseDraft_PlanOptional(t *testing.T) {
	res := generator.ParseDraft(`{"copy": "Only copy"}`)
	assert.Equal(t, generator.ParsedStructured, res.Kind)
	assert.Empty(t, res.Plan)
	assert.Equal(t, "Only copy", res.Copy)
}

func TestParseDraft_Fallback(t *testing.T) {
	cases := map[string]string{
		"plain text":      "## Headline\nJust the copy, no JSON.",
		"truncated json":  `{"plan": "x", "copy": "half`,
		"missing copy":    `{"plan": "x"}`,
		"copy not string": `{"plan": "x", "copy": 42}`,
		"plan not string": `{"plan": ["a"], "copy": "y"}`,
		"json array":      `["plan", "copy"]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := generator.ParseDraft("  " + raw + "  ")
			assert.Equal(t, generator.ParsedFallback, res.Kind)
			assert.Empty(t, res.Plan)
			assert.Equal(t, raw, res.Copy)
			assert.Error(t, res.DecodeErr)
		})
	}
}

func TestParseVariants(t *testing.T) {
	v, err := generator.ParseVariants(`{"headlines": ["A", " ", " B "], "ctas": ["Go"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, v.Headlines)
	assert.Equal(t, []string{"Go"}, v.CTAs)

	for _, raw := range []string{
		"Here are some headlines: ...",
		`{"headlines": ["A"]}`,
		`{"ctas": ["A"]}`,
		`{"headlines": "A", "ctas": ["B"]}`,
	} {
		_, err := generator.ParseVariants(raw)
		assert.ErrorIs(t, err, generator.ErrMalformedVariants, raw)
	}
}
