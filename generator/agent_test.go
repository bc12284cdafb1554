package generator_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"ai_copywriter/generator"
	"ai_copywriter/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func newTestAgent(t *testing.T, llm generator.LLMClient, autoQA bool) *generator.Agent {
	t.Helper()
	c, _ := newTestCompleter(t, llm)
	a, err := generator.NewAgent(c, generator.AgentConfig{AutoQA: autoQA}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return a
}

func structured(t *testing.T, plan, copyText string) generator.Completion {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"plan": plan, "copy": copyText})
	require.NoError(t, err)
	return mocks.Text(string(raw))
}

func TestAgent_GenerateStructured(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(o generator.Options) bool {
		return o.Structured && o.MaxTokens == generator.DefaultMaxOutputTokens
	})).Return(structured(t, "- plan", words(120)), nil).Once()

	a := newTestAgent(t, m, false)
	d, err := a.Generate(context.Background(), baseSpec(), "")
	require.NoError(t, err)
	assert.Equal(t, "- plan", d.Plan)
	assert.Equal(t, words(120), d.Copy)
	assert.False(t, d.Fallback)
	assert.Equal(t, generator.CopyEmail, d.CopyType)
	require.NotNil(t, d.QA)
	assert.Equal(t, generator.QADisabled, d.QA.Outcome)
}

func TestAgent_GenerateFallbackOnRawText(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(mocks.Text("## Raw copy"), nil).Once()

	a := newTestAgent(t, m, false)
	d, err := a.Generate(context.Background(), baseSpec(), "")
	require.NoError(t, err)
	assert.True(t, d.Fallback)
	assert.Empty(t, d.Plan)
	assert.Equal(t, "## Raw copy", d.Copy)
}

func TestAgent_GenerateEditEmbedsPrior(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.MatchedBy(func(p generator.Prompt) bool {
		return strings.Contains(p.User, "### ORIGINAL COPY\nThe old draft.\n### END ORIGINAL")
	}), mock.Anything).Return(structured(t, "", words(120)), nil).Once()

	a := newTestAgent(t, m, false)
	_, err := a.Generate(context.Background(), baseSpec(), "The old draft.")
	require.NoError(t, err)
}

func TestAgent_GenerateRejectsInvalidSpec(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	a := newTestAgent(t, m, false)

	spec := baseSpec()
	spec.Country = "Narnia"
	_, err := a.Generate(context.Background(), spec, "")
	assert.ErrorIs(t, err, generator.ErrInvalidSpec)
}

func TestAgent_GenerateWithQAOnMockProvider(t *testing.T) {
	a := newTestAgent(t, generator.MockLLM{}, true)
	spec := baseSpec()
	spec.Brief.Hook = "60% off today"

	d, err := a.Generate(context.Background(), spec, "")
	require.NoError(t, err)
	assert.False(t, d.Fallback)
	assert.NotEmpty(t, d.Plan)
	assert.Contains(t, d.Copy, "60% off today")
	assert.GreaterOrEqual(t, generator.WordCount(d.Copy), generator.LengthShort.Min)
	assert.Equal(t, generator.QAPassed, d.QA.Outcome)
}

func TestAgent_GenerateStream(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newTestAgent(t, generator.MockLLM{}, false)
	ds, err := a.GenerateStream(context.Background(), baseSpec(), "")
	require.NoError(t, err)

	n := 0
	for range ds.Chunks() {
		n++
	}
	d, err := ds.Result()
	require.NoError(t, err)
	assert.Greater(t, n, 1)
	assert.False(t, d.Fallback)
	assert.NotEmpty(t, d.Copy)
}

func TestAgent_Variants(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(o generator.Options) bool {
		return o.Structured && o.Temperature != nil && *o.Temperature == 0.8
	})).Return(mocks.Text(`{"headlines":["H1","H2"],"ctas":["C1","C2"]}`), nil).Once()

	a := newTestAgent(t, m, false)
	v, err := a.Variants(context.Background(), "copy", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", "H2"}, v.Headlines)
	assert.Equal(t, []string{"C1", "C2"}, v.CTAs)
}

func TestAgent_VariantsMalformed(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(mocks.Text("Sure! Here are five headlines..."), nil).Once()

	a := newTestAgent(t, m, false)
	_, err := a.Variants(context.Background(), "copy", 5)
	assert.ErrorIs(t, err, generator.ErrMalformedVariants)
}

func TestAgent_CritiqueNeedsCopy(t *testing.T) {
	a := newTestAgent(t, mocks.NewMockLLMClient(t), false)
	_, err := a.Critique(context.Background(), "  ")
	assert.ErrorIs(t, err, generator.ErrEmptyCopy)
}
