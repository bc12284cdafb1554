package generator_test

import (
	"context"
	"math"
	"testing"

	"ai_copywriter/generator"
	"ai_copywriter/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ausCopy = `## Join 400,000 Australians
For just 119 AUD a year you get two ASX stock picks every month, plus our best buys now list.
Our recommendations have beaten the ASX since launch. Membership costs 119 AUD and the offer ends tonight.
*Past performance is not a reliable indicator of future results.*`

func TestAdapt_AustraliaToUnitedStates(t *testing.T) {
	a := newTestAgent(t, generator.MockLLM{}, false)

	out, err := a.Adapt(context.Background(), ausCopy, generator.Australia, generator.UnitedStates)
	require.NoError(t, err)
	assert.NotContains(t, out, "AUD")
	assert.NotContains(t, out, "ASX")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "S&P 500")

	in, got := float64(generator.WordCount(ausCopy)), float64(generator.WordCount(out))
	assert.LessOrEqual(t, math.Abs(got-in)/in, 0.10)
}

func TestAdapt_SameCountry(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	a := newTestAgent(t, m, false)

	_, err := a.Adapt(context.Background(), ausCopy, generator.Canada, generator.Canada)
	assert.ErrorIs(t, err, generator.ErrSameCountry)
	m.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdapt_EmptyCopy(t *testing.T) {
	a := newTestAgent(t, mocks.NewMockLLMClient(t), false)
	_, err := a.Adapt(context.Background(), " \n", generator.Australia, generator.Canada)
	assert.ErrorIs(t, err, generator.ErrEmptyCopy)
}

func TestAdapt_SingleAttempt(t *testing.T) {
	m := mocks.NewMockLLMClient(t)
	m.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(generator.Completion{}, errUpstream).Once()

	a := newTestAgent(t, m, false)
	_, err := a.Adapt(context.Background(), ausCopy, generator.Australia, generator.UnitedKingdom)
	assert.ErrorIs(t, err, generator.ErrCompletionFailed)
	m.AssertNumberOfCalls(t, "Complete", 1)
}

func TestParseCountry(t *testing.T) {
	for in, want := range map[string]generator.Country{
		"AU":             generator.Australia,
		"gb":             generator.UnitedKingdom,
		"united kingdom": generator.UnitedKingdom,
		"Canada":         generator.Canada,
		"usa":            generator.UnitedStates,
	} {
		got, err := generator.ParseCountry(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := generator.ParseCountry("NZ")
	assert.ErrorIs(t, err, generator.ErrInvalidSpec)
}

func TestTargetsFor(t *testing.T) {
	assert.Equal(t,
		[]generator.Country{generator.Australia, generator.UnitedKingdom, generator.Canada},
		generator.TargetsFor(generator.UnitedStates))
}
