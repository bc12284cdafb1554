package generator_test

import (
	"strings"
	"testing"

	"ai_copywriter/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSpec() generator.Spec {
	return generator.Spec{
		CopyType: generator.CopyEmail,
		Length:   generator.LengthShort,
		Country:  generator.Australia,
		Traits:   generator.DefaultTraitScores(),
	}
}

func TestBuildGeneratePrompt_EmailShortUrgent(t *testing.T) {
	spec := baseSpec()
	spec.Traits[generator.Urgency] = 9
	spec.Brief = generator.Brief{Hook: "60% off today", OfferPrice: "$119"}

	p := generator.BuildGeneratePrompt(spec, "")
	require.NoError(t, spec.Validate())

	assert.Contains(t, p.User, "#### Hard Requirements")
	assert.Contains(t, p.User, "Include a deadline phrase in headline/subject **and** CTA.")
	assert.Contains(t, p.User, "Write between **100 and 220 words**.")
	assert.Contains(t, p.User, "- Hook: 60% off today")
	assert.Contains(t, p.User, "- Offer Price: $119")
	assert.Contains(t, p.User, "1. Urgency (9/10)")
	assert.True(t, strings.HasSuffix(p.User, "### END INSTRUCTIONS"))
	assert.NotContains(t, p.User, "### ORIGINAL COPY")

	assert.Contains(t, p.System, "Australian English")
	assert.Contains(t, p.System, "AUD")
	assert.Contains(t, p.System, "ASX")
	assert.True(t, strings.HasSuffix(p.System, "*Past performance is not a reliable indicator of future results.*"))
}

func TestBuildInstructions_SectionOrder(t *testing.T) {
	spec := baseSpec()
	spec.Brief.Details = "Six stock picks a year"
	out := generator.BuildInstructions(spec, "Old copy here.")

	markers := []string{
		"1. Urgency",
		"#### Structure to Follow",
		"#### Hard Requirements",
		"#### Campaign Brief",
		"#### Length Requirement",
		"### ORIGINAL COPY\nOld copy here.\n### END ORIGINAL",
		"### END INSTRUCTIONS",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		require.NotEqual(t, -1, idx, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
}

func TestBriefLines_OmitsBlankFields(t *testing.T) {
	lines := generator.BriefLines(generator.Brief{
		Hook:          "  Big news  ",
		Details:       "   ",
		StocksToTease: "ACME",
	})
	assert.Equal(t, []string{"- Hook: Big news", "- Stocks to Tease: ACME"}, lines)

	out := generator.BuildInstructions(baseSpec(), "")
	assert.NotContains(t, out, "- Details:")
	assert.NotContains(t, out, "- Retail Price:")
}

func TestHardRequirements_Thresholds(t *testing.T) {
	low := generator.DefaultTraitScores()
	low[generator.Urgency] = 7
	low[generator.SocialProof] = 5
	low[generator.DataRichness] = 6
	assert.Empty(t, generator.HardRequirements(low))

	out := generator.BuildInstructions(generator.Spec{
		CopyType: generator.CopyEmail, Length: generator.LengthShort,
		Country: generator.Canada, Traits: low,
	}, "")
	assert.NotContains(t, out, "Hard Requirements")

	high := low.Merge(generator.TraitScores{
		generator.Urgency:      8,
		generator.SocialProof:  6,
		generator.DataRichness: 7,
	})
	assert.Len(t, generator.HardRequirements(high), 3)
}

// Raising one trait never removes a requirement.
func TestHardRequirements_Monotonic(t *testing.T) {
	for _, trait := range generator.Traits {
		for v := 1; v < 10; v++ {
			lo := uniformScores(5)
			lo[trait] = v
			hi := lo.Merge(generator.TraitScores{trait: v + 1})

			loReqs := generator.HardRequirements(lo)
			hiReqs := generator.HardRequirements(hi)
			for _, r := range loReqs {
				assert.Contains(t, hiReqs, r, "%s %d -> %d", trait, v, v+1)
			}
		}
	}
}

func TestBuildInstructions_SalesPageSkeleton(t *testing.T) {
	spec := baseSpec()
	spec.CopyType = generator.CopySalesPage
	out := generator.BuildInstructions(spec, "")
	for _, section := range generator.CopySalesPage.Sections() {
		assert.Contains(t, out, section)
	}
}

func TestBuildAdaptPrompt(t *testing.T) {
	p := generator.BuildAdaptPrompt("Buy on the ASX in AUD.", generator.UnitedStates)
	assert.Contains(t, p.User, "for a United States audience.")
	assert.Contains(t, p.User, "--- ORIGINAL COPY START ---\nBuy on the ASX in AUD.\n--- ORIGINAL COPY END ---")
	assert.Contains(t, p.System, "American English")
	assert.Contains(t, p.System, "S&P 500")
}

func TestBuildVariantsPrompt(t *testing.T) {
	p := generator.BuildVariantsPrompt("copy", 7)
	assert.Contains(t, p.User, "Write 7 alternative")
	assert.Contains(t, p.User, `"headlines"`)
	assert.Contains(t, p.User, `"ctas"`)
}
