package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MockLLM is an offline stand-in for local runs; it never calls an external model.
// It answers each prompt family with deterministic, well-formed output.
type MockLLM struct{}

var (
	mockMinWords   = regexp.MustCompile(`(?:between|at least) \*\*(\d+)`)
	mockVariantN   = regexp.MustCompile(`Write (\d+) alternative`)
	mockAdaptFor   = regexp.MustCompile(`for a (.+) audience\.`)
	mockBriefLine  = regexp.MustCompile(`(?m)^- (Hook|Details|Offer Price): (.+)$`)
	mockCopyBlock  = regexp.MustCompile(`(?s)--- ORIGINAL COPY START ---\n(.*)\n--- ORIGINAL COPY END ---`)
	mockFixOrigBlk = regexp.MustCompile(`(?s)### ORIGINAL\n(.*)$`)
)

func (m MockLLM) Complete(_ context.Context, prompt Prompt, opts Options) (Completion, error) {
	var text string
	switch {
	case prompt.System == qaPersona:
		text = "PASS"
	case strings.HasPrefix(prompt.User, "Apply fixes"):
		text = mockFix(prompt.User)
	case mockVariantN.MatchString(prompt.User):
		text = mockVariants(prompt.User)
	case mockAdaptFor.MatchString(prompt.User):
		text = mockAdapt(prompt.User)
	case strings.HasPrefix(prompt.User, "In 3 bullets"):
		text = "- Strength: clear offer.\n- Weakness: proof arrives late.\n- Improvement: move the member count above the fold."
	default:
		text = mockDraft(prompt.User, opts.Structured)
	}
	return Completion{Text: text, Usage: Usage{PromptTokens: WordCount(prompt.User), CompletionTokens: WordCount(text)}}, nil
}

func (m MockLLM) CompleteStream(ctx context.Context, prompt Prompt, opts Options, onDelta func(string) error) (Completion, error) {
	out, err := m.Complete(ctx, prompt, opts)
	if err != nil {
		return Completion{}, err
	}
	for _, w := range strings.SplitAfter(out.Text, " ") {
		if err := onDelta(w); err != nil {
			return Completion{}, err
		}
	}
	return out, nil
}

func mockDraft(user string, structured bool) string {
	minWords := 0
	if m := mockMinWords.FindStringSubmatch(user); len(m) == 2 {
		minWords, _ = strconv.Atoi(m[1])
	}

	var sb strings.Builder
	sb.WriteString("## Headline\nLast chance: the offer closes at midnight tonight\n\n")
	for _, m := range mockBriefLine.FindAllStringSubmatch(user, -1) {
		sb.WriteString(fmt.Sprintf("%s — %s\n\n", m[1], m[2]))
	}
	filler := "Thousands of members already use our research to invest with more confidence every month. "
	for WordCount(sb.String()) < minWords {
		sb.WriteString(filler)
	}
	sb.WriteString("\n\n### Call‑to‑Action\n**Join before midnight**\n\n")
	sb.WriteString(disclaimerLine)
	body := sb.String()

	if !structured {
		return body
	}
	raw, _ := json.Marshal(map[string]string{
		"plan": "- Open on the deadline\n- Proof in the middle\n- CTA twice",
		"copy": body,
	})
	return string(raw)
}

func mockVariants(user string) string {
	n := 5
	if m := mockVariantN.FindStringSubmatch(user); len(m) == 2 {
		n, _ = strconv.Atoi(m[1])
	}
	out := struct {
		Headlines []string `json:"headlines"`
		CTAs      []string `json:"ctas"`
	}{}
	for i := 1; i <= n; i++ {
		out.Headlines = append(out.Headlines, fmt.Sprintf("Headline idea %d: ends tonight", i))
		out.CTAs = append(out.CTAs, fmt.Sprintf("Claim offer %d", i))
	}
	raw, _ := json.Marshal(out)
	return string(raw)
}

func mockAdapt(user string) string {
	target, _ := ParseCountry(mockAdaptFor.FindStringSubmatch(user)[1])
	original := user
	if m := mockCopyBlock.FindStringSubmatch(user); len(m) == 2 {
		original = m[1]
	}
	to, ok := target.Rules()
	if !ok {
		return original
	}
	for _, c := range Countries {
		from, _ := c.Rules()
		if c == target {
			continue
		}
		original = strings.ReplaceAll(original, from.Currency, to.Currency)
		original = strings.ReplaceAll(original, from.Index, to.Index)
	}
	return original
}

func mockFix(user string) string {
	if m := mockFixOrigBlk.FindStringSubmatch(user); len(m) == 2 {
		return strings.TrimSpace(m[1]) + "\n\n" + disclaimerLine
	}
	return user
}
