package generator

import (
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// CountTokens estimates the token count of text for model. Unknown models fall back to
// cl100k_base; ok is false when no encoding could be loaded.
func CountTokens(model, text string) (n int, ok bool) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, false
		}
	}
	return len(enc.Encode(text, nil, nil)), true
}

// PromptTokens estimates the tokens of every message in p.
func PromptTokens(model string, p Prompt) (int, bool) {
	total, ok := CountTokens(model, p.System)
	if !ok {
		return 0, false
	}
	for _, m := range p.History {
		n, _ := CountTokens(model, m.Content)
		total += n
	}
	n, _ := CountTokens(model, p.User)
	return total + n, true
}

// EstimateUsage is used when a provider does not report usage (e.g. streams).
func EstimateUsage(model string, p Prompt, completion string) Usage {
	in, ok := PromptTokens(model, p)
	if !ok {
		return Usage{}
	}
	out, _ := CountTokens(model, completion)
	return Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}
}
