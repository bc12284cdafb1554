package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrSameCountry is returned when an adaptation targets the source locale.
	ErrSameCountry = errors.New("target country must differ from source country")
	// ErrEmptyCopy is returned when there is no copy to work on.
	ErrEmptyCopy = errors.New("copy is empty")
)

// Country is a target market.
type Country string

const (
	Australia     Country = "Australia"
	UnitedKingdom Country = "United Kingdom"
	Canada        Country = "Canada"
	UnitedStates  Country = "United States"
)

// Countries lists the supported markets in display order.
var Countries = []Country{Australia, UnitedKingdom, Canada, UnitedStates}

// LocaleRules are the spelling, currency and index conventions of a market.
type LocaleRules struct {
	Spelling string `json:"spelling"`
	Currency string `json:"currency"`
	Index    string `json:"index"`
}

// Sentence renders the rules as they appear in the persona.
func (r LocaleRules) Sentence() string {
	return fmt.Sprintf("Use %s, prices in %s, reference the %s.", r.Spelling, r.Currency, r.Index)
}

var countryRules = map[Country]LocaleRules{
	Australia:     {Spelling: "Australian English", Currency: "AUD", Index: "ASX"},
	UnitedKingdom: {Spelling: "British English", Currency: "GBP", Index: "FTSE"},
	Canada:        {Spelling: "Canadian English", Currency: "CAD", Index: "TSX"},
	UnitedStates:  {Spelling: "American English", Currency: "USD", Index: "S&P 500"},
}

// Rules returns the locale conventions for c.
func (c Country) Rules() (LocaleRules, bool) {
	r, ok := countryRules[c]
	return r, ok
}

// ParseCountry accepts a country name or a short code (AU, UK, GB, CA, US).
func ParseCountry(s string) (Country, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "au", "aus":
		return Australia, nil
	case "uk", "gb":
		return UnitedKingdom, nil
	case "ca", "can":
		return Canada, nil
	case "us", "usa":
		return UnitedStates, nil
	}
	for _, c := range Countries {
		if strings.EqualFold(string(c), key) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown country %q", ErrInvalidSpec, s)
}

// TargetsFor lists the adaptation targets available from source.
func TargetsFor(source Country) []Country {
	out := make([]Country, 0, len(Countries)-1)
	for _, c := range Countries {
		if c != source {
			out = append(out, c)
		}
	}
	return out
}

// Adapt rewrites copy for the target market in a single, non-retried call.
func (a *Agent) Adapt(ctx context.Context, copyText string, source, target Country) (string, error) {
	if strings.TrimSpace(copyText) == "" {
		return "", ErrEmptyCopy
	}
	if source == target {
		return "", ErrSameCountry
	}
	if _, ok := target.Rules(); !ok {
		return "", fmt.Errorf("%w: unknown country %q", ErrInvalidSpec, target)
	}

	prompt := BuildAdaptPrompt(copyText, target)
	out, err := a.completer.Once(ctx, prompt, Options{MaxTokens: a.maxTokens})
	if err != nil {
		a.logger.Warn("locale adaptation failed",
			zap.String("source", string(source)),
			zap.String("target", string(target)),
			zap.Error(err))
		return "", err
	}
	a.logger.Info("copy adapted",
		zap.String("source", string(source)),
		zap.String("target", string(target)),
		zap.Int("words_in", WordCount(copyText)),
		zap.Int("words_out", WordCount(out)))
	return strings.TrimSpace(out), nil
}
