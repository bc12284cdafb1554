package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseKind tells which branch of the draft decoder produced a result.
type ParseKind int

const (
	// ParsedStructured means the response matched the {plan, copy} schema.
	ParsedStructured ParseKind = iota
	// ParsedFallback means the raw text was kept as copy with an empty plan.
	ParsedFallback
)

func (k ParseKind) String() string {
	if k == ParsedStructured {
		return "structured"
	}
	return "fallback"
}

// ParseResult is the outcome of ParseDraft. DecodeErr is set on the fallback branch.
type ParseResult struct {
	Kind      ParseKind
	Plan      string
	Copy      string
	DecodeErr error
}

var errSchema = errors.New("response does not match {plan, copy} schema")

type draftPayload struct {
	Plan *string `json:"plan"`
	Copy *string `json:"copy"`
}

// ParseDraft decodes a structured generation response. It never fails: anything that is not a
// JSON object with a string "copy" (and a string "plan" when present) degrades to the fallback.
func ParseDraft(raw string) ParseResult {
	trimmed := strings.TrimSpace(raw)
	payload, err := decodeDraft(trimmed)
	if err != nil {
		draftParseTotal.WithLabelValues(ParsedFallback.String()).Inc()
		return ParseResult{Kind: ParsedFallback, Copy: trimmed, DecodeErr: err}
	}
	draftParseTotal.WithLabelValues(ParsedStructured.String()).Inc()
	res := ParseResult{Kind: ParsedStructured, Copy: strings.TrimSpace(*payload.Copy)}
	if payload.Plan != nil {
		res.Plan = strings.TrimSpace(*payload.Plan)
	}
	return res
}

func decodeDraft(s string) (draftPayload, error) {
	var p draftPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return draftPayload{}, err
	}
	if p.Copy == nil {
		return draftPayload{}, fmt.Errorf("%w: missing copy", errSchema)
	}
	return p, nil
}

// ErrMalformedVariants is returned when the variants response cannot be decoded.
var ErrMalformedVariants = errors.New("malformed variants response")

// Variants holds alternative headlines and call-to-action labels.
type Variants struct {
	Headlines []string `json:"headlines"`
	CTAs      []string `json:"ctas"`
}

// ParseVariants strictly decodes {"headlines": [...], "ctas": [...]}.
func ParseVariants(raw string) (Variants, error) {
	var payload struct {
		Headlines *[]string `json:"headlines"`
		CTAs      *[]string `json:"ctas"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return Variants{}, fmt.Errorf("%w: %w", ErrMalformedVariants, err)
	}
	if payload.Headlines == nil || payload.CTAs == nil {
		return Variants{}, fmt.Errorf("%w: headlines and ctas are required", ErrMalformedVariants)
	}
	return Variants{
		Headlines: trimAll(*payload.Headlines),
		CTAs:      trimAll(*payload.CTAs),
	}, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
