package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSpec is returned when generation inputs are incomplete or out of range.
var ErrInvalidSpec = errors.New("invalid generation spec")

// CopyType selects the structural skeleton and worked example used for a piece.
type CopyType string

const (
	CopyEmail     CopyType = "email"
	CopySalesPage CopyType = "sales_page"
)

// CopyTypes lists the supported copy types in display order.
var CopyTypes = []CopyType{CopyEmail, CopySalesPage}

func (c CopyType) String() string {
	switch c {
	case CopyEmail:
		return "Email"
	case CopySalesPage:
		return "Sales Page"
	default:
		return string(c)
	}
}

// ParseCopyType accepts the key or display name of a copy type.
func ParseCopyType(s string) (CopyType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "email":
		return CopyEmail, nil
	case "sales_page", "sales", "salespage":
		return CopySalesPage, nil
	}
	return "", fmt.Errorf("%w: unknown copy type %q", ErrInvalidSpec, s)
}

// Brief carries the free-text campaign fields. Blank fields are left out of prompts.
type Brief struct {
	Hook          string `json:"hook" yaml:"hook"`
	Details       string `json:"details" yaml:"details"`
	OfferPrice    string `json:"offer_price" yaml:"offer_price"`
	RetailPrice   string `json:"retail_price" yaml:"retail_price"`
	OfferTerm     string `json:"offer_term" yaml:"offer_term"`
	Reports       string `json:"reports" yaml:"reports"`
	StocksToTease string `json:"stocks_to_tease" yaml:"stocks_to_tease"`
	QuotesNews    string `json:"quotes_news" yaml:"quotes_news"`
}

// Spec describes one generation request, built fresh from the current form state.
type Spec struct {
	CopyType CopyType     `json:"copy_type"`
	Length   LengthBucket `json:"length"`
	Country  Country      `json:"country"`
	Traits   TraitScores  `json:"traits"`
	Brief    Brief        `json:"brief"`
}

// Validate checks that every enumerated input resolves and all traits are scored.
func (s Spec) Validate() error {
	if _, err := ParseCopyType(string(s.CopyType)); err != nil {
		return err
	}
	if _, ok := LookupLength(s.Length.Key); !ok {
		return fmt.Errorf("%w: unknown length bucket %q", ErrInvalidSpec, s.Length.Key)
	}
	if _, ok := countryRules[s.Country]; !ok {
		return fmt.Errorf("%w: unknown country %q", ErrInvalidSpec, s.Country)
	}
	return s.Traits.Validate()
}

// Draft is the {plan, copy} pair produced for a session.
type Draft struct {
	Plan     string       `json:"plan"`
	Copy     string       `json:"copy"`
	CopyType CopyType     `json:"copy_type"`
	Length   LengthBucket `json:"length"`
	// Fallback is set when the structured response could not be decoded and Copy holds the raw text.
	Fallback bool      `json:"fallback,omitempty"`
	QA       *QAReport `json:"qa,omitempty"`
}

// Empty reports whether no copy has been produced yet.
func (d Draft) Empty() bool {
	return strings.TrimSpace(d.Copy) == ""
}

// Turn records one action applied to a session.
type Turn struct {
	Action    string    `json:"action"`
	Draft     Draft     `json:"draft"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
