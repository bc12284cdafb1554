package generator

import (
	"fmt"
	"strings"
)

// LengthBucket is a word-count window. Max == 0 means no ceiling.
type LengthBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max,omitempty"`
}

var (
	LengthShort     = LengthBucket{Key: "short", Label: "Short (100–200 words)", Min: 100, Max: 220}
	LengthMedium    = LengthBucket{Key: "medium", Label: "Medium (200–500 words)", Min: 200, Max: 550}
	LengthLong      = LengthBucket{Key: "long", Label: "Long (500–1500 words)", Min: 500, Max: 1600}
	LengthExtraLong = LengthBucket{Key: "extra_long", Label: "Extra Long (1500–3000 words)", Min: 1500, Max: 3200}
	LengthMonster   = LengthBucket{Key: "monster", Label: "Scrolling Monster (3000+ words)", Min: 3000}
)

// LengthBuckets lists the buckets in increasing order.
var LengthBuckets = []LengthBucket{LengthShort, LengthMedium, LengthLong, LengthExtraLong, LengthMonster}

// LookupLength resolves a bucket by key or label.
func LookupLength(s string) (LengthBucket, bool) {
	s = strings.TrimSpace(s)
	for _, b := range LengthBuckets {
		if strings.EqualFold(b.Key, s) || b.Label == s {
			return b, true
		}
	}
	return LengthBucket{}, false
}

// Bounded reports whether the bucket has a ceiling.
func (b LengthBucket) Bounded() bool {
	return b.Max > 0
}

// Requirement is the sentence placed under the length heading.
func (b LengthBucket) Requirement() string {
	if b.Bounded() {
		return fmt.Sprintf("Write between **%d and %d words**.", b.Min, b.Max)
	}
	return fmt.Sprintf("Write **at least %d words**.", b.Min)
}

// TooShort reports whether text falls below the bucket minimum.
func (b LengthBucket) TooShort(text string) bool {
	return b.Min > 0 && WordCount(text) < b.Min
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
