package generator_test

import (
	"strings"
	"testing"

	"ai_copywriter/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthBuckets_Invariants(t *testing.T) {
	require.Len(t, generator.LengthBuckets, 5)
	for i, b := range generator.LengthBuckets {
		assert.Greater(t, b.Min, 0, b.Key)
		if b.Bounded() {
			assert.Less(t, b.Min, b.Max, b.Key)
		}
		if i > 0 {
			assert.Greater(t, b.Min, generator.LengthBuckets[i-1].Min, "buckets must be ordered")
		}
	}
	last := generator.LengthBuckets[len(generator.LengthBuckets)-1]
	assert.False(t, last.Bounded(), "the largest bucket has no ceiling")
}

// Adjacent buckets may share a margin; non-adjacent ones never overlap.
func TestLengthBuckets_NonAdjacentDisjoint(t *testing.T) {
	bs := generator.LengthBuckets
	for i := range bs {
		for j := i + 2; j < len(bs); j++ {
			if bs[i].Bounded() {
				assert.Less(t, bs[i].Max, bs[j].Min, "%s vs %s", bs[i].Key, bs[j].Key)
			}
		}
	}
}

func TestLengthBucket_Requirement(t *testing.T) {
	assert.Equal(t, "Write between **100 and 220 words**.", generator.LengthShort.Requirement())
	assert.Equal(t, "Write **at least 3000 words**.", generator.LengthMonster.Requirement())
}

func TestLookupLength(t *testing.T) {
	b, ok := generator.LookupLength("Medium")
	require.True(t, ok)
	assert.Equal(t, generator.LengthMedium, b)

	b, ok = generator.LookupLength("Scrolling Monster (3000+ words)")
	require.True(t, ok)
	assert.Equal(t, generator.LengthMonster, b)

	_, ok = generator.LookupLength("epic")
	assert.False(t, ok)
}

func TestTooShort(t *testing.T) {
	assert.True(t, generator.LengthShort.TooShort(strings.Repeat("word ", 99)))
	assert.False(t, generator.LengthShort.TooShort(strings.Repeat("word ", 100)))
	assert.Equal(t, 3, generator.WordCount("  one\ttwo\nthree "))
}
