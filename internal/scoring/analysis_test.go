package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeContext_Mentioned(t *testing.T) {
	text := "1. Acme makes certified organic supplements\n2. Beta\n3. Gamma"

	analysis := AnalyzeContext(text, "Acme")

	assert.True(t, analysis.IsMentioned)
	assert.Equal(t, 1, analysis.MentionCount)
	assert.Equal(t, 1, analysis.Position)
	assert.Equal(t, 3, analysis.TotalItems)
	assert.True(t, analysis.InList)
	assert.Contains(t, analysis.KeyAttributes, "certified")
	assert.Contains(t, analysis.KeyAttributes, "organic")
}

func TestAnalyzeContext_NotMentioned(t *testing.T) {
	analysis := AnalyzeContext("Beta and Gamma dominate the market.", "Acme")

	assert.False(t, analysis.IsMentioned)
	assert.Equal(t, 0, analysis.MentionCount)
	assert.Equal(t, -1, analysis.Position)
	assert.False(t, analysis.InList)
	assert.Equal(t, "neutral", analysis.Sentiment)
}

func TestSentiment_Positive(t *testing.T) {
	analysis := AnalyzeContext("Acme is a great brand with excellent service.", "Acme")
	assert.Equal(t, "positive", analysis.Sentiment)
}

func TestSentiment_Negative(t *testing.T) {
	analysis := AnalyzeContext("Acme has poor reviews and unreliable shipping.", "Acme")
	assert.Equal(t, "negative", analysis.Sentiment)
}

func TestSentiment_TieIsNeutral(t *testing.T) {
	// One positive word, one negative word
	analysis := AnalyzeContext("Acme has poor packaging but good taste.", "Acme")
	assert.Equal(t, "neutral", analysis.Sentiment)
}

func TestKeyAttributes_DedupAndCap(t *testing.T) {
	text := "Acme sells organic Organic natural premium certified quality innovative products."

	analysis := AnalyzeContext(text, "Acme")

	require.LessOrEqual(t, len(analysis.KeyAttributes), 5)
	seen := make(map[string]int)
	for _, attr := range analysis.KeyAttributes {
		seen[attr]++
	}
	// Case-insensitive dedup keeps the first spelling only
	assert.Equal(t, 1, seen["organic"])
	assert.NotContains(t, analysis.KeyAttributes, "Organic")
}
