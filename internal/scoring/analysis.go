package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/brandscope/internal/types"
)

var (
	positiveWords = []string{"good", "great", "excellent", "best", "top", "leading", "quality", "trusted", "premium", "innovative"}
	negativeWords = []string{"bad", "poor", "worst", "low", "cheap", "unreliable", "questionable"}

	attributePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(organic|natural|pure|clean|premium|quality|certified|trusted|innovative|award-winning|established|reputable)`),
		regexp.MustCompile(`(?i)(supplements?|nutrition|vitamins?|minerals?|herbs?|botanicals?|probiotics?|protein)`),
		regexp.MustCompile(`(?i)(manufacturing|products?|ingredients?|formula|blend|range|line)`),
	}
)

// AnalyzeContext describes how an entity is presented in the response:
// mention contexts, list placement, sentiment, and key attributes.
func AnalyzeContext(text, entity string) types.ContextAnalysis {
	contexts := MentionContexts(text, entity)
	lp := FindListPosition(text, entity)

	return types.ContextAnalysis{
		IsMentioned:   len(contexts) > 0,
		MentionCount:  len(contexts),
		Contexts:      contexts,
		Position:      lp.Position,
		TotalItems:    lp.TotalItems,
		InList:        lp.Position > 0,
		Sentiment:     sentiment(contexts),
		KeyAttributes: keyAttributes(contexts),
	}
}

// sentiment tallies positive and negative word occurrences across the
// mention contexts and returns the majority, or "neutral" on a tie.
func sentiment(contexts []string) string {
	if len(contexts) == 0 {
		return "neutral"
	}
	positive, negative := 0, 0
	for _, ctx := range contexts {
		lower := strings.ToLower(ctx)
		for _, w := range positiveWords {
			if strings.Contains(lower, w) {
				positive++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(lower, w) {
				negative++
			}
		}
	}
	switch {
	case positive > negative:
		return "positive"
	case negative > positive:
		return "negative"
	default:
		return "neutral"
	}
}

// keyAttributes pulls up to five distinct descriptive terms from the
// mention contexts.
func keyAttributes(contexts []string) []string {
	var attrs []string
	seen := make(map[string]bool)
	for _, ctx := range contexts {
		for _, pattern := range attributePatterns {
			for _, match := range pattern.FindAllString(ctx, -1) {
				key := strings.ToLower(match)
				if seen[key] {
					continue
				}
				seen[key] = true
				attrs = append(attrs, match)
			}
		}
	}
	if len(attrs) > 5 {
		attrs = attrs[:5]
	}
	return attrs
}
