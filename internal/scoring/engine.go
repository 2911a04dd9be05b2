// Package scoring computes deterministic visibility scores for an entity
// against backend response text. All functions are pure: same text, same
// entity, same keywords always yield the same scores, so re-scoring a
// stored response is reproducible.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/brandscope/internal/types"
)

// Sub-score caps.
const (
	MaxMentionScore  = 20.0
	MaxPositionScore = 30.0
	MaxRichnessScore = 30.0
	MaxKeywordScore  = 20.0
)

var (
	numberedItemRe = regexp.MustCompile(`^\d+\.`)
	bulletItemRe   = regexp.MustCompile(`^[-•*]\s`)
	ordinalRe      = regexp.MustCompile(`(?i)\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
)

var ordinalValues = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// strongKeywords indicate positive positioning language near a mention.
// Tier membership below decides the per-keyword weight.
var strongKeywords = []string{
	"top", "leading", "best", "premium", "excellent", "outstanding",
	"certified", "innovative", "award-winning", "trusted", "reputable",
	"popular", "renowned", "established", "quality", "superior",
	"recommended", "preferred", "favorite", "market leader", "industry leader",
	"first", "pioneer", "cutting-edge", "advanced", "professional",
	"authentic", "genuine", "pure", "natural", "organic",
}

var (
	tierFive  = map[string]bool{"top": true, "leading": true, "best": true, "market leader": true, "industry leader": true}
	tierFour  = map[string]bool{"premium": true, "excellent": true, "outstanding": true, "award-winning": true}
	tierThree = map[string]bool{"certified": true, "innovative": true, "trusted": true, "reputable": true}
)

// ListPosition locates an entity within list structures in the text.
// Detection order: numbered lines, then bullet lines, then ordinal words
// in a sentence naming the entity. Position is 1-based; -1 means the
// entity appears in no detected list. TotalItems from an earlier scan
// carries into the ordinal fallback as a floor.
type ListPosition struct {
	Position   int
	TotalItems int
}

// MentionScore returns 20 when the entity name appears anywhere in the
// text under case-insensitive comparison, otherwise 0.
func MentionScore(text, entity string) float64 {
	if containsFold(text, entity) {
		return MaxMentionScore
	}
	return 0
}

// PositionScore returns 0-30 based on where the entity sits in a detected
// list. Earlier positions score higher; the decay is linear over the list
// length. An entity mentioned outside any list scores 0, and a single-item
// list scores the full 30.
func PositionScore(text, entity string) float64 {
	if !containsFold(text, entity) {
		return 0
	}
	lp := FindListPosition(text, entity)
	if lp.Position == -1 {
		return 0
	}
	if lp.TotalItems <= 1 {
		return MaxPositionScore
	}
	score := (1 - float64(lp.Position-1)/float64(lp.TotalItems-1)) * MaxPositionScore
	return round1(score)
}

// RichnessScore returns 0-30 for how substantively the mention sentences
// describe the entity: base 5/15/25 by combined word count (<=10, <=30,
// more), +3 for benefit language, +2 for product detail language, capped.
func RichnessScore(text, entity string) float64 {
	contexts := MentionContexts(text, entity)
	if len(contexts) == 0 {
		return 0
	}

	benefitCues := []string{"benefit", "advantage", "helps", "improves", "provides", "offers", "features", "known for"}
	detailCues := []string{"product", "ingredient", "certified", "organic", "natural", "formula", "supplement", "vitamin"}

	totalWords := 0
	hasBenefits := false
	hasDetails := false
	for _, ctx := range contexts {
		totalWords += len(strings.Fields(ctx))
		lower := strings.ToLower(ctx)
		for _, cue := range benefitCues {
			if strings.Contains(lower, cue) {
				hasBenefits = true
				break
			}
		}
		for _, cue := range detailCues {
			if strings.Contains(lower, cue) {
				hasDetails = true
				break
			}
		}
	}

	var score float64
	switch {
	case totalWords <= 10:
		score = 5
	case totalWords <= 30:
		score = 15
	default:
		score = 25
	}
	if hasBenefits {
		score += 3
	}
	if hasDetails {
		score += 2
	}
	return math.Min(MaxRichnessScore, score)
}

// KeywordScore returns 0-20 for positioning language in the mention
// sentences. Each keyword counts once per response regardless of repeats;
// weights are 5/4/3 for the strongest tiers and 2 for everything else,
// including words taken from the supplied keyword list (first 15 entries,
// split into individual words).
func KeywordScore(text, entity string, keywords []string) float64 {
	contexts := MentionContexts(text, entity)
	if len(contexts) == 0 {
		return 0
	}

	candidates := make([]string, len(strongKeywords))
	copy(candidates, strongKeywords)
	limit := len(keywords)
	if limit > 15 {
		limit = 15
	}
	for _, kw := range keywords[:limit] {
		candidates = append(candidates, strings.Fields(strings.ToLower(kw))...)
	}

	var score float64
	found := make(map[string]bool)
	for _, ctx := range contexts {
		lower := strings.ToLower(ctx)
		for _, kw := range candidates {
			if !strings.Contains(lower, kw) || found[kw] {
				continue
			}
			found[kw] = true
			switch {
			case tierFive[kw]:
				score += 5
			case tierFour[kw]:
				score += 4
			case tierThree[kw]:
				score += 3
			default:
				score += 2
			}
		}
	}
	return math.Min(MaxKeywordScore, score)
}

// TotalScore sums the four sub-scores, capped at 100.
func TotalScore(mention, position, richness, keyword float64) float64 {
	return math.Min(100, mention+position+richness+keyword)
}

// NormalizedVisibility maps mention and position onto a 0-100 scale with
// equal halves. A zero sub-score contributes nothing.
func NormalizedVisibility(mention, position float64) float64 {
	var v float64
	if mention > 0 {
		v += mention / MaxMentionScore * 50
	}
	if position > 0 {
		v += position / MaxPositionScore * 50
	}
	return round2(v)
}

// WeightedScore combines the sub-scores as 0.3/0.4/0.2/0.1.
func WeightedScore(mention, position, richness, keyword float64) float64 {
	return round2(mention*0.3 + position*0.4 + richness*0.2 + keyword*0.1)
}

// Score computes the full score set and context analysis for one entity
// against one response text.
func Score(text, entity string, keywords []string) (types.Scores, types.ContextAnalysis) {
	mention := MentionScore(text, entity)
	position := PositionScore(text, entity)
	richness := RichnessScore(text, entity)
	keyword := KeywordScore(text, entity, keywords)

	analysis := AnalyzeContext(text, entity)

	avgPositioning := 0.0
	if analysis.Position > 0 {
		avgPositioning = float64(analysis.Position)
	}

	scores := types.Scores{
		MentionScore:         mention,
		PositionScore:        position,
		RichnessScore:        richness,
		KeywordScore:         keyword,
		TotalScore:           TotalScore(mention, position, richness, keyword),
		NormalizedVisibility: NormalizedVisibility(mention, position),
		AveragePositioning:   avgPositioning,
		WeightedScore:        WeightedScore(mention, position, richness, keyword),
	}
	return scores, analysis
}

// ScoreResults scores every successful backend result for the entity.
// Failed results are skipped, not zero-scored.
func ScoreResults(results []types.BackendResult, entity string, keywords []string) []types.ScoreRecord {
	records := make([]types.ScoreRecord, 0, len(results))
	for _, res := range results {
		if !res.Success {
			continue
		}
		scores, analysis := Score(res.Response, entity, keywords)
		records = append(records, types.ScoreRecord{
			PromptIndex: res.PromptIndex,
			BackendName: res.BackendName,
			EntityName:  entity,
			Prompt:      res.Prompt,
			Response:    res.Response,
			Scores:      scores,
			Analysis:    analysis,
		})
	}
	return records
}

// FindListPosition scans the text for the entity in numbered lists, bullet
// lists, and ordinal phrasing, in that order.
func FindListPosition(text, entity string) ListPosition {
	lines := strings.Split(text, "\n")
	position := -1
	totalItems := 0

	var numbered []string
	for _, line := range lines {
		if numberedItemRe.MatchString(strings.TrimSpace(line)) {
			numbered = append(numbered, line)
		}
	}
	if len(numbered) > 0 {
		totalItems = len(numbered)
		for i, line := range numbered {
			if containsFold(line, entity) {
				position = i + 1
				break
			}
		}
	}

	if position == -1 {
		var bullets []string
		for _, line := range lines {
			if bulletItemRe.MatchString(strings.TrimSpace(line)) {
				bullets = append(bullets, line)
			}
		}
		if len(bullets) > 0 {
			totalItems = len(bullets)
			for i, line := range bullets {
				if containsFold(line, entity) {
					position = i + 1
					break
				}
			}
		}
	}

	if position == -1 {
		for _, loc := range ordinalRe.FindAllStringIndex(text, -1) {
			sentence := sentenceAt(text, loc[0])
			if !containsFold(sentence, entity) {
				continue
			}
			position = ordinalValues[strings.ToLower(text[loc[0]:loc[1]])]
			if position > totalItems {
				totalItems = position
			}
			break
		}
	}

	return ListPosition{Position: position, TotalItems: totalItems}
}

// MentionContexts returns the trimmed sentences that mention the entity.
func MentionContexts(text, entity string) []string {
	var contexts []string
	for _, s := range sentenceEndRe.Split(text, -1) {
		if containsFold(s, entity) {
			contexts = append(contexts, strings.TrimSpace(s))
		}
	}
	return contexts
}

// sentenceAt returns the trimmed sentence containing the byte offset.
func sentenceAt(text string, offset int) string {
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if offset < loc[1] {
			return strings.TrimSpace(text[start:loc[0]])
		}
		start = loc[1]
	}
	if start <= offset && start < len(text) {
		return strings.TrimSpace(text[start:])
	}
	return ""
}

func containsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
