package scoring

import (
	"sort"

	"github.com/jonathan/brandscope/internal/types"
)

// Aggregate reduces a session's score records to headline metrics:
// mention rate, average position over positioned records, average total
// score, score and position distributions, and the top three prompts.
func Aggregate(records []types.ScoreRecord) types.Summary {
	summary := types.Summary{
		ScoreDistribution:    map[string]int{"0-20": 0, "21-40": 0, "41-60": 0, "61-80": 0, "81-100": 0},
		PositionDistribution: map[int]int{},
		TopPrompts:           []types.PromptScore{},
	}
	if len(records) == 0 {
		return summary
	}

	summary.TotalPrompts = len(records)

	positionSum := 0
	positionedCount := 0
	scoreSum := 0.0
	for _, rec := range records {
		if rec.Scores.MentionScore > 0 {
			summary.TotalMentions++
		}
		scoreSum += rec.Scores.TotalScore

		switch score := rec.Scores.TotalScore; {
		case score <= 20:
			summary.ScoreDistribution["0-20"]++
		case score <= 40:
			summary.ScoreDistribution["21-40"]++
		case score <= 60:
			summary.ScoreDistribution["41-60"]++
		case score <= 80:
			summary.ScoreDistribution["61-80"]++
		default:
			summary.ScoreDistribution["81-100"]++
		}

		if rec.Scores.MentionScore > 0 && rec.Analysis.Position > 0 {
			positionSum += rec.Analysis.Position
			positionedCount++
			summary.PositionDistribution[rec.Analysis.Position]++
		}
	}

	summary.MentionRate = round1(float64(summary.TotalMentions) / float64(summary.TotalPrompts) * 100)
	summary.AvgTotalScore = round1(scoreSum / float64(summary.TotalPrompts))
	if positionedCount > 0 {
		summary.AvgPosition = round1(float64(positionSum) / float64(positionedCount))
	}

	ranked := make([]types.ScoreRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scores.TotalScore > ranked[j].Scores.TotalScore
	})
	top := len(ranked)
	if top > 3 {
		top = 3
	}
	for _, rec := range ranked[:top] {
		summary.TopPrompts = append(summary.TopPrompts, types.PromptScore{
			PromptIndex: rec.PromptIndex,
			Prompt:      rec.Prompt,
			Score:       rec.Scores.TotalScore,
		})
	}
	return summary
}
