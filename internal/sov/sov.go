// Package sov ranks a brand against its competitors by share of voice.
// Competitors are scored against the exact response texts the brand was
// scored on, so every entity is measured on the same evidence.
package sov

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/brandscope/internal/scoring"
	"github.com/jonathan/brandscope/internal/types"
)

// Ranking is the outcome of a share-of-voice analysis.
type Ranking struct {
	Entities      []types.RankedEntity `json:"ranked_entities"`
	TotalEntities int                  `json:"total_entities"`
	BrandName     string               `json:"brand_name"`
	BrandRank     int                  `json:"brand_rank"`
}

// Rank aggregates the brand's score records, scores each competitor
// against the same successful responses, renormalizes visibility to a
// percent of the combined total, and orders the field by weighted score.
// Ties break alphabetically by entity name so the ordering is total.
func Rank(brandName string, brandRecords []types.ScoreRecord, results []types.BackendResult, competitors []string) Ranking {
	entities := make([]types.RankedEntity, 0, len(competitors)+1)
	entities = append(entities, aggregateRecords(brandName, brandRecords))
	for _, competitor := range competitors {
		entities = append(entities, scoreCompetitor(competitor, results))
	}

	renormalizeVisibility(entities)

	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].WeightedScore != entities[j].WeightedScore {
			return entities[i].WeightedScore > entities[j].WeightedScore
		}
		return entities[i].EntityName < entities[j].EntityName
	})
	brandRank := 0
	for i := range entities {
		entities[i].Rank = i + 1
		if entities[i].EntityName == brandName {
			brandRank = entities[i].Rank
		}
	}

	return Ranking{
		Entities:      entities,
		TotalEntities: len(entities),
		BrandName:     brandName,
		BrandRank:     brandRank,
	}
}

// aggregateRecords reduces the brand's per-response records to one entity
// row. Positioning averages only over records where the entity actually
// held a list position.
func aggregateRecords(name string, records []types.ScoreRecord) types.RankedEntity {
	entity := types.RankedEntity{EntityName: name}
	if len(records) == 0 {
		return entity
	}

	visibilitySum := 0.0
	weightedSum := 0.0
	positioningSum := 0.0
	positioned := 0
	for _, rec := range records {
		visibilitySum += rec.Scores.NormalizedVisibility
		weightedSum += rec.Scores.WeightedScore
		if rec.Scores.AveragePositioning > 0 {
			positioningSum += rec.Scores.AveragePositioning
			positioned++
		}
		if rec.Scores.MentionScore > 0 {
			entity.TotalMentions++
		}
	}

	n := float64(len(records))
	entity.TotalPrompts = len(records)
	entity.NormalizedVisibility = round2(visibilitySum / n)
	entity.WeightedScore = round2(weightedSum / n)
	entity.MentionRate = round2(float64(entity.TotalMentions) / n * 100)
	if positioned > 0 {
		entity.AveragePositioning = round2(positioningSum / float64(positioned))
	}
	return entity
}

// scoreCompetitor runs the scoring engine for a competitor over every
// successful response text and aggregates the per-response metrics.
// Competitor scoring uses no extra keyword list.
func scoreCompetitor(name string, results []types.BackendResult) types.RankedEntity {
	entity := types.RankedEntity{EntityName: name}

	visibilitySum := 0.0
	weightedSum := 0.0
	positioningSum := 0.0
	positioned := 0
	scored := 0
	for _, res := range results {
		if !res.Success {
			continue
		}
		scored++
		mention := scoring.MentionScore(res.Response, name)
		position := scoring.PositionScore(res.Response, name)
		richness := scoring.RichnessScore(res.Response, name)
		keyword := scoring.KeywordScore(res.Response, name, nil)

		visibilitySum += scoring.NormalizedVisibility(mention, position)
		weightedSum += scoring.WeightedScore(mention, position, richness, keyword)
		if mention > 0 {
			entity.TotalMentions++
		}
		if lp := scoring.FindListPosition(res.Response, name); lp.Position > 0 {
			positioningSum += float64(lp.Position)
			positioned++
		}
	}
	if scored == 0 {
		return entity
	}

	n := float64(scored)
	entity.TotalPrompts = scored
	entity.NormalizedVisibility = round2(visibilitySum / n)
	entity.WeightedScore = round2(weightedSum / n)
	entity.MentionRate = round2(float64(entity.TotalMentions) / n * 100)
	if positioned > 0 {
		entity.AveragePositioning = round2(positioningSum / float64(positioned))
	}
	return entity
}

// renormalizeVisibility converts each entity's mean visibility into its
// percentage of the combined total, writing the percentage into both
// SharePercentage and NormalizedVisibility. A zero combined total zeroes
// every entity.
func renormalizeVisibility(entities []types.RankedEntity) {
	total := 0.0
	for i := range entities {
		total += entities[i].NormalizedVisibility
	}
	if total <= 0 {
		for i := range entities {
			entities[i].SharePercentage = 0
			entities[i].NormalizedVisibility = 0
		}
		return
	}
	for i := range entities {
		share := round2(entities[i].NormalizedVisibility / total * 100)
		entities[i].SharePercentage = share
		entities[i].NormalizedVisibility = share
	}
}

// Insights produces short human-readable findings from a ranking for the
// CLI report.
func Insights(r Ranking) []string {
	var insights []string
	if r.BrandRank == 1 {
		insights = append(insights, fmt.Sprintf("%s leads in share of voice across all analyzed competitors", r.BrandName))
	} else if r.BrandRank > 0 {
		insights = append(insights, fmt.Sprintf("%s ranks #%d of %d in share of voice", r.BrandName, r.BrandRank, r.TotalEntities))
	}

	for _, e := range r.Entities {
		if e.EntityName != r.BrandName {
			continue
		}
		switch {
		case e.MentionRate > 70:
			insights = append(insights, fmt.Sprintf("strong organic visibility with %.1f%% mention rate", e.MentionRate))
		case e.MentionRate > 40:
			insights = append(insights, fmt.Sprintf("moderate organic visibility with %.1f%% mention rate", e.MentionRate))
		default:
			insights = append(insights, fmt.Sprintf("low organic visibility with %.1f%% mention rate", e.MentionRate))
		}
		if e.AveragePositioning > 0 && e.AveragePositioning <= 3 {
			insights = append(insights, fmt.Sprintf("typically appears in the top 3 list positions (avg %.1f)", e.AveragePositioning))
		}
		if r.BrandRank > 1 && len(r.Entities) > 0 {
			gap := r.Entities[0].WeightedScore - e.WeightedScore
			insights = append(insights, fmt.Sprintf("%.1f weighted points behind %s", gap, r.Entities[0].EntityName))
		}
	}
	return insights
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
