package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brandscope/internal/types"
)

func record(promptIndex int, prompt string, mention, total float64, position int) types.ScoreRecord {
	return types.ScoreRecord{
		PromptIndex: promptIndex,
		BackendName: "gemini-flash",
		EntityName:  "Acme",
		Prompt:      prompt,
		Scores:      types.Scores{MentionScore: mention, TotalScore: total},
		Analysis:    types.ContextAnalysis{Position: position},
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.TotalPrompts)
	assert.Equal(t, 0, summary.TotalMentions)
	assert.Equal(t, 0.0, summary.MentionRate)
	assert.NotNil(t, summary.ScoreDistribution)
	assert.NotNil(t, summary.PositionDistribution)
	assert.Empty(t, summary.TopPrompts)
}

func TestAggregate_Metrics(t *testing.T) {
	records := []types.ScoreRecord{
		record(0, "best snacks", 20, 85, 1),
		record(1, "top brands", 20, 45, 3),
		record(2, "snack ideas", 0, 10, -1),
		record(3, "organic food", 20, 80, -1),
	}

	summary := Aggregate(records)

	assert.Equal(t, 4, summary.TotalPrompts)
	assert.Equal(t, 3, summary.TotalMentions)
	assert.Equal(t, 75.0, summary.MentionRate)
	assert.Equal(t, 55.0, summary.AvgTotalScore)

	// Positions average over mentioned records that landed in a list
	assert.Equal(t, 2.0, summary.AvgPosition)
	assert.Equal(t, map[int]int{1: 1, 3: 1}, summary.PositionDistribution)

	assert.Equal(t, 1, summary.ScoreDistribution["81-100"])
	assert.Equal(t, 1, summary.ScoreDistribution["41-60"])
	assert.Equal(t, 1, summary.ScoreDistribution["0-20"])
	assert.Equal(t, 1, summary.ScoreDistribution["61-80"])
}

func TestAggregate_TopPrompts(t *testing.T) {
	records := []types.ScoreRecord{
		record(0, "a", 20, 40, -1),
		record(1, "b", 20, 90, 1),
		record(2, "c", 20, 70, 2),
		record(3, "d", 0, 5, -1),
	}

	summary := Aggregate(records)

	require.Len(t, summary.TopPrompts, 3)
	assert.Equal(t, "b", summary.TopPrompts[0].Prompt)
	assert.Equal(t, 90.0, summary.TopPrompts[0].Score)
	assert.Equal(t, "c", summary.TopPrompts[1].Prompt)
	assert.Equal(t, "a", summary.TopPrompts[2].Prompt)
}
