package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/brandscope/internal/sov"
	"github.com/jonathan/brandscope/internal/types"
)

func TestPrintResearch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := &types.Research{
		BrandCategory:    "organic snacks",
		Industry:         "food and beverage",
		MarketReputation: "well regarded for clean ingredients",
		Competitors:      []string{"CrunchCo", "SnackWell", "NutriBar"},
	}

	p.PrintResearch(res)
	output := buf.String()

	assert.Contains(t, output, "MARKET RESEARCH")
	assert.Contains(t, output, "organic snacks")
	assert.Contains(t, output, "CrunchCo")
	assert.Contains(t, output, "NutriBar")
}

func TestPrintResearch_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResearch(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := &types.Summary{
		TotalPrompts:  10,
		TotalMentions: 7,
		MentionRate:   70.0,
		AvgPosition:   2.3,
		AvgTotalScore: 58.4,
		TopPrompts: []types.PromptScore{
			{PromptIndex: 2, Prompt: "best organic snacks", Score: 85.0},
		},
	}

	p.PrintSummary(summary)
	output := buf.String()

	assert.Contains(t, output, "VISIBILITY SUMMARY")
	assert.Contains(t, output, "70.0%")
	assert.Contains(t, output, "best organic snacks")
	assert.Contains(t, output, "85.0")
}

func TestPrintShareOfVoice(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranking := sov.Ranking{
		BrandName:     "Acme",
		BrandRank:     1,
		TotalEntities: 2,
		Entities: []types.RankedEntity{
			{EntityName: "Acme", Rank: 1, SharePercentage: 62.5, WeightedScore: 40.0, MentionRate: 80},
			{EntityName: "Rival", Rank: 2, SharePercentage: 37.5, WeightedScore: 25.0, MentionRate: 50},
		},
	}

	p.PrintShareOfVoice(ranking)
	output := buf.String()

	assert.Contains(t, output, "SHARE OF VOICE")
	assert.Contains(t, output, "Acme")
	assert.Contains(t, output, "Rival")
	assert.Contains(t, output, "62.5%")
}

func TestPrintShareOfVoice_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintShareOfVoice(sov.Ranking{})

	assert.Empty(t, buf.String())
}

func TestPrintResponses(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.BackendResult{
		{PromptIndex: 0, BackendName: "gemini-flash", Prompt: "best snacks", Success: true},
		{PromptIndex: 0, BackendName: "gemini-pro", Prompt: "best snacks", Success: false, Error: "timeout"},
	}

	p.PrintResponses(results)
	output := buf.String()

	assert.Contains(t, output, "BACKEND RESPONSES")
	assert.Contains(t, output, "1 succeeded, 1 failed")
	assert.Contains(t, output, "gemini-flash")
}
