package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCompetitors_StripsListFormatting(t *testing.T) {
	candidates := []string{"1. Alpha Foods", "2) Beta Naturals", "- Gamma Organics", "• Delta"}

	got := CleanCompetitors(candidates, "Acme")
	assert.Equal(t, []string{"Alpha Foods", "Beta Naturals", "Gamma Organics", "Delta"}, got)
}

func TestCleanCompetitors_DropsBrandMentions(t *testing.T) {
	candidates := []string{"Acme Organics", "acme", "Beta Naturals"}

	got := CleanCompetitors(candidates, "Acme")
	assert.Equal(t, []string{"Beta Naturals"}, got)
}

func TestCleanCompetitors_DropsGenericAndShortNames(t *testing.T) {
	candidates := []string{"Other brands", "AB", "Beta", "Various manufacturers", "Leading Supplier Inc"}

	got := CleanCompetitors(candidates, "Acme")
	assert.Equal(t, []string{"Beta"}, got)
}

func TestCleanCompetitors_CapsAtMax(t *testing.T) {
	candidates := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}

	got := CleanCompetitors(candidates, "Acme")
	assert.Len(t, got, MaxCompetitors)
	assert.NotContains(t, got, "Zeta")
}

func TestIsGenericTerm(t *testing.T) {
	assert.True(t, IsGenericTerm("other companies"))
	assert.True(t, IsGenericTerm("market leader"))
	assert.True(t, IsGenericTerm("AB"))
	assert.True(t, IsGenericTerm("Nature's"))
	assert.False(t, IsGenericTerm("Himalaya"))
	assert.False(t, IsGenericTerm("Beta Naturals"))
}

func TestExtractCandidateBrands(t *testing.T) {
	text := "The strongest rivals are Beta Naturals and Gamma Organics. " +
		"This market also includes Acme itself and several smaller shops in India."

	got := ExtractCandidateBrands(text, "Acme")

	assert.Contains(t, got, "Beta Naturals")
	assert.Contains(t, got, "Gamma Organics")
	assert.NotContains(t, got, "Acme")
	assert.NotContains(t, got, "The")
	assert.NotContains(t, got, "This")
	assert.NotContains(t, got, "India")
}
