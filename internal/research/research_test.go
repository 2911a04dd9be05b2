package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brandscope/internal/llm"
)

type fakeClient struct {
	json string
	err  error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.json, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.json, f.err
}

func (f *fakeClient) GetModel(_ llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                    { return nil }

func TestResearch_ValidOutput(t *testing.T) {
	client := &fakeClient{json: `{
		"brand_category": "organic snacks",
		"market_reputation": "well regarded",
		"industry": "food",
		"competitors": ["Beta Naturals", "Gamma Organics", "Acme Lite"]
	}`}
	s := NewService(client)

	res, err := s.Research(context.Background(), "Acme", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "organic snacks", res.BrandCategory)
	assert.Equal(t, "food", res.Industry)
	// The brand's own variants are filtered out of the competitor list
	assert.Equal(t, []string{"Beta Naturals", "Gamma Organics"}, res.Competitors)
}

func TestResearch_ModelError(t *testing.T) {
	s := NewService(&fakeClient{err: errors.New("model unavailable")})

	_, err := s.Research(context.Background(), "Acme", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "research generation failed")
}

func TestResearch_SchemaRejection(t *testing.T) {
	// Missing the required competitors field
	s := NewService(&fakeClient{json: `{"brand_category": "snacks"}`})

	_, err := s.Research(context.Background(), "Acme", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "research output rejected")
}

func TestResearch_HeuristicCompetitorFallback(t *testing.T) {
	client := &fakeClient{json: `{
		"brand_category": "organic snacks",
		"market_reputation": "Competes mainly with Beta Naturals and Gamma Organics in most regions.",
		"competitors": ["other brands", "various companies"]
	}`}
	s := NewService(client)

	res, err := s.Research(context.Background(), "Acme", "", "", "")
	require.NoError(t, err)
	assert.Contains(t, res.Competitors, "Beta Naturals")
	assert.Contains(t, res.Competitors, "Gamma Organics")
}

func TestResearch_IndustryFallsBackToCaller(t *testing.T) {
	client := &fakeClient{json: `{
		"brand_category": "organic snacks",
		"competitors": ["Beta Naturals"]
	}`}
	s := NewService(client)

	res, err := s.Research(context.Background(), "Acme", "", "", "food and beverage")
	require.NoError(t, err)
	assert.Equal(t, "food and beverage", res.Industry)
}
