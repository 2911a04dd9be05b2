// Package research gathers market context for a brand before analysis:
// category, reputation, pricing, trends, and a validated competitor list.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/brandscope/internal/llm"
	"github.com/jonathan/brandscope/internal/schemas"
	"github.com/jonathan/brandscope/internal/types"
)

// researchSchema validates the structured research the model returns
// before any of it is trusted downstream.
const researchSchema = `{
  "type": "object",
  "properties": {
    "brand_category": {"type": "string"},
    "market_reputation": {"type": "string"},
    "product_insights": {"type": "string"},
    "pricing_structure": {"type": "string"},
    "trends": {"type": "string"},
    "industry": {"type": "string"},
    "competitors": {
      "type": "array",
      "items": {"type": "string"},
      "maxItems": 10
    }
  },
  "required": ["brand_category", "competitors"]
}`

// Service produces brand research through the LLM client.
type Service struct {
	client llm.Client
}

// NewService creates a research service.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Research builds market research for the brand. The model output is
// schema-validated before any of it is trusted; competitors go through
// the same cleaning filters regardless of how they were produced.
func (s *Service) Research(ctx context.Context, brandName, productName, websiteURL, industry string) (*types.Research, error) {
	prompt := buildResearchPrompt(brandName, productName, websiteURL, industry)

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("research generation failed: %w", err)
	}

	if err := schemas.ValidateJSONString(researchSchema, raw); err != nil {
		return nil, fmt.Errorf("research output rejected: %w", err)
	}

	var result types.Research
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse research output: %w", err)
	}
	if result.Industry == "" {
		result.Industry = industry
	}

	cleaned := CleanCompetitors(result.Competitors, brandName)
	if len(cleaned) == 0 && result.MarketReputation != "" {
		log.Printf("[RESEARCH] No usable competitors in structured output, trying heuristic extraction")
		cleaned = ExtractCandidateBrands(result.MarketReputation+" "+result.BrandCategory, brandName)
	}
	result.Competitors = cleaned

	return &result, nil
}

func buildResearchPrompt(brandName, productName, websiteURL, industry string) string {
	prompt := fmt.Sprintf("Conduct market research on the brand %q", brandName)
	if productName != "" {
		prompt += fmt.Sprintf(", focusing on its product %q", productName)
	}
	if industry != "" {
		prompt += fmt.Sprintf(" in the %s industry", industry)
	}
	if websiteURL != "" {
		prompt += fmt.Sprintf(" (website: %s)", websiteURL)
	}
	prompt += `.

Return a JSON object with these fields:
- brand_category: the brand's category, type, and business model
- market_reputation: market reputation, reviews, and online presence
- product_insights: product features, benefits, and specifications (empty string if no product given)
- pricing_structure: pricing model and price range
- trends: current industry trends and technologies
- industry: the industry the brand operates in
- competitors: EXACTLY 5 genuine competitor brand names (proper nouns only)

Competitor requirements:
1. Only real company or brand names that directly compete with the brand
2. Never include the brand itself, generic terms, product categories, or descriptive phrases
3. Prefer brands in the same industry and category
4. If fewer than 5 genuine competitors exist, return only the ones you can identify
5. No numbering, no made-up names, no vague terms like "Other" or "Various"`
	return prompt
}
