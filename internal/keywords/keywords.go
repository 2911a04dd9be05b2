// Package keywords extracts SEO keywords from brand research for use in
// prompt generation and keyword scoring.
package keywords

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/brandscope/internal/llm"
	"github.com/jonathan/brandscope/internal/types"
)

// DefaultCount is how many keywords one extraction pass targets.
const DefaultCount = 35

// Extractor produces keywords through the LLM client.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates a keyword extractor.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract generates SEO keywords from the brand's research context. The
// brand name itself never appears in keywords since they probe organic
// visibility. Falls back to a deterministic list on model failure.
func (e *Extractor) Extract(ctx context.Context, brandName, productName string, res *types.Research, count int) []string {
	if count <= 0 {
		count = DefaultCount
	}

	prompt := buildExtractionPrompt(brandName, productName, res, count)
	text, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("[KEYWORDS] Extraction failed, using fallback keywords: %v", err)
		return FallbackKeywords(res, count)
	}

	keywords := CleanKeywordLines(text)
	if len(keywords) < count {
		keywords = append(keywords, FallbackKeywords(res, count-len(keywords))...)
	}
	if len(keywords) > count {
		keywords = keywords[:count]
	}
	return keywords
}

func buildExtractionPrompt(brandName, productName string, res *types.Research, count int) string {
	var ctx strings.Builder
	fmt.Fprintf(&ctx, "Brand: %s\n", brandName)
	if productName != "" {
		fmt.Fprintf(&ctx, "Product: %s\n", productName)
	}
	if res != nil {
		if res.BrandCategory != "" {
			fmt.Fprintf(&ctx, "Category: %s\n", res.BrandCategory)
		}
		if res.MarketReputation != "" {
			fmt.Fprintf(&ctx, "Market Position: %s\n", truncate(res.MarketReputation, 300))
		}
		if res.ProductInsights != "" {
			fmt.Fprintf(&ctx, "Product Details: %s\n", truncate(res.ProductInsights, 300))
		}
		if res.PricingStructure != "" {
			fmt.Fprintf(&ctx, "Pricing: %s\n", truncate(res.PricingStructure, 200))
		}
		if len(res.Competitors) > 0 {
			fmt.Fprintf(&ctx, "Competitors: %s\n", strings.Join(res.Competitors, ", "))
		}
		if res.Trends != "" {
			fmt.Fprintf(&ctx, "Industry Trends: %s\n", truncate(res.Trends, 300))
		}
	}

	return fmt.Sprintf(`Based on the following brand and product information, extract %d SEO-friendly keywords that are highly relevant for organic search visibility analysis.

%s

Requirements for keywords:
1. Mix of broad industry terms and specific product/brand related terms
2. Include category-level keywords (e.g., "health supplements", "organic nutrition")
3. Include problem-solution keywords (e.g., "best supplements for wellness")
4. Include comparison keywords (e.g., "supplement comparison", "nutrition alternatives")
5. Include informational keywords (e.g., "how to choose supplements")
6. Prioritize keywords real users would search for in this category
7. Keywords should be 1-4 words each
8. Do NOT include the brand name in the keywords

Provide exactly %d keywords, one per line, without numbering or bullet points. Just the keywords.`, count, ctx.String(), count)
}

// CleanKeywordLines splits model output into keywords, stripping list
// numbering and bullets.
func CleanKeywordLines(text string) []string {
	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "0123456789.-) "))
		if cleaned != "" {
			keywords = append(keywords, cleaned)
		}
	}
	return keywords
}

// FallbackKeywords builds deterministic keywords from the research
// category plus generic industry terms.
func FallbackKeywords(res *types.Research, count int) []string {
	var keywords []string
	if res != nil && res.BrandCategory != "" {
		words := strings.Fields(strings.ToLower(res.BrandCategory))
		if len(words) > 3 {
			words = words[:3]
		}
		category := strings.Join(words, " ")
		keywords = append(keywords,
			"best "+category,
			"top "+category,
			category+" brands",
			category+" reviews",
			"leading "+category,
		)
	}
	keywords = append(keywords,
		"market leaders",
		"industry comparison",
		"product reviews",
		"best alternatives",
		"top brands",
		"customer reviews",
		"quality products",
		"trusted brands",
		"popular choices",
		"recommended products",
	)
	if len(keywords) > count {
		keywords = keywords[:count]
	}
	return keywords
}

// GroupByIntent buckets keywords by search intent. Keywords matching no
// pattern default to commercial.
func GroupByIntent(keywords []string) map[string][]string {
	grouped := map[string][]string{
		"informational": {},
		"commercial":    {},
		"transactional": {},
		"navigational":  {},
	}

	informational := []string{"how to", "what is", "benefits", "guide", "tips", "why"}
	transactional := []string{"buy", "purchase", "order", "price", "deal", "discount"}
	commercial := []string{"best", "top", "review", "comparison", "vs", "alternative"}
	navigational := []string{"brand", "company", "official", "website"}

	containsAny := func(s string, words []string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}

	for _, keyword := range keywords {
		lower := strings.ToLower(keyword)
		switch {
		case containsAny(lower, informational):
			grouped["informational"] = append(grouped["informational"], keyword)
		case containsAny(lower, transactional):
			grouped["transactional"] = append(grouped["transactional"], keyword)
		case containsAny(lower, commercial):
			grouped["commercial"] = append(grouped["commercial"], keyword)
		case containsAny(lower, navigational):
			grouped["navigational"] = append(grouped["navigational"], keyword)
		default:
			grouped["commercial"] = append(grouped["commercial"], keyword)
		}
	}
	return grouped
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
