// Package prompts generates the organic search prompts a session runs
// against its backends. Prompts never name the brand: the whole point is
// measuring whether backends surface it unprompted.
package prompts

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/brandscope/internal/llm"
	"github.com/jonathan/brandscope/internal/types"
)

// DefaultCount is the number of prompts generated when the request does
// not specify one.
const DefaultCount = 10

var (
	numberedRe = regexp.MustCompile(`^\d+\.\s+`)
	bulletedRe = regexp.MustCompile(`^[-*•]\s+`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"`)
)

// Generator produces prompts through the LLM client.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a prompt generator.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces organic search prompts for the brand's industry.
// Any generated prompt that names the brand is dropped. Falls back to
// keyword-derived prompts on model failure or empty output.
func (g *Generator) Generate(ctx context.Context, brandName string, count int, res *types.Research, kws []string) []string {
	if count <= 0 {
		count = DefaultCount
	}

	request := buildGenerationPrompt(brandName, count, res, kws)
	text, err := g.client.GenerateContent(ctx, request, llm.TierStandard)
	if err != nil {
		log.Printf("[PROMPTS] Generation failed, using fallback prompts: %v", err)
		return FallbackPrompts(kws, count)
	}

	var prompts []string
	for _, p := range ExtractFromText(text) {
		if strings.Contains(strings.ToLower(p), strings.ToLower(brandName)) {
			log.Printf("[PROMPTS] Dropping prompt that names the brand: %q", p)
			continue
		}
		prompts = append(prompts, p)
	}
	if len(prompts) == 0 {
		log.Printf("[PROMPTS] No usable prompts generated, using fallback prompts")
		return FallbackPrompts(kws, count)
	}
	if len(prompts) > count {
		prompts = prompts[:count]
	}
	return prompts
}

func buildGenerationPrompt(brandName string, count int, res *types.Research, kws []string) string {
	var parts []string
	if res != nil {
		if res.BrandCategory != "" {
			parts = append(parts, "Industry Category: "+truncate(res.BrandCategory, 200))
		}
		if len(res.Competitors) > 0 {
			parts = append(parts, "Competitors: "+strings.Join(res.Competitors, ", "))
		}
		if res.Trends != "" {
			parts = append(parts, "Industry Trends: "+truncate(res.Trends, 200))
		}
	}
	if len(kws) > 0 {
		limit := len(kws)
		if limit > 15 {
			limit = 15
		}
		parts = append(parts, "Relevant Keywords: "+strings.Join(kws[:limit], ", "))
	}

	if len(parts) > 0 {
		return fmt.Sprintf(`Using the following brand research context, generate %d organic search prompts that real users would type when looking for brands or products in this industry.

%s

CRITICAL: Do NOT mention %q in any of the prompts. Use only generic industry terms and keywords.

Generate diverse prompts including:
- "Top 10..." or "Best..." type prompts
- Comparison prompts ("alternatives to...", "...vs...")
- Problem-solution prompts ("best [product] for [problem]")
- Informational prompts ("how to choose...", "what is...")
- Local or regional prompts if applicable

Format: Just provide the %d prompts as a numbered list.`, count, strings.Join(parts, "\n"), brandName, count)
	}

	return fmt.Sprintf(`Based on the brand name %q, first identify its industry category, then generate %d organic search prompts for that industry.

CRITICAL: Do NOT mention %q in any of the prompts. Use only generic industry terms.

Examples of good organic prompts:
- "Top 10 organic supplement brands in India"
- "Best nutrition companies for wellness products"
- "Leading smartphone brands in Asia"
- "Most trusted fashion brands"

Format: Just provide the %d prompts as a numbered list.`, brandName, count, brandName, count)
}

// ExtractFromText pulls prompts out of model output, accepting numbered
// items, bullet items, and quoted strings. Very short fragments are
// discarded.
func ExtractFromText(text string) []string {
	var prompts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case numberedRe.MatchString(line):
			p := strings.TrimSpace(numberedRe.ReplaceAllString(line, ""))
			if len(p) > 5 {
				prompts = append(prompts, p)
			}
		case bulletedRe.MatchString(line):
			p := strings.TrimSpace(bulletedRe.ReplaceAllString(line, ""))
			if len(p) > 5 {
				prompts = append(prompts, p)
			}
		case strings.Contains(line, `"`):
			for _, m := range quotedRe.FindAllStringSubmatch(line, -1) {
				if len(m[1]) > 5 {
					prompts = append(prompts, m[1])
				}
			}
		}
	}
	return prompts
}

// FallbackPrompts derives prompts from keywords, or returns a generic
// set when no keywords are available.
func FallbackPrompts(kws []string, count int) []string {
	if len(kws) > 0 {
		var prompts []string
		for i, kw := range kws {
			if i >= 10 {
				break
			}
			prompts = append(prompts, "Best "+kw)
			if i < len(kws)-1 {
				prompts = append(prompts, "Top "+kw)
			}
		}
		if len(prompts) > count {
			prompts = prompts[:count]
		}
		return prompts
	}

	generic := []string{
		"Top 10 most trusted brands in health supplements",
		"Best organic supplement companies in India",
		"Leading nutrition brands for wellness products",
		"Most popular vitamin and supplement manufacturers",
		"Top rated organic food brands",
		"Best health and wellness companies",
		"Leading supplement brands in Asia",
		"Most trusted organic product manufacturers",
		"Top natural health supplement brands",
		"Best wellness and nutrition companies globally",
	}
	if len(generic) > count {
		generic = generic[:count]
	}
	return generic
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
