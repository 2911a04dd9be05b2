package research

import (
	"regexp"
	"strings"
)

// MaxCompetitors bounds how many competitors one research pass keeps.
const MaxCompetitors = 5

var (
	numberingRe = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletRe    = regexp.MustCompile(`^[-*•]\s*`)
	brandRe     = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
)

// genericTerms are words that mark a candidate as a category or
// descriptor rather than a brand name.
var genericTerms = []string{
	"other", "refinery", "petroleum", "energy", "company", "companies",
	"brand", "brands", "manufacturer", "supplier", "provider", "corporation",
	"industry", "market", "sector", "alternative", "competitor", "similar",
	"various", "many", "several", "numerous", "etc", "and more",
}

// stopNames are capitalized words the heuristic extractor must never
// treat as brands.
var stopNames = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"India": true, "China": true, "USA": true,
}

// CleanCompetitors strips list formatting from candidate names and drops
// anything that is not a plausible brand: too short, too long, generic,
// or a mention of the brand itself. At most MaxCompetitors survive.
func CleanCompetitors(candidates []string, brandName string) []string {
	var competitors []string
	for _, candidate := range candidates {
		name := strings.TrimSpace(candidate)
		name = numberingRe.ReplaceAllString(name, "")
		name = bulletRe.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)

		if len(name) <= 2 || len(name) >= 50 {
			continue
		}
		if strings.Contains(strings.ToLower(name), strings.ToLower(brandName)) {
			continue
		}
		if IsGenericTerm(name) {
			continue
		}
		competitors = append(competitors, name)
		if len(competitors) == MaxCompetitors {
			break
		}
	}
	return competitors
}

// IsGenericTerm reports whether a candidate looks like a category word
// or descriptor rather than a brand name.
func IsGenericTerm(term string) bool {
	lower := strings.ToLower(term)
	for _, generic := range genericTerms {
		if strings.Contains(lower, generic) {
			return true
		}
	}
	return len(term) <= 2 || strings.HasSuffix(term, "'s")
}

// ExtractCandidateBrands pulls plausible brand names out of free text by
// matching capitalized phrases, then applies the same filters as
// CleanCompetitors. Used when structured extraction yields nothing.
func ExtractCandidateBrands(text, excludeBrand string) []string {
	var candidates []string
	seen := make(map[string]bool)
	for _, match := range brandRe.FindAllString(text, -1) {
		if seen[match] || stopNames[match] {
			continue
		}
		seen[match] = true
		candidates = append(candidates, match)
	}
	return CleanCompetitors(candidates, excludeBrand)
}
