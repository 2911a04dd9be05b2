// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/brandscope/internal/sov"
	"github.com/jonathan/brandscope/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResearch outputs a human-readable summary of the market research.
func (p *Printer) PrintResearch(res *types.Research) {
	if res == nil {
		return
	}

	var sb strings.Builder
	if res.BrandCategory != "" {
		sb.WriteString(fmt.Sprintf("Category:  %s\n", res.BrandCategory))
	}
	if res.Industry != "" {
		sb.WriteString(fmt.Sprintf("Industry:  %s\n", res.Industry))
	}
	if res.MarketReputation != "" {
		sb.WriteString(fmt.Sprintf("Reputation: %s\n", res.MarketReputation))
	}

	if len(res.Competitors) > 0 {
		sb.WriteString("\nCompetitors:\n")
		count := min(len(res.Competitors), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", res.Competitors[i]))
		}
		if len(res.Competitors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Competitors)-maxItemsToShow))
		}
	}

	p.printBox("MARKET RESEARCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the aggregated visibility metrics for the brand.
func (p *Printer) PrintSummary(summary *types.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Prompts analyzed:  %d\n", summary.TotalPrompts))
	sb.WriteString(fmt.Sprintf("Mentions:          %d (%.1f%%)\n", summary.TotalMentions, summary.MentionRate))
	if summary.AvgPosition > 0 {
		sb.WriteString(fmt.Sprintf("Avg list position: %.1f\n", summary.AvgPosition))
	}
	sb.WriteString(fmt.Sprintf("Avg total score:   %.1f\n", summary.AvgTotalScore))

	if len(summary.TopPrompts) > 0 {
		sb.WriteString("\nTop prompts:\n")
		for i, ps := range summary.TopPrompts {
			prompt := ps.Prompt
			if len(prompt) > 42 {
				prompt = prompt[:39] + "..."
			}
			sb.WriteString(fmt.Sprintf("  #%d  %s (%.1f)\n", i+1, prompt, ps.Score))
		}
	}

	p.printBox("VISIBILITY SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintShareOfVoice outputs the ranked share-of-voice table with insights.
func (p *Printer) PrintShareOfVoice(r sov.Ranking) {
	if len(r.Entities) == 0 {
		return
	}

	var sb strings.Builder
	for _, e := range r.Entities {
		marker := "  "
		if e.EntityName == r.BrandName {
			marker = "► "
		}
		name := e.EntityName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s#%d  %-24s %5.1f%%  score %.1f\n",
			marker, e.Rank, name, e.SharePercentage, e.WeightedScore))
	}

	insights := sov.Insights(r)
	if len(insights) > 0 {
		sb.WriteString("\n")
		for _, insight := range insights {
			sb.WriteString(fmt.Sprintf("• %s\n", insight))
		}
	}

	p.printBox("SHARE OF VOICE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResponses outputs a compact view of backend responses.
func (p *Printer) PrintResponses(results []types.BackendResult) {
	if len(results) == 0 {
		return
	}

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Responses: %d succeeded, %d failed\n\n", succeeded, len(results)-succeeded))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		res := results[i]
		status := "✓"
		if !res.Success {
			status = "✗"
		}
		prompt := res.Prompt
		if len(prompt) > 38 {
			prompt = prompt[:35] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", status, res.BackendName, prompt))
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more responses", len(results)-maxItemsToShow))
	}

	p.printBox("BACKEND RESPONSES", sb.String())
}
