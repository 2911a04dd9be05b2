package backends

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// AIOverviewName is the registry name of the browser-scraping backend.
const AIOverviewName = "google-ai-overview"

// noOverviewText marks a search that completed but produced no AI
// Overview block. It is a successful result so scoring still runs.
const noOverviewText = "[No AI Overview found]"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

// AIOverviewBackend scrapes Google's AI Overview answer block for each
// prompt through a headless browser. The browser is a single shared
// resource, so the backend is exclusive: Open holds one Chrome instance
// for the whole prompt pass.
type AIOverviewBackend struct {
	maxLinks int
}

// NewAIOverview returns the browser-scraping backend.
func NewAIOverview() *AIOverviewBackend {
	return &AIOverviewBackend{maxLinks: 10}
}

// Name returns the backend's registry name.
func (b *AIOverviewBackend) Name() string {
	return AIOverviewName
}

// Open launches a headless Chrome instance. The returned session owns it
// until Close.
func (b *AIOverviewBackend) Open(ctx context.Context) (ExclusiveSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(userAgents[time.Now().UnixNano()%int64(len(userAgents))]),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so Open fails fast when Chrome is missing.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &overviewSession{
		ctx:      browserCtx,
		maxLinks: b.maxLinks,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

type overviewSession struct {
	ctx      context.Context
	cancel   func()
	maxLinks int
}

// Execute searches Google for the prompt, waits for the results page to
// settle, and extracts the AI Overview answer and its citation links. A
// page without an AI Overview is a successful empty answer.
func (s *overviewSession) Execute(ctx context.Context, prompt string) (*Response, error) {
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(prompt)

	runCtx, cancel := context.WithTimeout(s.ctx, 60*time.Second)
	defer cancel()
	go func() {
		// Tie the browser run to the caller's deadline as well.
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3*time.Second),
		// Scroll to trigger lazy loading of the overview block.
		chromedp.Evaluate(`window.scrollTo(0, 500)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, 1000)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("search page rendering failed: %w", err)
	}

	text, links, err := parseAIOverview(html, s.maxLinks)
	if err != nil {
		return nil, err
	}
	if text == "" {
		log.Printf("[OVERVIEW] No AI Overview block for %q", truncate(prompt, 60))
		return &Response{Text: noOverviewText}, nil
	}

	if len(links) > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		sb.WriteString("\n\nSources:\n")
		limit := len(links)
		if limit > 5 {
			limit = 5
		}
		for _, link := range links[:limit] {
			fmt.Fprintf(&sb, "- %s\n", link)
		}
		text = sb.String()
	}

	return &Response{Text: text, Citations: links}, nil
}

// Close releases the browser.
func (s *overviewSession) Close() error {
	s.cancel()
	return nil
}

var (
	uiChromeRe   = regexp.MustCompile(`(?i)AI Overview|Learn more|Show more|Feedback|Sources|Citations|View all|See more`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	textFragRe   = regexp.MustCompile(`#:~:text=.*$`)
)

// parseAIOverview pulls the AI Overview answer text and external citation
// URLs out of a rendered search result page. An empty answer with nil
// error means the page has no overview block.
func parseAIOverview(html string, maxLinks int) (string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	section := findOverviewSection(doc)
	if section == nil {
		return "", nil, nil
	}

	text := section.Text()
	text = uiChromeRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if len(text) > 4000 {
		text = text[:4000] + "..."
	}

	var links []string
	seen := make(map[string]bool)
	section.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		clean := textFragRe.ReplaceAllString(href, "")
		if !strings.HasPrefix(href, "http") ||
			strings.Contains(href, "google.com") ||
			strings.Contains(href, "youtube.com") ||
			strings.Contains(href, "/search?") ||
			seen[clean] {
			return true
		}
		seen[clean] = true
		links = append(links, href)
		return len(links) < maxLinks
	})

	return text, links, nil
}

// findOverviewSection locates the overview container: first by the
// "AI Overview" heading, then by any data-hveid block with substantial
// text and at least two external links.
func findOverviewSection(doc *goquery.Document) *goquery.Selection {
	var section *goquery.Selection

	doc.Find("div[data-hveid], div[data-attrid]").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if strings.Contains(div.Text(), "AI Overview") && len(strings.TrimSpace(div.Text())) > 200 {
			section = div
			return false
		}
		return true
	})
	if section != nil {
		return section
	}

	doc.Find("div[data-hveid]").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if len(strings.TrimSpace(div.Text())) > 200 && div.Find(`a[target="_blank"]`).Length() >= 2 {
			section = div
			return false
		}
		return true
	})
	return section
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
