// Package backends runs analysis prompts against answer backends and
// collects their responses. Backends come in two capability classes:
// concurrent-capable API backends and exclusively-owned sequential
// backends such as the browser scraper.
package backends

import (
	"context"
	"regexp"
)

// Response is a single backend answer with any citation URLs found in it.
type Response struct {
	Text      string
	Citations []string
}

// Backend answers prompts and is safe to call from multiple goroutines.
type Backend interface {
	Name() string
	Execute(ctx context.Context, prompt string) (*Response, error)
}

// ExclusiveBackend owns a scarce resource (a browser) and must be opened
// into a session that processes prompts one at a time.
type ExclusiveBackend interface {
	Name() string
	Open(ctx context.Context) (ExclusiveSession, error)
}

// ExclusiveSession is a live hold on an exclusive backend's resource.
// Close must be called on every path once Open succeeds.
type ExclusiveSession interface {
	Execute(ctx context.Context, prompt string) (*Response, error)
	Close() error
}

var urlRe = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// ExtractURLs returns the distinct URLs found in text, in first-seen order.
func ExtractURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, u := range urlRe.FindAllString(text, -1) {
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
