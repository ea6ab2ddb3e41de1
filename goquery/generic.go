// Package goquery implements HTML-based extraction over the rendered page
// snapshot: the generic heuristic article strategy and site metadata
// extraction.
package goquery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/dateparse"
)

// Ensure GenericStrategy implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*GenericStrategy)(nil)

// minTitleLen rejects anchors whose text is too short to be a headline.
const minTitleLen = 5

// earlyStopCount is the point past which later, noisier selector patterns
// are skipped. Later patterns in the cascade are only consulted when the
// more specific ones under-deliver.
const earlyStopCount = 10

// SelectorConfig is one rung of the extraction cascade.
type SelectorConfig struct {
	Selector string
	Source   string
}

// DefaultSelectors returns the extraction cascade, ordered from most
// specific (semantic article containers) to least specific (generic anchor
// lists).
func DefaultSelectors() []SelectorConfig {
	return []SelectorConfig{
		{Selector: "article h1 a, article h2 a, article h3 a", Source: "article-heading"},
		{Selector: "article a[href]", Source: "article"},
		{Selector: ".post-title a, .entry-title a", Source: "post-title"},
		{Selector: ".article-title a, .news-title a", Source: "article-title"},
		{Selector: "h1 a, h2 a, h3 a", Source: "heading"},
		{Selector: ".title a", Source: "title-class"},
		{Selector: "li a[href]", Source: "list"},
		{Selector: "ul a[href]", Source: "list"},
		{Selector: `a[href*="/article/"], a[href*="/post/"], a[href*="/news/"]`, Source: "path-hint"},
		{Selector: `a[href*="blog"], a[href*="story"]`, Source: "path-hint"},
		{Selector: "a[title][href]", Source: "titled-anchor"},
	}
}

// timeSelectors locate publish-time markup near an article link.
var timeSelectors = []string{
	"time",
	".date", ".time", ".published", ".post-date", ".publish-time",
	".entry-date", ".article-date", ".news-date",
	"[datetime]", "[data-time]", "[data-date]",
	".meta-date", ".timestamp",
}

// GenericStrategy extracts article links from arbitrary markup using an
// ordered CSS selector cascade. It is the universal fallback: Match accepts
// every URL, so it must be registered last.
type GenericStrategy struct {
	selectors []SelectorConfig

	// now is injectable for deterministic tests.
	now func() time.Time
}

// Option configures a GenericStrategy.
type Option func(*GenericStrategy)

// WithSelectors overrides the default extraction cascade.
func WithSelectors(configs []SelectorConfig) Option {
	return func(s *GenericStrategy) {
		s.selectors = configs
	}
}

// WithNow overrides the capture-time clock.
func WithNow(now func() time.Time) Option {
	return func(s *GenericStrategy) {
		s.now = now
	}
}

// NewGenericStrategy creates a new GenericStrategy.
func NewGenericStrategy(opts ...Option) *GenericStrategy {
	s := &GenericStrategy{
		selectors: DefaultSelectors(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the strategy's identifier.
func (s *GenericStrategy) Name() string {
	return "generic"
}

// Match accepts every URL; the generic strategy is the universal fallback.
func (s *GenericStrategy) Match(*url.URL) bool {
	return true
}

// Extract snapshots the rendered page and runs the selector cascade over it.
func (s *GenericStrategy) Extract(ctx context.Context, page linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "reading rendered page: %v", err)
	}

	return s.ExtractHTML(html, target, maxItems)
}

// ExtractHTML runs the cascade over an HTML snapshot. Split out from Extract
// so fixtures can be tested without a live page.
func (s *GenericStrategy) ExtractHTML(html string, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, linkcrawl.Errorf(linkcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	extractedAt := s.now().UTC().Format("2006-01-02 15:04:05")
	seen := make(map[string]bool)
	var articles []*linkcrawl.Article

	for _, config := range s.selectors {
		doc.Find(config.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(articles) >= maxItems {
				return false
			}

			title := strings.TrimSpace(sel.Text())
			href, _ := sel.Attr("href")
			if href == "" || len([]rune(title)) < minTitleLen {
				return true
			}

			resolved, ok := linkcrawl.NormalizeURL(href, target)
			if !ok || seen[resolved] {
				return true
			}
			if !linkcrawl.IsValidArticleURL(resolved, target) {
				return true
			}
			seen[resolved] = true

			articles = append(articles, &linkcrawl.Article{
				Title:       title,
				URL:         resolved,
				PublishedAt: publishTimeNear(sel),
				ExtractedAt: extractedAt,
				Source:      config.Source,
			})
			return true
		})

		// Later patterns are noisier; stop once the specific ones delivered.
		if len(articles) >= min(maxItems, earlyStopCount) {
			break
		}
	}

	return articles, nil
}

// publishTimeNear looks for time markup around the link: the anchor's own
// datetime attribute first, then up to three ancestor levels.
func publishTimeNear(sel *goquery.Selection) string {
	if dt, ok := sel.Attr("datetime"); ok {
		if ts := dateparse.Normalize(dt); ts != "" {
			return ts
		}
	}

	scope := sel.Parent()
	for depth := 0; depth < 3 && scope.Length() > 0; depth++ {
		for _, timeSel := range timeSelectors {
			node := scope.Find(timeSel).First()
			if node.Length() == 0 {
				continue
			}
			if dt, ok := node.Attr("datetime"); ok {
				if ts := dateparse.Normalize(dt); ts != "" {
					return ts
				}
			}
			if ts := dateparse.Normalize(strings.TrimSpace(node.Text())); ts != "" {
				return ts
			}
		}
		scope = scope.Parent()
	}
	return ""
}
