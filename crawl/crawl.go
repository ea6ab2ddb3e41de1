// Package crawl implements the extraction engine: per-call page lifecycle,
// strategy dispatch, the navigation retry ladder, consent-overlay handling,
// the anti-bot slider state machine, and result assembly.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/goquery"
)

// DefaultNavTimeout bounds one extraction call's navigation phase.
const DefaultNavTimeout = 5 * time.Minute

// DefaultUserAgent is the spoofed desktop identity used for every browsing
// context.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

// Default viewport for spoofed contexts.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// Ensure Crawler implements linkcrawl.Extractor at compile time.
var _ linkcrawl.Extractor = (*Crawler)(nil)

// Crawler turns a target URL plus item budget into a normalized article
// list. Every call launches and tears down its own isolated browsing
// context, so concurrent calls share no session state.
type Crawler struct {
	browser      linkcrawl.Browser
	strategies   []linkcrawl.Strategy
	fallback     linkcrawl.Strategy
	limiter      *DomainLimiter
	logger       *slog.Logger
	navTimeout   time.Duration
	navBackoff   time.Duration
	navAttempts  []NavAttempt
	userAgent    string
	headfulHosts []string
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithStrategies registers specialized strategies in priority order.
// First match wins; ties resolve to first-registered.
func WithStrategies(strategies ...linkcrawl.Strategy) CrawlerOption {
	return func(c *Crawler) {
		c.strategies = append(c.strategies, strategies...)
	}
}

// WithFallback sets the universal fallback strategy. Defaults to the
// generic selector-cascade strategy.
func WithFallback(s linkcrawl.Strategy) CrawlerOption {
	return func(c *Crawler) {
		c.fallback = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) CrawlerOption {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithNavTimeout sets the overall navigation timeout for one call.
func WithNavTimeout(d time.Duration) CrawlerOption {
	return func(c *Crawler) {
		c.navTimeout = d
	}
}

// WithNavBackoff sets the pause between navigation retry rungs.
// Tests use a zero backoff to avoid real sleeps.
func WithNavBackoff(d time.Duration) CrawlerOption {
	return func(c *Crawler) {
		c.navBackoff = d
	}
}

// WithNavAttempts overrides the navigation retry ladder. Tests use this to
// drop the settle sleeps.
func WithNavAttempts(attempts []NavAttempt) CrawlerOption {
	return func(c *Crawler) {
		c.navAttempts = attempts
	}
}

// WithUserAgent overrides the spoofed browser identity.
func WithUserAgent(ua string) CrawlerOption {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithHeadfulHosts registers host suffixes whose anti-automation checks
// require a visible, non-headless session.
func WithHeadfulHosts(hosts ...string) CrawlerOption {
	return func(c *Crawler) {
		c.headfulHosts = append(c.headfulHosts, hosts...)
	}
}

// WithDomainLimiter enables per-domain politeness for batch extraction.
func WithDomainLimiter(rps float64) CrawlerOption {
	return func(c *Crawler) {
		c.limiter = NewDomainLimiter(rps)
	}
}

// New creates a Crawler over the given browser automation capability.
func New(browser linkcrawl.Browser, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		browser:    browser,
		navTimeout: DefaultNavTimeout,
		navBackoff: time.Second,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.fallback == nil {
		c.fallback = goquery.NewGenericStrategy()
	}
	return c
}

// Extract runs one extraction call. All call-level failures are folded into
// the returned Result; the method never panics and never returns nil.
func (c *Crawler) Extract(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
	result := &linkcrawl.Result{
		Articles: []*linkcrawl.Article{},
		SiteInfo: linkcrawl.SiteInfo{URL: req.URL},
	}

	if err := req.Validate(); err != nil {
		result.Error = linkcrawl.ErrorMessage(err)
		return result
	}

	target, err := url.Parse(req.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		result.Error = "target URL must be absolute http(s)"
		return result
	}

	logger := c.logger.With("call", uuid.New().String(), "url", req.URL)

	page, err := c.browser.NewPage(ctx, linkcrawl.PageOptions{
		UserAgent:      c.userAgent,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		Headful:        c.isHeadfulHost(target.Hostname()),
	})
	if err != nil {
		logger.Error("browsing context unavailable", "err", err)
		result.Error = "browser automation unavailable: " + err.Error()
		return result
	}
	defer page.Close()

	attempts := c.navAttempts
	if attempts == nil {
		attempts = DefaultNavAttempts(c.navTimeout)
	}
	if err := Navigate(ctx, page, req.URL, attempts, c.navBackoff, logger); err != nil {
		logger.Error("navigation failed", "err", err)
		result.Error = linkcrawl.ErrorMessage(err)
		return result
	}

	DismissOverlays(ctx, page, logger)

	if html, err := page.HTML(); err == nil {
		result.SiteInfo = goquery.ExtractSiteInfo(html, req.URL)
	}

	strategy := Dispatch(c.strategies, c.fallback, target)
	logger.Info("strategy selected", "strategy", strategy.Name())

	articles, err := strategy.Extract(ctx, page, target, req.MaxItems)
	if err != nil {
		// Partial results still count; the error only surfaces if the
		// call produced nothing.
		logger.Warn("extraction stopped early", "strategy", strategy.Name(), "err", err)
		result.Error = linkcrawl.ErrorMessage(err)
	}

	result.Articles = Assemble(articles, req.MaxItems)
	result.TotalFound = len(result.Articles)
	result.Success = result.TotalFound > 0

	// A partial failure keeps its error text alongside the articles it
	// still produced.
	if !result.Success && result.Error == "" {
		result.Error = "no matching articles found"
	}

	logger.Info("extraction finished",
		"strategy", strategy.Name(),
		"articles", result.TotalFound,
		"success", result.Success,
	)
	return result
}

// isHeadfulHost reports whether the host needs a visible browser session.
func (c *Crawler) isHeadfulHost(host string) bool {
	for _, suffix := range c.headfulHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
