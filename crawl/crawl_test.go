package crawl_test

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/crawl"
	"github.com/fwojciec/linkcrawl/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fastNav is a single-rung ladder without settle sleeps.
func fastNav() []crawl.NavAttempt {
	return []crawl.NavAttempt{{Mode: linkcrawl.WaitDOMReady, Timeout: time.Second}}
}

func staticBrowser(page *mock.Page) *mock.Browser {
	return &mock.Browser{
		NewPageFn: func(context.Context, linkcrawl.PageOptions) (linkcrawl.Page, error) {
			return page, nil
		},
	}
}

func matchAll() func(*url.URL) bool {
	return func(*url.URL) bool { return true }
}

func TestCrawler_Extract_Success(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		HTMLFn: func() (string, error) {
			return `<html><head><title>Site</title></head></html>`, nil
		},
	}

	strategy := &mock.Strategy{
		MatchFn: matchAll(),
		ExtractFn: func(_ context.Context, _ linkcrawl.Page, _ *url.URL, _ int) ([]*linkcrawl.Article, error) {
			return []*linkcrawl.Article{
				{Title: "First", URL: "https://x.com/1", PublishedAt: "200"},
				{Title: "Second", URL: "https://x.com/2", PublishedAt: "100"},
			}, nil
		},
	}

	c := crawl.New(staticBrowser(page),
		crawl.WithStrategies(strategy),
		crawl.WithLogger(discardLogger()),
		crawl.WithNavBackoff(0),
		crawl.WithNavAttempts(fastNav()),
	)

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://x.com/news", MaxItems: 10})

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, 2, result.TotalFound)
	assert.Len(t, result.Articles, 2)
	assert.Equal(t, "Site", result.SiteInfo.Title)
	assert.Equal(t, 1, page.CloseCalls)
}

func TestCrawler_Extract_NavigationFailure(t *testing.T) {
	t.Parallel()

	page := &mock.Page{
		NavigateFn: func(context.Context, string, linkcrawl.WaitMode, time.Duration) error {
			return errors.New("net::ERR_CONNECTION_REFUSED")
		},
	}

	strategy := &mock.Strategy{
		MatchFn: matchAll(),
		ExtractFn: func(context.Context, linkcrawl.Page, *url.URL, int) ([]*linkcrawl.Article, error) {
			t.Fatal("strategy must not run when navigation failed")
			return nil, nil
		},
	}

	c := crawl.New(staticBrowser(page),
		crawl.WithStrategies(strategy),
		crawl.WithLogger(discardLogger()),
		crawl.WithNavBackoff(0),
		crawl.WithNavAttempts(fastNav()),
	)

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://down.example/", MaxItems: 10})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Articles)
	assert.Equal(t, 1, page.CloseCalls)
}

func TestCrawler_Extract_EmptySpecializedResultIsAuthoritative(t *testing.T) {
	t.Parallel()

	page := &mock.Page{}

	specialized := &mock.Strategy{
		NameFn:  func() string { return "specialized" },
		MatchFn: matchAll(),
		ExtractFn: func(context.Context, linkcrawl.Page, *url.URL, int) ([]*linkcrawl.Article, error) {
			return nil, nil
		},
	}

	fallback := &mock.Strategy{
		NameFn:  func() string { return "generic" },
		MatchFn: matchAll(),
		ExtractFn: func(context.Context, linkcrawl.Page, *url.URL, int) ([]*linkcrawl.Article, error) {
			t.Fatal("generic fallback must not run after a matched specialized strategy")
			return nil, nil
		},
	}

	c := crawl.New(staticBrowser(page),
		crawl.WithStrategies(specialized),
		crawl.WithFallback(fallback),
		crawl.WithLogger(discardLogger()),
		crawl.WithNavBackoff(0),
		crawl.WithNavAttempts(fastNav()),
	)

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://known.example/search?q=x", MaxItems: 10})

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.TotalFound)
	assert.Equal(t, "no matching articles found", result.Error)
}

func TestCrawler_Extract_PartialFailureKeepsArticlesAndError(t *testing.T) {
	t.Parallel()

	page := &mock.Page{}

	strategy := &mock.Strategy{
		MatchFn: matchAll(),
		ExtractFn: func(context.Context, linkcrawl.Page, *url.URL, int) ([]*linkcrawl.Article, error) {
			return []*linkcrawl.Article{{Title: "Kept", URL: "https://x.com/1"}},
				linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "upstream returned 503 mid-pagination")
		},
	}

	c := crawl.New(staticBrowser(page),
		crawl.WithStrategies(strategy),
		crawl.WithLogger(discardLogger()),
		crawl.WithNavBackoff(0),
		crawl.WithNavAttempts(fastNav()),
	)

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://x.com/s?q=a", MaxItems: 10})

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalFound)
	assert.NotEmpty(t, result.Error)
}

func TestCrawler_Extract_BrowserUnavailable(t *testing.T) {
	t.Parallel()

	browser := &mock.Browser{
		NewPageFn: func(context.Context, linkcrawl.PageOptions) (linkcrawl.Page, error) {
			return nil, errors.New("chrome not found")
		},
	}

	c := crawl.New(browser, crawl.WithLogger(discardLogger()))

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://x.com/", MaxItems: 5})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "browser automation unavailable")
}

func TestCrawler_Extract_InvalidRequest(t *testing.T) {
	t.Parallel()

	c := crawl.New(&mock.Browser{}, crawl.WithLogger(discardLogger()))

	tests := []struct {
		name string
		req  *linkcrawl.Request
	}{
		{"empty URL", &linkcrawl.Request{URL: "", MaxItems: 5}},
		{"zero budget", &linkcrawl.Request{URL: "https://x.com/", MaxItems: 0}},
		{"relative URL", &linkcrawl.Request{URL: "/just/a/path", MaxItems: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := c.Extract(context.Background(), tt.req)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestCrawler_Extract_HeadfulHostOverride(t *testing.T) {
	t.Parallel()

	var gotOpts linkcrawl.PageOptions
	browser := &mock.Browser{
		NewPageFn: func(_ context.Context, opts linkcrawl.PageOptions) (linkcrawl.Page, error) {
			gotOpts = opts
			return &mock.Page{}, nil
		},
	}

	strategy := &mock.Strategy{
		MatchFn: matchAll(),
		ExtractFn: func(context.Context, linkcrawl.Page, *url.URL, int) ([]*linkcrawl.Article, error) {
			return []*linkcrawl.Article{{Title: "A", URL: "https://www.wired.example/1"}}, nil
		},
	}

	c := crawl.New(browser,
		crawl.WithStrategies(strategy),
		crawl.WithHeadfulHosts("wired.example"),
		crawl.WithLogger(discardLogger()),
		crawl.WithNavBackoff(0),
		crawl.WithNavAttempts(fastNav()),
	)

	result := c.Extract(context.Background(), &linkcrawl.Request{URL: "https://www.wired.example/s?q=a", MaxItems: 5})

	require.True(t, result.Success)
	assert.True(t, gotOpts.Headful)
	assert.NotEmpty(t, gotOpts.UserAgent)
}
