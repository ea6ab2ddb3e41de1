package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/fwojciec/linkcrawl"
)

// Ensure Feed implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*Feed)(nil)

// Feed short-circuits extraction for RSS and Atom endpoints. A syndication
// document already is the article list, so the adapter fetches the raw
// document itself instead of reading the rendered page, which would have
// been run through the browser's XML viewer.
type Feed struct {
	client *resty.Client
	parser *gofeed.Parser
}

// FeedOption configures a Feed adapter.
type FeedOption func(*Feed)

// WithFeedClient overrides the HTTP client, for tests.
func WithFeedClient(client *resty.Client) FeedOption {
	return func(f *Feed) {
		f.client = client
	}
}

// NewFeed creates the syndication adapter.
func NewFeed(opts ...FeedOption) *Feed {
	f := &Feed{
		client: newClient(""),
		parser: gofeed.NewParser(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the strategy's identifier.
func (f *Feed) Name() string {
	return "feed"
}

// feedPathMarkers are path shapes that reliably signal a syndication
// endpoint on any host.
var feedPathMarkers = []string{"/rss", "/feed", "/atom"}

// Match accepts any URL whose path looks like a syndication endpoint.
func (f *Feed) Match(u *url.URL) bool {
	path := strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	if strings.HasSuffix(path, ".xml") || strings.HasSuffix(path, ".rss") || strings.HasSuffix(path, ".atom") {
		return true
	}
	for _, marker := range feedPathMarkers {
		if path == marker || strings.HasSuffix(path, marker) {
			return true
		}
	}
	return false
}

// Extract fetches and parses the feed document. Items arrive already
// ordered and titled, so mapping is direct.
func (f *Feed) Extract(ctx context.Context, _ linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	r, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml").
		Get(target.String())
	if err != nil {
		return nil, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "feed request: %v", err)
	}
	if r.StatusCode() < 200 || r.StatusCode() > 299 {
		return nil, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "feed returned %d", r.StatusCode())
	}

	feed, err := f.parser.ParseString(string(r.Body()))
	if err != nil {
		return nil, linkcrawl.Errorf(linkcrawl.EINVALID, "parse feed: %v", err)
	}

	extractedAt := captureStamp()
	articles := make([]*linkcrawl.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(articles) >= maxItems {
			break
		}
		link := absolutize(item.Link, target.String())
		if item.Title == "" || link == "" {
			continue
		}
		article := &linkcrawl.Article{
			Title:       item.Title,
			URL:         link,
			Summary:     item.Description,
			ExtractedAt: extractedAt,
			Source:      f.Name(),
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			article.Author = item.Authors[0].Name
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = strconv.FormatInt(item.PublishedParsed.Unix(), 10)
		} else if item.UpdatedParsed != nil {
			article.PublishedAt = strconv.FormatInt(item.UpdatedParsed.Unix(), 10)
		}
		articles = append(articles, article)
	}

	return articles, nil
}
