package linkcrawl

import (
	"context"
	"strconv"
)

// Field length caps applied by the result assembler.
const (
	MaxTitleLen   = 200
	MaxSummaryLen = 500
)

// Article is the canonical output unit of the extraction engine, independent
// of which source or strategy produced it. URL is absolute and serves as the
// deduplication key. PublishedAt holds epoch seconds as text, or is empty
// when the source exposed no usable timestamp.
type Article struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Summary     string            `json:"summary,omitempty"`
	Author      string            `json:"author,omitempty"`
	PublishedAt string            `json:"publishedAt,omitempty"`
	ExtractedAt string            `json:"extractedAt"`
	Source      string            `json:"source,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// PublishedEpoch returns the parsed PublishedAt timestamp and whether one is
// present. Malformed values are treated as absent.
func (a *Article) PublishedEpoch() (int64, bool) {
	if a.PublishedAt == "" {
		return 0, false
	}
	ts, err := strconv.ParseInt(a.PublishedAt, 10, 64)
	if err != nil || ts <= 0 {
		return 0, false
	}
	return ts, true
}

// SiteInfo carries best-effort metadata about the target site. Fields default
// to the empty string when unavailable.
type SiteInfo struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Request describes one extraction call. Immutable per call.
type Request struct {
	URL      string `json:"url"`
	MaxItems int    `json:"maxItems"`
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "target URL required")
	}
	if r.MaxItems <= 0 {
		return Errorf(EINVALID, "max items must be positive")
	}
	return nil
}

// Result is the uniform shape returned by every extraction call. Success is
// true iff at least one article was produced; Error is set only when Success
// is false or a partial failure occurred. TotalFound always equals
// len(Articles): the engine does not report found-but-undelivered counts.
type Result struct {
	Success    bool       `json:"success"`
	Articles   []*Article `json:"articles"`
	TotalFound int        `json:"totalFound"`
	SiteInfo   SiteInfo   `json:"siteInfo"`
	Error      string     `json:"error,omitempty"`
}

// Extractor is the engine's single inbound interface: a pure function from
// URL plus item budget to a result record. Call-level failures are captured
// in the Result rather than returned as errors, so callers always receive a
// uniform shape.
type Extractor interface {
	Extract(ctx context.Context, req *Request) *Result
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Source *string `json:"source"`
	URL    *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleService persists extracted articles. Persistence lives outside the
// engine; the extraction call itself holds no state across calls.
type ArticleService interface {
	// UpsertArticles stores articles, keyed by URL. Re-extracted articles
	// whose content changed are updated in place.
	UpsertArticles(ctx context.Context, articles []*Article) error

	// FindArticles retrieves stored articles matching the filter,
	// newest-first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// DeleteArticle permanently removes an article by URL.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, url string) error
}
