package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/dateparse"
)

// Ensure Reuters implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*Reuters)(nil)

// reutersBatchSize is the page size the origin's article search uses.
const reutersBatchSize = 20

// HeadfulHosts lists host suffixes whose anti-automation checks require a
// visible browser session. Wire these into the crawler via
// crawl.WithHeadfulHosts.
func HeadfulHosts() []string {
	return []string{"reuters.com"}
}

// Reuters replays the wire service's internal article search. Unlike the
// plain API-replay adapters it issues the request from inside the rendered
// page as a same-origin fetch, so the session cookies the site set during
// navigation ride along automatically; a cold HTTP client gets blocked.
type Reuters struct {
	logger *slog.Logger
}

// NewReuters creates the wire-service search adapter.
func NewReuters(logger *slog.Logger) *Reuters {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reuters{logger: logger}
}

// Name returns the strategy's identifier.
func (r *Reuters) Name() string {
	return "reuters"
}

// Match accepts the wire service's site-search route.
func (r *Reuters) Match(u *url.URL) bool {
	return matches(u, "reuters.com", "/site-search")
}

type reutersArticle struct {
	Title         string `json:"title"`
	CanonicalURL  string `json:"canonical_url"`
	Description   string `json:"description"`
	PublishedTime string `json:"published_time"`
}

type reutersResponse struct {
	Result struct {
		Pagination struct {
			TotalSize int `json:"total_size"`
		} `json:"pagination"`
		Articles []reutersArticle `json:"articles"`
	} `json:"result"`
}

// Extract recovers the keyword from the target URL and pages through the
// origin's search API via in-page same-origin fetches.
func (r *Reuters) Extract(ctx context.Context, page linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	keyword := target.Query().Get("query")
	if keyword == "" {
		return nil, nil
	}

	extractedAt := captureStamp()
	offset := 0
	var articles []*linkcrawl.Article
	for len(articles) < maxItems {
		var resp reutersResponse
		if err := page.Eval(ctx, searchFetchJS(keyword, offset, reutersBatchSize), &resp); err != nil {
			return articles, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "in-page search fetch: %v", err)
		}

		if len(resp.Result.Articles) == 0 {
			break
		}

		for _, item := range resp.Result.Articles {
			if len(articles) >= maxItems {
				break
			}
			link := absolutize(item.CanonicalURL, "https://www.reuters.com")
			if item.Title == "" || link == "" {
				continue
			}
			articles = append(articles, &linkcrawl.Article{
				Title:       item.Title,
				URL:         link,
				Summary:     item.Description,
				PublishedAt: dateparse.Normalize(item.PublishedTime),
				ExtractedAt: extractedAt,
				Source:      r.Name(),
			})
		}

		next := offset + len(resp.Result.Articles)
		if next <= offset || next >= resp.Result.Pagination.TotalSize {
			break
		}
		offset = next
	}

	return articles, nil
}

// searchFetchJS builds the same-origin fetch the origin's own front end
// issues: the search parameters travel as one JSON-encoded query value.
func searchFetchJS(keyword string, offset, size int) string {
	payload, _ := json.Marshal(map[string]any{
		"keyword": keyword,
		"offset":  offset,
		"size":    size,
		"sort":    "display_date:desc",
	})
	return fmt.Sprintf(`async () => {
	const query = encodeURIComponent(%q);
	const res = await fetch("/pf/api/v3/content/fetch/articles-by-search-v2?query=" + query + "&_website=reuters", {credentials: "same-origin"});
	if (!res.ok) {
		throw new Error("search fetch returned " + res.status);
	}
	return await res.json();
}`, string(payload))
}
