package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/fwojciec/linkcrawl"
)

// Ensure BaiduNews implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*BaiduNews)(nil)

// baiduBatchSize is the page size the origin's news search uses.
const baiduBatchSize = 20

// BaiduNews replays the news aggregator's internal search API instead of
// scraping its rendered result page. The target URL's query parameters carry
// the user's original keyword and paging position; the adapter reconstructs
// the search request from them and pages through JSON batches directly.
type BaiduNews struct {
	client *resty.Client
}

// BaiduOption configures a BaiduNews adapter.
type BaiduOption func(*BaiduNews)

// WithBaiduBaseURL overrides the origin endpoint, for tests.
func WithBaiduBaseURL(base string) BaiduOption {
	return func(b *BaiduNews) {
		b.client.SetBaseURL(base)
	}
}

// NewBaiduNews creates the news-aggregator search adapter.
func NewBaiduNews(opts ...BaiduOption) *BaiduNews {
	b := &BaiduNews{client: newClient("https://news.baidu.com")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the strategy's identifier.
func (b *BaiduNews) Name() string {
	return "baidu-news"
}

// Match accepts the aggregator's news search routes.
func (b *BaiduNews) Match(u *url.URL) bool {
	return matches(u, "baidu.com", "/ns") || matches(u, "baidu.com", "/s")
}

type baiduItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Abstract    string `json:"abstract"`
	Source      string `json:"source"`
	PublishTime int64  `json:"publish_time"`
}

type baiduResponse struct {
	Errno int `json:"errno"`
	Data  struct {
		Total int         `json:"total"`
		List  []baiduItem `json:"list"`
	} `json:"data"`
}

// Extract recovers the keyword from the target URL and pages through the
// origin's JSON search endpoint until the budget is met or the source is
// exhausted. The rendered page is not consulted.
func (b *BaiduNews) Extract(ctx context.Context, _ linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	query := target.Query()
	keyword := query.Get("word")
	if keyword == "" {
		keyword = query.Get("wd")
	}
	if keyword == "" {
		// No recoverable keyword: the adapter declines. The dispatcher
		// does not reroute (see crawl.Dispatch).
		return nil, nil
	}

	offset, _ := strconv.Atoi(query.Get("pn"))
	if offset < 0 {
		offset = 0
	}

	extractedAt := captureStamp()
	var articles []*linkcrawl.Article
	for len(articles) < maxItems {
		var resp baiduResponse
		r, err := b.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"tn":   "newsjson",
				"word": keyword,
				"rn":   strconv.Itoa(baiduBatchSize),
				"pn":   strconv.Itoa(offset),
			}).
			SetResult(&resp).
			Get("/ns")
		if err != nil {
			return articles, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "news search request: %v", err)
		}
		if r.StatusCode() < 200 || r.StatusCode() > 299 {
			return articles, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "news search returned %d", r.StatusCode())
		}

		if len(resp.Data.List) == 0 {
			break
		}

		for _, item := range resp.Data.List {
			if len(articles) >= maxItems {
				break
			}
			link := absolutize(item.URL, "https://news.baidu.com")
			if item.Title == "" || link == "" {
				continue
			}
			a := &linkcrawl.Article{
				Title:       item.Title,
				URL:         link,
				Summary:     item.Abstract,
				ExtractedAt: extractedAt,
				Source:      b.Name(),
			}
			if item.PublishTime > 0 {
				a.PublishedAt = strconv.FormatInt(item.PublishTime, 10)
			}
			if item.Source != "" {
				a.Extra = map[string]string{"publisher": item.Source}
			}
			articles = append(articles, a)
		}

		next := offset + len(resp.Data.List)
		if next <= offset {
			// Origin stopped advancing; bail rather than loop forever.
			break
		}
		offset = next
	}

	return articles, nil
}
