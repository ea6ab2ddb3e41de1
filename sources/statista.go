package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/dateparse"
)

// Ensure Statista implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*Statista)(nil)

// Statista replays the statistics publisher's search endpoint. The site's
// own result page is driven by a JSON API keyed on `q` (keyword), `p`
// (1-based page), and `sortMethod`; replaying it skips rendering entirely.
type Statista struct {
	client *resty.Client
	origin string
}

// StatistaOption configures a Statista adapter.
type StatistaOption func(*Statista)

// WithStatistaBaseURL overrides the origin endpoint, for tests.
func WithStatistaBaseURL(base string) StatistaOption {
	return func(s *Statista) {
		s.client.SetBaseURL(base)
		s.origin = base
	}
}

// NewStatista creates the statistics-publisher search adapter.
func NewStatista(opts ...StatistaOption) *Statista {
	s := &Statista{
		client: newClient("https://www.statista.com"),
		origin: "https://www.statista.com",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the strategy's identifier.
func (s *Statista) Name() string {
	return "statista"
}

// Match accepts the publisher's search route.
func (s *Statista) Match(u *url.URL) bool {
	return matches(u, "statista.com", "/search")
}

type statistaItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
}

type statistaResponse struct {
	Total   int            `json:"total"`
	Results []statistaItem `json:"results"`
}

// Extract recovers keyword, page, and sort hint from the target URL's query
// string and pages through the search API until the budget is met or the
// source signals exhaustion.
func (s *Statista) Extract(ctx context.Context, _ linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	query := target.Query()
	keyword := query.Get("q")
	if keyword == "" {
		return nil, nil
	}

	page, _ := strconv.Atoi(query.Get("p"))
	if page < 1 {
		page = 1
	}
	sortMethod := query.Get("sortMethod")
	if sortMethod == "" {
		sortMethod = "publicationDate"
	}

	extractedAt := captureStamp()
	var articles []*linkcrawl.Article
	for len(articles) < maxItems {
		var resp statistaResponse
		r, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":          keyword,
				"p":          strconv.Itoa(page),
				"sortMethod": sortMethod,
			}).
			SetResult(&resp).
			Get("/search/api")
		if err != nil {
			return articles, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "statistics search request: %v", err)
		}
		if r.StatusCode() < 200 || r.StatusCode() > 299 {
			return articles, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "statistics search returned %d", r.StatusCode())
		}

		if len(resp.Results) == 0 {
			break
		}

		for _, item := range resp.Results {
			if len(articles) >= maxItems {
				break
			}
			link := absolutize(item.Link, s.origin)
			if item.Title == "" || link == "" {
				continue
			}
			articles = append(articles, &linkcrawl.Article{
				Title:       item.Title,
				URL:         link,
				Summary:     item.Subtitle,
				PublishedAt: dateparse.Normalize(item.Date),
				ExtractedAt: extractedAt,
				Source:      s.Name(),
			})
		}

		page++
	}

	return articles, nil
}
