package crawl

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/linkcrawl"
)

// DefaultBatchConcurrency bounds parallel extraction calls in ExtractAll.
const DefaultBatchConcurrency = 3

// ExtractAll extracts several target URLs concurrently, one isolated
// browsing context per call. Concurrency is bounded and, when a domain
// limiter is configured, calls to the same site wait their turn. Results
// are returned in input order; a failed call occupies its slot with a
// success:false result rather than being dropped.
func (c *Crawler) ExtractAll(ctx context.Context, urls []string, maxItems, concurrency int) []*linkcrawl.Result {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]*linkcrawl.Result, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, raw := range urls {
		g.Go(func() error {
			if c.limiter != nil {
				if u, err := url.Parse(raw); err == nil {
					if err := c.limiter.Wait(gctx, u.Hostname()); err != nil {
						results[i] = &linkcrawl.Result{
							Articles: []*linkcrawl.Article{},
							SiteInfo: linkcrawl.SiteInfo{URL: raw},
							Error:    err.Error(),
						}
						return nil
					}
				}
			}
			results[i] = c.Extract(gctx, &linkcrawl.Request{URL: raw, MaxItems: maxItems})
			return nil
		})
	}
	_ = g.Wait()

	return results
}
