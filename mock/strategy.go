package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/linkcrawl"
)

var _ linkcrawl.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of linkcrawl.Strategy.
type Strategy struct {
	NameFn    func() string
	MatchFn   func(u *url.URL) bool
	ExtractFn func(ctx context.Context, page linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error)
}

func (s *Strategy) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Strategy) Match(u *url.URL) bool {
	return s.MatchFn(u)
}

func (s *Strategy) Extract(ctx context.Context, page linkcrawl.Page, target *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	return s.ExtractFn(ctx, page, target, maxItems)
}

var _ linkcrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of linkcrawl.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result
}

func (e *Extractor) Extract(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
	return e.ExtractFn(ctx, req)
}
