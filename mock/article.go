package mock

import (
	"context"

	"github.com/fwojciec/linkcrawl"
)

var _ linkcrawl.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of linkcrawl.ArticleService.
type ArticleService struct {
	UpsertArticlesFn func(ctx context.Context, articles []*linkcrawl.Article) error
	FindArticlesFn   func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error)
	DeleteArticleFn  func(ctx context.Context, url string) error
}

func (s *ArticleService) UpsertArticles(ctx context.Context, articles []*linkcrawl.Article) error {
	return s.UpsertArticlesFn(ctx, articles)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	return s.DeleteArticleFn(ctx, url)
}
