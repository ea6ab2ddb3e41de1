package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// Ensure LoggingArticleService implements linkcrawl.ArticleService.
var _ linkcrawl.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with debug logging.
type LoggingArticleService struct {
	next   linkcrawl.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next linkcrawl.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// UpsertArticles logs the batch size and delegates to the wrapped service.
func (s *LoggingArticleService) UpsertArticles(ctx context.Context, articles []*linkcrawl.Article) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert articles",
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertArticles(ctx, articles)
}

// FindArticles logs the filter and delegates to the wrapped service.
func (s *LoggingArticleService) FindArticles(ctx context.Context, filter linkcrawl.ArticleFilter) (articles []*linkcrawl.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find articles",
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticles(ctx, filter)
}

// DeleteArticle logs the URL and delegates to the wrapped service.
func (s *LoggingArticleService) DeleteArticle(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete article",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteArticle(ctx, url)
}
