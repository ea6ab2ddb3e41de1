package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/mock"
)

func testDeps(articles linkcrawl.ArticleService) (*Dependencies, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Dependencies{
		Ctx:      context.Background(),
		Stdout:   &stdout,
		Stderr:   &stderr,
		Logger:   slog.New(slog.DiscardHandler),
		Articles: articles,
	}, &stdout, &stderr
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints stored articles", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
				assert.Equal(t, 50, filter.Limit)
				require.NotNil(t, filter.Source)
				assert.Equal(t, "feed", *filter.Source)
				return []*linkcrawl.Article{
					{Title: "Headline", URL: "https://example.com/a", Source: "feed"},
				}, nil
			},
		}
		deps, stdout, _ := testDeps(articles)

		cmd := &ListCmd{Source: "feed", Limit: 50}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Headline")
		assert.Contains(t, stdout.String(), "https://example.com/a")
	})

	t.Run("empty store prints a hint", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
				return nil, nil
			},
		}
		deps, stdout, _ := testDeps(articles)

		cmd := &ListCmd{Limit: 50}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No articles stored")
	})

	t.Run("service errors reach stderr", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
				return nil, errors.New("disk gone")
			},
		}
		deps, _, stderr := testDeps(articles)

		cmd := &ListCmd{Limit: 50}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes by URL", func(t *testing.T) {
		t.Parallel()

		deleted := ""
		articles := &mock.ArticleService{
			DeleteArticleFn: func(ctx context.Context, url string) error {
				deleted = url
				return nil
			},
		}
		deps, stdout, _ := testDeps(articles)

		cmd := &DeleteCmd{URL: "https://example.com/a"}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "https://example.com/a", deleted)
		assert.Contains(t, stdout.String(), "Deleted")
	})

	t.Run("not found is an error", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			DeleteArticleFn: func(ctx context.Context, url string) error {
				return linkcrawl.Errorf(linkcrawl.ENOTFOUND, "article not found")
			},
		}
		deps, _, stderr := testDeps(articles)

		cmd := &DeleteCmd{URL: "https://example.com/missing"}
		require.Error(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "article not found")
	})
}
