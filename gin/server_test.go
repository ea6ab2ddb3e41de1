package gin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/linkcrawl"
	lcgin "github.com/fwojciec/linkcrawl/gin"
	"github.com/fwojciec/linkcrawl/mock"
)

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv := lcgin.NewServer(&mock.Extractor{})
	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestServer_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns the result record", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
				assert.Equal(t, "https://example.com/news", req.URL)
				assert.Equal(t, 5, req.MaxItems)
				return &linkcrawl.Result{
					Success:    true,
					Articles:   []*linkcrawl.Article{{Title: "a", URL: "https://example.com/a"}},
					TotalFound: 1,
				}
			},
		}
		srv := lcgin.NewServer(extractor)

		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/extract",
			`{"url": "https://example.com/news", "maxItems": 5}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var result linkcrawl.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.TotalFound)
	})

	t.Run("defaults the item budget", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
				assert.Equal(t, lcgin.DefaultMaxItems, req.MaxItems)
				return &linkcrawl.Result{}
			},
		}
		srv := lcgin.NewServer(extractor)

		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/extract",
			`{"url": "https://example.com/news"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failed extraction still answers 200", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
				return &linkcrawl.Result{Success: false, Error: "navigation failed"}
			},
		}
		srv := lcgin.NewServer(extractor)

		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/extract",
			`{"url": "https://unreachable.example/"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "navigation failed")
	})

	t.Run("missing URL is a bad request", func(t *testing.T) {
		t.Parallel()

		srv := lcgin.NewServer(&mock.Extractor{})
		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/extract", `{"maxItems": 5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("persists articles on success", func(t *testing.T) {
		t.Parallel()

		upserted := 0
		articles := &mock.ArticleService{
			UpsertArticlesFn: func(ctx context.Context, batch []*linkcrawl.Article) error {
				upserted = len(batch)
				return nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
				return &linkcrawl.Result{
					Success:    true,
					Articles:   []*linkcrawl.Article{{Title: "a", URL: "https://example.com/a"}},
					TotalFound: 1,
				}
			},
		}
		srv := lcgin.NewServer(extractor, lcgin.WithArticleService(articles))

		rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/extract",
			`{"url": "https://example.com/news"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, upserted)
	})
}

func TestServer_ListArticles(t *testing.T) {
	t.Parallel()

	t.Run("passes the filter through", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
				require.NotNil(t, filter.Source)
				assert.Equal(t, "feed", *filter.Source)
				assert.Equal(t, 10, filter.Limit)
				return []*linkcrawl.Article{{Title: "a", URL: "https://example.com/a"}}, nil
			},
		}
		srv := lcgin.NewServer(&mock.Extractor{}, lcgin.WithArticleService(articles))

		rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/articles?source=feed&limit=10", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
	})

	t.Run("empty store answers an empty list", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(ctx context.Context, filter linkcrawl.ArticleFilter) ([]*linkcrawl.Article, error) {
				return nil, nil
			},
		}
		srv := lcgin.NewServer(&mock.Extractor{}, lcgin.WithArticleService(articles))

		rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/articles", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"articles":[]`)
	})

	t.Run("no store configured", func(t *testing.T) {
		t.Parallel()

		srv := lcgin.NewServer(&mock.Extractor{})
		rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/articles", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_DeleteArticle(t *testing.T) {
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
		srv := lcgin.NewServer(&mock.Extractor{}, lcgin.WithArticleService(articles))

		rec := do(t, srv.Handler(), http.MethodDelete, "/api/v1/articles?url=https%3A%2F%2Fexample.com%2Fa", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://example.com/a", deleted)
	})

	t.Run("unknown URL maps to 404", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			DeleteArticleFn: func(ctx context.Context, url string) error {
				return linkcrawl.Errorf(linkcrawl.ENOTFOUND, "article not found")
			},
		}
		srv := lcgin.NewServer(&mock.Extractor{}, lcgin.WithArticleService(articles))

		rec := do(t, srv.Handler(), http.MethodDelete, "/api/v1/articles?url=https%3A%2F%2Fexample.com%2Fmissing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing url parameter", func(t *testing.T) {
		t.Parallel()

		srv := lcgin.NewServer(&mock.Extractor{}, lcgin.WithArticleService(&mock.ArticleService{}))
		rec := do(t, srv.Handler(), http.MethodDelete, "/api/v1/articles", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
