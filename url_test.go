package linkcrawl_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/linkcrawl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://x.com/c/")

	tests := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{"root relative", "/a/b", "https://x.com/a/b", true},
		{"path relative", "d", "https://x.com/c/d", true},
		{"already absolute", "https://y.com/z", "https://y.com/z", true},
		{"anchor", "#section", "", false},
		{"javascript", "javascript:void(0)", "", false},
		{"mailto", "mailto:a@x.com", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := linkcrawl.NormalizeURL(tt.href, base)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidArticleURL(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "https://x.com")

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"article path", "https://x.com/article/42", true},
		{"subdomain", "https://news.x.com/article/42", true},
		{"cross host", "https://y.com/z", false},
		{"lookalike host", "https://notx.com/z", false},
		{"login page", "https://x.com/login", false},
		{"tag index", "https://x.com/tag/go", false},
		{"static image", "https://x.com/img/a.png", false},
		{"stylesheet", "https://x.com/site.css", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, linkcrawl.IsValidArticleURL(tt.url, base))
		})
	}
}

func TestArticle_PublishedEpoch(t *testing.T) {
	t.Parallel()

	a := &linkcrawl.Article{PublishedAt: "1700000000"}
	ts, ok := a.PublishedEpoch()
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	for _, raw := range []string{"", "soon", "-5", "0"} {
		a := &linkcrawl.Article{PublishedAt: raw}
		_, ok := a.PublishedEpoch()
		assert.False(t, ok, raw)
	}
}
