package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/sources"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <item>
      <title>First post</title>
      <link>https://example.com/posts/1</link>
      <description>Opening entry.</description>
      <author>writer@example.com (Jo Writer)</author>
      <pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second post</title>
      <link>/posts/2</link>
      <description>Relative link entry.</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/posts/3</link>
    </item>
  </channel>
</rss>`

func TestFeed_Match(t *testing.T) {
	f := sources.NewFeed()
	assert.True(t, f.Match(mustParse(t, "https://example.com/feed.xml")))
	assert.True(t, f.Match(mustParse(t, "https://example.com/blog/rss")))
	assert.True(t, f.Match(mustParse(t, "https://example.com/atom/")))
	assert.True(t, f.Match(mustParse(t, "https://example.com/feed")))
	assert.False(t, f.Match(mustParse(t, "https://example.com/news")))
	assert.False(t, f.Match(mustParse(t, "https://example.com/freedom")))
}

func TestFeed_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	f := sources.NewFeed()
	target := mustParse(t, srv.URL+"/feed.xml")

	articles, err := f.Extract(context.Background(), nil, target, 20)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "First post", first.Title)
	assert.Equal(t, "https://example.com/posts/1", first.URL)
	assert.Equal(t, "Opening entry.", first.Summary)
	assert.NotEmpty(t, first.PublishedAt)
	assert.Equal(t, "feed", first.Source)

	second := articles[1]
	assert.Equal(t, srv.URL+"/posts/2", second.URL)
	assert.Empty(t, second.PublishedAt)
}

func TestFeed_Extract_RespectsBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	f := sources.NewFeed()
	target := mustParse(t, srv.URL+"/feed.xml")

	articles, err := f.Extract(context.Background(), nil, target, 1)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFeed_Extract_NotAFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not xml</body></html>"))
	}))
	defer srv.Close()

	f := sources.NewFeed()
	target := mustParse(t, srv.URL+"/feed.xml")

	_, err := f.Extract(context.Background(), nil, target, 20)
	require.Error(t, err)
	assert.Equal(t, linkcrawl.EINVALID, linkcrawl.ErrorCode(err))
}

func TestFeed_Extract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := sources.NewFeed()
	target := mustParse(t, srv.URL+"/feed.xml")

	_, err := f.Extract(context.Background(), nil, target, 20)
	require.Error(t, err)
	assert.Equal(t, linkcrawl.EUNAVAILABLE, linkcrawl.ErrorCode(err))
}
