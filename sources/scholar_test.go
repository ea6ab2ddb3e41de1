package sources_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/mock"
	"github.com/fwojciec/linkcrawl/sources"
)

// cardsPage answers the in-page card query with the given records.
func cardsPage(t *testing.T, cards []map[string]string) *mock.Page {
	t.Helper()
	return &mock.Page{
		EvalFn: func(_ context.Context, _ string, out any) error {
			payload, err := json.Marshal(cards)
			require.NoError(t, err)
			return json.Unmarshal(payload, out)
		},
	}
}

func TestScholar_Match(t *testing.T) {
	s := sources.NewScholar(nil)
	assert.True(t, s.Match(mustParse(t, "https://scholar.google.com/scholar?q=graphene")))
	assert.False(t, s.Match(mustParse(t, "https://scholar.google.com/citations?user=x")))
	assert.False(t, s.Match(mustParse(t, "https://www.google.com/scholar?q=graphene")))
}

func TestScholar_Extract_ParsesByline(t *testing.T) {
	page := cardsPage(t, []map[string]string{
		{
			"title":   "Graphene field-effect transistors",
			"link":    "https://example.org/paper/1",
			"summary": "We report on transport measurements.",
			"byline":  "A Geim, K Novoselov - Nature Materials, 2007 - nature.com",
		},
		{
			"title":  "Untitled preprint",
			"link":   "https://example.org/paper/2",
			"byline": "J Doe",
		},
	})

	s := sources.NewScholar(nil)
	articles, err := s.Extract(context.Background(), page, nil, 20)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "A Geim, K Novoselov", first.Author)
	assert.Equal(t, "Nature Materials, 2007", first.Extra["venue"])
	wantEpoch := time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2007", time.Unix(wantEpoch, 0).UTC().Format("2006"))
	assert.NotEmpty(t, first.PublishedAt)
	assert.Equal(t, "scholar", first.Source)

	second := articles[1]
	assert.Equal(t, "J Doe", second.Author)
	assert.Empty(t, second.PublishedAt)
	assert.Nil(t, second.Extra)
}

func TestScholar_Extract_SkipsIncompleteCards(t *testing.T) {
	page := cardsPage(t, []map[string]string{
		{"title": "", "link": "https://example.org/paper/1"},
		{"title": "No link"},
		{"title": "Kept", "link": "https://example.org/paper/3"},
	})

	s := sources.NewScholar(nil)
	articles, err := s.Extract(context.Background(), page, nil, 20)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Kept", articles[0].Title)
}

func TestScholar_Extract_NoCardsIsNotAnError(t *testing.T) {
	page := &mock.Page{
		WaitVisibleFn: func(context.Context, string, time.Duration) error {
			return linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "timeout")
		},
	}

	s := sources.NewScholar(nil)
	articles, err := s.Extract(context.Background(), page, nil, 20)
	require.NoError(t, err)
	assert.Nil(t, articles)
}

func TestScholar_Extract_RespectsBudget(t *testing.T) {
	cards := []map[string]string{}
	for i := 0; i < 15; i++ {
		cards = append(cards, map[string]string{
			"title": "Paper",
			"link":  "https://example.org/paper/" + string(rune('a'+i)),
		})
	}
	page := cardsPage(t, cards)

	s := sources.NewScholar(nil)
	articles, err := s.Extract(context.Background(), page, nil, 10)
	require.NoError(t, err)
	assert.Len(t, articles, 10)
}
