package crawl

import (
	"sort"

	"github.com/fwojciec/linkcrawl"
)

// Assemble normalizes raw adapter output into the final article list:
// deduplicate by URL (first occurrence wins), cap title and summary lengths,
// stable-sort by published time descending with timestamp-less records last
// in their discovery order, then truncate to the item budget.
// The returned slice is never nil.
func Assemble(raw []*linkcrawl.Article, maxItems int) []*linkcrawl.Article {
	articles := make([]*linkcrawl.Article, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, a := range raw {
		if a == nil || a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		a.Title = truncateRunes(a.Title, linkcrawl.MaxTitleLen)
		a.Summary = truncateRunes(a.Summary, linkcrawl.MaxSummaryLen)
		articles = append(articles, a)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		ti, iok := articles[i].PublishedEpoch()
		tj, jok := articles[j].PublishedEpoch()
		switch {
		case iok && jok:
			return ti > tj
		case iok:
			return true
		default:
			return false
		}
	})

	if maxItems > 0 && len(articles) > maxItems {
		articles = articles[:maxItems]
	}
	return articles
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
