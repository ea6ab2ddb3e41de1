package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fwojciec/linkcrawl"
)

// ExtractSiteInfo reads best-effort site metadata from an HTML snapshot.
// Fields stay empty when the markup has nothing usable; this never fails
// harder than an empty struct.
func ExtractSiteInfo(html string, pageURL string) linkcrawl.SiteInfo {
	info := linkcrawl.SiteInfo{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info
	}

	info.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		info.Description = strings.TrimSpace(desc)
	}

	return info
}
