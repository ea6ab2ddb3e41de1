package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/dateparse"
)

// Ensure Wanfang implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*Wanfang)(nil)

// wanfangResultSelector marks the academic index's result list.
const wanfangResultSelector = ".normal-list"

// wanfangWaitTimeout bounds the wait for result rows.
const wanfangWaitTimeout = 10 * time.Second

// wanfangDetailHost serves record detail pages; list rows carry only
// identifiers, not hrefs.
const wanfangDetailHost = "https://d.wanfangdata.com.cn"

// wanfangTypeSegments maps the short type code embedded in a record
// identifier to its detail-page path segment. Unknown codes fall back to
// wanfangDefaultSegment.
var wanfangTypeSegments = map[string]string{
	"perio":      "periodical",
	"degree":     "thesis",
	"conference": "conference",
	"patent":     "patent",
	"standard":   "standard",
}

const wanfangDefaultSegment = "periodical"

// wanfangRowsJS reads one plain field record per result row.
const wanfangRowsJS = `() => {
	const rows = document.querySelectorAll(".normal-list");
	return Array.from(rows).map((el) => {
		const titleEl = el.querySelector(".title");
		const summaryEl = el.querySelector(".summary");
		const dateEl = el.querySelector(".publish-date");
		const authorEls = el.querySelectorAll(".authors .author");
		const keywordEls = el.querySelectorAll(".keywords .keyword");
		return {
			id: el.getAttribute("data-id") || "",
			title: titleEl ? titleEl.innerText.trim() : "",
			summary: summaryEl ? summaryEl.innerText.trim() : "",
			date: dateEl ? dateEl.innerText.trim() : "",
			authors: Array.from(authorEls).map((a) => a.innerText.trim()),
			keywords: Array.from(keywordEls).map((k) => k.innerText.trim()),
		};
	});
}`

// Wanfang extracts result rows from the academic paper index. The index
// requires in-session cookies for its search payload, so it is scraped via
// structured in-page queries rather than API replay. Detail URLs are built
// from record identifiers because the rows carry no direct links.
type Wanfang struct {
	logger *slog.Logger
}

// NewWanfang creates the academic index adapter.
func NewWanfang(logger *slog.Logger) *Wanfang {
	if logger == nil {
		logger = slog.Default()
	}
	return &Wanfang{logger: logger}
}

// Name returns the strategy's identifier.
func (w *Wanfang) Name() string {
	return "wanfang"
}

// Match accepts the index's host.
func (w *Wanfang) Match(u *url.URL) bool {
	return matches(u, "wanfangdata.com.cn", "")
}

type wanfangRow struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Date     string   `json:"date"`
	Authors  []string `json:"authors"`
	Keywords []string `json:"keywords"`
}

// Extract waits for the result container and reads the rows.
func (w *Wanfang) Extract(ctx context.Context, page linkcrawl.Page, _ *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	if err := page.WaitVisible(ctx, wanfangResultSelector, wanfangWaitTimeout); err != nil {
		w.logger.Debug("result rows never appeared", "err", err)
		return nil, nil
	}

	var rows []wanfangRow
	if err := page.Eval(ctx, wanfangRowsJS, &rows); err != nil {
		return nil, linkcrawl.Errorf(linkcrawl.EUNAVAILABLE, "row query: %v", err)
	}

	extractedAt := captureStamp()
	var articles []*linkcrawl.Article
	for _, row := range rows {
		if len(articles) >= maxItems {
			break
		}
		if row.Title == "" || row.ID == "" {
			continue
		}

		authors, citation := splitCitation(row.Authors)
		a := &linkcrawl.Article{
			Title:       row.Title,
			URL:         wanfangDetailURL(row.ID),
			Summary:     row.Summary,
			Author:      strings.Join(authors, "; "),
			PublishedAt: dateparse.Normalize(row.Date),
			ExtractedAt: extractedAt,
			Source:      w.Name(),
		}
		extra := map[string]string{}
		if len(row.Keywords) > 0 {
			extra["keywords"] = strings.Join(row.Keywords, "; ")
		}
		if citation != "" {
			extra["citation"] = citation
		}
		if len(extra) > 0 {
			a.Extra = extra
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// wanfangDetailURL builds a detail link from a record identifier like
// "perio_zgyx202401005": the type code before the first underscore selects
// the path segment.
func wanfangDetailURL(id string) string {
	code := id
	if i := strings.Index(id, "_"); i > 0 {
		code = id[:i]
	}
	segment, ok := wanfangTypeSegments[code]
	if !ok {
		segment = wanfangDefaultSegment
	}
	return fmt.Sprintf("%s/%s/%s", wanfangDetailHost, segment, url.PathEscape(id))
}

// splitCitation strips trailing numeric "author" entries, which are volume/
// page metadata rather than names, into a citation string.
func splitCitation(authors []string) ([]string, string) {
	var citation []string
	end := len(authors)
	for end > 0 && isCitationEntry(authors[end-1]) {
		citation = append([]string{authors[end-1]}, citation...)
		end--
	}
	return authors[:end], strings.Join(citation, " ")
}

// isCitationEntry reports whether a trailing entry is numeric metadata like
// "2024,45(3)" rather than a person's name.
func isCitationEntry(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ',' || r == '.' || r == '(' || r == ')' || r == '-' || r == ':' || r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}
