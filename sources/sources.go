// Package sources contains the source-specific extraction strategies: API
// replay adapters that reconstruct a site's own internal search request, and
// scripted-DOM adapters that run structured queries against known result
// markup. One file per source, assembled into dispatch priority order by
// Defaults.
package sources

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// Defaults returns all specialized strategies in dispatch priority order:
// the feed short-circuit first, then API-replay adapters (cheapest, most
// reliable), then scripted-DOM adapters.
func Defaults(logger *slog.Logger) []linkcrawl.Strategy {
	return []linkcrawl.Strategy{
		NewFeed(),
		NewBaiduNews(),
		NewReuters(logger),
		NewStatista(),
		NewWanfang(logger),
		NewScholar(logger),
		NewPanda985(logger),
	}
}

// matches implements the host-suffix/path-prefix rule every adapter uses.
// An empty pathPrefix matches any path.
func matches(u *url.URL, hostSuffix, pathPrefix string) bool {
	host := u.Hostname()
	if host != hostSuffix && !strings.HasSuffix(host, "."+hostSuffix) {
		return false
	}
	return pathPrefix == "" || strings.HasPrefix(u.Path, pathPrefix)
}

// absolutize resolves protocol-relative and path-relative links against the
// source's canonical origin.
func absolutize(link, origin string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	base, err := url.Parse(origin)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// captureStamp is the ExtractedAt value shared by all adapters.
func captureStamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
