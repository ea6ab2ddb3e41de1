package linkcrawl

import (
	"net/url"
	"strings"
)

// staticExtensions are asset suffixes that are never article pages.
var staticExtensions = []string{
	".css", ".js", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico",
	".pdf", ".zip",
}

// skipPathFragments mark index/utility pages rather than articles.
var skipPathFragments = []string{
	"/login", "/register", "/signup", "/contact",
	"/about", "/privacy", "/terms", "/search",
	"/tag/", "/category/", "/author/",
}

// NormalizeURL resolves href against base and returns an absolute URL.
// Anchors, script pseudo-URLs, and unparseable hrefs return ok=false.
// Already-absolute hrefs are returned as-is.
func NormalizeURL(href string, base *url.URL) (string, bool) {
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// IsValidArticleURL reports whether an absolute URL plausibly points at an
// article on the target site. It enforces same-site-or-subdomain scope and
// rejects static assets and known non-article index pages.
func IsValidArticleURL(rawURL string, base *url.URL) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if !sameSiteOrSubdomain(u.Hostname(), base.Hostname()) {
		return false
	}

	lower := strings.ToLower(rawURL)
	for _, ext := range staticExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	path := strings.ToLower(u.Path)
	for _, fragment := range skipPathFragments {
		if strings.Contains(path, fragment) {
			return false
		}
	}

	return true
}

// sameSiteOrSubdomain reports whether host equals baseHost or is one of its
// subdomains.
func sameSiteOrSubdomain(host, baseHost string) bool {
	if host == baseHost {
		return true
	}
	return strings.HasSuffix(host, "."+baseHost)
}
