package sources

import (
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"

	"github.com/fwojciec/linkcrawl/crawl"
)

// apiTimeout bounds one replayed API request.
const apiTimeout = 20 * time.Second

// newClient configures an HTTP client for API replay: browser-like identity
// and a cookie jar so origins that set session cookies on the first response
// see them echoed on subsequent pages.
func newClient(baseURL string) *resty.Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(apiTimeout).
		SetCookieJar(jar).
		SetHeader("User-Agent", crawl.DefaultUserAgent).
		SetHeader("Accept", "application/json")
}
