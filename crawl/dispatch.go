package crawl

import (
	"net/url"

	"github.com/fwojciec/linkcrawl"
)

// Dispatch selects the strategy for a target URL: the first registered
// specialized strategy whose Match accepts it, else the fallback.
//
// The selection is final for the call. If the matched strategy extracts
// nothing, the engine does not reroute to the fallback: a specialized
// strategy knows its source's contract, so an empty answer means "no
// matches", not "wrong strategy". Rerunning the generic cascade over a
// complex search-result page would mostly harvest navigation noise.
func Dispatch(strategies []linkcrawl.Strategy, fallback linkcrawl.Strategy, target *url.URL) linkcrawl.Strategy {
	for _, s := range strategies {
		if s.Match(target) {
			return s
		}
	}
	return fallback
}
