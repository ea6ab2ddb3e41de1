package linkcrawl

import (
	"context"
	"net/url"
)

// Strategy is a self-contained extraction algorithm targeting either one
// specific source or the generic fallback case.
//
// A strategy whose Match returned true owns the call: if it then extracts
// nothing, the dispatcher treats the empty answer as authoritative and does
// not reroute to a less specific strategy. The source's API or DOM contract
// is known, so an empty result means "no matches", not "wrong strategy".
type Strategy interface {
	// Name returns the strategy's identifier (e.g., "statista", "generic").
	Name() string

	// Match reports whether this strategy handles the target URL.
	// Matching is based on host suffix and path prefix only; it must be
	// cheap and side-effect free.
	Match(u *url.URL) bool

	// Extract produces canonical records from the target. The page has
	// already been navigated to the target URL and had overlays dismissed.
	// API-replay strategies may ignore the page entirely.
	//
	// Per-item failures are swallowed and the item skipped; only setup
	// failures that abort the whole strategy are returned as errors.
	// Implementations return at most maxItems records.
	Extract(ctx context.Context, page Page, target *url.URL, maxItems int) ([]*Article, error)
}
