// Package linkcrawl extracts article lists (title, URL, summary, timestamp)
// from third-party websites on behalf of an aggregation product. A dispatcher
// routes each target URL to the best extraction strategy: a source-specific
// API-replay adapter, a source-specific scripted-DOM adapter, or a generic
// heuristic scraper as universal fallback. Results are normalized into one
// canonical record shape, deduplicated by URL, and sorted newest-first.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package linkcrawl
