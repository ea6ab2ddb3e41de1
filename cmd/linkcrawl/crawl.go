package main

import (
	"encoding/json"
	"fmt"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	results := deps.Crawler.ExtractAll(deps.Ctx, c.URLs, c.MaxItems, c.Concurrency)

	failures := 0
	for i, result := range results {
		if !result.Success {
			failures++
			fmt.Fprintf(deps.Stderr, "%s: %s\n", c.URLs[i], result.Error)
			continue
		}
		if deps.Articles != nil {
			if err := deps.Articles.UpsertArticles(deps.Ctx, result.Articles); err != nil {
				return fmt.Errorf("storing articles for %s: %w", c.URLs[i], err)
			}
		}
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	if failures == len(results) {
		return fmt.Errorf("all %d extractions failed", failures)
	}
	return nil
}
