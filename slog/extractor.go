// Package slog provides logging decorators for the linkcrawl interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// Ensure LoggingExtractor implements linkcrawl.Extractor.
var _ linkcrawl.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with per-call outcome logging.
type LoggingExtractor struct {
	next   linkcrawl.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next linkcrawl.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the outcome and delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(ctx context.Context, req *linkcrawl.Request) *linkcrawl.Result {
	begin := time.Now()
	result := e.next.Extract(ctx, req)
	e.logger.Info("extract",
		"url", req.URL,
		"max_items", req.MaxItems,
		"success", result.Success,
		"total_found", result.TotalFound,
		"duration", time.Since(begin),
		"err", result.Error,
	)
	return result
}
