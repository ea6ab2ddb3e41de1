package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// NavAttempt is one rung of the navigation retry ladder.
type NavAttempt struct {
	Mode    linkcrawl.WaitMode
	Timeout time.Duration

	// Settle is slept after a successful navigation so late-loading
	// content has a chance to render.
	Settle time.Duration
}

// DefaultNavAttempts returns the retry ladder, strictest first: wait for the
// DOM to parse on a short timeout, then wait only for the navigation to
// commit, then fire-and-forget with a long settle sleep.
func DefaultNavAttempts(total time.Duration) []NavAttempt {
	if total <= 0 {
		total = DefaultNavTimeout
	}
	return []NavAttempt{
		{Mode: linkcrawl.WaitDOMReady, Timeout: total / 4, Settle: 3 * time.Second},
		{Mode: linkcrawl.WaitCommit, Timeout: total / 2, Settle: 5 * time.Second},
		{Mode: linkcrawl.WaitNone, Timeout: total / 2, Settle: 10 * time.Second},
	}
}

// Navigate attempts each rung in order until one succeeds. Each failure is
// logged and the next rung begins after the backoff. Exhausting the ladder
// returns an EUNAVAILABLE error.
func Navigate(ctx context.Context, page linkcrawl.Page, url string, attempts []NavAttempt, backoff time.Duration, logger *slog.Logger) error {
	var lastErr error
	for i, attempt := range attempts {
		err := page.Navigate(ctx, url, attempt.Mode, attempt.Timeout)
		if err == nil {
			if sleepErr := sleep(ctx, attempt.Settle); sleepErr != nil {
				return sleepErr
			}
			return nil
		}
		lastErr = err
		logger.Warn("navigation attempt failed",
			"attempt", i+1,
			"mode", string(attempt.Mode),
			"err", err,
		)

		if i < len(attempts)-1 {
			if sleepErr := sleep(ctx, backoff); sleepErr != nil {
				return sleepErr
			}
		}
	}
	return linkcrawl.Errorf(linkcrawl.EUNAVAILABLE,
		"navigation failed after %d attempts: %v", len(attempts), lastErr)
}

// sleep waits for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
