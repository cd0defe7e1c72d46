package paging

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fpx"
)

var _ fpx.PhotoFetcher = (*BackoffFetcher)(nil)

// DefaultRetryDelays returns the backoff delays for page fetches: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// BackoffFetcher retries network failures of the wrapped fetcher with
// increasing delays before reporting them. Other failures are returned
// immediately.
type BackoffFetcher struct {
	Fetcher fpx.PhotoFetcher

	// Delays between attempts. Defaults to DefaultRetryDelays.
	Delays []time.Duration

	// Logger receives one line per retry. Optional.
	Logger *slog.Logger
}

// FetchPage fetches a page, retrying network failures.
func (f *BackoffFetcher) FetchPage(ctx context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error) {
	delays := f.Delays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := f.Fetcher.FetchPage(ctx, feed, page, pageSize)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || fpx.ClassifyError(err) != fpx.ErrorNetwork {
			break
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if f.Logger != nil {
			f.Logger.Debug("retry page fetch",
				"feed", feed,
				"page", page,
				"attempt", attempt+2,
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
