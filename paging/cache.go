package paging

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/fpx"
)

// Compile-time interface verification.
var (
	_ fpx.PhotoFetcher    = (*CachingFetcher)(nil)
	_ fpx.FeedInvalidator = (*CachingFetcher)(nil)
)

// CachingFetcher serves pages from a PageCache and falls back to the
// wrapped fetcher for missing or expired pages. Fetched pages are written
// back to the cache.
type CachingFetcher struct {
	Fetcher fpx.PhotoFetcher
	Cache   fpx.PageCache

	// MaxAge is how long a cached page is served. Zero never expires.
	MaxAge time.Duration

	// Logger receives cache failures. Optional.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// FetchPage returns the cached page when it is fresh enough, otherwise
// fetches it and updates the cache. Cache failures never fail the fetch.
func (f *CachingFetcher) FetchPage(ctx context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error) {
	req := fpx.PageRequest{Feed: feed, Page: page, PageSize: pageSize}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cached, err := f.Cache.FindPage(ctx, req)
	switch {
	case err == nil && f.fresh(cached):
		return cached.Result, nil
	case err != nil && fpx.ErrorCode(err) != fpx.ENOTFOUND:
		f.logError("page cache read", req, err)
	}

	result, err := f.Fetcher.FetchPage(ctx, feed, page, pageSize)
	if err != nil {
		return nil, err
	}

	if err := f.Cache.SavePage(ctx, req, result); err != nil {
		f.logError("page cache write", req, err)
	}
	return result, nil
}

// InvalidateFeed drops every cached page of feed.
func (f *CachingFetcher) InvalidateFeed(ctx context.Context, feed string) error {
	return f.Cache.DeleteFeed(ctx, feed)
}

func (f *CachingFetcher) fresh(p *fpx.CachedPage) bool {
	if f.MaxAge <= 0 {
		return true
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return now().Sub(p.FetchedAt) < f.MaxAge
}

func (f *CachingFetcher) logError(msg string, req fpx.PageRequest, err error) {
	if f.Logger == nil {
		return
	}
	f.Logger.Warn(msg,
		"feed", req.Feed,
		"page", req.Page,
		"err", err,
	)
}
