package fpx

import (
	"context"
	"time"
)

// CachedPage is a feed page held in a PageCache.
type CachedPage struct {
	Feed      string
	Page      int
	PageSize  int
	Result    *PhotoPage
	FetchedAt time.Time
}

// PageCache persists fetched feed pages so a session can be rebuilt
// without a network round trip.
type PageCache interface {
	// FindPage returns the cached page.
	// Returns ENOTFOUND if the page has not been cached.
	FindPage(ctx context.Context, req PageRequest) (*CachedPage, error)

	// SavePage stores or replaces the page for req.
	SavePage(ctx context.Context, req PageRequest, result *PhotoPage) error

	// DeleteFeed removes every cached page of feed.
	DeleteFeed(ctx context.Context, feed string) error

	// DeleteAll removes every cached page.
	DeleteAll(ctx context.Context) error
}

// FeedInvalidator is implemented by fetchers that keep per-feed state
// which must be dropped when a feed is refreshed.
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context, feed string) error
}
