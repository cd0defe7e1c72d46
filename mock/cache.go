package mock

import (
	"context"

	"github.com/fwojciec/fpx"
)

var _ fpx.PageCache = (*PageCache)(nil)

// PageCache is a mock implementation of fpx.PageCache.
type PageCache struct {
	FindPageFn   func(ctx context.Context, req fpx.PageRequest) (*fpx.CachedPage, error)
	SavePageFn   func(ctx context.Context, req fpx.PageRequest, result *fpx.PhotoPage) error
	DeleteFeedFn func(ctx context.Context, feed string) error
	DeleteAllFn  func(ctx context.Context) error
}

func (c *PageCache) FindPage(ctx context.Context, req fpx.PageRequest) (*fpx.CachedPage, error) {
	return c.FindPageFn(ctx, req)
}

func (c *PageCache) SavePage(ctx context.Context, req fpx.PageRequest, result *fpx.PhotoPage) error {
	return c.SavePageFn(ctx, req, result)
}

func (c *PageCache) DeleteFeed(ctx context.Context, feed string) error {
	return c.DeleteFeedFn(ctx, feed)
}

func (c *PageCache) DeleteAll(ctx context.Context) error {
	return c.DeleteAllFn(ctx)
}
