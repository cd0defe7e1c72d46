package mock

import (
	"context"

	"github.com/fwojciec/fpx"
)

// Compile-time interface verification.
var (
	_ fpx.PhotoFetcher = (*PhotoFetcher)(nil)
	_ fpx.PhotoFinder  = (*PhotoFinder)(nil)
)

// PhotoFetcher is a mock implementation of fpx.PhotoFetcher.
type PhotoFetcher struct {
	FetchPageFn func(ctx context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error)
}

func (f *PhotoFetcher) FetchPage(ctx context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error) {
	return f.FetchPageFn(ctx, feed, page, pageSize)
}

// PhotoFinder is a mock implementation of fpx.PhotoFinder.
type PhotoFinder struct {
	FindPhotoByIDFn func(ctx context.Context, id int64) (*fpx.Photo, error)
}

func (f *PhotoFinder) FindPhotoByID(ctx context.Context, id int64) (*fpx.Photo, error) {
	return f.FindPhotoByIDFn(ctx, id)
}
