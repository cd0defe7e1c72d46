// Package lru provides an in-memory LRU cache in front of a PhotoFinder.
package lru

import (
	"context"
	"strconv"

	"github.com/fwojciec/fpx"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the default number of photos kept in memory.
const DefaultSize = 256

var _ fpx.PhotoFinder = (*PhotoFinder)(nil)

// PhotoFinder caches photo details by ID. Concurrent lookups of the same
// uncached ID share one call to the wrapped finder.
type PhotoFinder struct {
	next  fpx.PhotoFinder
	cache *lru.Cache[int64, fpx.Photo]
	group singleflight.Group
}

// NewPhotoFinder wraps next with a cache holding up to size photos.
// A size < 1 uses DefaultSize.
func NewPhotoFinder(next fpx.PhotoFinder, size int) (*PhotoFinder, error) {
	if size < 1 {
		size = DefaultSize
	}
	cache, err := lru.New[int64, fpx.Photo](size)
	if err != nil {
		return nil, fpx.WrapError(fpx.EINTERNAL, err, "create photo cache")
	}
	return &PhotoFinder{next: next, cache: cache}, nil
}

// FindPhotoByID returns the cached photo or looks it up. Failed lookups are
// not cached. A shared lookup is not canceled with the caller that started
// it; each caller stops waiting when its own context is done.
func (f *PhotoFinder) FindPhotoByID(ctx context.Context, id int64) (*fpx.Photo, error) {
	if p, ok := f.cache.Get(id); ok {
		return &p, nil
	}

	lookupCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		p, err := f.next.FindPhotoByID(lookupCtx, id)
		if err != nil {
			return nil, err
		}
		f.cache.Add(id, *p)
		return *p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := res.Val.(fpx.Photo)
		return &p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of cached photos.
func (f *PhotoFinder) Len() int {
	return f.cache.Len()
}
