package paging_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/mock"
	"github.com/fwojciec/fpx/paging"
)

const waitTimeout = 2 * time.Second

// fakeFeed serves a feed of total photos with IDs 1..total and records
// every page requested.
type fakeFeed struct {
	mu      sync.Mutex
	total   int
	calls   []int
	fail    map[int]error
	block   map[int]chan struct{}
	entered chan int
}

func newFakeFeed(total int) *fakeFeed {
	return &fakeFeed{
		total:   total,
		fail:    make(map[int]error),
		block:   make(map[int]chan struct{}),
		entered: make(chan int, 64),
	}
}

// failOnce makes the next request for page fail with err.
func (f *fakeFeed) failOnce(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[page] = err
}

// hold makes requests for page wait until the returned func is called.
func (f *fakeFeed) hold(page int) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.block[page] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeFeed) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func (f *fakeFeed) fetcher() *mock.PhotoFetcher {
	return &mock.PhotoFetcher{FetchPageFn: f.fetchPage}
}

func (f *fakeFeed) fetchPage(_ context.Context, _ string, page, pageSize int) (*fpx.PhotoPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	block := f.block[page]
	f.mu.Unlock()

	f.entered <- page
	if block != nil {
		<-block
	}

	f.mu.Lock()
	err, failing := f.fail[page]
	delete(f.fail, page)
	f.mu.Unlock()
	if failing {
		return nil, err
	}

	return &fpx.PhotoPage{
		Photos:      photoRange((page-1)*pageSize+1, min(page*pageSize, f.total)),
		CurrentPage: page,
		TotalPages:  (f.total + pageSize - 1) / pageSize,
		TotalItems:  f.total,
	}, nil
}

// photoRange returns photos with IDs from..to inclusive.
func photoRange(from, to int) []fpx.Photo {
	var photos []fpx.Photo
	for id := from; id <= to; id++ {
		photos = append(photos, fpx.Photo{ID: int64(id)})
	}
	return photos
}

func ids(photos []fpx.Photo) []int64 {
	out := make([]int64, len(photos))
	for i, p := range photos {
		out[i] = p.ID
	}
	return out
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

// states reads n updates and returns their page load states.
func states(t *testing.T, ch <-chan paging.Update, n int) []fpx.PageLoadState {
	t.Helper()
	out := make([]fpx.PageLoadState, 0, n)
	for range n {
		out = append(out, recv(t, ch).State)
	}
	return out
}

func assertNoValue[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value: %+v", v)
		}
	case <-time.After(50 * time.Millisecond):
	}
}
