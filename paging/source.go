// Package paging turns a page-keyed photo API into an incrementally loaded,
// observable photo sequence with network-state tracking, retry and
// invalidation.
package paging

import (
	"context"
	"sync"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/bloom"
	"github.com/google/uuid"
)

// Errors returned for loads that were rejected or dropped without
// publishing a result.
var (
	ErrLoadInFlight = fpx.Errorf(fpx.ECONFLICT, "a page load is already in flight")
	ErrEndOfStream  = fpx.Errorf(fpx.ENOTFOUND, "no more pages")
	ErrSuperseded   = fpx.Errorf(fpx.ECONFLICT, "load superseded by invalidation")
	ErrClosed       = fpx.Errorf(fpx.ECONFLICT, "source closed")
)

// Update is a single publication of a Source, delivered in production order.
type Update struct {
	// Session identifies the paging session the update belongs to.
	Session string

	// State is the page load state. Zero for Reset updates.
	State fpx.PageLoadState

	// Photos is the whole sequence after a Ready state. It must not be modified.
	Photos []fpx.Photo

	// Err is the cause of an Error state.
	Err error

	// Reset marks the start of a new session with an empty sequence.
	Reset bool
}

// Result is the outcome of a successful load.
type Result struct {
	Page    int
	Photos  []fpx.Photo
	NextKey int
}

// HasMore reports whether another page can be loaded after this one.
func (r Result) HasMore() bool { return r.NextKey > 0 }

// Source drives forward-only pagination over a single feed.
//
// At most one load runs at a time. Fetch failures are published as
// Error states and leave a RetryAction behind; they never corrupt the
// photos already loaded. Invalidate starts a new session and drops the
// results of loads started in the previous one.
type Source struct {
	fetcher fpx.PhotoFetcher
	feed    string

	dedupeN  uint
	dedupeFP float64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	session       string
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	photos        []fpx.Photo
	seen          *bloom.Filter
	pageSize      int
	started       bool
	nextKey       int
	inFlight      bool
	retry         retrySlot
	closed        bool

	updates *publisher[Update]
}

// Option configures a Source.
type Option func(*Source)

// WithDuplicateFilter drops photos whose ID already appeared earlier in the
// session, sized for n expected photos at the given false positive rate.
// Feeds ranked by popularity shift between requests, so the same photo can
// arrive on two consecutive pages.
func WithDuplicateFilter(n uint, fpRate float64) Option {
	return func(s *Source) {
		s.dedupeN = n
		s.dedupeFP = fpRate
	}
}

// NewSource creates a Source for feed that loads pages through fetcher.
func NewSource(fetcher fpx.PhotoFetcher, feed string, opts ...Option) *Source {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Source{
		fetcher: fetcher,
		feed:    feed,
		ctx:     ctx,
		cancel:  cancel,
		updates: newPublisher[Update](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Updates returns the channel on which state changes are delivered.
// The channel is closed by Close.
func (s *Source) Updates() <-chan Update { return s.updates.out }

// LoadInitial requests page 1 and makes its photos the head of the sequence.
// After success the next key is always 2, even when the first page is
// also the last one.
func (s *Source) LoadInitial(ctx context.Context, pageSize int) (Result, error) {
	if pageSize < 1 {
		return Result{}, fpx.Errorf(fpx.EINVALID, "page size must be > 0, got %d", pageSize)
	}

	s.mu.Lock()
	if err := s.checkIdleLocked(); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	if s.started {
		s.mu.Unlock()
		return Result{}, fpx.Errorf(fpx.EINVALID, "initial page already loaded")
	}
	s.inFlight = true
	s.pageSize = pageSize
	session, sessionCtx := s.session, s.sessionCtx
	s.updates.publish(Update{Session: session, State: fpx.Loading(1)})
	s.mu.Unlock()

	page, err := s.fetch(ctx, sessionCtx, 1, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || session != s.session {
		return Result{}, ErrSuperseded
	}
	s.inFlight = false

	if err != nil {
		s.retry.store(RetryAction{Kind: RetryInitial, Page: 1, PageSize: pageSize, session: session})
		s.updates.publish(Update{Session: session, State: fpx.Failed(1), Err: err})
		return Result{Page: 1}, err
	}

	photos := s.appendLocked(page.Photos)
	s.retry.clear()
	s.started = true
	s.nextKey = 2
	s.updates.publish(Update{Session: session, State: fpx.Ready(1), Photos: s.viewLocked()})
	return Result{Page: 1, Photos: photos, NextKey: 2}, nil
}

// LoadAfter requests pageKey, which must be the key returned by the
// previous successful load, and appends its photos to the sequence.
func (s *Source) LoadAfter(ctx context.Context, pageKey, pageSize int) (Result, error) {
	s.mu.Lock()
	if err := s.checkIdleLocked(); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	switch {
	case !s.started:
		s.mu.Unlock()
		return Result{}, fpx.Errorf(fpx.EINVALID, "initial page not loaded")
	case s.nextKey == 0:
		s.mu.Unlock()
		return Result{}, ErrEndOfStream
	case pageKey != s.nextKey:
		s.mu.Unlock()
		return Result{}, fpx.Errorf(fpx.EINVALID, "expected page %d, got %d", s.nextKey, pageKey)
	case pageSize != s.pageSize:
		s.mu.Unlock()
		return Result{}, fpx.Errorf(fpx.EINVALID, "page size is fixed at %d for the session, got %d", s.pageSize, pageSize)
	}
	s.inFlight = true
	session, sessionCtx := s.session, s.sessionCtx
	s.updates.publish(Update{Session: session, State: fpx.Loading(pageKey)})
	s.mu.Unlock()

	page, err := s.fetch(ctx, sessionCtx, pageKey, pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || session != s.session {
		return Result{}, ErrSuperseded
	}
	s.inFlight = false

	if err != nil {
		s.retry.store(RetryAction{Kind: RetryAfter, Page: pageKey, PageSize: pageSize, session: session})
		s.updates.publish(Update{Session: session, State: fpx.Failed(pageKey), Err: err})
		return Result{Page: pageKey}, err
	}

	photos := s.appendLocked(page.Photos)
	s.retry.clear()
	s.nextKey = 0
	if page.HasMore(pageKey, pageSize) {
		s.nextKey = pageKey + 1
	}
	s.updates.publish(Update{Session: session, State: fpx.Ready(pageKey), Photos: s.viewLocked()})
	return Result{Page: pageKey, Photos: photos, NextKey: s.nextKey}, nil
}

// LoadBefore is a no-op. Sessions always start at page 1.
func (s *Source) LoadBefore(ctx context.Context, pageKey, pageSize int) (Result, error) {
	return Result{}, nil
}

// Retry replays the most recently failed load in the background and
// reports whether a load was scheduled. The stored action is cleared
// before it runs, so concurrent calls issue at most one fetch. A
// successful load of the failed page clears the action too.
func (s *Source) Retry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	action, ok := s.retry.take()
	if !ok || action.session != s.session {
		return false
	}
	s.wg.Go(func() {
		_, _ = s.replay(s.ctx, action)
	})
	return true
}

// PendingRetry returns the stored RetryAction, if any.
func (s *Source) PendingRetry() (RetryAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retry.peek()
}

func (s *Source) replay(ctx context.Context, action RetryAction) (Result, error) {
	switch action.Kind {
	case RetryInitial:
		return s.LoadInitial(ctx, action.PageSize)
	case RetryAfter:
		return s.LoadAfter(ctx, action.Page, action.PageSize)
	}
	return Result{}, fpx.Errorf(fpx.EINTERNAL, "unknown retry kind %d", action.Kind)
}

// Invalidate discards the sequence and starts a new session. Loads still
// in flight are canceled and their results dropped.
func (s *Source) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sessionCancel()
	s.resetLocked()
	s.updates.publish(Update{Session: s.session, Reset: true})
}

// Close cancels background work, waits for it to finish and stops
// delivering updates.
func (s *Source) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.sessionCancel()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.updates.close()
}

// Photos returns a copy of the loaded sequence.
func (s *Source) Photos() []fpx.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fpx.Photo(nil), s.photos...)
}

// NextKey returns the key of the next page to load. The bool result is
// false before the first page resolves and after the last one.
func (s *Source) NextKey() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextKey, s.started && s.nextKey > 0
}

// Loading reports whether a load is in flight.
func (s *Source) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Session returns the current session ID.
func (s *Source) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Source) checkIdleLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.inFlight {
		return ErrLoadInFlight
	}
	return nil
}

func (s *Source) resetLocked() {
	s.session = uuid.NewString()
	s.sessionCtx, s.sessionCancel = context.WithCancel(s.ctx)
	s.photos = nil
	s.pageSize = 0
	s.started = false
	s.nextKey = 0
	s.inFlight = false
	s.retry.clear()
	s.seen = nil
	if s.dedupeN > 0 {
		s.seen = bloom.NewFilter(s.dedupeN, s.dedupeFP)
	}
}

// appendLocked appends photos to the sequence and returns those appended.
func (s *Source) appendLocked(photos []fpx.Photo) []fpx.Photo {
	if s.seen == nil {
		s.photos = append(s.photos, photos...)
		return photos
	}
	kept := make([]fpx.Photo, 0, len(photos))
	for _, p := range photos {
		if s.seen.TestAndAddID(p.ID) {
			continue
		}
		kept = append(kept, p)
	}
	s.photos = append(s.photos, kept...)
	return kept
}

// viewLocked returns the sequence with its capacity clipped, so later
// appends never become visible through it.
func (s *Source) viewLocked() []fpx.Photo {
	return s.photos[:len(s.photos):len(s.photos)]
}

// fetch requests a page on a context canceled by either the caller or the
// session.
func (s *Source) fetch(ctx, sessionCtx context.Context, page, pageSize int) (*fpx.PhotoPage, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sessionCtx, cancel)
	defer stop()

	result, err := s.fetcher.FetchPage(ctx, s.feed, page, pageSize)
	if err != nil {
		return nil, fpx.WrapError(fpx.EUNAVAILABLE, err, "fetch %s page %d", s.feed, page)
	}
	if result == nil {
		return nil, fpx.Errorf(fpx.EINTERNAL, "fetch %s page %d: empty response", s.feed, page)
	}
	return result, nil
}
