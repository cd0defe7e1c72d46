package paging

import (
	"context"
	"sync"

	"github.com/fwojciec/fpx"
)

// Defaults for a Stream.
const (
	DefaultPageSize = 40
)

// Stream is the UI-facing side of a feed session. It owns a Source, runs
// its loads in the background and folds its updates into StreamState
// snapshots. Snapshots and page load states are each delivered on their
// own channel in the order they were produced.
type Stream struct {
	source   *Source
	fetcher  fpx.PhotoFetcher
	feed     string
	pageSize int
	prefetch int

	ctx    context.Context
	cancel context.CancelFunc
	loads  sync.WaitGroup
	folded chan struct{}

	states     *publisher[fpx.StreamState]
	loadStates *publisher[fpx.PageLoadState]

	mu     sync.Mutex
	length int
	closed bool
}

// StreamOption configures a Stream.
type StreamOption func(*Stream, *[]Option)

// WithPageSize sets the number of photos requested per page.
func WithPageSize(n int) StreamOption {
	return func(s *Stream, _ *[]Option) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPrefetchDistance sets how close to the end of the loaded photos a
// viewed index must be to trigger the next page. Defaults to the page size.
func WithPrefetchDistance(n int) StreamOption {
	return func(s *Stream, _ *[]Option) {
		if n >= 0 {
			s.prefetch = n
		}
	}
}

// WithSourceOptions passes options to the underlying Source.
func WithSourceOptions(opts ...Option) StreamOption {
	return func(_ *Stream, sourceOpts *[]Option) {
		*sourceOpts = append(*sourceOpts, opts...)
	}
}

// NewStream creates a Stream over feed. The first snapshot, with
// IsLoading set, is published immediately; call Start to load page 1.
func NewStream(fetcher fpx.PhotoFetcher, feed string, opts ...StreamOption) *Stream {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Stream{
		fetcher:    fetcher,
		feed:       feed,
		pageSize:   DefaultPageSize,
		prefetch:   -1,
		ctx:        ctx,
		cancel:     cancel,
		folded:     make(chan struct{}),
		states:     newPublisher[fpx.StreamState](),
		loadStates: newPublisher[fpx.PageLoadState](),
	}
	var sourceOpts []Option
	for _, opt := range opts {
		opt(s, &sourceOpts)
	}
	if s.prefetch < 0 {
		s.prefetch = s.pageSize
	}
	s.source = NewSource(fetcher, feed, sourceOpts...)

	s.states.publish(fpx.ProjectStreamState(nil, false))
	go s.fold()
	return s
}

// States returns the channel of StreamState snapshots.
func (s *Stream) States() <-chan fpx.StreamState { return s.states.out }

// LoadStates returns the channel of page load states.
func (s *Stream) LoadStates() <-chan fpx.PageLoadState { return s.loadStates.out }

// Current returns the most recent snapshot.
func (s *Stream) Current() fpx.StreamState { return s.states.last() }

// LoadState returns the most recent page load state.
func (s *Stream) LoadState() fpx.PageLoadState { return s.loadStates.last() }

// Source returns the underlying Source.
func (s *Stream) Source() *Source { return s.source }

// PageSize returns the number of photos requested per page.
func (s *Stream) PageSize() int { return s.pageSize }

// Start loads the first page in the background.
func (s *Stream) Start() {
	s.goLoad(func(ctx context.Context) {
		_, _ = s.source.LoadInitial(ctx, s.pageSize)
	})
}

// LoadMore loads the next page in the background. It reports false when
// there is nothing to load or a load is already running.
func (s *Stream) LoadMore() bool {
	key, ok := s.source.NextKey()
	if !ok || s.source.Loading() {
		return false
	}
	return s.goLoad(func(ctx context.Context) {
		_, _ = s.source.LoadAfter(ctx, key, s.pageSize)
	})
}

// Viewed tells the stream which item the UI is showing. When index is
// within the prefetch distance of the end of the loaded photos the next
// page is requested.
func (s *Stream) Viewed(index int) bool {
	s.mu.Lock()
	length := s.length
	s.mu.Unlock()

	if length == 0 || index < length-s.prefetch {
		return false
	}
	return s.LoadMore()
}

// Retry replays the last failed load, if any, and reports whether a
// load was scheduled.
func (s *Stream) Retry() bool {
	return s.source.Retry()
}

// Refresh discards the loaded photos and reloads the feed from page 1.
// Fetchers that keep per-feed state are told to drop it first.
func (s *Stream) Refresh(ctx context.Context) error {
	if inv, ok := s.fetcher.(fpx.FeedInvalidator); ok {
		if err := inv.InvalidateFeed(ctx, s.feed); err != nil {
			return err
		}
	}
	s.source.Invalidate()
	s.Start()
	return nil
}

// Close stops all background work. No snapshot or state is delivered
// after Close returns and both channels are closed.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.loads.Wait()
	s.source.Close()
	<-s.folded
	s.states.close()
	s.loadStates.close()
}

func (s *Stream) goLoad(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.loads.Go(func() { fn(s.ctx) })
	return true
}

// fold projects source updates into snapshots. The snapshot for an update
// is published before its page load state. It exits when the source's
// update channel is closed.
func (s *Stream) fold() {
	defer close(s.folded)

	resolved := false
	failed := false
	for u := range s.source.Updates() {
		if u.Reset {
			resolved, failed = false, false
			s.setLength(0)
			s.states.publish(fpx.ProjectStreamState(nil, false))
			continue
		}

		switch u.State.Status {
		case fpx.LoadLoading:
			if failed && !resolved {
				failed = false
				s.states.publish(fpx.ProjectStreamState(nil, false))
			}
		case fpx.LoadReady:
			resolved, failed = true, false
			s.setLength(len(u.Photos))
			s.states.publish(fpx.ProjectStreamState(u.Photos, true))
		case fpx.LoadError:
			if !resolved {
				failed = true
				state := fpx.ProjectStreamState(nil, false)
				state.Error = fpx.ClassifyError(u.Err)
				s.states.publish(state)
			}
		}

		s.loadStates.publish(u.State)
	}
}

func (s *Stream) setLength(n int) {
	s.mu.Lock()
	s.length = n
	s.mu.Unlock()
}
