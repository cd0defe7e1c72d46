package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/paging"
)

// Run executes the browse command.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	feed := deps.feedOr(c.Feed)
	opts := []paging.StreamOption{
		paging.WithPageSize(pageSize(deps)),
		paging.WithSourceOptions(sourceOptions(deps)...),
	}
	if c.Prefetch >= 0 {
		opts = append(opts, paging.WithPrefetchDistance(c.Prefetch))
	}
	stream := paging.NewStream(deps.Fetcher, feed, opts...)

	b := &browser{
		stream:  stream,
		out:     deps.Stdout,
		settled: make(chan struct{}, 1),
	}
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		b.print()
	}()
	defer func() {
		stream.Close()
		<-printed
	}()

	b.printf("Browsing %s. Commands: n (next page), r (retry), R (refresh), q (quit)\n", feed)
	stream.Start()
	if err := b.wait(deps.Ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(deps.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "n", "":
			if !stream.LoadMore() {
				b.printf("no more pages\n")
				continue
			}
		case "r":
			if !stream.Retry() {
				b.printf("nothing to retry\n")
				continue
			}
		case "R":
			if err := stream.Refresh(deps.Ctx); err != nil {
				b.printf("refresh failed: %s\n", fpx.ErrorMessage(err))
				continue
			}
		case "q":
			b.summary()
			return nil
		default:
			b.printf("unknown command %q\n", scanner.Text())
			continue
		}
		if err := b.wait(deps.Ctx); err != nil {
			return err
		}
	}
	b.summary()
	return scanner.Err()
}

// browser prints the snapshots and page load states of a stream.
type browser struct {
	stream  *paging.Stream
	settled chan struct{}

	mu      sync.Mutex
	out     io.Writer
	printed int
}

func (b *browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

// print runs until both stream channels are closed. Each page load that
// finishes, successfully or not, signals settled once the snapshot it
// produced has been printed.
func (b *browser) print() {
	states, loads := b.stream.States(), b.stream.LoadStates()
	var last fpx.StreamState
	settling := false
	for states != nil || loads != nil {
		select {
		case s, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			last = s
			b.printState(s)
		case l, ok := <-loads:
			if !ok {
				loads = nil
				continue
			}
			b.printf("[%s]\n", l)
			if l.Status != fpx.LoadLoading {
				settling = true
			}
		}
		if settling && sameState(last, b.stream.Current()) {
			settling = false
			select {
			case b.settled <- struct{}{}:
			default:
			}
		}
	}
}

func sameState(a, b fpx.StreamState) bool {
	return a.IsLoading == b.IsLoading && a.Error == b.Error && a.Len() == b.Len()
}

func (b *browser) printState(s fpx.StreamState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.IsLoading {
		b.printed = 0
		if s.Error != fpx.ErrorNone {
			fmt.Fprintf(b.out, "failed to load feed: %s error (r to retry)\n", s.Error)
		}
		return
	}
	if s.Len() < b.printed {
		b.printed = 0
	}
	for i := b.printed; i < s.Len(); i++ {
		p := s.Items[i]
		fmt.Fprintf(b.out, "%4d  %d\t%s\t@%s\n", i+1, p.ID, p.Name, p.User.Username)
	}
	b.printed = s.Len()
}

// wait blocks until the load in progress finishes.
func (b *browser) wait(ctx context.Context) error {
	select {
	case <-b.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *browser) summary() {
	b.printf("loaded %d photos\n", len(b.stream.Source().Photos()))
}
