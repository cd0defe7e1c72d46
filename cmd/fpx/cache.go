package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/sqlite"
)

// Run executes the cache clear command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	if deps.Cache == nil {
		return fpx.Errorf(fpx.EINVALID, "page cache is not available")
	}

	if c.Feed != "" {
		if err := deps.Cache.DeleteFeed(deps.Ctx, c.Feed); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Cleared cached pages of %s\n", c.Feed)
		return nil
	}

	if err := deps.Cache.DeleteAll(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Cleared page cache")
	return nil
}

type feedStatser interface {
	Stats(ctx context.Context) ([]sqlite.FeedStats, error)
}

// Run executes the cache stats command.
func (c *CacheStatsCmd) Run(deps *Dependencies) error {
	cache, ok := deps.Cache.(feedStatser)
	if !ok {
		return fpx.Errorf(fpx.EINVALID, "page cache does not report statistics")
	}

	stats, err := cache.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
		return err
	}

	if len(stats) == 0 {
		fmt.Fprintln(deps.Stdout, "Page cache is empty.")
		return nil
	}

	for _, s := range stats {
		fmt.Fprintf(deps.Stdout, "%s  %d pages  %d photos  fetched %s\n",
			s.Feed, s.Pages, s.Photos, s.FetchedAt.Local().Format(time.DateTime))
	}
	return nil
}
