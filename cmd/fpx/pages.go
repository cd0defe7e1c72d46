package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/paging"
)

// Sizing of the duplicate filter enabled by the dedupe setting.
const (
	dedupeCapacity = 10000
	dedupeFPRate   = 0.001
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	feed := deps.feedOr(c.Feed)
	src := paging.NewSource(deps.Fetcher, feed, sourceOptions(deps)...)
	defer src.Close()

	count := 0
	err := loadPages(deps.Ctx, src, pageSize(deps), c.Pages, func(photos []fpx.Photo) error {
		for _, p := range photos {
			fmt.Fprintf(deps.Stdout, "%d\t%s\t@%s\n", p.ID, p.Name, p.User.Username)
		}
		count += len(photos)
		return nil
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
		return err
	}

	if count == 0 {
		fmt.Fprintf(deps.Stdout, "No photos in feed %q.\n", feed)
	}
	return nil
}

// loadPages loads up to pages pages from src, calling visit with the
// photos of each. It stops early at the end of the feed.
func loadPages(ctx context.Context, src *paging.Source, pageSize, pages int, visit func(photos []fpx.Photo) error) error {
	res, err := src.LoadInitial(ctx, pageSize)
	for loaded := 1; ; loaded++ {
		if err != nil {
			return err
		}
		if err := visit(res.Photos); err != nil {
			return err
		}
		if loaded >= pages || !res.HasMore() {
			return nil
		}
		res, err = src.LoadAfter(ctx, res.NextKey, pageSize)
	}
}

func pageSize(deps *Dependencies) int {
	if deps.PageSize > 0 {
		return deps.PageSize
	}
	return paging.DefaultPageSize
}

func sourceOptions(deps *Dependencies) []paging.Option {
	if !deps.Dedupe {
		return nil
	}
	return []paging.Option{paging.WithDuplicateFilter(dedupeCapacity, dedupeFPRate)}
}
