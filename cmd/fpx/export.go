package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/paging"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	feed := deps.feedOr(c.Feed)
	src := paging.NewSource(deps.Fetcher, feed, sourceOptions(deps)...)
	defer src.Close()

	store := deps.NewStore(c.Dir, feed)
	count := 0
	err := loadPages(deps.Ctx, src, pageSize(deps), c.Pages, func(photos []fpx.Photo) error {
		for i := range photos {
			if err := store.Save(deps.Ctx, &photos[i]); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err == nil {
		err = store.Commit()
	}
	if err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d photos to %s\n", count, filepath.Join(c.Dir, feed))
	return nil
}
