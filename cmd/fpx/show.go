package main

import (
	"fmt"

	"github.com/fwojciec/fpx"
	"golang.org/x/sync/errgroup"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	photos := make([]*fpx.Photo, len(c.IDs))

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, id := range c.IDs {
		g.Go(func() error {
			p, err := deps.Finder.FindPhotoByID(ctx, id)
			if err != nil {
				return fmt.Errorf("photo %d: %w", id, err)
			}
			photos[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", fpx.ErrorMessage(err))
		return err
	}

	conv := deps.Converter
	if c.Plain && deps.TextConverter != nil {
		conv = deps.TextConverter
	}
	for i, p := range photos {
		if i > 0 {
			fmt.Fprintln(deps.Stdout, "---")
		}
		description, err := conv.Convert(p.Description)
		if err != nil {
			description = p.Description
		}
		fmt.Fprint(deps.Stdout, fpx.FormatDetails(p, description))
		if img := p.LargeImage(); img != "" {
			fmt.Fprintf(deps.Stdout, "\n%s\n", img)
		}
	}

	return nil
}
