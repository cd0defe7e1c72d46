package main_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/fpx"
	main "github.com/fwojciec/fpx/cmd/fpx"
	"github.com/fwojciec/fpx/mock"
)

// feedFetcher serves a feed of total photos named "Photo N" by "userN".
func feedFetcher(total int) *mock.PhotoFetcher {
	return &mock.PhotoFetcher{
		FetchPageFn: func(_ context.Context, _ string, page, pageSize int) (*fpx.PhotoPage, error) {
			var photos []fpx.Photo
			for id := (page-1)*pageSize + 1; id <= min(page*pageSize, total); id++ {
				photos = append(photos, fpx.Photo{
					ID:   int64(id),
					Name: fmt.Sprintf("Photo %d", id),
					User: fpx.User{Username: fmt.Sprintf("user%d", id)},
				})
			}
			return &fpx.PhotoPage{Photos: photos, CurrentPage: page, TotalItems: total}, nil
		},
	}
}

func newDeps(fetcher fpx.PhotoFetcher) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdin:    &bytes.Buffer{},
		Stdout:   stdout,
		Stderr:   stderr,
		Feed:     "popular",
		PageSize: 3,
		Fetcher:  fetcher,
	}, stdout, stderr
}
