package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/fpx"
	"github.com/fwojciec/fpx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("delegates to FetchPageFn", func(t *testing.T) {
		t.Parallel()

		var gotFeed string
		var gotPage, gotSize int
		f := &mock.PhotoFetcher{
			FetchPageFn: func(_ context.Context, feed string, page, pageSize int) (*fpx.PhotoPage, error) {
				gotFeed, gotPage, gotSize = feed, page, pageSize
				return &fpx.PhotoPage{CurrentPage: page}, nil
			},
		}

		result, err := f.FetchPage(context.Background(), "popular", 2, 40)

		require.NoError(t, err)
		assert.Equal(t, 2, result.CurrentPage)
		assert.Equal(t, "popular", gotFeed)
		assert.Equal(t, 2, gotPage)
		assert.Equal(t, 40, gotSize)
	})
}
