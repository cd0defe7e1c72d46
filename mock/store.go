package mock

import (
	"context"

	"github.com/fwojciec/fpx"
)

var _ fpx.PhotoStore = (*PhotoStore)(nil)

// PhotoStore is a mock implementation of fpx.PhotoStore.
type PhotoStore struct {
	SaveFn   func(ctx context.Context, photo *fpx.Photo) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PhotoStore) Save(ctx context.Context, photo *fpx.Photo) error {
	return s.SaveFn(ctx, photo)
}

func (s *PhotoStore) Commit() error {
	return s.CommitFn()
}

func (s *PhotoStore) Abort() error {
	return s.AbortFn()
}
