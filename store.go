package fpx

import "context"

// PhotoStore persists exported photos with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PhotoStore interface {
	Save(ctx context.Context, photo *Photo) error
	Commit() error
	Abort() error
}
