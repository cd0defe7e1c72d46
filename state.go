package fpx

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// LoadStatus is the network status of a single page load.
type LoadStatus int

const (
	LoadLoading LoadStatus = iota + 1
	LoadReady
	LoadError
)

func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadError:
		return "error"
	default:
		return "unknown"
	}
}

// PageLoadState describes the network status of a given page number.
// Only the most recent value is meaningful; it is not a history.
type PageLoadState struct {
	Status LoadStatus
	Page   int
}

// Loading returns the state published before page is requested.
func Loading(page int) PageLoadState { return PageLoadState{Status: LoadLoading, Page: page} }

// Ready returns the state published after page resolved successfully.
func Ready(page int) PageLoadState { return PageLoadState{Status: LoadReady, Page: page} }

// Failed returns the state published after page failed to load.
func Failed(page int) PageLoadState { return PageLoadState{Status: LoadError, Page: page} }

func (s PageLoadState) String() string {
	return fmt.Sprintf("%s(%d)", s.Status, s.Page)
}

// ErrorKind is the coarse error category surfaced to the UI.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorNetwork
	ErrorUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ClassifyError maps a fetch failure to the kind shown to the user.
// Transport failures and errors coded EUNAVAILABLE at the root of the
// chain are network errors; everything else is unknown.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorNone
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	var e *Error
	for cur := err; errors.As(cur, &e); cur = e.Err {
		if e.Err == nil {
			if e.Code == EUNAVAILABLE {
				return ErrorNetwork
			}
			break
		}
	}
	return ErrorUnknown
}

// StreamState is an immutable snapshot of a feed session for data-binding.
// Snapshots are replaced, never mutated.
type StreamState struct {
	IsLoading bool
	Items     []Photo
	Error     ErrorKind
}

// Len returns the number of loaded photos.
func (s StreamState) Len() int { return len(s.Items) }

// ProjectStreamState folds a session's photo sequence into a snapshot.
// IsLoading stays true until the first page of the session has resolved.
func ProjectStreamState(items []Photo, resolved bool) StreamState {
	return StreamState{
		IsLoading: !resolved,
		Items:     items,
	}
}
