package paging

import "fmt"

// RetryKind identifies which load a RetryAction repeats.
type RetryKind int

const (
	RetryInitial RetryKind = iota + 1
	RetryAfter
)

func (k RetryKind) String() string {
	switch k {
	case RetryInitial:
		return "initial"
	case RetryAfter:
		return "after"
	default:
		return "unknown"
	}
}

// RetryAction describes how to redo the most recently failed load.
// It carries only the parameters of the failed call, so replaying it
// re-derives the load instead of running a captured closure.
type RetryAction struct {
	Kind     RetryKind
	Page     int
	PageSize int
	session  string
}

func (a RetryAction) String() string {
	return fmt.Sprintf("retry %s page=%d size=%d", a.Kind, a.Page, a.PageSize)
}

// retrySlot holds at most one RetryAction. Storing replaces the previous
// action; taking clears the slot so an action runs at most once.
type retrySlot struct {
	action *RetryAction
}

func (s *retrySlot) store(a RetryAction) {
	s.action = &a
}

func (s *retrySlot) take() (RetryAction, bool) {
	if s.action == nil {
		return RetryAction{}, false
	}
	a := *s.action
	s.action = nil
	return a, true
}

func (s *retrySlot) peek() (RetryAction, bool) {
	if s.action == nil {
		return RetryAction{}, false
	}
	return *s.action, true
}

func (s *retrySlot) clear() {
	s.action = nil
}
