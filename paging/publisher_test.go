package paging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_DeliversInOrder(t *testing.T) {
	t.Parallel()

	p := newPublisher[int]()
	defer p.close()

	for i := range 100 {
		p.publish(i)
	}

	for i := range 100 {
		select {
		case v := <-p.out:
			require.Equal(t, i, v)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d", i)
		}
	}
	assert.Equal(t, 99, p.last())
}

func TestPublisher_Close(t *testing.T) {
	t.Parallel()

	p := newPublisher[string]()
	p.publish("a")
	p.publish("b")

	p.close()
	p.close()
	p.publish("c")

	var got []string
	for v := range p.out {
		got = append(got, v)
	}
	assert.NotContains(t, got, "c")
	assert.Equal(t, "b", p.last())
}

func TestRetrySlot(t *testing.T) {
	t.Parallel()

	var slot retrySlot
	_, ok := slot.take()
	assert.False(t, ok)

	slot.store(RetryAction{Kind: RetryInitial, Page: 1, PageSize: 40})
	slot.store(RetryAction{Kind: RetryAfter, Page: 3, PageSize: 40})

	peeked, ok := slot.peek()
	require.True(t, ok)
	assert.Equal(t, 3, peeked.Page)

	taken, ok := slot.take()
	require.True(t, ok)
	assert.Equal(t, RetryAfter, taken.Kind)
	assert.Equal(t, "retry after page=3 size=40", taken.String())

	_, ok = slot.take()
	assert.False(t, ok)
}
