package paging

import "sync"

// publisher delivers values to a single consumer in the order they were
// published. Publishing never blocks; values queue until the consumer
// receives them. After close nothing further is delivered and the output
// channel is closed.
type publisher[T any] struct {
	mu     sync.Mutex
	queue  []T
	latest T
	closed bool

	signal  chan struct{}
	done    chan struct{}
	stopped chan struct{}
	out     chan T
}

func newPublisher[T any]() *publisher[T] {
	p := &publisher[T]{
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		out:     make(chan T),
	}
	go p.run()
	return p
}

// publish enqueues v. It is a no-op after close.
func (p *publisher[T]) publish(v T) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, v)
	p.latest = v
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// last returns the most recently published value.
func (p *publisher[T]) last() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

func (p *publisher[T]) run() {
	defer close(p.stopped)
	defer close(p.out)

	for {
		select {
		case <-p.signal:
		case <-p.done:
			return
		}

		for {
			p.mu.Lock()
			if len(p.queue) == 0 {
				p.mu.Unlock()
				break
			}
			v := p.queue[0]
			var zero T
			p.queue[0] = zero
			p.queue = p.queue[1:]
			p.mu.Unlock()

			select {
			case p.out <- v:
			case <-p.done:
				return
			}
		}
	}
}

// close drops undelivered values and waits for the delivery goroutine to exit.
func (p *publisher[T]) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.stopped
		return
	}
	p.closed = true
	p.queue = nil
	p.mu.Unlock()

	close(p.done)
	<-p.stopped
}
