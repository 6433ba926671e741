package broadcast

import "errors"

// ErrSinkClosed is returned by Send once the sink has been closed.
var ErrSinkClosed = errors.New("sink is closed")

// Sink is a bounded multi-producer single-consumer queue of output
// strings. Any task may Send; only the control channel's session loop may
// Recv.
type Sink struct {
	ch     chan string
	closed chan struct{}
}

// NewSink creates a sink with the given bounded capacity.
func NewSink(capacity int) *Sink {
	return &Sink{
		ch:     make(chan string, capacity),
		closed: make(chan struct{}),
	}
}

// Send enqueues msg, blocking if the sink is full. Returns ErrSinkClosed if
// Close has already been called.
func (s *Sink) Send(msg string) error {
	select {
	case <-s.closed:
		return ErrSinkClosed
	default:
	}
	select {
	case s.ch <- msg:
		return nil
	case <-s.closed:
		return ErrSinkClosed
	}
}

// Chan exposes the receive side for use in a select statement, matching
// spec's "Sink receive ready" suspension point.
func (s *Sink) Chan() <-chan string {
	return s.ch
}

// Close marks the sink closed; pending buffered messages remain readable
// from Chan() until drained, after which receives observe a closed channel.
func (s *Sink) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
		close(s.ch)
	}
}
