// Package broadcast provides the two output queues that connect script
// builtins to the socket writer: a fan-out ring-buffer Bus that any
// builtin may publish onto, and a bounded MPSC Sink that only the control
// channel drains. A single "echo pump" (owned by the agent bootstrap)
// forwards everything published to the Bus into the Sink.
package broadcast

import "sync"

// Bus is a fixed-capacity ring buffer of strings with fan-out subscribe
// semantics, modeled the same way a fixed SQ/CQ ring is indexed by
// producer/consumer counters instead of a slice that grows: a Publish
// past capacity overwrites the oldest unread slot and subscribers who
// haven't kept up observe the overwrite as a lagged message count rather
// than blocking the publisher.
type Bus struct {
	mu   sync.Mutex
	cond *sync.Cond
	cap  int
	seq  uint64 // sequence number of the next slot to be written
	buf  []string
	seqs []uint64 // sequence number stored at buf[i]
	subs map[*Handle]struct{}
	closed bool
}

// NewBus creates a broadcast bus with the given ring capacity.
func NewBus(capacity int) *Bus {
	b := &Bus{
		cap:  capacity,
		buf:  make([]string, capacity),
		seqs: make([]uint64, capacity),
		subs: make(map[*Handle]struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Publish appends msg to the ring, waking any subscriber blocked in Recv.
// If the ring is full relative to the slowest subscriber, the oldest entry
// is overwritten; that subscriber will observe a gap (Lagged increments)
// rather than ever seeing the overwritten message.
func (b *Bus) Publish(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	idx := int(b.seq % uint64(b.cap))
	b.buf[idx] = msg
	b.seqs[idx] = b.seq
	b.seq++
	b.cond.Broadcast()
}

// Close marks the bus closed; all subscribers observe end-of-stream once
// they drain any messages published before Close.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
}

// Handle is a subscriber's read cursor into a Bus.
type Handle struct {
	bus    *Bus
	next   uint64 // next sequence number this handle wants to read
	Lagged uint64 // count of messages dropped before this handle could read them
}

// Subscribe registers a new reader starting at the current tail of the
// ring (it will not see messages published before Subscribe was called).
func (b *Bus) Subscribe() *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := &Handle{bus: b, next: b.seq}
	b.subs[h] = struct{}{}
	return h
}

// Unsubscribe releases a handle; safe to call more than once.
func (h *Handle) Unsubscribe() {
	h.bus.mu.Lock()
	defer h.bus.mu.Unlock()
	delete(h.bus.subs, h)
}

// Recv blocks until a message is available, the bus closes, or the handle
// falls behind (in which case it fast-forwards to the oldest still-buffered
// message and increments Lagged). Returns ok=false only once the bus has
// closed and every buffered message has been drained.
func (h *Handle) Recv() (msg string, ok bool) {
	b := h.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		oldest := uint64(0)
		if b.seq > uint64(b.cap) {
			oldest = b.seq - uint64(b.cap)
		}
		if h.next < oldest {
			h.Lagged += oldest - h.next
			h.next = oldest
		}
		if h.next < b.seq {
			idx := int(h.next % uint64(b.cap))
			msg = b.buf[idx]
			h.next++
			return msg, true
		}
		if b.closed {
			return "", false
		}
		b.cond.Wait()
	}
}
