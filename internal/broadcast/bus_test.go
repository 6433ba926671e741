package broadcast

import (
	"testing"
	"time"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	b := NewBus(64)
	h := b.Subscribe()

	b.Publish("one")
	b.Publish("two")
	b.Publish("three")

	for _, want := range []string{"one", "two", "three"} {
		got, ok := h.Recv()
		if !ok || got != want {
			t.Fatalf("expected %q, got %q (ok=%v)", want, got, ok)
		}
	}
}

func TestBusLaggingSubscriberDropsOldest(t *testing.T) {
	b := NewBus(4)
	h := b.Subscribe()

	for i := 0; i < 10; i++ {
		b.Publish(string(rune('a' + i)))
	}

	got, ok := h.Recv()
	if !ok {
		t.Fatal("expected a message")
	}
	if h.Lagged == 0 {
		t.Fatalf("expected lagged count > 0, got message %q with Lagged=0", got)
	}
}

func TestBusCloseDrainsThenEOF(t *testing.T) {
	b := NewBus(64)
	h := b.Subscribe()
	b.Publish("last")
	b.Close()

	got, ok := h.Recv()
	if !ok || got != "last" {
		t.Fatalf("expected to drain buffered message before EOF, got %q ok=%v", got, ok)
	}
	if _, ok := h.Recv(); ok {
		t.Fatal("expected EOF after drain")
	}
}

func TestBusRecvBlocksUntilPublish(t *testing.T) {
	b := NewBus(64)
	h := b.Subscribe()

	done := make(chan string, 1)
	go func() {
		msg, _ := h.Recv()
		done <- msg
	}()

	time.Sleep(10 * time.Millisecond)
	b.Publish("async")

	select {
	case msg := <-done:
		if msg != "async" {
			t.Fatalf("expected async, got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after Publish")
	}
}

func TestSinkSendRecvAndClose(t *testing.T) {
	s := NewSink(4)
	if err := s.Send("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case msg := <-s.Chan():
		if msg != "hello" {
			t.Fatalf("expected hello, got %q", msg)
		}
	default:
		t.Fatal("expected buffered message to be ready")
	}

	s.Close()
	if err := s.Send("after close"); err != ErrSinkClosed {
		t.Fatalf("expected ErrSinkClosed, got %v", err)
	}
}
