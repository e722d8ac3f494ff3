package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	b.Publish("hello")
	select {
	case ev := <-sub:
		if ev != "hello" {
			t.Fatalf("got %v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	if _, ok := <-sub; ok {
		t.Fatalf("channel must be closed after unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish("late")
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := New()
	_ = b.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber")
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()

	if _, ok := <-sub; ok {
		t.Fatalf("subscriber channel must be closed")
	}
	b.Publish("after close")
	if ch := b.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close must return a closed channel, not nil")
	}
}
