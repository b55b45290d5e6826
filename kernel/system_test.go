package kernel

import (
	"context"
	"testing"
	"time"
)

func TestSystemStartTicksAndStops(t *testing.T) {
	s := NewSystem()
	got := make(chan Message, 1)
	if _, err := s.Bus().Listen(SourceMicrophone, EvtLevelHigh, func(m Message) { got <- m }, QueueIfBusy); err != nil {
		t.Fatalf("Listen() err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)

	s.Bus().Publish(Message{Source: SourceMicrophone, Event: EvtLevelHigh, Value: 10_600})
	select {
	case m := <-got:
		if m.Value != 10_600 {
			t.Fatalf("Value = %d, want 10600", m.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener never ran")
	}

	waitFor(t, "ticks", func() bool { return s.Ticks() > 0 })

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Start() err = %v, want %v", err, context.Canceled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not stop")
	}
}
