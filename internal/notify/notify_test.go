package notify

import (
	"context"
	"testing"
	"time"
)

func TestChannel_DeliversInOrder(t *testing.T) {
	c := NewChannel(4)
	ctx := context.Background()

	c.Notify(ctx, PlaySound("Start", "chime.wav", 5))
	c.Notify(ctx, BellHistoryUpdated())
	c.Notify(ctx, DataUpdated(DomainPunchRecords))

	want := []Kind{KindPlaySound, KindBellHistoryUpdated, KindDataUpdated}
	for _, k := range want {
		ev := <-c.Events()
		if ev.Kind != k {
			t.Fatalf("got %s, want %s", ev.Kind, k)
		}
	}
}

func TestChannel_FullBufferGivesUpOnCancel(t *testing.T) {
	c := NewChannel(1)
	c.Notify(context.Background(), BellHistoryUpdated())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Notify(ctx, BellHistoryUpdated())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify did not return after context cancellation")
	}
}
