package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesBroadcast(t *testing.T) {
	m := NewManager(nil)
	defer m.Shutdown()

	sub, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	defer sub.Cancel()

	m.broadcast([]byte(`{"seq":1}`))

	select {
	case frame := <-sub.Frames:
		assert.Equal(t, `{"seq":1}`, string(frame))
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	m := NewManager(nil)
	defer m.Shutdown()

	sub, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	sub.Cancel()
	sub.Cancel() // idempotent

	m.broadcast([]byte("x"))

	select {
	case frame := <-sub.Frames:
		t.Fatalf("unexpected frame after cancel: %q", frame)
	default:
		// Nothing delivered, as expected.
	}
}

func TestSlowConsumerDropped(t *testing.T) {
	m := NewManager(nil)
	defer m.Shutdown()

	sub, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	defer sub.Cancel()

	// Fill the subscriber buffer without draining, then overflow it.
	for i := 0; i < 257; i++ {
		m.broadcast([]byte("frame"))
	}

	select {
	case <-sub.Dropped:
	case <-time.After(time.Second):
		t.Fatal("slow consumer was not dropped")
	}
}

// A dropped subscriber's frame channel is never closed, so broadcasts
// past the drop must not panic even though cleanup and delivery race.
func TestBroadcastPastSlowConsumerDoesNotPanic(t *testing.T) {
	m := NewManager(nil)
	defer m.Shutdown()

	sub, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	defer sub.Cancel()

	for i := 0; i < 300; i++ {
		m.broadcast([]byte("frame"))
	}

	select {
	case <-sub.Dropped:
	default:
		t.Fatal("expected subscriber to be dropped")
	}

	// A healthy subscriber attached afterwards still gets frames.
	fresh, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)
	defer fresh.Cancel()

	m.broadcast([]byte("live"))
	select {
	case frame := <-fresh.Frames:
		assert.Equal(t, "live", string(frame))
	case <-time.After(time.Second):
		t.Fatal("no frame received after drop of another subscriber")
	}
}

func TestShutdownDisconnectsSubscribers(t *testing.T) {
	m := NewManager(nil)

	sub, err := m.Subscribe(context.Background(), nil)
	require.NoError(t, err)

	m.Shutdown()
	m.Shutdown() // idempotent

	select {
	case <-sub.Dropped:
	case <-time.After(time.Second):
		t.Fatal("subscriber not disconnected on shutdown")
	}

	// After shutdown: no new subscribers, broadcasts are no-ops.
	_, err = m.Subscribe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrShutdown)
	m.broadcast([]byte("late"))

	// Cancelling a shutdown subscriber is still safe.
	sub.Cancel()
}

func TestEncodeFrame(t *testing.T) {
	ev := &Placement{
		Seq:    7,
		MoltID: "a1",
		X:      10,
		Y:      20,
		Color:  "#E50000",
		Time:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	frame, err := encodeFrame(ev)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"seq":7,"moltId":"a1","x":10,"y":20,"color":"#E50000","time":"2026-08-01T12:00:00Z"}`,
		string(frame))
}
