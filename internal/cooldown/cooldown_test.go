package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt_Elapsed(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-10 * time.Minute)

	st := StatusAt(last, now, 5*time.Minute)
	assert.True(t, st.CanPlace)
	assert.Equal(t, 0, st.SecondsRemaining)
	assert.Equal(t, now, st.CanPlaceAt)
}

func TestStatusAt_Active(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Minute)

	st := StatusAt(last, now, 5*time.Minute)
	assert.False(t, st.CanPlace)
	assert.Equal(t, 180, st.SecondsRemaining)
	assert.Equal(t, last.Add(5*time.Minute), st.CanPlaceAt)
}

func TestStatusAt_RoundsUp(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// 1 ms left still reports a full second.
	last := now.Add(-5*time.Minute + time.Millisecond)
	st := StatusAt(last, now, 5*time.Minute)
	assert.False(t, st.CanPlace)
	assert.Equal(t, 1, st.SecondsRemaining)

	// 1.5 s left reports 2.
	last = now.Add(-5*time.Minute + 1500*time.Millisecond)
	st = StatusAt(last, now, 5*time.Minute)
	assert.Equal(t, 2, st.SecondsRemaining)
}

func TestStatusAt_ExactBoundary(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-5 * time.Minute)

	// Window exactly elapsed: eligible.
	st := StatusAt(last, now, 5*time.Minute)
	assert.True(t, st.CanPlace)
}

func TestStatusAt_FreshPlacement(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	st := StatusAt(now, now, 300*time.Second)
	assert.False(t, st.CanPlace)
	assert.Equal(t, 300, st.SecondsRemaining)
}
