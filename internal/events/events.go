package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrShutdown is returned by Subscribe after the manager has shut down.
var ErrShutdown = errors.New("events: manager shut down")

// subscriber represents a connected firehose consumer.
//
// Channel ownership: ch is only ever sent to, never closed — senders
// (broadcast, replay) select on done and dropped instead, so a send
// can never hit a closed channel. done is closed exactly once by the
// subscriber's cancel; dropped is closed exactly once by whoever
// removes the subscriber from the manager's map under the write lock.
type subscriber struct {
	ch      chan []byte
	done    chan struct{}
	dropped chan struct{}

	cancelOnce sync.Once
}

// Subscription is a live firehose attachment. Frames carries
// pre-serialized JSON frames; Dropped is closed if the manager
// disconnects the subscriber (slow consumer or shutdown), after which
// the consumer should reconnect with its last seen cursor.
type Subscription struct {
	Frames  <-chan []byte
	Dropped <-chan struct{}

	m   *Manager
	sub *subscriber
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.sub.cancelOnce.Do(func() {
		s.m.mu.Lock()
		delete(s.m.subs, s.sub)
		s.m.mu.Unlock()
		close(s.sub.done)
	})
}

// Manager handles event sequencing, persistence, and fan-out to
// WebSocket subscribers.
type Manager struct {
	persister *Persister

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
	done chan struct{}
}

// NewManager creates an event Manager.
func NewManager(persister *Persister) *Manager {
	return &Manager{
		persister: persister,
		subs:      make(map[*subscriber]struct{}),
		done:      make(chan struct{}),
	}
}

// Emit persists a placement event and broadcasts the wire frame to all
// subscribers. Returns error only if persistence fails.
func (m *Manager) Emit(ctx context.Context, ev *Placement) error {
	seq, err := m.persister.Persist(ctx, ev)
	if err != nil {
		return fmt.Errorf("events: persist: %w", err)
	}
	ev.Seq = seq

	frame, err := encodeFrame(ev)
	if err != nil {
		return fmt.Errorf("events: encode frame: %w", err)
	}

	m.broadcast(frame)
	return nil
}

// Subscribe attaches a new firehose consumer. If since is non-nil,
// events after that cursor are replayed before live frames. Call
// Cancel on the returned subscription when the consumer is done.
func (m *Manager) Subscribe(ctx context.Context, since *int64) (*Subscription, error) {
	select {
	case <-m.done:
		return nil, ErrShutdown
	default:
	}

	sub := &subscriber{
		ch:      make(chan []byte, 256),
		done:    make(chan struct{}),
		dropped: make(chan struct{}),
	}

	// Register subscriber BEFORE replay so we don't miss events between
	// replay end and live start.
	m.mu.Lock()
	m.subs[sub] = struct{}{}
	m.mu.Unlock()

	// Replay historical events if cursor provided.
	if since != nil {
		go func() {
			err := m.persister.Replay(ctx, *since, func(frame []byte) error {
				select {
				case sub.ch <- frame:
					return nil
				case <-sub.done:
					return fmt.Errorf("subscriber cancelled")
				case <-sub.dropped:
					return fmt.Errorf("subscriber dropped")
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				log.Printf("Warning: replay error: %v", err)
			}
		}()
	}

	return &Subscription{Frames: sub.ch, Dropped: sub.dropped, m: m, sub: sub}, nil
}

// Shutdown disconnects all subscribers and makes further Subscribe
// and broadcast calls no-ops.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
	}
	close(m.done)

	for sub := range m.subs {
		delete(m.subs, sub)
		close(sub.dropped)
	}
}

// broadcast sends a frame to all subscribers. Slow consumers whose
// buffers are full are removed and signalled via their dropped channel
// (they should reconnect); their frame channel is never closed, so
// concurrent senders cannot panic.
func (m *Manager) broadcast(frame []byte) {
	select {
	case <-m.done:
		return
	default:
	}

	m.mu.RLock()
	var slow []*subscriber
	for sub := range m.subs {
		select {
		case sub.ch <- frame:
		case <-sub.done:
		case <-sub.dropped:
		default:
			slow = append(slow, sub)
		}
	}
	m.mu.RUnlock()

	if len(slow) == 0 {
		return
	}

	// Drop slow consumers under the write lock; only the remover
	// closes dropped, so a racing Shutdown or second broadcast cannot
	// close it twice.
	m.mu.Lock()
	for _, sub := range slow {
		if _, ok := m.subs[sub]; ok {
			delete(m.subs, sub)
			close(sub.dropped)
		}
	}
	m.mu.Unlock()
}
