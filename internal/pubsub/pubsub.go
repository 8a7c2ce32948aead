// Package pubsub provides a generic event broker used to fan playback and
// animation-control changes out to renderers without coupling them to the
// components that produce the changes.
package pubsub

import (
	"context"
	"sync"
)

// EventType represents the kind of event being published.
type EventType string

const (
	// UpdatedEvent indicates a value changed (step index, speed scale...).
	UpdatedEvent EventType = "updated"
	// StartedEvent indicates a process began (playback started).
	StartedEvent EventType = "started"
	// StoppedEvent indicates a process was halted before finishing.
	StoppedEvent EventType = "stopped"
	// CompletedEvent indicates a process reached its natural end.
	CompletedEvent EventType = "completed"
)

// Event is a typed event with a payload.
type Event[T any] struct {
	Type    EventType
	Payload T
}

// Broker fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Broker[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan Event[T]]struct{}
	bufferSize  int
	closed      bool
	done        chan struct{}
}

// NewBroker creates a broker whose subscriber channels buffer bufferSize
// events. Values below 1 fall back to 16.
func NewBroker[T any](bufferSize int) *Broker[T] {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Broker[T]{
		subscribers: make(map[chan Event[T]]struct{}),
		bufferSize:  bufferSize,
		done:        make(chan struct{}),
	}
}

// Subscribe returns a channel receiving events until ctx is cancelled or the
// broker is closed; the channel is closed afterwards.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], b.bufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(ch)
		case <-b.done:
		}
	}()

	return ch
}

func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish delivers event to every subscriber with room in its buffer.
func (b *Broker[T]) Publish(event Event[T]) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel and later publishes are dropped.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
