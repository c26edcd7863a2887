package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker fans events out to subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event and the
// broker counts it as dropped.
//
// A broker built with WithRetain remembers the newest event of each type
// and hands those to every new subscriber first, so a late subscriber such
// as a preview pane starts from the current value instead of waiting for
// the next keystroke.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	done       chan struct{}
	bufferSize int
	retain     bool
	latest     map[EventType]Event[T]
	order      []EventType // first-publish order of retained types
	dropped    uint64
	now        func() time.Time
}

// BrokerOption configures a Broker.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize sets the per-subscriber buffer.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}

// WithRetain replays the newest event of each type to new subscribers.
func WithRetain[T any]() BrokerOption[T] {
	return func(b *Broker[T]) {
		b.retain = true
	}
}

// WithClock overrides the event timestamp source.
func WithClock[T any](now func() time.Time) BrokerOption[T] {
	return func(b *Broker[T]) {
		b.now = now
	}
}

// NewBroker creates a broker with the default buffer size (64).
func NewBroker[T any](opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: defaultBufferSize,
		latest:     make(map[EventType]Event[T]),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe returns a channel that receives events until ctx is cancelled
// or the broker is closed. A closed broker yields a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	size := b.bufferSize
	if len(b.order) > size {
		size = len(b.order)
	}
	sub := make(chan Event[T], size)
	for _, typ := range b.order {
		sub <- b.latest[typ]
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish sends an event to all subscribers.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: b.now(),
	}

	// Retention mutates state, so publishing takes the write lock.
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	if b.retain {
		if _, seen := b.latest[eventType]; !seen {
			b.order = append(b.order, eventType)
		}
		b.latest[eventType] = event
	}

	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			b.dropped++
		}
	}
}

// Latest returns the newest retained event of the given type.
func (b *Broker[T]) Latest(eventType EventType) (Event[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ev, ok := b.latest[eventType]
	return ev, ok
}

// Dropped returns how many deliveries were skipped because a subscriber
// buffer was full.
func (b *Broker[T]) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Close shuts down the broker and all subscriber channels.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	close(b.done)
	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// closed must be called with mu held.
func (b *Broker[T]) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
