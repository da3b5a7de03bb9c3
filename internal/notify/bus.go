// Package notify keeps the bounded, newest-first log of user-facing events.
package notify

import (
	"container/list"
	"sync"
	"time"

	"fintrack/internal/core"
)

// DefaultCapacity is the number of notifications retained.
const DefaultCapacity = 10

// Bus is a fixed-capacity deque: Publish inserts at the front and evicts
// from the back once the capacity is exceeded.
type Bus struct {
	mu       sync.Mutex
	capacity int
	items    *list.List
	nextID   int64
	now      func() time.Time
	sinks    []Sink
}

// Sink receives every notification after it has been recorded.
type Sink interface {
	Notify(n core.Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(n core.Notification)

func (f SinkFunc) Notify(n core.Notification) { f(n) }

// NewBus creates a bus holding at most capacity notifications.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		capacity: capacity,
		items:    list.New(),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source.
func (b *Bus) WithClock(now func() time.Time) *Bus {
	b.now = now
	return b
}

// Subscribe registers a sink for published notifications.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish records a notification and returns it.
func (b *Bus) Publish(kind core.NotificationKind, message string) core.Notification {
	b.mu.Lock()
	b.nextID++
	n := core.Notification{
		ID:        b.nextID,
		Message:   message,
		Kind:      kind,
		Timestamp: b.now(),
	}
	b.items.PushFront(n)
	for b.items.Len() > b.capacity {
		b.items.Remove(b.items.Back())
	}
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()

	for _, s := range sinks {
		s.Notify(n)
	}
	return n
}

func (b *Bus) Info(message string) core.Notification {
	return b.Publish(core.KindInfo, message)
}

func (b *Bus) Warning(message string) core.Notification {
	return b.Publish(core.KindWarning, message)
}

func (b *Bus) Error(message string) core.Notification {
	return b.Publish(core.KindError, message)
}

// List returns the retained notifications, newest first.
func (b *Bus) List() []core.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.Notification, 0, b.items.Len())
	for e := b.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(core.Notification))
	}
	return out
}

// Clear drops every retained notification.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items.Init()
}

// Len returns the current number of retained notifications.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}
