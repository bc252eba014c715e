package channel

import (
	"errors"
	"sort"
	"sync"

	werrors "github.com/vango-dev/weft/internal/errors"
)

// ErrNoChannel is returned when emitting on or unsubscribing from a key that
// was never opened (or was closed).
var ErrNoChannel = errors.New("channel: no such channel")

// Handler receives the arguments passed to Emit.
type Handler func(args ...any)

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus maps channel keys to ordered, keyed subscriber lists.
type Bus struct {
	mu       sync.RWMutex
	channels map[uint64][]subscriber
}

// Default is the process-wide bus used by the reactive system.
var Default = New()

// New creates an empty bus.
func New() *Bus {
	return &Bus{channels: make(map[uint64][]subscriber)}
}

// Open registers key. Opening an open key is a no-op.
func (b *Bus) Open(key uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.channels[key]; !ok {
		b.channels[key] = nil
	}
}

// Close drops every subscriber of key and removes it.
func (b *Bus) Close(key uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.channels, key)
}

// Subscribe adds handler under subscriberID, replacing any handler already
// registered with that id. The channel is opened if needed.
func (b *Bus) Subscribe(key, subscriberID uint64, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.channels[key]
	for i := range subs {
		if subs[i].id == subscriberID {
			subs[i].handler = handler
			return
		}
	}
	b.channels[key] = append(subs, subscriber{id: subscriberID, handler: handler})
}

// Unsubscribe removes subscriberID from key. Removing an absent subscriber
// is a no-op; an unopened key is an error.
func (b *Bus) Unsubscribe(key, subscriberID uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.channels[key]
	if !ok {
		return noChannel(key)
	}
	for i := range subs {
		if subs[i].id == subscriberID {
			// Copy so snapshots taken by in-flight emits stay intact.
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.channels[key] = next
			return nil
		}
	}
	return nil
}

// Emit calls every subscriber of key with args, in subscription order.
func (b *Bus) Emit(key uint64, args ...any) error {
	b.mu.RLock()
	subs, ok := b.channels[key]
	snapshot := make([]subscriber, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	if !ok {
		return noChannel(key)
	}
	for _, s := range snapshot {
		s.handler(args...)
	}
	return nil
}

// Has reports whether key is open.
func (b *Bus) Has(key uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.channels[key]
	return ok
}

// Len returns the number of subscribers of key.
func (b *Bus) Len(key uint64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[key])
}

// Keys returns the open keys in ascending order.
func (b *Bus) Keys() []uint64 {
	b.mu.RLock()
	keys := make([]uint64, 0, len(b.channels))
	for k := range b.channels {
		keys = append(keys, k)
	}
	b.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func noChannel(key uint64) error {
	return werrors.New("E020").WithDetailf("key %d", key).Wrap(ErrNoChannel)
}

// Open registers key on the Default bus.
func Open(key uint64) { Default.Open(key) }

// Close removes key from the Default bus.
func Close(key uint64) { Default.Close(key) }

// Subscribe subscribes on the Default bus.
func Subscribe(key, subscriberID uint64, handler Handler) {
	Default.Subscribe(key, subscriberID, handler)
}

// Unsubscribe unsubscribes from the Default bus.
func Unsubscribe(key, subscriberID uint64) error {
	return Default.Unsubscribe(key, subscriberID)
}

// Emit emits on the Default bus.
func Emit(key uint64, args ...any) error {
	return Default.Emit(key, args...)
}
