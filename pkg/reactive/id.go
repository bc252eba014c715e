package reactive

import "sync/atomic"

var (
	idCounter uint64
	generator atomic.Pointer[func() uint64]
)

// NextID returns a fresh id for a dependency or mediator. Ids double as
// channel keys.
func NextID() uint64 {
	if gen := generator.Load(); gen != nil {
		return (*gen)()
	}
	return atomic.AddUint64(&idCounter, 1)
}

// SetIDGenerator replaces the id source and returns a function restoring the
// previous one. Passing nil restores the built-in counter.
func SetIDGenerator(fn func() uint64) (restore func()) {
	var next *func() uint64
	if fn != nil {
		next = &fn
	}
	prev := generator.Swap(next)
	return func() { generator.Store(prev) }
}
