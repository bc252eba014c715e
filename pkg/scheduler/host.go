package scheduler

import (
	"context"
	"sync"
	"time"
)

// Deadline reports how much of the current slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Host provides idle time. RequestIdle arranges for cb to be called once,
// later, on the scheduler's goroutine.
type Host interface {
	RequestIdle(cb func(Deadline))
}

// Unlimited is a deadline that never runs out.
var Unlimited Deadline = unlimited{}

type unlimited struct{}

func (unlimited) TimeRemaining() time.Duration { return time.Hour }

// StepDeadline allows a fixed number of work steps: each TimeRemaining call
// consumes one.
type StepDeadline struct {
	Steps int
}

// TimeRemaining returns a full slice while steps remain, then zero.
func (d *StepDeadline) TimeRemaining() time.Duration {
	if d.Steps <= 0 {
		return 0
	}
	d.Steps--
	return time.Hour
}

// wallDeadline ends at a fixed point in time.
type wallDeadline struct {
	end time.Time
}

func (d wallDeadline) TimeRemaining() time.Duration {
	return time.Until(d.end)
}

// ManualHost queues idle callbacks until the caller runs them. It is meant
// for tests and for driving the scheduler step by step.
type ManualHost struct {
	callbacks []func(Deadline)
}

// NewManualHost creates a manual host.
func NewManualHost() *ManualHost {
	return &ManualHost{}
}

// RequestIdle queues cb.
func (h *ManualHost) RequestIdle(cb func(Deadline)) {
	h.callbacks = append(h.callbacks, cb)
}

// Pending returns the number of queued callbacks.
func (h *ManualHost) Pending() int {
	return len(h.callbacks)
}

// RunSlice runs the oldest queued callback with d. It reports whether a
// callback ran.
func (h *ManualHost) RunSlice(d Deadline) bool {
	if len(h.callbacks) == 0 {
		return false
	}
	cb := h.callbacks[0]
	h.callbacks = h.callbacks[1:]
	cb(d)
	return true
}

// maxDrainSlices bounds Drain so a scheduling cycle fails loudly instead of
// spinning forever.
const maxDrainSlices = 100000

// Drain runs slices with an unlimited deadline until nothing is queued and
// returns the number of slices run.
func (h *ManualHost) Drain() int {
	n := 0
	for h.RunSlice(Unlimited) {
		n++
		if n >= maxDrainSlices {
			panic("scheduler: ManualHost.Drain did not settle")
		}
	}
	return n
}

// LoopHost runs idle callbacks on the goroutine that calls Run, giving each
// a wall-clock slice. Other goroutines hand work to the loop with Post.
type LoopHost struct {
	// Slice is the length of one idle period (default 16ms).
	Slice time.Duration
	// IdleSleep bounds how long Run waits when nothing is queued
	// (default 50ms).
	IdleSleep time.Duration

	mu        sync.Mutex
	callbacks []func(Deadline)
	tasks     []func()
	wake      chan struct{}
}

// NewLoopHost creates a loop host.
func NewLoopHost(slice, idleSleep time.Duration) *LoopHost {
	if slice <= 0 {
		slice = 16 * time.Millisecond
	}
	if idleSleep <= 0 {
		idleSleep = 50 * time.Millisecond
	}
	return &LoopHost{
		Slice:     slice,
		IdleSleep: idleSleep,
		wake:      make(chan struct{}, 1),
	}
}

func (h *LoopHost) signal() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// RequestIdle queues cb for the next idle period.
func (h *LoopHost) RequestIdle(cb func(Deadline)) {
	h.mu.Lock()
	h.callbacks = append(h.callbacks, cb)
	h.mu.Unlock()
	h.signal()
}

// Post queues fn to run on the loop goroutine before the next idle period.
// It is safe to call from any goroutine.
func (h *LoopHost) Post(fn func()) {
	h.mu.Lock()
	h.tasks = append(h.tasks, fn)
	h.mu.Unlock()
	h.signal()
}

// RunOnce runs every posted task and then at most one idle callback. It
// reports whether anything ran.
func (h *LoopHost) RunOnce() bool {
	h.mu.Lock()
	tasks := h.tasks
	h.tasks = nil
	var cb func(Deadline)
	if len(h.callbacks) > 0 {
		cb = h.callbacks[0]
		h.callbacks = h.callbacks[1:]
	}
	h.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	if cb != nil {
		cb(wallDeadline{end: time.Now().Add(h.Slice)})
	}
	return cb != nil || len(tasks) > 0
}

// Idle reports whether no tasks or callbacks are queued.
func (h *LoopHost) Idle() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.callbacks) == 0 && len(h.tasks) == 0
}

// Run drives the loop until ctx is cancelled. Queued work is drained before
// Run returns.
func (h *LoopHost) Run(ctx context.Context) error {
	timer := time.NewTimer(h.IdleSleep)
	defer timer.Stop()

	for {
		if h.RunOnce() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(h.IdleSleep)

		select {
		case <-ctx.Done():
		case <-h.wake:
		case <-timer.C:
		}
	}
}
