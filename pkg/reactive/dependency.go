package reactive

import (
	"reflect"

	"github.com/vango-dev/weft/pkg/channel"
)

// Dependency is one observable value cell. Its ID is also the key of the
// channel it notifies on.
type Dependency struct {
	ID uint64

	value any
	raw   bool
}

// NewDependency creates a dependency holding MakeReactive(value).
func NewDependency(value any) *Dependency {
	d := &Dependency{ID: NextID(), value: MakeReactive(value)}
	channel.Open(d.ID)
	return d
}

// newRawDependency creates a dependency that stores values as given.
func newRawDependency(value any) *Dependency {
	d := &Dependency{ID: NextID(), value: value, raw: true}
	channel.Open(d.ID)
	return d
}

// Get returns the value and attributes the read to the evaluating mediator.
func (d *Dependency) Get() any {
	d.Track()
	return d.value
}

// Peek returns the value without tracking.
func (d *Dependency) Peek() any {
	return d.value
}

// Track attributes the dependency to the evaluating mediator, if any.
func (d *Dependency) Track() {
	if m, tag := Current(); m != nil {
		m.capture(d.ID, tag)
	}
}

// Set stores v and notifies subscribers when it differs from the current
// value. Maps and slices are made reactive first.
func (d *Dependency) Set(v any) {
	if Equal(d.value, v) {
		return
	}
	if !d.raw {
		v = MakeReactive(v)
	}
	d.value = v
	d.Invoke()
}

// Invoke notifies every subscribed mediator.
func (d *Dependency) Invoke() {
	_ = channel.Emit(d.ID, d.ID)
}

// Close closes the dependency's channel. Mediators subscribed later reopen it.
func (d *Dependency) Close() {
	channel.Close(d.ID)
}

// Equal compares with == when the dynamic types match and are comparable,
// falling back to reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// MakeReactive wraps map[string]any in an *Object and []any in a *List.
// Reactive values and everything else pass through unchanged.
func MakeReactive(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return NewObject(val)
	case []any:
		return NewList(val...)
	default:
		return v
	}
}
