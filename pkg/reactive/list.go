package reactive

import "sort"

// List is a reactive array. Reads are tracked through one Dependency; every
// mutating method notifies exactly once after delegating to the slice
// operation, and makes inserted values reactive.
type List struct {
	dep   *Dependency
	items []any
}

// NewList creates a list of the given items.
func NewList(items ...any) *List {
	l := &List{dep: newRawDependency(nil)}
	l.items = reactivate(items)
	return l
}

func reactivate(items []any) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = MakeReactive(v)
	}
	return out
}

// Dependency returns the dependency notified on mutation.
func (l *List) Dependency() *Dependency {
	return l.dep
}

// Len returns the tracked length.
func (l *List) Len() int {
	l.dep.Track()
	return len(l.items)
}

// At returns the tracked item at i, or nil when out of range.
func (l *List) At(i int) any {
	l.dep.Track()
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Values returns a tracked copy of the items.
func (l *List) Values() []any {
	l.dep.Track()
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Push appends items and returns the new length.
func (l *List) Push(items ...any) int {
	l.items = append(l.items, reactivate(items)...)
	l.dep.Invoke()
	return len(l.items)
}

// Unshift prepends items and returns the new length.
func (l *List) Unshift(items ...any) int {
	l.items = append(reactivate(items), l.items...)
	l.dep.Invoke()
	return len(l.items)
}

// Shift removes and returns the first item, or nil when empty.
func (l *List) Shift() any {
	var first any
	if len(l.items) > 0 {
		first = l.items[0]
		l.items = l.items[1:]
	}
	l.dep.Invoke()
	return first
}

// Pop removes and returns the last item, or nil when empty.
func (l *List) Pop() any {
	var last any
	if n := len(l.items); n > 0 {
		last = l.items[n-1]
		l.items = l.items[:n-1]
	}
	l.dep.Invoke()
	return last
}

// Splice removes deleteCount items at start, inserts items in their place,
// and returns the removed items. A negative start counts from the end.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	n := len(l.items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, l.items[start:start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, l.items[:start]...)
	next = append(next, reactivate(items)...)
	next = append(next, l.items[start+deleteCount:]...)
	l.items = next

	l.dep.Invoke()
	return removed
}

// Sort sorts the items stably with less.
func (l *List) Sort(less func(a, b any) bool) {
	sort.SliceStable(l.items, func(i, j int) bool {
		return less(l.items[i], l.items[j])
	})
	l.dep.Invoke()
}

// Reverse reverses the items in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	l.dep.Invoke()
}
