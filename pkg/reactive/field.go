package reactive

// Field is a typed observable value. Unlike a Dependency it stores values
// as given, without reactive wrapping.
type Field[T any] struct {
	dep *Dependency
}

// NewField creates a field holding initial.
func NewField[T any](initial T) *Field[T] {
	return &Field[T]{dep: newRawDependency(initial)}
}

// Get returns the tracked value.
func (f *Field[T]) Get() T {
	return cast[T](f.dep.Get())
}

// Peek returns the value without tracking.
func (f *Field[T]) Peek() T {
	return cast[T](f.dep.Peek())
}

// Set stores v, notifying subscribers if it changed.
func (f *Field[T]) Set(v T) {
	f.dep.Set(v)
}

// Update sets the field to fn applied to the current value.
func (f *Field[T]) Update(fn func(T) T) {
	f.Set(fn(f.Peek()))
}

// Dependency returns the underlying dependency.
func (f *Field[T]) Dependency() *Dependency {
	return f.dep
}

func cast[T any](v any) T {
	if out, ok := v.(T); ok {
		return out
	}
	var zero T
	return zero
}
