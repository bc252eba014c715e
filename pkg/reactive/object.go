package reactive

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Object is a reactive record. Each key is backed by its own Dependency,
// created the first time the key is observed.
type Object struct {
	deps         map[string]*Dependency
	instrumented mapset.Set[string]
}

// NewObject creates an object observing every key of init.
func NewObject(init map[string]any) *Object {
	o := &Object{
		deps:         make(map[string]*Dependency, len(init)),
		instrumented: mapset.NewThreadUnsafeSet[string](),
	}
	for k, v := range init {
		o.observe(k, v)
	}
	return o
}

// Observe instruments key and returns its dependency. Observing an
// instrumented key returns the existing dependency.
func (o *Object) Observe(key string) *Dependency {
	return o.observe(key, nil)
}

func (o *Object) observe(key string, initial any) *Dependency {
	if o.instrumented.Contains(key) {
		return o.deps[key]
	}
	dep := NewDependency(initial)
	o.deps[key] = dep
	o.instrumented.Add(key)
	return dep
}

// Get returns the tracked value of key.
func (o *Object) Get(key string) any {
	return o.Observe(key).Get()
}

// Peek returns the value of key without tracking.
func (o *Object) Peek(key string) any {
	if dep, ok := o.deps[key]; ok {
		return dep.Peek()
	}
	return nil
}

// Set writes key, notifying its subscribers if the value changed.
func (o *Object) Set(key string, v any) {
	o.Observe(key).Set(v)
}

// Has reports whether key is instrumented.
func (o *Object) Has(key string) bool {
	return o.instrumented.Contains(key)
}

// Dependency returns the dependency of key, or nil if it was never observed.
func (o *Object) Dependency(key string) *Dependency {
	return o.deps[key]
}

// Keys returns the instrumented keys in sorted order.
func (o *Object) Keys() []string {
	keys := o.instrumented.ToSlice()
	sort.Strings(keys)
	return keys
}

// Snapshot returns an untracked copy of the current values.
func (o *Object) Snapshot() map[string]any {
	out := make(map[string]any, len(o.deps))
	for k, dep := range o.deps {
		out[k] = dep.Peek()
	}
	return out
}
