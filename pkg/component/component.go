// Package component provides the base of stateful components.
//
// A component embeds Base, declares its fields with a Fields value and
// implements Render:
//
//	type Counter struct {
//	    component.Base
//	}
//
//	var CounterType = component.NewType("Counter", func(props element.Props) element.Component {
//	    c := &Counter{}
//	    c.Init(props, component.Fields{Observables: []string{"count"}}, map[string]any{"count": 0})
//	    return c
//	})
//
//	func (c *Counter) Render() any {
//	    return element.P(nil, func() any { return c.Get("count") })
//	}
//
// Observable fields live in a reactive.Object. Prop fields are pulled from
// the parent through a func() any source, re-invoked by a data mediator
// whenever what it read changes. Computed fields cache a getter, and emit
// fields expose functions supplied by the parent.
package component

import (
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// ComputedField declares a derived field.
type ComputedField struct {
	Name string
	// Get computes the value. A nil result yields Default.
	Get     func() any
	Default any
	// Cache keeps the last value and recomputes it eagerly when a value it
	// read changes. Without Cache every read recomputes.
	Cache bool
}

// Fields lists a component's field names by role.
type Fields struct {
	Observables []string
	Props       []string
	Computed    []ComputedField
	Emits       []string
}

// NewType creates a component type.
func NewType(name string, ctor func(props element.Props) element.Component) *element.ComponentType {
	return &element.ComponentType{Name: name, New: ctor}
}

type computedSlot struct {
	field    ComputedField
	dep      *reactive.Dependency
	mediator *reactive.Mediator
	value    any
	valid    bool
}

// Base implements the field wiring of element.Component. Components embed
// it and provide Render.
type Base struct {
	fields Fields
	props  element.Props
	state  *reactive.Object

	propMediators []*reactive.Mediator
	computed      map[string]*computedSlot
	emits         map[string]func(...any)

	onDestroy []func()
	destroyed bool
}

// Init wires fields. initial seeds observable fields; props supplies prop
// sources and emit functions.
func (b *Base) Init(props element.Props, fields Fields, initial map[string]any) {
	b.fields = fields
	b.props = props
	if b.props == nil {
		b.props = element.Props{}
	}
	b.state = reactive.NewObject(nil)

	for _, name := range fields.Observables {
		b.state.Observe(name)
		if v, ok := initial[name]; ok {
			b.state.Set(name, v)
		}
	}
	b.bindProps()
	b.bindComputed()
	b.bindEmits()
}

func (b *Base) bindProps() {
	for _, name := range b.fields.Props {
		dep := b.state.Observe(name)
		source, ok := b.props[name].(func() any)
		if !ok {
			dep.Set(b.props[name])
			continue
		}

		m := reactive.NewMediator(reactive.KindData)
		pull := func() {
			v := reactive.Capture(m, reactive.EffectProp, source)
			m.Seal()
			dep.Set(v)
		}
		m.Link(m.ID, func(uint64, reactive.EffectTag) { pull() })
		pull()
		b.propMediators = append(b.propMediators, m)
	}
}

// bindComputed creates a mediator per computed field. A field's dependency
// survives rebinding so readers stay subscribed across RefreshProps.
func (b *Base) bindComputed() {
	prev := b.computed
	b.computed = make(map[string]*computedSlot, len(b.fields.Computed))
	for _, field := range b.fields.Computed {
		slot := &computedSlot{
			field:    field,
			mediator: reactive.NewMediator(reactive.KindData),
		}
		if old, ok := prev[field.Name]; ok {
			slot.dep = old.dep
			slot.dep.Invoke()
		} else {
			slot.dep = reactive.NewDependency(nil)
		}
		slot.mediator.Link(slot.mediator.ID, func(uint64, reactive.EffectTag) {
			if slot.field.Cache {
				prev := slot.value
				slot.recompute()
				if reactive.Equal(prev, slot.value) {
					return
				}
			} else {
				slot.valid = false
			}
			slot.dep.Invoke()
		})
		b.computed[field.Name] = slot
	}
}

func (s *computedSlot) recompute() {
	var v any
	if s.field.Get != nil {
		v = reactive.Capture(s.mediator, reactive.EffectProp, s.field.Get)
	}
	s.mediator.Seal()
	if v == nil {
		v = s.field.Default
	}
	s.value = v
	s.valid = true
}

func (b *Base) bindEmits() {
	b.emits = make(map[string]func(...any), len(b.fields.Emits))
	for _, name := range b.fields.Emits {
		b.emits[name] = emitFunc(b.props[name])
	}
}

func emitFunc(v any) func(...any) {
	switch fn := v.(type) {
	case func(...any):
		return fn
	case func():
		return func(...any) { fn() }
	case func(any):
		return func(args ...any) {
			var arg any
			if len(args) > 0 {
				arg = args[0]
			}
			fn(arg)
		}
	default:
		return func(...any) {}
	}
}

// Get returns the tracked value of an observable or prop field.
func (b *Base) Get(name string) any {
	return b.state.Get(name)
}

// Set writes an observable field.
func (b *Base) Set(name string, v any) {
	b.state.Set(name, v)
}

// State returns the object holding observable and prop fields.
func (b *Base) State() *reactive.Object {
	return b.state
}

// Props returns the properties the component was created with.
func (b *Base) Props() element.Props {
	return b.props
}

// Computed returns the tracked value of a computed field.
func (b *Base) Computed(name string) any {
	slot, ok := b.computed[name]
	if !ok {
		return nil
	}
	slot.dep.Track()
	if !slot.valid || !slot.field.Cache {
		slot.recompute()
	}
	return slot.value
}

// Emit calls the emit field name with args. Undeclared or unsupplied emits
// do nothing.
func (b *Base) Emit(name string, args ...any) {
	if fn, ok := b.emits[name]; ok {
		fn(args...)
	}
}

// SetProps replaces the component's properties.
func (b *Base) SetProps(props element.Props) {
	if props == nil {
		props = element.Props{}
	}
	b.props = props
}

// RefreshProps disposes the prop and computed mediators and rebuilds them
// from the current properties.
func (b *Base) RefreshProps() {
	b.disposeBindings()
	b.bindProps()
	b.bindComputed()
	b.bindEmits()
}

// OnDestroy registers fn to run when the component is destroyed.
func (b *Base) OnDestroy(fn func()) {
	b.onDestroy = append(b.onDestroy, fn)
}

// Destroy disposes every mediator the component owns. It is idempotent.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.disposeBindings()
	for _, fn := range b.onDestroy {
		fn()
	}
}

// Destroyed reports whether Destroy ran.
func (b *Base) Destroyed() bool {
	return b.destroyed
}

func (b *Base) disposeBindings() {
	for _, m := range b.propMediators {
		m.Dispose()
	}
	b.propMediators = nil
	for _, slot := range b.computed {
		slot.mediator.Dispose()
	}
}
