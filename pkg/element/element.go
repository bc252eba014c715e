package element

import (
	"fmt"

	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/target"
)

// Marker types for elements that are not tags or components.
const (
	TypeText    = "#text"
	TypeVirtual = "#virtual"
)

// Props is an element's property mapping.
type Props map[string]any

// PropFunc produces an element's properties.
type PropFunc func() Props

// TypeFunc produces an element's type: a tag name or a *ComponentType.
type TypeFunc func() any

// Component is a stateful instance rendered by a component fiber.
type Component interface {
	// Render returns the instance's output; it is normalized with Flatten.
	Render() any
	// SetProps replaces the properties the instance was created with.
	SetProps(props Props)
	// RefreshProps rebuilds prop and computed bindings after SetProps.
	RefreshProps()
	// Destroy releases the instance's mediators.
	Destroy()
}

// ComponentType is the constructor of a component. Types are compared by
// pointer.
type ComponentType struct {
	Name string
	New  func(props Props) Component
}

func (c *ComponentType) String() string {
	return c.Name
}

// Meta keeps the functions an element was evaluated from, so a notification
// can re-evaluate just the affected part.
type Meta struct {
	Type  TypeFunc
	Props PropFunc
	Child func() any
}

// Element describes one node of a render.
type Element struct {
	// Type is a tag name, TypeText, TypeVirtual or a *ComponentType.
	Type     any
	Props    Props
	Children []*Element
	Virtual  bool
	Mediator *reactive.Mediator
	Meta     Meta
}

// IsText reports whether the element is a text leaf.
func (e *Element) IsText() bool {
	return e.Type == TypeText
}

// Component returns the component type, or nil for other elements.
func (e *Element) Component() *ComponentType {
	c, _ := e.Type.(*ComponentType)
	return c
}

// TypeName returns a printable name of the element type.
func (e *Element) TypeName() string {
	return TypeName(e.Type)
}

// TypeName returns a printable name of an element type value.
func TypeName(typ any) string {
	switch t := typ.(type) {
	case string:
		return t
	case *ComponentType:
		return t.Name
	default:
		return fmt.Sprintf("%T", typ)
	}
}

// H creates an element. typ is a tag name, a *ComponentType or a type
// function; props may be nil.
func H(typ any, props PropFunc, children ...any) *Element {
	el := &Element{
		Props:    Props{},
		Mediator: reactive.NewMediator(reactive.KindElement),
	}

	switch t := typ.(type) {
	case string:
		el.Type = t
	case *ComponentType:
		el.Type = t
	case TypeFunc:
		el.Meta.Type = t
	case func() any:
		el.Meta.Type = t
	case func() string:
		el.Meta.Type = func() any { return t() }
	default:
		panic(werrors.New("E031").WithDetailf("element type %T", typ))
	}

	if el.Meta.Type != nil {
		el.EvalType()
	}
	if props != nil {
		el.Meta.Props = props
		el.EvalProps()
	}
	el.Children = Children(children...)
	el.Mediator.Seal()
	return el
}

// EvalType re-evaluates the type function, tracking reads with the Type bit.
func (e *Element) EvalType() any {
	if e.Meta.Type == nil {
		return e.Type
	}
	typ := reactive.Capture(e.Mediator, reactive.EffectType, func() any { return e.Meta.Type() })
	switch typ.(type) {
	case string, *ComponentType:
	default:
		panic(werrors.New("E031").WithDetailf("type function returned %T", typ))
	}
	e.Type = typ
	return typ
}

// EvalProps re-evaluates the property function, tracking reads with the
// Prop bit.
func (e *Element) EvalProps() Props {
	if e.Meta.Props == nil {
		return e.Props
	}
	props := reactive.Capture(e.Mediator, reactive.EffectProp, func() Props { return e.Meta.Props() })
	if props == nil {
		props = Props{}
	}
	e.Props = props
	return props
}

// EvalChildren re-evaluates the child function of a virtual element,
// tracking reads with the Child bit.
func (e *Element) EvalChildren() []*Element {
	if e.Meta.Child == nil {
		return e.Children
	}
	e.Children = reactive.Capture(e.Mediator, reactive.EffectChild, func() []*Element {
		return Flatten(e.Meta.Child())
	})
	return e.Children
}

// Refresh re-evaluates the parts of e whose dependencies changed while no
// fiber was linked to its mediator, consuming the pending bits. It returns
// the bits it applied.
func (e *Element) Refresh() reactive.EffectTag {
	if e.Mediator == nil {
		return 0
	}
	bits := e.Mediator.ConsumePending()
	if bits == 0 {
		return 0
	}
	if bits&reactive.EffectType != 0 {
		e.EvalType()
	}
	if bits&reactive.EffectProp != 0 {
		e.EvalProps()
	}
	if bits&reactive.EffectChild != 0 {
		e.EvalChildren()
	}
	e.Mediator.Seal()
	return bits
}

// Children normalizes H's variadic children.
func Children(children ...any) []*Element {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Element, 0, len(children))
	for _, c := range children {
		out = appendChild(out, c)
	}
	return out
}

// Flatten normalizes a render result to a flat element list. Functions
// become virtual elements, slices are flattened, nil is dropped and any other
// value becomes a text element.
func Flatten(v any) []*Element {
	return appendChild(nil, v)
}

func appendChild(out []*Element, c any) []*Element {
	switch v := c.(type) {
	case nil:
		return out
	case *Element:
		if v == nil {
			return out
		}
		return append(out, v)
	case []*Element:
		for _, el := range v {
			out = appendChild(out, el)
		}
		return out
	case []any:
		for _, item := range v {
			out = appendChild(out, item)
		}
		return out
	case *reactive.List:
		for _, item := range v.Values() {
			out = appendChild(out, item)
		}
		return out
	case func() any:
		return append(out, Virtual(v))
	case func() string:
		return append(out, Virtual(func() any { return v() }))
	case func() *Element:
		return append(out, Virtual(func() any { return v() }))
	case func() []*Element:
		return append(out, Virtual(func() any { return v() }))
	default:
		return append(out, TextValue(c))
	}
}

// Virtual creates a virtual element whose children are produced by fn.
func Virtual(fn func() any) *Element {
	el := &Element{
		Type:     TypeVirtual,
		Props:    Props{},
		Virtual:  true,
		Mediator: reactive.NewMediator(reactive.KindElement),
		Meta:     Meta{Child: fn},
	}
	el.EvalChildren()
	el.Mediator.Seal()
	return el
}

// TextValue creates a static text element.
func TextValue(v any) *Element {
	return &Element{
		Type:     TypeText,
		Props:    Props{target.KeyTextContent: target.Stringify(v)},
		Mediator: reactive.NewMediator(reactive.KindElement),
	}
}

// Text creates a text element whose content is produced by fn and patched in
// place when the values it read change.
func Text(fn func() any) *Element {
	el := &Element{
		Type:     TypeText,
		Mediator: reactive.NewMediator(reactive.KindElement),
		Meta: Meta{Props: func() Props {
			return Props{target.KeyTextContent: target.Stringify(fn())}
		}},
	}
	el.EvalProps()
	el.Mediator.Seal()
	return el
}

// Attrs returns a PropFunc producing a fixed property mapping.
func Attrs(p Props) PropFunc {
	return func() Props { return p }
}
