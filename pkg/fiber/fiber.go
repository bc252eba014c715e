// Package fiber defines the mutable work tree the scheduler reconciles.
//
// Fibers form a singly linked sibling tree mirroring the element tree. There
// is exactly one live tree: reconciliation mutates fibers in place and tags
// them with the effect the commit phase must apply.
package fiber

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/target"
)

// Kind is the structural kind of a fiber.
type Kind uint8

const (
	KindRoot Kind = iota
	KindHost
	KindVirtual
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindHost:
		return "host"
	case KindVirtual:
		return "virtual"
	case KindComponent:
		return "component"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// EffectTag is the change the commit phase applies to a fiber.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectCreate
	EffectUpdate
	EffectReplace
	EffectDeletion
)

func (t EffectTag) String() string {
	switch t {
	case EffectNone:
		return "NONE"
	case EffectCreate:
		return "CREATE"
	case EffectUpdate:
		return "UPDATE"
	case EffectReplace:
		return "REPLACE"
	case EffectDeletion:
		return "DELETION"
	default:
		return fmt.Sprintf("EFFECT(%d)", uint8(t))
	}
}

// Scheduler receives the work units fibers request when their mediator
// fires.
type Scheduler interface {
	ScheduleFiber(f *Fiber)
}

// Fiber is one node of the work tree.
type Fiber struct {
	// ID is the id of the mediator currently linked to the fiber. Root
	// fibers have no mediator and draw their own.
	ID   uint64
	Kind Kind
	Type any

	Props    element.Props
	Children []*element.Element

	Parent  *Fiber
	Child   *Fiber
	Sibling *Fiber

	// Node is the output node of host, virtual and root fibers.
	Node     target.Node
	Instance element.Component

	Element  *element.Element
	Mediator *reactive.Mediator

	EffectTag EffectTag
	Effects   []*Fiber

	// Alternate is the fiber this one displaced by a type mismatch. It is
	// kept until commit so its output can be swapped out in place.
	Alternate *Fiber

	// PropsChanged marks a component fiber whose props must be pushed into
	// its instance on the next visit.
	PropsChanged bool

	// Dirty marks a fiber that adopted a new element during reconciliation;
	// its children must be reconciled on its next visit.
	Dirty bool

	torn      bool
	scheduler Scheduler
}

// NewRoot creates the root fiber of a mount.
func NewRoot(node target.Node, children []*element.Element) *Fiber {
	return &Fiber{
		ID:       reactive.NextID(),
		Kind:     KindRoot,
		Node:     node,
		Props:    element.Props{},
		Children: children,
	}
}

// KindOf returns the fiber kind an element reconciles into.
func KindOf(el *element.Element) Kind {
	switch {
	case el.Virtual:
		return KindVirtual
	case el.Component() != nil:
		return KindComponent
	default:
		return KindHost
	}
}

// New creates a fiber for el under parent, tagged CREATE.
func New(el *element.Element, parent *Fiber) *Fiber {
	return &Fiber{
		ID:        el.Mediator.ID,
		Kind:      KindOf(el),
		Type:      el.Type,
		Props:     el.Props,
		Children:  el.Children,
		Parent:    parent,
		Element:   el,
		Mediator:  el.Mediator,
		EffectTag: EffectCreate,
	}
}

// IsText reports whether the fiber renders a text node.
func (f *Fiber) IsText() bool {
	return f.Kind == KindHost && f.Type == element.TypeText
}

// TypeName returns a printable type.
func (f *Fiber) TypeName() string {
	if f.Kind == KindRoot {
		return "#root"
	}
	return element.TypeName(f.Type)
}

// Torn reports whether the fiber was torn down.
func (f *Fiber) Torn() bool {
	return f.torn
}

// Link subscribes the fiber to its mediator so notifications re-evaluate the
// affected part of the element and schedule work rooted at the fiber.
func (f *Fiber) Link(s Scheduler) {
	f.scheduler = s
	if f.Mediator != nil {
		f.Mediator.Link(f.ID, f.onNotify)
	}
}

// Adopt replaces the fiber's element with el of the same type, moving the
// mediator link to el's mediator. The previous mediator is disposed.
func (f *Fiber) Adopt(el *element.Element) {
	if old := f.Mediator; old != nil && old != el.Mediator {
		old.Unlink(f.ID)
		old.Dispose()
	}
	f.ID = el.Mediator.ID
	f.Element = el
	f.Mediator = el.Mediator
	f.Type = el.Type
	f.Props = el.Props
	f.Children = el.Children
	f.Dirty = true
	if f.Kind == KindComponent {
		f.PropsChanged = true
	}
	if f.scheduler != nil {
		f.Link(f.scheduler)
	}
}

func (f *Fiber) onNotify(depID uint64, bits reactive.EffectTag) {
	if f.torn {
		slog.Debug("notification for torn fiber", "code", "E040", "fiber", f.ID, "dep", depID)
		return
	}
	el := f.Element

	if bits&reactive.EffectType != 0 {
		f.Type = el.EvalType()
	}
	if bits&reactive.EffectProp != 0 {
		f.Props = el.EvalProps()
		if f.Kind == KindComponent {
			f.PropsChanged = true
		}
	}
	if bits&reactive.EffectChild != 0 && f.Kind == KindVirtual {
		f.Children = el.EvalChildren()
	}
	el.Mediator.Seal()

	if f.scheduler != nil {
		f.scheduler.ScheduleFiber(f)
	}
}

// Teardown releases the mediators and component instances of the subtree
// rooted at f. Output nodes are left for the commit phase.
func (f *Fiber) Teardown() {
	f.Walk(func(n *Fiber) bool {
		if n.torn {
			return false
		}
		n.torn = true
		if n.Mediator != nil {
			n.Mediator.Unlink(n.ID)
			n.Mediator.Dispose()
		}
		if n.Instance != nil {
			n.Instance.Destroy()
		}
		return true
	})
}

// Walk visits the subtree rooted at f depth first. Returning false from fn
// skips the children of the visited fiber.
func (f *Fiber) Walk(fn func(*Fiber) bool) {
	if !fn(f) {
		return
	}
	for c := f.Child; c != nil; c = c.Sibling {
		c.Walk(fn)
	}
}

// Root returns the topmost ancestor.
func (f *Fiber) Root() *Fiber {
	r := f
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// HostParent returns the nearest ancestor owning an output container: a host
// or root fiber.
func (f *Fiber) HostParent() *Fiber {
	for p := f.Parent; p != nil; p = p.Parent {
		if p.Kind == KindHost || p.Kind == KindRoot {
			return p
		}
	}
	return nil
}

// ChildList returns the children of f in order.
func (f *Fiber) ChildList() []*Fiber {
	var out []*Fiber
	for c := f.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

func (f *Fiber) String() string {
	var sb strings.Builder
	f.format(&sb, 0)
	return sb.String()
}

func (f *Fiber) format(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%s %s #%d", f.Kind, f.TypeName(), f.ID)
	if f.EffectTag != EffectNone {
		fmt.Fprintf(sb, " [%s]", f.EffectTag)
	}
	if f.IsText() {
		fmt.Fprintf(sb, " %q", target.Stringify(f.Props[target.KeyTextContent]))
	}
	sb.WriteByte('\n')
	for c := f.Child; c != nil; c = c.Sibling {
		c.format(sb, depth+1)
	}
}
