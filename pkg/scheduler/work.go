package scheduler

import (
	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/fiber"
	"github.com/vango-dev/weft/pkg/reactive"
)

// beginWork processes f and reports whether the walk should descend into
// its children.
func (s *Scheduler) beginWork(f *fiber.Fiber) bool {
	switch f.Kind {
	case fiber.KindRoot:
		s.reconcileChildren(f, f.Children)
		return true
	case fiber.KindVirtual:
		if f.Mediator != nil {
			f.Mediator.ConsumePending()
		}
		f.Dirty = false
		s.reconcileChildren(f, f.Children)
		return true
	case fiber.KindComponent:
		return s.updateComponent(f)
	default:
		return s.updateHost(f)
	}
}

func (s *Scheduler) updateHost(f *fiber.Fiber) bool {
	if f.Node == nil {
		f.EffectTag = fiber.EffectCreate
	} else if f.Mediator != nil {
		bits := f.Mediator.ConsumePending()
		switch {
		case bits&reactive.EffectType != 0 && !f.IsText():
			f.EffectTag = fiber.EffectReplace
		case bits&reactive.EffectProp != 0 && f.EffectTag == fiber.EffectNone:
			f.EffectTag = fiber.EffectUpdate
		}
	}

	// An existing node whose element did not change keeps its children:
	// their own mediators schedule them.
	if f.Node != nil && !f.Dirty {
		return false
	}
	f.Dirty = false
	s.reconcileChildren(f, f.Children)
	return true
}

func (s *Scheduler) updateComponent(f *fiber.Fiber) bool {
	ct, ok := f.Type.(*element.ComponentType)
	if !ok || ct.New == nil {
		panic(werrors.New("E031").WithDetailf("component fiber %d has type %s", f.ID, f.TypeName()))
	}

	var bits reactive.EffectTag
	if f.Mediator != nil {
		bits = f.Mediator.ConsumePending()
	}
	if f.Instance != nil && bits&reactive.EffectType != 0 {
		f.Instance.Destroy()
		f.Instance = nil
	}

	render := false
	switch {
	case f.Instance == nil:
		f.Instance = ct.New(f.Props)
		f.PropsChanged = false
		render = true
	case f.PropsChanged:
		f.PropsChanged = false
		f.Instance.SetProps(f.Props)
		f.Instance.RefreshProps()
		render = true
	case bits&reactive.EffectChild != 0:
		render = true
	}
	f.Dirty = false
	if !render {
		return false
	}

	var children []*element.Element
	reactive.Track(f.Mediator, reactive.EffectChild, func() {
		children = element.Flatten(f.Instance.Render())
	})
	if f.Mediator != nil {
		f.Mediator.Seal()
	}
	s.reconcileChildren(f, children)
	return true
}

// completeWork bubbles f and its effects into its parent, or finalizes f as
// the commit root when it is the walk target.
func (s *Scheduler) completeWork(f *fiber.Fiber) {
	if f == s.target {
		if f.EffectTag != fiber.EffectNone {
			f.Effects = append(f.Effects, f)
		}
		s.pending = f
		s.state = StateComplete
		return
	}

	p := f.Parent
	if p == nil {
		return
	}
	if f.EffectTag != fiber.EffectNone {
		p.Effects = append(p.Effects, f)
	}
	p.Effects = append(p.Effects, f.Effects...)
	f.Effects = nil
}

// reconcileChildren matches parent's current children against elements by
// position.
func (s *Scheduler) reconcileChildren(parent *fiber.Fiber, elements []*element.Element) {
	old := parent.Child
	var prev *fiber.Fiber

	for i := 0; old != nil || i < len(elements); i++ {
		var el *element.Element
		if i < len(elements) {
			el = elements[i]
		}
		var oldNext *fiber.Fiber
		if old != nil {
			oldNext = old.Sibling
		}
		if el != nil && (old == nil || old.Mediator != el.Mediator) {
			// Writes made before a fiber linked the element only marked
			// its mediator.
			el.Refresh()
		}

		var next *fiber.Fiber
		switch {
		case old != nil && el != nil && sameType(old, el):
			if old.Mediator != el.Mediator {
				old.Adopt(el)
				if old.EffectTag == fiber.EffectNone {
					old.EffectTag = fiber.EffectUpdate
				}
			}
			next = old

		case old != nil && el == nil:
			old.EffectTag = fiber.EffectDeletion
			old.Teardown()
			parent.Effects = append(parent.Effects, old)
			if prev != nil {
				prev.Sibling = nil
			}

		default:
			next = fiber.New(el, parent)
			next.Link(s)
			if old != nil {
				// The displaced fiber is not tagged DELETION; its output is
				// swapped for the new fiber's at commit.
				next.Alternate = old
				old.Teardown()
			}
		}

		if i == 0 {
			parent.Child = next
		} else if prev != nil && next != nil {
			prev.Sibling = next
		}
		if next != nil {
			prev = next
		}
		old = oldNext
	}
	if prev != nil && len(elements) > 0 {
		// The last produced fiber may still point at a displaced sibling.
		prev.Sibling = nil
	}
}

func sameType(f *fiber.Fiber, el *element.Element) bool {
	return f.Kind == fiber.KindOf(el) && f.Type == el.Type
}
