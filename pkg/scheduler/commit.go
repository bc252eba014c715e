package scheduler

import (
	"time"

	"github.com/vango-dev/weft/pkg/fiber"
	"github.com/vango-dev/weft/pkg/target"
)

// commitAllWork applies the effects collected at the commit root, announces
// the tree on ChannelInspector and resets the walk pointers.
func (s *Scheduler) commitAllWork() {
	s.state = StateCommit
	root := s.pending
	effects := root.Effects
	root.Effects = nil

	start := time.Now()
	counts := s.CommitEffects(effects)
	s.metrics.recordCommit(start.Sub(s.unitStart), time.Since(start))
	s.endUnitSpan(s.steps, counts)
	s.commits++

	s.logger.Debug("commit", "fiber", root.ID, "effects", len(effects), "steps", s.steps)

	_ = s.bus.Emit(ChannelInspector, root.Root())

	s.pending, s.next, s.target = nil, nil, nil
	if len(s.queue) > 0 {
		s.state = StateQueued
	} else {
		s.state = StateIdle
	}
}

// CommitEffects applies effects in order and settles every fiber to
// EffectNone. Settled fibers are skipped, so committing the same list twice
// changes nothing. It returns the number of effects applied per tag.
func (s *Scheduler) CommitEffects(effects []*fiber.Fiber) map[fiber.EffectTag]int {
	counts := make(map[fiber.EffectTag]int)
	for _, f := range effects {
		tag := f.EffectTag
		if tag == fiber.EffectNone {
			continue
		}
		s.commitWork(f)
		counts[tag]++
		s.metrics.recordEffect(tag)
	}
	return counts
}

func (s *Scheduler) commitWork(f *fiber.Fiber) {
	switch f.EffectTag {
	case fiber.EffectCreate:
		s.commitCreate(f)
	case fiber.EffectUpdate:
		if f.Kind == fiber.KindHost && f.Node != nil {
			s.adapter.UpdateAttributes(f.Node, toTarget(f))
		}
	case fiber.EffectReplace:
		if f.Kind == fiber.KindHost && f.Node != nil {
			s.commitReplace(f)
		}
	case fiber.EffectDeletion:
		s.removeNodes(f)
	}
	f.EffectTag = fiber.EffectNone
	f.Alternate = nil
}

func toTarget(f *fiber.Fiber) target.Props {
	return target.Props(f.Props)
}

func (s *Scheduler) createNode(f *fiber.Fiber) target.Node {
	if f.IsText() {
		return s.adapter.CreateText(target.Stringify(f.Props[target.KeyTextContent]))
	}
	return s.adapter.CreateNode(f.TypeName(), toTarget(f))
}

func (s *Scheduler) commitCreate(f *fiber.Fiber) {
	var node target.Node
	switch f.Kind {
	case fiber.KindVirtual:
		node = s.adapter.CreatePlaceholder()
	case fiber.KindHost:
		node = s.createNode(f)
	}

	if alt := f.Alternate; alt != nil {
		if node != nil && alt.Kind != fiber.KindComponent && alt.Kind != fiber.KindVirtual && alt.Node != nil {
			f.Node = node
			s.adapter.Replace(s.containerOf(f), alt.Node, node)
			return
		}
		s.removeNodes(alt)
	}

	if node == nil {
		return
	}
	f.Node = node
	s.insert(f, node)
}

// insert places node at f's position: before the first output node that
// follows f in document order, or at the end of its container.
func (s *Scheduler) insert(f *fiber.Fiber, node target.Node) {
	container := s.containerOf(f)
	if container == nil {
		s.logger.Warn("fiber has no host ancestor", "code", "E041", "fiber", f.ID, "type", f.TypeName())
		return
	}
	if ref := nextNode(f); ref != nil {
		s.adapter.InsertBefore(container, node, ref)
		return
	}
	s.adapter.Append(container, node)
}

// containerOf returns the output node f's nodes live in.
func (s *Scheduler) containerOf(f *fiber.Fiber) target.Node {
	if hp := f.HostParent(); hp != nil {
		return hp.Node
	}
	return nil
}

// nextNode finds the output node following f inside its container. A
// virtual ancestor's placeholder closes its content, so everything a virtual
// fiber produces is inserted before it.
func nextNode(f *fiber.Fiber) target.Node {
	for n := f; n.Parent != nil; n = n.Parent {
		for sib := n.Sibling; sib != nil; sib = sib.Sibling {
			if node := firstNode(sib); node != nil {
				return node
			}
		}
		switch n.Parent.Kind {
		case fiber.KindHost, fiber.KindRoot:
			return nil
		case fiber.KindVirtual:
			if n.Parent.Node != nil {
				return n.Parent.Node
			}
		}
	}
	return nil
}

// firstNode returns the first placed output node produced by f.
func firstNode(f *fiber.Fiber) target.Node {
	switch f.Kind {
	case fiber.KindHost:
		return f.Node
	case fiber.KindVirtual:
		for c := f.Child; c != nil; c = c.Sibling {
			if node := firstNode(c); node != nil {
				return node
			}
		}
		return f.Node
	case fiber.KindComponent:
		for c := f.Child; c != nil; c = c.Sibling {
			if node := firstNode(c); node != nil {
				return node
			}
		}
	}
	return nil
}

func (s *Scheduler) commitReplace(f *fiber.Fiber) {
	old := f.Node
	node := s.adapter.CreateNode(f.TypeName(), toTarget(f))
	s.adapter.MoveChildren(old, node)
	s.adapter.Replace(s.containerOf(f), old, node)
	f.Node = node
}

// removeNodes removes the output of f. A host node takes its descendants
// with it; component and virtual fibers are descended transparently.
func (s *Scheduler) removeNodes(f *fiber.Fiber) {
	switch f.Kind {
	case fiber.KindHost:
		if f.Node != nil {
			s.adapter.Remove(s.containerOf(f), f.Node)
			f.Node = nil
		}
	case fiber.KindVirtual, fiber.KindComponent:
		for c := f.Child; c != nil; c = c.Sibling {
			s.removeNodes(c)
		}
		if f.Node != nil {
			s.adapter.Remove(s.containerOf(f), f.Node)
			f.Node = nil
		}
	}
}
