package reactive

import (
	"log/slog"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vango-dev/weft/pkg/channel"
)

// EffectTag classifies what a dependency read produced during evaluation.
type EffectTag uint8

const (
	// EffectType marks reads made while producing an element type.
	EffectType EffectTag = 1 << iota
	// EffectProp marks reads made while producing element properties.
	EffectProp
	// EffectChild marks reads made while producing a child slot.
	EffectChild
)

// Has reports whether every bit of flag is set.
func (t EffectTag) Has(flag EffectTag) bool {
	return flag != 0 && t&flag == flag
}

func (t EffectTag) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	if t&EffectType != 0 {
		parts = append(parts, "type")
	}
	if t&EffectProp != 0 {
		parts = append(parts, "prop")
	}
	if t&EffectChild != 0 {
		parts = append(parts, "child")
	}
	return strings.Join(parts, "|")
}

// Kind distinguishes data mediators from element mediators.
type Kind uint8

const (
	// KindElement links dependencies to part of an element.
	KindElement Kind = iota
	// KindData links dependencies to a derived field.
	KindData
)

func (k Kind) String() string {
	if k == KindData {
		return "data"
	}
	return "element"
}

// UpdateFunc receives the id of the dependency that changed and the sealed
// bits this mediator attributed to it.
type UpdateFunc func(depID uint64, tag EffectTag)

// Mediator correlates a derived computation with the dependencies it read.
//
// Reads inside Track accumulate into the relations map. Seal then subscribes
// the mediator to each captured dependency with a snapshot of its bits. When a
// dependency fires, the mediator merges the bits into Pending and emits
// (depID, bits) on its own channel, where linked subscribers (fibers,
// component fields) react.
type Mediator struct {
	ID   uint64
	Kind Kind

	// Pending holds bits announced since the scheduler last consumed them.
	Pending EffectTag

	relations map[uint64]EffectTag
	sources   mapset.Set[uint64]
	disposed  bool
}

// NewMediator creates a mediator and opens its channel.
func NewMediator(kind Kind) *Mediator {
	m := &Mediator{
		ID:        NextID(),
		Kind:      kind,
		relations: make(map[uint64]EffectTag),
		sources:   mapset.NewThreadUnsafeSet[uint64](),
	}
	channel.Open(m.ID)
	return m
}

// capture records that dep was read with tag. Multiple reads merge.
func (m *Mediator) capture(depID uint64, tag EffectTag) {
	if m.disposed {
		return
	}
	m.relations[depID] |= tag
}

// release drops tag from every relation before tag is captured again, so
// the relations reflect only the latest evaluation of each part.
func (m *Mediator) release(tag EffectTag) {
	if m.disposed {
		return
	}
	for depID, bits := range m.relations {
		if bits &^= tag; bits == 0 {
			delete(m.relations, depID)
		} else {
			m.relations[depID] = bits
		}
	}
}

// Seal subscribes the mediator to every captured dependency and unsubscribes
// it from dependencies no longer read. Each subscription closes over a copy
// of the bits for that dependency, so later captures only take effect on the
// next Seal.
func (m *Mediator) Seal() {
	if m.disposed {
		return
	}
	for _, depID := range m.sources.ToSlice() {
		if m.relations[depID] == 0 {
			_ = channel.Unsubscribe(depID, m.ID)
			m.sources.Remove(depID)
		}
	}
	for depID, bits := range m.relations {
		depID, bits := depID, bits
		channel.Subscribe(depID, m.ID, func(...any) {
			m.notify(depID, bits)
		})
		m.sources.Add(depID)
	}
}

func (m *Mediator) notify(depID uint64, bits EffectTag) {
	if m.disposed {
		slog.Debug("stale mediator notification", "code", "E040", "mediator", m.ID, "dep", depID)
		return
	}
	m.Pending |= bits
	_ = channel.Emit(m.ID, depID, bits)
}

// Relations returns a copy of the captured dependency bits.
func (m *Mediator) Relations() map[uint64]EffectTag {
	out := make(map[uint64]EffectTag, len(m.relations))
	for k, v := range m.relations {
		out[k] = v
	}
	return out
}

// Sources returns the ids of the dependencies the mediator is subscribed to.
func (m *Mediator) Sources() []uint64 {
	ids := m.sources.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Link registers fn under subscriberID, replacing any earlier link with the
// same id.
func (m *Mediator) Link(subscriberID uint64, fn UpdateFunc) {
	if m.disposed || fn == nil {
		return
	}
	channel.Subscribe(m.ID, subscriberID, func(args ...any) {
		depID, _ := args[0].(uint64)
		bits, _ := args[1].(EffectTag)
		fn(depID, bits)
	})
}

// Unlink removes the link registered under subscriberID.
func (m *Mediator) Unlink(subscriberID uint64) {
	_ = channel.Unsubscribe(m.ID, subscriberID)
}

// ConsumePending returns the pending bits and clears them.
func (m *Mediator) ConsumePending() EffectTag {
	bits := m.Pending
	m.Pending = 0
	return bits
}

// Dispose unsubscribes from every dependency and closes the mediator's
// channel. Notifications already in flight are ignored.
func (m *Mediator) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.sources.Each(func(depID uint64) bool {
		_ = channel.Unsubscribe(depID, m.ID)
		return false
	})
	m.sources.Clear()
	channel.Close(m.ID)
}

// Disposed reports whether Dispose has been called.
func (m *Mediator) Disposed() bool {
	return m.disposed
}
