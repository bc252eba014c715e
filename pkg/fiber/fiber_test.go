package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

type recorder struct {
	scheduled []*Fiber
}

func (r *recorder) ScheduleFiber(f *Fiber) {
	r.scheduled = append(r.scheduled, f)
}

type stub struct {
	destroyed int
}

func (s *stub) Render() any                  { return nil }
func (s *stub) SetProps(props element.Props) {}
func (s *stub) RefreshProps()                {}
func (s *stub) Destroy()                     { s.destroyed++ }

var stubType = &element.ComponentType{
	Name: "Stub",
	New:  func(element.Props) element.Component { return &stub{} },
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindHost, KindOf(element.Div(nil)))
	assert.Equal(t, KindHost, KindOf(element.TextValue("x")))
	assert.Equal(t, KindVirtual, KindOf(element.Virtual(func() any { return nil })))
	assert.Equal(t, KindComponent, KindOf(element.H(stubType, nil)))
}

func TestNewFiber(t *testing.T) {
	el := element.Div(element.Attrs(element.Props{"id": "a"}), "x")
	root := NewRoot("body", []*element.Element{el})
	f := New(el, root)

	assert.Equal(t, el.Mediator.ID, f.ID)
	assert.Equal(t, EffectCreate, f.EffectTag)
	assert.Equal(t, "div", f.TypeName())
	assert.Equal(t, "#root", root.TypeName())
	assert.Equal(t, "a", f.Props["id"])
	assert.Len(t, f.Children, 1)
	assert.Same(t, root, f.Root())
	assert.Same(t, root, f.HostParent())
	assert.Nil(t, root.HostParent())
	assert.True(t, New(element.TextValue("x"), f).IsText())
	assert.False(t, f.IsText())
}

func TestPropNotificationSchedules(t *testing.T) {
	title := reactive.NewField("a")
	el := element.P(func() element.Props { return element.Props{"title": title.Get()} })
	f := New(el, nil)
	rec := &recorder{}
	f.Link(rec)

	title.Set("b")
	require.Len(t, rec.scheduled, 1)
	assert.Same(t, f, rec.scheduled[0])
	assert.Equal(t, "b", f.Props["title"])
	assert.Equal(t, reactive.EffectProp, el.Mediator.Pending)

	title.Set("c")
	assert.Len(t, rec.scheduled, 2, "subscriptions are resealed")
}

func TestTypeNotificationReevaluatesType(t *testing.T) {
	big := reactive.NewField(false)
	el := element.H(func() string {
		if big.Get() {
			return "h1"
		}
		return "p"
	}, nil)
	f := New(el, nil)
	f.Link(&recorder{})

	big.Set(true)
	assert.Equal(t, "h1", f.Type)
}

func TestVirtualChildNotification(t *testing.T) {
	n := reactive.NewField(1)
	el := element.Virtual(func() any {
		out := []any{}
		for i := 0; i < n.Get(); i++ {
			out = append(out, i)
		}
		return out
	})
	f := New(el, nil)
	rec := &recorder{}
	f.Link(rec)
	require.Len(t, f.Children, 1)

	n.Set(3)
	assert.Len(t, f.Children, 3)
	assert.Len(t, rec.scheduled, 1)
}

func TestAdopt(t *testing.T) {
	old := element.Div(nil, "a")
	f := New(old, nil)
	rec := &recorder{}
	f.Link(rec)
	f.EffectTag = EffectNone

	next := element.Div(element.Attrs(element.Props{"id": "x"}), "b")
	f.Adopt(next)

	assert.True(t, old.Mediator.Disposed())
	assert.Same(t, next.Mediator, f.Mediator)
	assert.Equal(t, next.Mediator.ID, f.ID)
	assert.Same(t, next, f.Element)
	assert.Equal(t, "x", f.Props["id"])
	assert.True(t, f.Dirty)
	assert.False(t, f.PropsChanged)

	// The relinked mediator reaches the fiber under its new id.
	rec.scheduled = nil
	require.NoError(t, channel.Emit(next.Mediator.ID, uint64(0), reactive.EffectProp))
	require.Len(t, rec.scheduled, 1)
	assert.Same(t, f, rec.scheduled[0])

	comp := New(element.H(stubType, nil), nil)
	comp.Adopt(element.H(stubType, element.Attrs(element.Props{"n": 1})))
	assert.True(t, comp.PropsChanged)
}

func TestTeardown(t *testing.T) {
	parent := New(element.Div(nil), nil)
	child := New(element.H(stubType, nil), parent)
	parent.Child = child
	inst := &stub{}
	child.Instance = inst
	rec := &recorder{}
	child.Link(rec)

	parent.Teardown()
	assert.True(t, parent.Torn())
	assert.True(t, child.Torn())
	assert.True(t, child.Mediator.Disposed())
	assert.Equal(t, 1, inst.destroyed)

	parent.Teardown()
	assert.Equal(t, 1, inst.destroyed, "teardown is idempotent")
}

func TestTornFiberIgnoresNotifications(t *testing.T) {
	text := reactive.NewField("a")
	el := element.P(func() element.Props { return element.Props{"title": text.Get()} })
	f := New(el, nil)
	rec := &recorder{}
	f.Link(rec)

	f.torn = true
	f.onNotify(1, reactive.EffectProp)
	assert.Empty(t, rec.scheduled)
	assert.Equal(t, "a", f.Props["title"])
}

func TestWalkAndString(t *testing.T) {
	root := NewRoot("body", nil)
	div := New(element.Div(nil), root)
	text := New(element.TextValue("hi"), div)
	span := New(element.Span(nil), root)
	root.Child = div
	div.Child = text
	div.Sibling = span
	div.EffectTag = EffectNone
	text.EffectTag = EffectNone

	var visited []string
	root.Walk(func(f *Fiber) bool {
		visited = append(visited, f.TypeName())
		return f != div
	})
	assert.Equal(t, []string{"#root", "div", "span"}, visited)
	assert.Equal(t, []*Fiber{div, span}, root.ChildList())

	out := root.String()
	assert.Contains(t, out, "root #root")
	assert.Contains(t, out, "  host div")
	assert.Contains(t, out, "    host #text")
	assert.Contains(t, out, `"hi"`)
	assert.Contains(t, out, "host span")
	assert.Contains(t, out, "[CREATE]")
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "virtual", KindVirtual.String())
	assert.Equal(t, "DELETION", EffectDeletion.String())
	assert.Equal(t, "EFFECT(9)", EffectTag(9).String())
}
