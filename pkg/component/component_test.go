package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

type widget struct {
	Base
}

func (w *widget) Render() any { return nil }

var _ element.Component = (*widget)(nil)

// watch counts notifications a fresh mediator receives for reads made by fn.
func watch(fn func()) *int {
	n := 0
	m := reactive.NewMediator(reactive.KindElement)
	reactive.Track(m, reactive.EffectProp, fn)
	m.Seal()
	m.Link(1, func(uint64, reactive.EffectTag) { n++ })
	return &n
}

func TestObservables(t *testing.T) {
	w := &widget{}
	w.Init(nil, Fields{Observables: []string{"count", "name"}}, map[string]any{"count": 1})

	assert.Equal(t, 1, w.Get("count"))
	assert.Nil(t, w.Get("name"))
	assert.Equal(t, []string{"count", "name"}, w.State().Keys())

	n := watch(func() { w.Get("count") })
	w.Set("count", 2)
	w.Set("count", 2)
	assert.Equal(t, 1, *n)
}

func TestPropsFollowSource(t *testing.T) {
	parent := reactive.NewField("a")
	w := &widget{}
	w.Init(element.Props{
		"label": func() any { return parent.Get() },
		"fixed": 3,
	}, Fields{Props: []string{"label", "fixed"}}, nil)

	assert.Equal(t, "a", w.Get("label"))
	assert.Equal(t, 3, w.Get("fixed"))

	n := watch(func() { w.Get("label") })
	parent.Set("b")
	assert.Equal(t, "b", w.Get("label"))
	assert.Equal(t, 1, *n)
}

func TestComputedCached(t *testing.T) {
	count := reactive.NewField(2)
	calls := 0
	w := &widget{}
	w.Init(nil, Fields{Computed: []ComputedField{{
		Name: "parity",
		Get: func() any {
			calls++
			if count.Get()%2 == 0 {
				return "even"
			}
			return "odd"
		},
		Cache: true,
	}}}, nil)

	assert.Equal(t, "even", w.Computed("parity"))
	assert.Equal(t, "even", w.Computed("parity"))
	assert.Equal(t, 1, calls)

	n := watch(func() { w.Computed("parity") })

	count.Set(4)
	assert.Equal(t, 2, calls, "recomputed eagerly")
	assert.Equal(t, 0, *n, "unchanged result does not notify")

	count.Set(5)
	assert.Equal(t, 1, *n)
	assert.Equal(t, "odd", w.Computed("parity"))
	assert.Equal(t, 3, calls)
}

func TestComputedUncachedAndDefault(t *testing.T) {
	calls := 0
	w := &widget{}
	w.Init(nil, Fields{Computed: []ComputedField{{
		Name:    "nothing",
		Get:     func() any { calls++; return nil },
		Default: "fallback",
	}}}, nil)

	assert.Equal(t, "fallback", w.Computed("nothing"))
	assert.Equal(t, "fallback", w.Computed("nothing"))
	assert.Equal(t, 2, calls)
	assert.Nil(t, w.Computed("undeclared"))
}

func TestEmits(t *testing.T) {
	var got []any
	w := &widget{}
	w.Init(element.Props{
		"changed": func(args ...any) { got = args },
		"single":  func(v any) { got = []any{v} },
	}, Fields{Emits: []string{"changed", "single", "missing"}}, nil)

	w.Emit("changed", 1, true)
	assert.Equal(t, []any{1, true}, got)
	w.Emit("single", "x")
	assert.Equal(t, []any{"x"}, got)

	assert.NotPanics(t, func() {
		w.Emit("missing", 1)
		w.Emit("undeclared")
	})
}

func TestRefreshProps(t *testing.T) {
	first := reactive.NewField(1)
	second := reactive.NewField(10)

	w := &widget{}
	w.Init(element.Props{"v": func() any { return first.Get() }}, Fields{Props: []string{"v"}}, nil)
	n := watch(func() { w.Get("v") })

	w.SetProps(element.Props{"v": func() any { return second.Get() }})
	w.RefreshProps()
	assert.Equal(t, 10, w.Get("v"))
	assert.Equal(t, 1, *n, "new source value reaches readers")

	first.Set(2)
	assert.Equal(t, 10, w.Get("v"), "old source is disconnected")

	second.Set(11)
	assert.Equal(t, 11, w.Get("v"))
	assert.Equal(t, 2, *n)
}

func TestDestroy(t *testing.T) {
	src := reactive.NewField(1)
	w := &widget{}
	w.Init(element.Props{"v": func() any { return src.Get() }}, Fields{Props: []string{"v"}}, nil)

	destroyed := 0
	w.OnDestroy(func() { destroyed++ })
	w.Destroy()
	w.Destroy()

	require.True(t, w.Destroyed())
	assert.Equal(t, 1, destroyed)

	src.Set(2)
	assert.Equal(t, 1, w.Get("v"), "disposed prop mediators stop pulling")
}

func TestNewType(t *testing.T) {
	ct := NewType("Widget", func(props element.Props) element.Component {
		w := &widget{}
		w.Init(props, Fields{}, nil)
		return w
	})
	assert.Equal(t, "Widget", ct.Name)
	assert.NotNil(t, ct.New(nil))
}
