package inspector

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/weft/pkg/channel"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/scheduler"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

type fixture struct {
	doc   *htmldom.Document
	sched *scheduler.Scheduler
	bus   *channel.Bus
	in    *Inspector
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{doc: htmldom.New(), bus: channel.New()}
	f.sched = scheduler.New(scheduler.Config{Adapter: f.doc, Bus: f.bus, Logger: quiet()})
	f.in = Attach(Config{Bus: f.bus, Logger: quiet()})
	return f
}

func (f *fixture) mount(t *testing.T, els ...*element.Element) {
	t.Helper()
	require.NoError(t, f.sched.Mount(f.doc.Body(), els...))
	f.sched.Flush()
}

func TestSnapshotAfterCommit(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.in.Latest())

	f.mount(t, element.Div(element.Attrs(element.Props{
		"class":   []string{"a", "b"},
		"onClick": func() {},
		"id":      "main",
	}), "hi"))

	snap := f.in.Latest()
	require.NotNil(t, snap)
	assert.Equal(t, uint64(1), snap.Sequence)
	assert.Equal(t, 3, snap.Fibers)
	assert.Equal(t, "#root", snap.Root.Type)
	assert.Equal(t, "root", snap.Root.Kind)

	div := snap.Root.Children[0]
	assert.Equal(t, "div", div.Type)
	assert.Equal(t, "a b", div.Props["class"])
	assert.Equal(t, "ƒ", div.Props["onClick"])
	assert.Equal(t, "main", div.Props["id"])
	assert.Empty(t, div.Effect, "snapshots are taken after effects settle")

	text := div.Children[0]
	assert.Equal(t, "hi", text.Text)
	assert.Nil(t, text.Props)
	assert.Same(t, text, snap.Find(text.ID))
	assert.Nil(t, snap.Find(0))
}

func TestFingerprintTracksChanges(t *testing.T) {
	f := newFixture(t)
	x := reactive.NewField(1)
	f.mount(t, element.P(
		func() element.Props { return element.Props{"title": x.Get()} },
		func() any { return x.Peek() },
	))
	first := f.in.Latest().Fingerprint

	x.Set(2)
	f.sched.Flush()
	second := f.in.Latest()
	assert.NotEqual(t, first, second.Fingerprint)
	assert.Equal(t, uint64(2), second.Sequence)
	assert.Equal(t, second.Fingerprint, Fingerprint(second.Root), "fingerprint is deterministic")
}

func TestListenersAndDetach(t *testing.T) {
	f := newFixture(t)
	var seen []uint64
	f.in.OnSnapshot(func(s *Snapshot) { seen = append(seen, s.Sequence) })

	n := reactive.NewField("a")
	f.mount(t, element.P(nil, func() any { return n.Get() }))
	n.Set("b")
	f.sched.Flush()
	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, uint64(2), f.in.Count())

	require.NoError(t, f.in.Detach())
	n.Set("c")
	f.sched.Flush()
	assert.Len(t, seen, 2)
}

func TestCaptureNil(t *testing.T) {
	s := Capture(nil)
	assert.Nil(t, s.Root)
	assert.Zero(t, s.Fibers)
	s.Walk(func(*Node, int) { t.Fatal("nothing to walk") })
}

func TestTable(t *testing.T) {
	f := newFixture(t)
	f.mount(t, element.Ul(element.Attrs(element.Props{"id": "list"}), element.Li(nil, "one")))

	out := Table(f.in.Latest())
	assert.Contains(t, out, "commit #1 (4 fibers)")
	assert.Contains(t, out, "#root")
	assert.Contains(t, out, "ul")
	assert.Contains(t, out, "id=list")
	assert.Contains(t, out, `"one"`)
	assert.Contains(t, out, "host")
}
