package demo

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/vango-dev/weft"
	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/target"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

type nonHTML struct{ target.Adapter }

func newApp(t *testing.T) (*weft.App, *htmldom.Document) {
	t.Helper()
	doc := htmldom.New()
	cfg := weft.DefaultConfig()
	cfg.Adapter = doc
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return weft.New(cfg), doc
}

func text(t *testing.T, doc *htmldom.Document, selector string) string {
	t.Helper()
	n, err := doc.Find(selector)
	require.NoError(t, err)
	return htmldom.TextContent(n)
}

func texts(doc *htmldom.Document, selector string) []string {
	var out []string
	for _, n := range doc.FindAll(selector) {
		out = append(out, htmldom.TextContent(n))
	}
	return out
}

func checked(n *html.Node) bool {
	_, ok := htmldom.Attr(n, "checked")
	return ok
}

func TestLookup(t *testing.T) {
	s, err := Lookup("todo")
	require.NoError(t, err)
	assert.Equal(t, "todo", s.Name)
	assert.NotEmpty(t, s.Steps)

	_, err = Lookup("nope")
	var werr *werrors.Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "E060", werr.Code)
	assert.Contains(t, werr.Suggestion, "counter")

	assert.Equal(t, []string{"counter", "todo"}, Names())
}

func TestCounterScenario(t *testing.T) {
	app, doc := newApp(t)
	s, err := Lookup("counter")
	require.NoError(t, err)

	var counts, classes []string
	err = s.Run(app, func(step Step, markup string) {
		n, err := doc.Find("#count")
		require.NoError(t, err)
		class, _ := htmldom.Attr(n, "class")
		counts = append(counts, htmldom.TextContent(n))
		classes = append(classes, class)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2", "1"}, counts)
	assert.Equal(t, []string{"even", "odd", "even", "odd"}, classes)
}

func TestCounterPatchesInPlace(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("counter")
	_, err := s.Mount(app)
	require.NoError(t, err)

	doc.ResetStats()
	require.NoError(t, doc.DispatchSelector("#inc", "click"))
	app.Flush()

	stats := doc.Stats()
	assert.Equal(t, 1, stats.TextWrites)
	assert.Equal(t, 1, stats.AttrWrites)
	assert.Zero(t, stats.Created)
	assert.Zero(t, stats.Removes)
	assert.Zero(t, stats.Replaces)
}

func TestTodoInitialRender(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	assert.Equal(t, "Hello World, Doge!", text(t, doc, "h1"))
	assert.Equal(t, "My Todos", text(t, doc, "h3"))
	assert.Equal(t, []string{
		"RemoveRead a book",
		"RemoveWrite code",
		"RemoveWatch a movie",
	}, texts(doc, ".todo"))

	works := doc.FindAll(".work")
	require.Len(t, works, 3)
	v, _ := htmldom.Attr(works[1], "value")
	assert.Equal(t, "Write code", v)

	boxes := doc.FindAll(".important")
	require.Len(t, boxes, 3)
	assert.True(t, checked(boxes[0]))
	assert.True(t, checked(boxes[1]))
	assert.False(t, checked(boxes[2]))

	happy, err := doc.Find("#happy")
	require.NoError(t, err)
	assert.True(t, checked(happy))
}

func TestTodoRenameAndAdd(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	require.NoError(t, doc.DispatchSelector("#name", "input", "Shiba"))
	app.Flush()
	assert.Equal(t, "Hello World, Shiba!", text(t, doc, "h1"))

	require.NoError(t, doc.DispatchSelector("#draft", "input", "Walk the dog"))
	require.NoError(t, doc.DispatchSelector("#add", "click"))
	app.Flush()

	rows := texts(doc, ".todo")
	require.Len(t, rows, 4)
	assert.Equal(t, "RemoveWalk the dog", rows[3])
	assert.Len(t, doc.FindAll(".work"), 4)

	draft, err := doc.Find("#draft")
	require.NoError(t, err)
	v, _ := htmldom.Attr(draft, "value")
	assert.Empty(t, v)
}

func TestTodoAddIgnoresEmptyDraft(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	require.NoError(t, doc.DispatchSelector("#add", "click"))
	app.Flush()
	assert.Len(t, doc.FindAll(".todo"), 3)
}

func TestTodoRemove(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	require.NoError(t, doc.DispatchSelector(".remove", "click"))
	app.Flush()

	assert.Equal(t, []string{"RemoveWrite code", "RemoveWatch a movie"}, texts(doc, ".todo"))
	assert.Len(t, doc.FindAll(".work"), 2)

	// Handlers were rebound to the new positions.
	require.NoError(t, doc.DispatchSelector(".remove", "click"))
	app.Flush()
	assert.Equal(t, []string{"RemoveWatch a movie"}, texts(doc, ".todo"))
}

func TestTodoEmitUpdatesParentState(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	require.NoError(t, doc.DispatchSelector(".important", "change", false))
	app.Flush()

	boxes := doc.FindAll(".important")
	require.Len(t, boxes, 3)
	assert.False(t, checked(boxes[0]))
	assert.True(t, checked(boxes[1]))
}

func TestTodoUnhappySwapsHeadingAndData(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	require.NoError(t, doc.DispatchSelector("#happy", "input", false))
	app.Flush()

	_, err = doc.Find("h1")
	assert.ErrorIs(t, err, htmldom.ErrNotFound)
	assert.Equal(t, []string{"Hello World, Doge!", "My Todos"}, texts(doc, "h3"))
	for _, row := range texts(doc, ".todo") {
		assert.Equal(t, "Remove_(:з」∠)_", row)
	}

	require.NoError(t, doc.DispatchSelector("#happy", "input", true))
	app.Flush()
	assert.Equal(t, "Hello World, Doge!", text(t, doc, "h1"))
	assert.Equal(t, "RemoveRead a book", texts(doc, ".todo")[0])
}

func TestTodoScenarioRuns(t *testing.T) {
	app, _ := newApp(t)
	s, _ := Lookup("todo")

	var steps []string
	var last string
	err := s.Run(app, func(step Step, markup string) {
		steps = append(steps, step.Name)
		last = markup
	})
	require.NoError(t, err)

	assert.Len(t, steps, len(s.Steps)+1)
	assert.Empty(t, steps[0])
	assert.Contains(t, last, "Hello World, Shiba!")
	assert.Contains(t, last, "Walk the dog")
	assert.NotContains(t, last, "Read a book")
}

func TestStepApplyAll(t *testing.T) {
	app, doc := newApp(t)
	s, _ := Lookup("todo")
	_, err := s.Mount(app)
	require.NoError(t, err)

	step := Step{Selector: ".important", Event: "change", Args: []any{true}, All: true}
	require.NoError(t, step.Apply(doc))
	app.Flush()
	for _, box := range doc.FindAll(".important") {
		assert.True(t, checked(box))
	}

	err = Step{Selector: ".missing", Event: "click", All: true}.Apply(doc)
	assert.ErrorIs(t, err, htmldom.ErrNotFound)
}

func TestRunNeedsDocument(t *testing.T) {
	s, _ := Lookup("counter")
	err := s.Run(weft.New(weft.Config{Adapter: nonHTML{}}), nil)
	assert.Error(t, err)
}
