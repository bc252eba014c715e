package demo

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/weft"
	werrors "github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/target/htmldom"
)

// Step is one scripted interaction: event dispatched on the node matching
// Selector. With All set, every matching node receives it.
type Step struct {
	Name     string
	Selector string
	Event    string
	Args     []any
	All      bool
}

// Scenario is a demo tree and the interactions that exercise it.
type Scenario struct {
	Name        string
	Description string
	Root        func() *element.Element
	Steps       []Step
}

var scenarios = map[string]Scenario{
	"todo": {
		Name:        "todo",
		Description: "greeting with a switching heading and an editable todo list",
		Root:        func() *element.Element { return element.H(TodoAppType, nil) },
		Steps: []Step{
			{Name: "rename", Selector: "#name", Event: "input", Args: []any{"Shiba"}},
			{Name: "draft", Selector: "#draft", Event: "input", Args: []any{"Walk the dog"}},
			{Name: "add", Selector: "#add", Event: "click"},
			{Name: "clear importance", Selector: ".important", Event: "change", Args: []any{false}},
			{Name: "remove first", Selector: ".remove", Event: "click"},
			{Name: "unhappy", Selector: "#happy", Event: "input", Args: []any{false}},
			{Name: "happy", Selector: "#happy", Event: "input", Args: []any{true}},
		},
	},
	"counter": {
		Name:        "counter",
		Description: "a counter patched in place by its buttons",
		Root: func() *element.Element {
			return element.H(CounterType, element.Attrs(element.Props{"start": 0}))
		},
		Steps: []Step{
			{Name: "increment", Selector: "#inc", Event: "click"},
			{Name: "increment", Selector: "#inc", Event: "click"},
			{Name: "decrement", Selector: "#dec", Event: "click"},
		},
	},
}

// Names returns the registered scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scenario called name.
func Lookup(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, werrors.New("E060").
			WithDetailf("no scenario %q", name).
			WithSuggestion(fmt.Sprintf("Available scenarios: %v", Names()))
	}
	return s, nil
}

// Mount mounts the scenario root under the body of app's document and
// flushes the resulting work.
func (s Scenario) Mount(app *weft.App) (*htmldom.Document, error) {
	doc, ok := app.Document()
	if !ok {
		return nil, fmt.Errorf("demo: scenario %q needs an htmldom adapter", s.Name)
	}
	if err := app.Mount("body", s.Root()); err != nil {
		return nil, err
	}
	app.Flush()
	return doc, nil
}

// Apply dispatches the step on doc.
func (st Step) Apply(doc *htmldom.Document) error {
	if !st.All {
		return doc.DispatchSelector(st.Selector, st.Event, st.Args...)
	}
	nodes := doc.FindAll(st.Selector)
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %q", htmldom.ErrNotFound, st.Selector)
	}
	for _, n := range nodes {
		if err := doc.Dispatch(n, st.Event, st.Args...); err != nil {
			return err
		}
	}
	return nil
}

// Run mounts the scenario and applies each step, flushing after every one.
// fn receives the body markup after the mount (with a zero Step) and after
// each step.
func (s Scenario) Run(app *weft.App, fn func(step Step, markup string)) error {
	doc, err := s.Mount(app)
	if err != nil {
		return err
	}
	report := func(step Step) {
		if fn != nil {
			fn(step, Markup(doc.Body()))
		}
	}
	report(Step{})
	for _, step := range s.Steps {
		if err := step.Apply(doc); err != nil {
			return fmt.Errorf("demo: step %q: %w", step.Name, err)
		}
		app.Flush()
		report(step)
	}
	return nil
}

// Markup returns the inner markup of n.
func Markup(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmldom.InnerHTML(n)
}
