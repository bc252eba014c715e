package demo

import (
	"fmt"

	"github.com/vango-dev/weft/pkg/component"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

func seedTodos() []any {
	return []any{
		map[string]any{"work": "Read a book", "important": true},
		map[string]any{"work": "Write code", "important": true},
		map[string]any{"work": "Watch a movie", "important": false},
	}
}

// TodoApp greets the user and keeps a todo list.
type TodoApp struct {
	component.Base
	greeting string
}

// TodoAppType builds TodoApp instances.
var TodoAppType = component.NewType("TodoApp", func(props element.Props) element.Component {
	a := &TodoApp{greeting: "Hello World"}
	a.Init(props, component.Fields{
		Observables: []string{"name", "happy", "todos", "draft"},
		Computed: []component.ComputedField{
			{Name: "title", Get: a.title, Cache: true},
		},
	}, map[string]any{
		"name":  "Doge",
		"happy": true,
		"todos": seedTodos(),
		"draft": "",
	})
	return a
})

func (a *TodoApp) title() any {
	return fmt.Sprintf("%s, %s!", a.greeting, a.Get("name"))
}

func (a *TodoApp) happy() bool {
	v, _ := a.Get("happy").(bool)
	return v
}

// Todos returns the todo list.
func (a *TodoApp) Todos() *reactive.List {
	l, _ := a.State().Peek("todos").(*reactive.List)
	return l
}

func (a *TodoApp) todos() *reactive.List {
	l, _ := a.Get("todos").(*reactive.List)
	return l
}

// Add appends the draft as a new todo and clears the draft.
func (a *TodoApp) Add() {
	work, _ := a.State().Peek("draft").(string)
	if work == "" {
		return
	}
	a.Todos().Push(map[string]any{"work": work, "important": false})
	a.Set("draft", "")
}

// Remove deletes the todo at index.
func (a *TodoApp) Remove(index int) {
	a.Todos().Splice(index, 1)
}

func (a *TodoApp) Render() any {
	return element.Div(nil,
		a.renderHeader(),
		a.renderTodos(),
	)
}

func (a *TodoApp) renderHeader() []any {
	return []any{
		element.H(func() string {
			if a.happy() {
				return "h1"
			}
			return "h3"
		}, nil, element.Text(func() any { return a.Computed("title") })),
		element.P(nil,
			"Your name: ",
			element.Input(func() element.Props {
				return element.Props{
					"id":      "name",
					"value":   a.Get("name"),
					"onInput": func(v string) { a.Set("name", v) },
				}
			}),
		),
		element.P(nil,
			element.Input(func() element.Props {
				return element.Props{
					"id":      "happy",
					"type":    "checkbox",
					"checked": a.Get("happy"),
					"onInput": func(v any) {
						checked, _ := v.(bool)
						a.Set("happy", checked)
					},
				}
			}),
			"I feel happy now.",
		),
		func() any {
			var rows []any
			for _, item := range a.todos().Values() {
				todo := item.(*reactive.Object)
				rows = append(rows, element.P(nil,
					element.Input(func() element.Props {
						return element.Props{
							"class":   "work",
							"value":   todo.Get("work"),
							"onInput": func(v string) { todo.Set("work", v) },
						}
					}),
				))
			}
			return rows
		},
	}
}

func (a *TodoApp) renderTodos() []any {
	return []any{
		element.H3(nil, "My Todos"),
		element.Input(func() element.Props {
			return element.Props{
				"id":      "draft",
				"value":   a.Get("draft"),
				"onInput": func(v string) { a.Set("draft", v) },
			}
		}),
		element.Button(element.Attrs(element.Props{"id": "add", "onClick": a.Add}), "Add"),
		func() any {
			var rows []any
			for i, item := range a.todos().Values() {
				index, todo := i, item.(*reactive.Object)
				rows = append(rows, element.P(element.Attrs(element.Props{"class": "todo"}),
					element.Button(element.Attrs(element.Props{
						"class":   "remove",
						"onClick": func() { a.Remove(index) },
					}), "Remove"),
					element.H(TodoType, element.Attrs(element.Props{
						"data": func() any {
							if a.happy() {
								return todo
							}
							return reactive.NewObject(map[string]any{"work": "_(:з」∠)_", "important": false})
						},
						"changed": func(args ...any) {
							if len(args) == 2 {
								args[0].(*reactive.Object).Set("important", args[1])
							}
						},
					})),
				))
			}
			return rows
		},
	}
}

// Todo renders one todo with an importance checkbox.
type Todo struct {
	component.Base
}

// TodoType builds Todo instances.
var TodoType = component.NewType("Todo", func(props element.Props) element.Component {
	t := &Todo{}
	t.Init(props, component.Fields{
		Props: []string{"data"},
		Emits: []string{"changed"},
	}, nil)
	return t
})

func (t *Todo) data() *reactive.Object {
	if obj, ok := t.Get("data").(*reactive.Object); ok {
		return obj
	}
	return reactive.NewObject(map[string]any{"work": "", "important": false})
}

func (t *Todo) Render() any {
	return element.P(nil,
		element.Input(func() element.Props {
			data := t.data()
			return element.Props{
				"class":   "important",
				"type":    "checkbox",
				"checked": data.Get("important"),
				"onChange": func(v any) {
					checked, _ := v.(bool)
					t.Emit("changed", data, checked)
				},
			}
		}),
		func() any { return t.data().Get("work") },
	)
}
