package demo

import (
	"github.com/vango-dev/weft/pkg/component"
	"github.com/vango-dev/weft/pkg/element"
)

// Counter shows a number and buttons that change it.
type Counter struct {
	component.Base
}

// CounterType builds Counter instances. The "start" prop seeds the count.
var CounterType = component.NewType("Counter", func(props element.Props) element.Component {
	c := &Counter{}
	start, _ := props["start"].(int)
	c.Init(props, component.Fields{
		Observables: []string{"count"},
		Computed: []component.ComputedField{
			{Name: "parity", Get: c.parity, Cache: true},
		},
	}, map[string]any{"count": start})
	return c
})

// Count returns the current count without tracking it.
func (c *Counter) Count() int {
	n, _ := c.State().Peek("count").(int)
	return n
}

func (c *Counter) add(delta int) {
	c.Set("count", c.Count()+delta)
}

func (c *Counter) parity() any {
	if n, _ := c.Get("count").(int); n%2 == 0 {
		return "even"
	}
	return "odd"
}

func (c *Counter) Render() any {
	return element.Div(element.Attrs(element.Props{"class": "counter"}),
		element.P(func() element.Props {
			return element.Props{"id": "count", "class": c.Computed("parity")}
		}, func() any { return c.Get("count") }),
		element.Button(element.Attrs(element.Props{"id": "dec", "onClick": func() { c.add(-1) }}), "-"),
		element.Button(element.Attrs(element.Props{"id": "inc", "onClick": func() { c.add(1) }}), "+"),
	)
}
