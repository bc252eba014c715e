package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Handler returns the handler bound to event on n.
func (d *Document) Handler(n *html.Node, event string) (any, bool) {
	h, ok := d.handlers[n][strings.ToLower(event)]
	return h, ok
}

// Dispatch invokes the handler bound to event on n with args. Handlers may be
// func(), func(any) or func(...any).
func (d *Document) Dispatch(n *html.Node, event string, args ...any) error {
	h, ok := d.Handler(n, event)
	if !ok {
		return fmt.Errorf("htmldom: no %q handler on <%s>", event, n.Data)
	}
	switch fn := h.(type) {
	case func():
		fn()
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		fn(arg)
	case func(...any):
		fn(args...)
	case func(string):
		var arg string
		if len(args) > 0 {
			arg, _ = args[0].(string)
		}
		fn(arg)
	default:
		return fmt.Errorf("htmldom: unsupported %q handler %T", event, h)
	}
	return nil
}

// DispatchSelector dispatches event on the first node matching selector.
func (d *Document) DispatchSelector(selector, event string, args ...any) error {
	n, err := d.Find(selector)
	if err != nil {
		return err
	}
	return d.Dispatch(n, event, args...)
}
