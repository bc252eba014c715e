package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/weft/pkg/target"
)

// Resolve finds the first node matching selector, which is "#id", ".class"
// or a tag name.
func (d *Document) Resolve(selector string) (target.Node, error) {
	n, err := d.Find(selector)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Find is Resolve returning the concrete node type.
func (d *Document) Find(selector string) (*html.Node, error) {
	match := matcher(strings.TrimSpace(selector))
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, selector)
	}
	if n := findFirst(d.Root, match); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, selector)
}

// FindAll returns every node matching selector in document order.
func (d *Document) FindAll(selector string) []*html.Node {
	match := matcher(strings.TrimSpace(selector))
	if match == nil {
		return nil
	}
	var out []*html.Node
	walk(d.Root, func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

func matcher(selector string) func(*html.Node) bool {
	switch {
	case selector == "":
		return nil
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(n *html.Node) bool {
			v, ok := Attr(n, "id")
			return ok && v == id
		}
	case strings.HasPrefix(selector, "."):
		cls := selector[1:]
		return func(n *html.Node) bool {
			v, _ := Attr(n, "class")
			for _, tok := range strings.Fields(v) {
				if tok == cls {
					return true
				}
			}
			return false
		}
	default:
		tag := strings.ToLower(selector)
		return func(n *html.Node) bool { return n.Data == tag }
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent returns the concatenated text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
