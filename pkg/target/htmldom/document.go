// Package htmldom is an output target backed by golang.org/x/net/html
// node trees. It serves server-side rendering, the CLI demo and tests.
package htmldom

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/weft/pkg/target"
)

// ErrNotFound is returned when a selector matches no node.
var ErrNotFound = errors.New("htmldom: no node matches selector")

// Stats counts the native operations performed by a Document.
type Stats struct {
	Created      int
	Texts        int
	Placeholders int
	AttrWrites   int
	AttrRemoves  int
	TextWrites   int
	Inserts      int
	Appends      int
	Removes      int
	Replaces     int
	Moves        int
}

// Document is a target.Adapter over an html.Node tree. It is not safe for
// concurrent use.
type Document struct {
	Root *html.Node

	handlers map[*html.Node]map[string]any
	owned    map[*html.Node]map[string]bool
	stats    Stats
}

var _ target.Adapter = (*Document)(nil)

const emptyDocument = `<!DOCTYPE html><html><head></head><body></body></html>`

// New returns an empty HTML document.
func New() *Document {
	doc, err := ParseDocument(emptyDocument)
	if err != nil {
		panic(fmt.Errorf("htmldom: parse empty document: %w", err))
	}
	return doc
}

// ParseDocument parses src into a document.
func ParseDocument(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return &Document{
		Root:     root,
		handlers: make(map[*html.Node]map[string]any),
		owned:    make(map[*html.Node]map[string]bool),
	}, nil
}

// Body returns the body element, or nil.
func (d *Document) Body() *html.Node {
	n, _ := d.Find("body")
	return n
}

// Stats returns the operation counters.
func (d *Document) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the operation counters.
func (d *Document) ResetStats() {
	d.stats = Stats{}
}

func asNode(n target.Node) *html.Node {
	if n == nil {
		return nil
	}
	hn, ok := n.(*html.Node)
	if !ok {
		panic(fmt.Sprintf("htmldom: foreign node %T", n))
	}
	return hn
}

// CreateNode creates an element with props applied.
func (d *Document) CreateNode(typ string, props target.Props) target.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     typ,
		DataAtom: atom.Lookup([]byte(typ)),
	}
	d.stats.Created++
	d.UpdateAttributes(n, props)
	return n
}

// CreateText creates a text node.
func (d *Document) CreateText(text string) target.Node {
	d.stats.Texts++
	return &html.Node{Type: html.TextNode, Data: text}
}

// CreatePlaceholder creates an empty comment node.
func (d *Document) CreatePlaceholder() target.Node {
	d.stats.Placeholders++
	return &html.Node{Type: html.CommentNode}
}

// UpdateAttributes patches node with props. Unchanged values are not
// rewritten; attributes set by an earlier call and missing from props are
// removed.
func (d *Document) UpdateAttributes(node target.Node, props target.Props) {
	n := asNode(node)

	if n.Type == html.TextNode {
		if v, ok := props[target.KeyTextContent]; ok {
			if text := target.Stringify(v); text != n.Data {
				n.Data = text
				d.stats.TextWrites++
			}
		}
		return
	}

	if events := target.Events(props); len(events) > 0 {
		d.handlers[n] = events
	} else {
		delete(d.handlers, n)
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if target.IsAttribute(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	prev := d.owned[n]
	next := make(map[string]bool, len(keys))
	for _, k := range keys {
		value, present := attrValue(k, props[k])
		if !present {
			d.removeAttr(n, k)
			continue
		}
		next[k] = true
		d.setAttr(n, k, value)
	}
	for k := range prev {
		if !next[k] {
			d.removeAttr(n, k)
		}
	}
	d.owned[n] = next
}

// attrValue maps a property value to its attribute text. Booleans map to
// presence.
func attrValue(key string, v any) (string, bool) {
	switch key {
	case target.KeyClass:
		s := target.ClassString(v)
		return s, s != ""
	case target.KeyStyle:
		s := target.StyleString(v)
		return s, s != ""
	}
	switch val := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", val
	default:
		return target.Stringify(v), true
	}
}

func (d *Document) setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			if n.Attr[i].Val != value {
				n.Attr[i].Val = value
				d.stats.AttrWrites++
			}
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	d.stats.AttrWrites++
}

func (d *Document) removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.stats.AttrRemoves++
			return
		}
	}
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore inserts node into parent before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, node, ref target.Node) {
	p, n, r := asNode(parent), asNode(node), asNode(ref)
	if r != nil && r.Parent != p {
		r = nil
	}
	detach(n)
	p.InsertBefore(n, r)
	d.stats.Inserts++
}

// Append appends node to parent.
func (d *Document) Append(parent, node target.Node) {
	p, n := asNode(parent), asNode(node)
	detach(n)
	p.AppendChild(n)
	d.stats.Appends++
}

// Remove detaches node. Nodes already detached are ignored.
func (d *Document) Remove(parent, node target.Node) {
	n := asNode(node)
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
	d.forget(n)
	d.stats.Removes++
}

func (d *Document) forget(n *html.Node) {
	delete(d.handlers, n)
	delete(d.owned, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// Replace swaps oldNode for newNode in oldNode's parent.
func (d *Document) Replace(parent, oldNode, newNode target.Node) {
	o, n := asNode(oldNode), asNode(newNode)
	p := o.Parent
	if p == nil {
		p = asNode(parent)
		detach(n)
		p.AppendChild(n)
		d.stats.Replaces++
		return
	}
	detach(n)
	p.InsertBefore(n, o)
	p.RemoveChild(o)
	delete(d.handlers, o)
	delete(d.owned, o)
	d.stats.Replaces++
}

// MoveChildren moves every child of from onto to, in order.
func (d *Document) MoveChildren(from, to target.Node) {
	f, t := asNode(from), asNode(to)
	for c := f.FirstChild; c != nil; {
		next := c.NextSibling
		f.RemoveChild(c)
		t.AppendChild(c)
		c = next
	}
	d.stats.Moves++
}
