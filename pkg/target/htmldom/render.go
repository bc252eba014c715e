package htmldom

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// Render serializes the whole document.
func (d *Document) Render() string {
	return RenderNode(d.Root)
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// RenderNode serializes n and its descendants.
func RenderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}
