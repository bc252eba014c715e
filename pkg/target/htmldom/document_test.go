package htmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/vango-dev/weft/pkg/target"
)

func TestNewDocument(t *testing.T) {
	d := New()
	require.NotNil(t, d.Body())
	assert.Equal(t, "<!DOCTYPE html><html><head></head><body></body></html>", d.Render())
}

func TestCreateAndAppend(t *testing.T) {
	d := New()
	body := d.Body()

	p := d.CreateNode("p", target.Props{"class": []string{"a", "b"}, "hidden": true, "title": nil})
	d.Append(p, d.CreateText("hi"))
	d.Append(body, p)
	d.Append(body, d.CreatePlaceholder())

	assert.Equal(t, `<p class="a b" hidden="">hi</p><!---->`, InnerHTML(body))
	s := d.Stats()
	assert.Equal(t, 1, s.Created)
	assert.Equal(t, 1, s.Texts)
	assert.Equal(t, 1, s.Placeholders)
	assert.Equal(t, 2, s.AttrWrites)
}

func TestUpdateAttributesDirtyCheck(t *testing.T) {
	d := New()
	n := d.CreateNode("div", target.Props{"id": "x", "style": map[string]string{"color": "red"}})
	d.ResetStats()

	d.UpdateAttributes(n, target.Props{"id": "x", "style": map[string]string{"color": "red"}})
	assert.Zero(t, d.Stats().AttrWrites, "unchanged values are not rewritten")

	d.UpdateAttributes(n, target.Props{"id": "y"})
	s := d.Stats()
	assert.Equal(t, 1, s.AttrWrites)
	assert.Equal(t, 1, s.AttrRemoves, "dropped keys are removed")
	assert.Equal(t, `<div id="y"></div>`, RenderNode(n.(*html.Node)))

	d.UpdateAttributes(n, target.Props{"id": "y", "class": map[string]bool{"on": false}})
	assert.Equal(t, `<div id="y"></div>`, RenderNode(n.(*html.Node)))
}

func TestUpdateText(t *testing.T) {
	d := New()
	n := d.CreateText("0")
	d.UpdateAttributes(n, target.Props{"textContent": "0"})
	assert.Zero(t, d.Stats().TextWrites)

	d.UpdateAttributes(n, target.Props{"textContent": 5})
	assert.Equal(t, "5", n.(*html.Node).Data)
	assert.Equal(t, 1, d.Stats().TextWrites)
}

func TestInsertBeforeReplaceMove(t *testing.T) {
	d := New()
	body := d.Body()
	anchor := d.CreatePlaceholder()
	d.Append(body, anchor)

	a := d.CreateNode("a", nil)
	d.InsertBefore(body, a, anchor)
	assert.Equal(t, `<a></a><!---->`, InnerHTML(body))

	d.Append(a, d.CreateText("x"))
	h1 := d.CreateNode("h1", nil)
	d.MoveChildren(a, h1)
	d.Replace(body, a, h1)
	assert.Equal(t, `<h1>x</h1><!---->`, InnerHTML(body))

	d.Remove(body, anchor)
	d.Remove(body, anchor)
	assert.Equal(t, `<h1>x</h1>`, InnerHTML(body))
	assert.Equal(t, 1, d.Stats().Removes)
}

func TestResolve(t *testing.T) {
	d, err := ParseDocument(`<html><body><div id="app" class="root main"><p>t</p></div></body></html>`)
	require.NoError(t, err)

	for _, sel := range []string{"#app", ".main", "div"} {
		n, err := d.Resolve(sel)
		require.NoError(t, err, sel)
		v, _ := Attr(n.(*html.Node), "id")
		assert.Equal(t, "app", v)
	}

	_, err = d.Resolve("#missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.Resolve("")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, d.FindAll("p"), 1)
	n, _ := d.Find("#app")
	assert.Equal(t, "t", TextContent(n))
}

func TestDispatch(t *testing.T) {
	d := New()
	clicks := 0
	var typed string
	btn := d.CreateNode("button", target.Props{
		"onClick": func() { clicks++ },
		"on":      map[string]any{"input": func(v string) { typed = v }},
	})
	d.Append(d.Body(), btn)

	n := btn.(*html.Node)
	require.NoError(t, d.Dispatch(n, "click"))
	require.NoError(t, d.DispatchSelector("button", "input", "abc"))
	assert.Equal(t, 1, clicks)
	assert.Equal(t, "abc", typed)
	assert.Error(t, d.Dispatch(n, "keyup"))
	assert.Empty(t, n.Attr, "handlers are not attributes")
}
