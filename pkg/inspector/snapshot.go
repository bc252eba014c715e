package inspector

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/weft/pkg/fiber"
	"github.com/vango-dev/weft/pkg/target"
)

// Node is the serializable view of one fiber.
type Node struct {
	ID       uint64            `json:"id"`
	Kind     string            `json:"kind"`
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Effect   string            `json:"effect,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Snapshot is a copy of a committed fiber tree.
type Snapshot struct {
	Sequence    uint64    `json:"sequence"`
	CapturedAt  time.Time `json:"capturedAt"`
	Fibers      int       `json:"fibers"`
	Fingerprint uint64    `json:"fingerprint"`
	Root        *Node     `json:"root"`
}

// Capture copies the tree rooted at root.
func Capture(root *fiber.Fiber) *Snapshot {
	s := &Snapshot{CapturedAt: time.Now()}
	if root == nil {
		return s
	}
	s.Root = captureNode(root, &s.Fibers)
	s.Fingerprint = Fingerprint(s.Root)
	return s
}

func captureNode(f *fiber.Fiber, count *int) *Node {
	*count++
	n := &Node{
		ID:   f.ID,
		Kind: f.Kind.String(),
		Type: f.TypeName(),
	}
	if f.EffectTag != fiber.EffectNone {
		n.Effect = f.EffectTag.String()
	}
	if f.IsText() {
		n.Text = target.Stringify(f.Props[target.KeyTextContent])
	} else if len(f.Props) > 0 {
		n.Props = make(map[string]string, len(f.Props))
		for k, v := range f.Props {
			n.Props[k] = propValue(k, v)
		}
	}
	for c := f.Child; c != nil; c = c.Sibling {
		n.Children = append(n.Children, captureNode(c, count))
	}
	return n
}

func propValue(key string, v any) string {
	switch {
	case key == target.KeyClass:
		return target.ClassString(v)
	case key == target.KeyStyle:
		return target.StyleString(v)
	case target.IsEventProp(key) || key == target.KeyOn:
		return "ƒ"
	}
	return target.Stringify(v)
}

// Fingerprint hashes the structure and content of the tree rooted at n.
// Fiber ids are included, so a rebuilt subtree changes the fingerprint even
// when it renders the same output.
func Fingerprint(n *Node) uint64 {
	d := xxhash.New()
	writeNode(d, n)
	return d.Sum64()
}

func writeNode(d *xxhash.Digest, n *Node) {
	if n == nil {
		return
	}
	fmt.Fprintf(d, "%d|%s|%s|%q|%s|", n.ID, n.Kind, n.Type, n.Text, n.Effect)
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(d, "%s=%q;", k, n.Props[k])
	}
	fmt.Fprintf(d, "[%d", len(n.Children))
	for _, c := range n.Children {
		writeNode(d, c)
	}
	d.WriteString("]")
}

// Walk visits every node depth first with its depth below the root.
func (s *Snapshot) Walk(fn func(n *Node, depth int)) {
	if s == nil || s.Root == nil {
		return
	}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(s.Root, 0)
}

// Find returns the node with id, or nil.
func (s *Snapshot) Find(id uint64) *Node {
	var found *Node
	s.Walk(func(n *Node, _ int) {
		if found == nil && n.ID == id {
			found = n
		}
	})
	return found
}
