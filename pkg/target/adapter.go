// Package target defines the contract between the scheduler and a concrete
// output tree, plus the property conventions every adapter shares.
//
// Property conventions:
//
//   - "class" accepts a string, a []string of tokens, or a map[string]bool
//     of class name to inclusion.
//   - "style" accepts a string or a map[string]string of declarations.
//   - Keys prefixed with "on" (any case) are event handlers; the key "on"
//     itself may hold a map of event name to handler.
//   - "textContent" carries the text of TEXT nodes.
//   - Any other key is an attribute, written only when it changed.
package target

// Node is an opaque output node owned by an Adapter.
type Node any

// Props is the property mapping of a host node.
type Props = map[string]any

// Adapter creates and mutates output nodes. The scheduler calls it only
// during commit, from one goroutine.
type Adapter interface {
	// CreateNode creates a tag node with props applied.
	CreateNode(typ string, props Props) Node
	// CreateText creates a text node.
	CreateText(text string) Node
	// CreatePlaceholder creates the anchor node of a virtual fiber. It
	// renders nothing meaningful but keeps a position among its siblings.
	CreatePlaceholder() Node
	// UpdateAttributes patches node with props, skipping unchanged values.
	UpdateAttributes(node Node, props Props)
	// InsertBefore inserts node into parent before ref.
	InsertBefore(parent, node, ref Node)
	// Append appends node to parent.
	Append(parent, node Node)
	// Remove detaches node from parent.
	Remove(parent, node Node)
	// Replace swaps oldNode for newNode under parent.
	Replace(parent, oldNode, newNode Node)
	// MoveChildren moves every child of from onto to, in order.
	MoveChildren(from, to Node)
	// Resolve finds a node by selector.
	Resolve(selector string) (Node, error)
}
