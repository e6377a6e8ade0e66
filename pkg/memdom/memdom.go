// Package memdom is an in-memory implementation of the host contract. It
// backs the test harness and the demo app, and doubles as a reference for
// writing real host bindings. Nodes keep ordered children, a property
// table, and per-event listener lists; OuterHTML renders the tree for
// inspection and golden tests.
package memdom

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/go-didact/didact/pkg/host"
)

// Document creates memdom nodes.
type Document struct{}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement allocates a tagged node with no attributes.
func (d *Document) CreateElement(tag string) host.Node {
	return &Node{tag: tag, props: map[string]any{}}
}

// CreateTextNode allocates a text node.
func (d *Document) CreateTextNode(text string) host.Node {
	return &Node{text: true, props: map[string]any{"nodeValue": text}}
}

// Node is one in-memory UI node. Not safe for concurrent use; like the
// reconciler it belongs to a single logical thread.
type Node struct {
	tag      string
	text     bool
	parent   *Node
	children []*Node
	props    map[string]any
	handlers map[string][]host.Handler
}

// NewRoot returns a detached container node, the usual render target.
func NewRoot(tag string) *Node {
	return &Node{tag: tag, props: map[string]any{}}
}

// Tag returns the node's tag name, or "#text" for text nodes.
func (n *Node) Tag() string {
	if n.text {
		return "#text"
	}
	return n.tag
}

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.text }

// Parent returns the node's parent, or nil if detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in order.
func (n *Node) Children() []*Node { return n.children }

// Property returns a property value and whether it is set.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child host.Node) {
	c := child.(*Node)
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches child from n. Removing a non-child is a
// programming fault.
func (n *Node) RemoveChild(child host.Node) {
	c := child.(*Node)
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
	panic(fmt.Sprintf("memdom: RemoveChild: %s is not a child of %s", c.Tag(), n.Tag()))
}

// SetProperty assigns a plain property.
func (n *Node) SetProperty(name string, value any) {
	n.props[name] = value
}

// AddEventListener registers handler for the named event.
func (n *Node) AddEventListener(event string, handler host.Handler) {
	if n.handlers == nil {
		n.handlers = map[string][]host.Handler{}
	}
	n.handlers[event] = append(n.handlers[event], handler)
}

// RemoveEventListener removes a handler by function identity. Removing a
// handler that was never added is a no-op, matching addEventListener
// semantics.
func (n *Node) RemoveEventListener(event string, handler host.Handler) {
	existing := n.handlers[event]
	if len(existing) == 0 {
		return
	}
	id := host.HandlerIdentity(handler)
	kept := existing[:0]
	for _, h := range existing {
		if host.HandlerIdentity(h) != id {
			kept = append(kept, h)
		}
	}
	n.handlers[event] = kept
}

// DispatchEvent invokes the node's listeners for the named event, in
// registration order. Returns the number of listeners invoked.
func (n *Node) DispatchEvent(event string, data any) int {
	listeners := append([]host.Handler(nil), n.handlers[event]...)
	for _, h := range listeners {
		h(host.Event{Type: event, Target: n, Data: data})
	}
	return len(listeners)
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.text {
		return fmt.Sprint(n.props["nodeValue"])
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// OuterHTML renders the subtree as HTML-ish markup with attributes in
// sorted order. Meant for debugging and golden tests, not for browsers.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.text {
		b.WriteString(html.EscapeString(fmt.Sprint(n.props["nodeValue"])))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.tag)
	keys := make([]string, 0, len(n.props))
	for k, v := range n.props {
		if v == "" {
			continue // cleared attribute
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, fmt.Sprint(n.props[k]))
	}
	b.WriteByte('>')
	for _, c := range n.children {
		c.writeHTML(b)
	}
	b.WriteString("</" + n.tag + ">")
}
