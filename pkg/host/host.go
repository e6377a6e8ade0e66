// Package host defines the narrow contract between the reconciler and the
// real UI tree, plus the attribute differ that patches live nodes. The
// reconciler never touches a concrete node type; everything goes through
// Document and Node.
package host

// Event is the value delivered to event handlers. Hosts may subclass by
// populating Data with host-specific payloads.
type Event struct {
	Type   string
	Target Node
	Data   any
}

// Handler handles a dispatched event. Handlers are compared by function
// identity only, never structurally.
type Handler func(Event)

// Node is one live UI node. Implementations own their child order and
// their property/listener tables.
type Node interface {
	// AppendChild adds child as the last child of this node.
	AppendChild(child Node)
	// RemoveChild detaches child from this node. Removing a node that is
	// not a child is a programming fault and may panic.
	RemoveChild(child Node)
	// SetProperty assigns a plain property.
	SetProperty(name string, value any)
	// AddEventListener registers handler for the named event.
	AddEventListener(event string, handler Handler)
	// RemoveEventListener unregisters a previously added handler,
	// matched by function identity.
	RemoveEventListener(event string, handler Handler)
}

// Document creates nodes. It is the only factory surface the reconciler
// needs from a host.
type Document interface {
	// CreateElement allocates a tagged node with no attributes set.
	CreateElement(tag string) Node
	// CreateTextNode allocates a text node.
	CreateTextNode(text string) Node
}
