// Package element defines the immutable element tree that describes UI
// structure. Elements are plain descriptions; they own no host resources
// and are produced fresh on every render pass.
package element

import "fmt"

// Kind identifies what an element describes. It is resolved once at
// construction so the rest of the pipeline branches on a tag instead of
// inspecting runtime types.
type Kind int

const (
	// KindHost is a host node identified by a tag name.
	KindHost Kind = iota
	// KindText is a host text node carrying its text in Props[NodeValue].
	KindText
	// KindComponent is a function component.
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindText:
		return "text"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// NodeValue is the props key holding a text element's content.
const NodeValue = "nodeValue"

// Props holds an element's attributes. Keys with the reserved "on" prefix
// are event handlers; everything else is a plain host property. Children
// are never stored in Props.
type Props map[string]any

// BuildContext is the per-fiber window a component function renders in.
// It is valid only for the duration of the call that received it.
type BuildContext interface {
	// Hook returns the state cell for the next hook position, creating it
	// from initial on first render. Positional: the Nth call on every
	// render of a fiber position addresses the same cell.
	Hook(initial any) (state any, enqueue func(func(any) any))
}

// ComponentFunc builds an element subtree from props. It must call its
// hooks the same number of times, in the same order, on every render.
type ComponentFunc func(ctx BuildContext, props Props) Element

// Element is an immutable description of a UI node. Exactly one of Tag or
// Fn is meaningful, selected by Kind.
type Element struct {
	Kind     Kind
	Tag      string
	Fn       ComponentFunc
	Props    Props
	Children []Element
}

// New builds an element. typ is a host tag string or a ComponentFunc; any
// string is accepted as a host tag, no validation. Children that are not
// already Elements are coerced to text elements.
func New(typ any, props Props, children ...any) Element {
	if props == nil {
		props = Props{}
	}
	el := Element{Props: props, Children: coerce(children)}
	switch t := typ.(type) {
	case string:
		el.Kind = KindHost
		el.Tag = t
	case ComponentFunc:
		el.Kind = KindComponent
		el.Fn = t
	case func(ctx BuildContext, props Props) Element:
		el.Kind = KindComponent
		el.Fn = t
	default:
		panic(fmt.Sprintf("element: unsupported element type %T", typ))
	}
	return el
}

// Text builds a text element.
func Text(text string) Element {
	return Element{
		Kind:  KindText,
		Props: Props{NodeValue: text},
	}
}

func coerce(children []any) []Element {
	if len(children) == 0 {
		return nil
	}
	out := make([]Element, 0, len(children))
	for _, child := range children {
		switch c := child.(type) {
		case Element:
			out = append(out, c)
		case []Element:
			out = append(out, c...)
		case string:
			out = append(out, Text(c))
		default:
			out = append(out, Text(fmt.Sprint(c)))
		}
	}
	return out
}
