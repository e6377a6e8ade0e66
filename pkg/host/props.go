package host

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/go-didact/didact/pkg/element"
)

// eventPrefix marks props that carry event handlers rather than plain
// properties. "onClick" registers for "click".
const eventPrefix = "on"

// IsEvent reports whether a props key names an event handler.
func IsEvent(key string) bool {
	return strings.HasPrefix(key, eventPrefix)
}

// EventName derives the host event name from a handler props key.
func EventName(key string) string {
	return strings.ToLower(key)[len(eventPrefix):]
}

// isProperty reports whether a props key is a plain host property.
// "children" is reserved and never an attribute.
func isProperty(key string) bool {
	return !IsEvent(key) && key != "children"
}

// PatchProps diffs prev against next and mutates node in place. Four
// passes, in order: stale listeners off, removed properties cleared to the
// empty string, new or changed properties on, new or changed listeners on.
// The ordering matters: the old handler is removed before the replacement
// is attached. Handlers count as changed on every patch, so each update
// swaps the listener; see sameValue.
func PatchProps(node Node, prev, next element.Props) {
	for key, value := range prev {
		if !IsEvent(key) {
			continue
		}
		if _, stillThere := next[key]; stillThere && sameValue(value, next[key]) {
			continue
		}
		node.RemoveEventListener(EventName(key), asHandler(key, value))
	}

	for key := range prev {
		if !isProperty(key) {
			continue
		}
		if _, stillThere := next[key]; !stillThere {
			node.SetProperty(key, "")
		}
	}

	for key, value := range next {
		if !isProperty(key) {
			continue
		}
		if old, had := prev[key]; had && sameValue(old, value) {
			continue
		}
		node.SetProperty(key, value)
	}

	for key, value := range next {
		if !IsEvent(key) {
			continue
		}
		if old, had := prev[key]; had && sameValue(old, value) {
			continue
		}
		node.AddEventListener(EventName(key), asHandler(key, value))
	}
}

// asHandler coerces an event prop value to a Handler. Anything else is a
// programming fault, surfaced immediately.
func asHandler(key string, value any) Handler {
	switch h := value.(type) {
	case Handler:
		return h
	case func(Event):
		return h
	default:
		panic(fmt.Sprintf("host: prop %q is %T, want func(host.Event)", key, value))
	}
}

// sameValue compares two prop values by ==, with uncomparable values
// treated as changed. Functions always count as changed: components
// rebuild their handler closures on every render, and two closures from
// the same source line share a code pointer, so no pointer comparison can
// tell a genuinely new handler from an unchanged one.
func sameValue(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func || vb.Kind() == reflect.Func {
		return false
	}
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// HandlerIdentity returns a comparable identity for a handler, used by
// hosts to match RemoveEventListener calls against registered handlers.
// The identity is the closure pointer, not the code pointer, so two
// handlers created at the same source line stay distinguishable; copies
// of one handler value share it, which is what lets PatchProps remove
// exactly the listener it attached on the previous patch.
func HandlerIdentity(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h)))
}
