// Package reconciler implements the incremental fiber engine: it diffs
// element trees against the previously committed fiber tree, builds the
// replacement tree one unit of work at a time under a cooperative
// scheduling budget, and commits all decided effects to the host in a
// single uninterrupted pass.
package reconciler

import (
	"reflect"
	"runtime"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/host"
)

// EffectTag classifies the host mutation a fiber needs at commit time.
// Decided during reconciliation, consumed during commit.
type EffectTag int

const (
	// TagNone marks fibers with no pending effect (the root).
	TagNone EffectTag = iota
	// TagPlacement marks a freshly created fiber whose node must be
	// attached.
	TagPlacement
	// TagUpdate marks a reused fiber whose node needs its props patched.
	TagUpdate
	// TagDeletion marks an old fiber whose node must be removed.
	TagDeletion
)

func (t EffectTag) String() string {
	switch t {
	case TagPlacement:
		return "PLACEMENT"
	case TagUpdate:
		return "UPDATE"
	case TagDeletion:
		return "DELETION"
	default:
		return "NONE"
	}
}

// hookCell is one positional state cell on a component fiber. The queue
// holds update actions enqueued since the cell's fiber was rendered; they
// are replayed against state on the next render of the same position.
type hookCell struct {
	state any
	queue []func(any) any
}

// Fiber is a mutable work record mirroring one element position across
// renders. Fibers form a tree in first-child/next-sibling encoding, with
// alternate linking a fiber to its counterpart in the other (current vs
// work-in-progress) tree.
type Fiber struct {
	kind element.Kind
	tag  string
	fn   element.ComponentFunc

	props    element.Props
	elements []element.Element // pending child elements, reconciled during this fiber's unit of work

	// dom is the fiber's host node. Set at most once per fiber instance:
	// created lazily for placements, inherited from the alternate for
	// updates.
	dom host.Node

	parent    *Fiber
	child     *Fiber
	sibling   *Fiber
	alternate *Fiber

	effect EffectTag

	// hooks are present only on component fibers, rebuilt on every
	// render in call order.
	hooks []*hookCell
}

// sameType reports whether an old fiber and a new element occupy the same
// position compatibly: identical kind, and tag (hosts) or function
// identity (components). This positional check is the only reuse
// mechanism; there are no keys.
func sameType(old *Fiber, el element.Element) bool {
	if old.kind != el.Kind {
		return false
	}
	switch el.Kind {
	case element.KindHost:
		return old.tag == el.Tag
	case element.KindText:
		return true
	case element.KindComponent:
		return funcID(old.fn) == funcID(el.Fn)
	default:
		return false
	}
}

func funcID(fn element.ComponentFunc) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// componentName resolves a component function's name for error reports.
func componentName(fn element.ComponentFunc) string {
	if fn == nil {
		return "<nil>"
	}
	if f := runtime.FuncForPC(funcID(fn)); f != nil {
		return f.Name()
	}
	return "<unknown>"
}
