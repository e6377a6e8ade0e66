package reconciler

import "github.com/go-didact/didact/pkg/element"

// reconcileChildren walks the new element list and the old sibling chain
// (wip.alternate.child onward) in lock-step by position. Same position
// and compatible type reuses the old fiber's node as an UPDATE; a new
// element with no match becomes a PLACEMENT; an old fiber with no match
// is tagged DELETION and recorded on the pending-deletions list. The new
// child/sibling chain is built as the walk goes.
func (r *Renderer) reconcileChildren(wip *Fiber, elements []element.Element) {
	index := 0
	var oldFiber *Fiber
	if wip.alternate != nil {
		oldFiber = wip.alternate.child
	}
	var prevSibling *Fiber

	for index < len(elements) || oldFiber != nil {
		var newFiber *Fiber
		inRange := index < len(elements)
		same := inRange && oldFiber != nil && sameType(oldFiber, elements[index])

		if same {
			el := elements[index]
			newFiber = &Fiber{
				kind:      oldFiber.kind,
				tag:       oldFiber.tag,
				fn:        oldFiber.fn,
				props:     el.Props,
				elements:  el.Children,
				dom:       oldFiber.dom,
				parent:    wip,
				alternate: oldFiber,
				effect:    TagUpdate,
			}
		}
		if inRange && !same {
			el := elements[index]
			newFiber = &Fiber{
				kind:     el.Kind,
				tag:      el.Tag,
				fn:       el.Fn,
				props:    el.Props,
				elements: el.Children,
				parent:   wip,
				effect:   TagPlacement,
			}
		}
		if oldFiber != nil && !same {
			oldFiber.effect = TagDeletion
			r.deletions = append(r.deletions, oldFiber)
		}

		if oldFiber != nil {
			oldFiber = oldFiber.sibling
		}

		if index == 0 {
			wip.child = newFiber
		} else if newFiber != nil {
			prevSibling.sibling = newFiber
		}
		if newFiber != nil {
			prevSibling = newFiber
		}
		index++
	}
}
