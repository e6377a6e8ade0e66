package reconciler

import "github.com/go-didact/didact/pkg/host"

// commitRoot applies the fully computed effect tree to the host in one
// uninterrupted pass, then promotes the work-in-progress root to current.
// Runs only once the scheduler cursor is exhausted.
func (r *Renderer) commitRoot() {
	for _, deleted := range r.deletions {
		r.commitWork(deleted)
	}
	r.stats.Deletions += len(r.deletions)
	r.commitWork(r.wipRoot.child)

	r.currentRoot = r.wipRoot
	r.wipRoot = nil
	r.deletions = nil
	r.stats.Commits++

	if r.pendingRerender {
		r.pendingRerender = false
		r.rerender()
	}
}

// commitWork applies one fiber's effect, then recurses into its child and
// sibling. A fiber commits before its descendants; siblings commit after
// the full subtree.
func (r *Renderer) commitWork(f *Fiber) {
	if f == nil {
		return
	}

	switch f.effect {
	case TagPlacement:
		if f.dom != nil {
			r.domParent(f).AppendChild(f.dom)
		}
	case TagUpdate:
		if f.dom != nil {
			host.PatchProps(f.dom, f.alternate.props, f.props)
		}
	case TagDeletion:
		// Deletion covers the whole subtree in one removal; nothing
		// below it is walked.
		r.commitDeletion(f, r.domParent(f))
		return
	}

	r.commitWork(f.child)
	r.commitWork(f.sibling)
}

// domParent finds the host node of the nearest ancestor that owns one.
// Component fibers have no node of their own and are skipped.
func (r *Renderer) domParent(f *Fiber) host.Node {
	parent := f.parent
	for parent.dom == nil {
		parent = parent.parent
	}
	return parent.dom
}

// commitDeletion removes the fiber's node from domParent. Component
// fibers recurse down to the nearest descendant that owns a node, so a
// deleted subtree produces exactly one host removal.
func (r *Renderer) commitDeletion(f *Fiber, domParent host.Node) {
	if f.dom != nil {
		domParent.RemoveChild(f.dom)
		return
	}
	if f.child != nil {
		r.commitDeletion(f.child, domParent)
	}
}
