package reconciler

import (
	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/host"
	"github.com/go-didact/didact/pkg/scheduler"
)

// rootTag names the synthetic fiber wrapping the render container.
const rootTag = "#root"

// Stats counts renderer activity. Surfaced through the debug server.
type Stats struct {
	RendersStarted int `json:"rendersStarted"`
	Commits        int `json:"commits"`
	UnitsOfWork    int `json:"unitsOfWork"`
	Abandoned      int `json:"abandoned"`
	Deletions      int `json:"deletions"`
}

// Renderer owns one render target: the current (committed) fiber tree,
// the work-in-progress tree, the scheduler cursor, and the pending
// deletions of the in-flight render. It replaces ambient globals so
// multiple independent targets can coexist and the loop is testable in
// isolation.
//
// A Renderer is confined to a single logical thread: every entry point
// (Render, event handlers that call state setters, scheduler turns) must
// run on the same goroutine, the way scheduler.Loop runs all turns on its
// own goroutine.
type Renderer struct {
	doc       host.Document
	container host.Node
	sched     scheduler.Scheduler

	currentRoot    *Fiber
	wipRoot        *Fiber
	nextUnitOfWork *Fiber
	deletions      []*Fiber

	// hook window: set only while a component function is running.
	wipFiber  *Fiber
	hookIndex int

	// pendingRerender records a state update that arrived before the
	// first commit; it is honored right after that commit.
	pendingRerender bool

	stats Stats
}

// NewRenderer creates a renderer targeting container, using doc to
// allocate host nodes and sched to obtain processing time.
func NewRenderer(doc host.Document, container host.Node, sched scheduler.Scheduler) *Renderer {
	return &Renderer{doc: doc, container: container, sched: sched}
}

// Render (re)initializes the work-in-progress root for el and triggers
// scheduling. A render already in flight is abandoned: its partial fibers
// become garbage, never visible to the host.
func (r *Renderer) Render(el element.Element) {
	r.renderChildren([]element.Element{el})
}

func (r *Renderer) renderChildren(children []element.Element) {
	if r.wipRoot != nil {
		r.stats.Abandoned++
	}
	r.wipRoot = &Fiber{
		kind:      element.KindHost,
		tag:       rootTag,
		dom:       r.container,
		elements:  children,
		alternate: r.currentRoot,
	}
	// The deletions list is reset exactly once per render, before any
	// reconciliation runs.
	r.deletions = nil
	r.nextUnitOfWork = r.wipRoot
	r.stats.RendersStarted++
	r.sched.Schedule(r.workLoop)
}

// rerender schedules a full-tree re-render cloned from the committed
// root. Called by state setters.
func (r *Renderer) rerender() {
	if r.currentRoot == nil {
		r.pendingRerender = true
		return
	}
	r.renderChildren(r.currentRoot.elements)
}

// workLoop is one scheduling turn: process units of work until the budget
// says yield or work runs out, commit if the whole tree is built, and
// reschedule while work remains.
func (r *Renderer) workLoop(budget scheduler.Budget) {
	for r.nextUnitOfWork != nil && !budget.ShouldYield() {
		r.nextUnitOfWork = r.performUnitOfWork(r.nextUnitOfWork)
		r.stats.UnitsOfWork++
	}

	if r.nextUnitOfWork == nil && r.wipRoot != nil {
		r.commitRoot()
	}

	if r.nextUnitOfWork != nil {
		r.sched.Schedule(r.workLoop)
	}
}

// Idle reports whether no render is pending or in flight.
func (r *Renderer) Idle() bool {
	return r.nextUnitOfWork == nil && r.wipRoot == nil
}

// Container returns the render target node.
func (r *Renderer) Container() host.Node {
	return r.container
}

// Stats returns a copy of the renderer's counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// performUnitOfWork processes one fiber and returns the next one in
// depth-first pre-order: child first, else the nearest unprocessed
// ancestor's sibling, else nil.
func (r *Renderer) performUnitOfWork(f *Fiber) *Fiber {
	if f.kind == element.KindComponent {
		r.updateComponent(f)
	} else {
		r.updateHost(f)
	}

	if f.child != nil {
		return f.child
	}
	for next := f; next != nil; next = next.parent {
		if next.sibling != nil {
			return next.sibling
		}
	}
	return nil
}

// updateHost lazily creates the fiber's host node and reconciles its
// child elements.
func (r *Renderer) updateHost(f *Fiber) {
	if f.dom == nil {
		f.dom = r.createDOM(f)
	}
	r.reconcileChildren(f, f.elements)
}

// createDOM allocates a bare host node for f and applies its initial
// props as a patch from nothing.
func (r *Renderer) createDOM(f *Fiber) host.Node {
	var node host.Node
	if f.kind == element.KindText {
		node = r.doc.CreateTextNode("")
	} else {
		node = r.doc.CreateElement(f.tag)
	}
	host.PatchProps(node, nil, f.props)
	return node
}

// updateComponent runs the component function inside its hook window and
// reconciles the single element it returns.
func (r *Renderer) updateComponent(f *Fiber) {
	r.wipFiber = f
	r.hookIndex = 0
	f.hooks = nil

	child := r.invokeComponent(f)

	r.wipFiber = nil
	r.reconcileChildren(f, []element.Element{child})
}
