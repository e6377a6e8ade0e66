// Package didacttest provides an isolated harness for testing element
// trees and components without a real host: an in-memory document, a
// caller-stepped scheduler, and helpers for events, finders, snapshots,
// and YAML-described scenarios.
package didacttest

import (
	"testing"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/memdom"
	"github.com/go-didact/didact/pkg/reconciler"
	"github.com/go-didact/didact/pkg/scheduler"
)

// Tester drives one renderer against an in-memory document. Everything
// runs on the calling goroutine; scheduling turns execute only when the
// test pumps them, so work/yield interleavings are reproducible.
type Tester struct {
	doc       *memdom.Document
	container *memdom.Node
	sched     *scheduler.Manual
	renderer  *reconciler.Renderer
}

// NewTester creates a tester rendering into a fresh "root" container.
func NewTester(t *testing.T) *Tester {
	t.Helper()
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	sched := &scheduler.Manual{}
	return &Tester{
		doc:       doc,
		container: container,
		sched:     sched,
		renderer:  reconciler.NewRenderer(doc, container, sched),
	}
}

// Render schedules a render of el and pumps until the renderer is idle.
func (ts *Tester) Render(el element.Element) {
	ts.renderer.Render(el)
	ts.PumpUntilIdle()
}

// RenderPartial schedules a render of el without pumping, so the test
// can step the work loop one budget at a time.
func (ts *Tester) RenderPartial(el element.Element) {
	ts.renderer.Render(el)
}

// Pump runs one scheduling turn with the given budget. Returns false if
// no turn was pending.
func (ts *Tester) Pump(budget scheduler.Budget) bool {
	return ts.sched.Step(budget)
}

// PumpUntilIdle runs turns with unbounded budgets until nothing is
// pending. Returns the number of turns run.
func (ts *Tester) PumpUntilIdle() int {
	return ts.sched.Drain(func() scheduler.Budget { return scheduler.NeverYield })
}

// Click dispatches a click event on node and pumps the re-render it may
// have triggered.
func (ts *Tester) Click(node *memdom.Node) {
	node.DispatchEvent("click", nil)
	ts.PumpUntilIdle()
}

// Container returns the render target.
func (ts *Tester) Container() *memdom.Node {
	return ts.container
}

// OuterHTML renders the container subtree.
func (ts *Tester) OuterHTML() string {
	return ts.container.OuterHTML()
}

// Renderer exposes the underlying renderer for stats and snapshots.
func (ts *Tester) Renderer() *reconciler.Renderer {
	return ts.renderer
}
