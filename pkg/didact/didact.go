// Package didact is the public surface of the Didact reconciler: element
// construction, the typed state hook, and an App runner that wires a
// renderer to a host document on its own scheduling loop.
package didact

import (
	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/host"
	"github.com/go-didact/didact/pkg/reconciler"
	"github.com/go-didact/didact/pkg/scheduler"
)

// Props is an element's attribute map. Keys with the "on" prefix carry
// event handlers.
type Props = element.Props

// Element describes one UI node.
type Element = element.Element

// BuildContext is the hook window passed to component functions.
type BuildContext = element.BuildContext

// ComponentFunc is a function component.
type ComponentFunc = element.ComponentFunc

// CreateElement builds an element tree node. typ is a host tag string or
// a component function; children that are not elements are coerced into
// text elements.
func CreateElement(typ any, props Props, children ...any) Element {
	return element.New(typ, props, children...)
}

// Text builds a text element.
func Text(text string) Element {
	return element.Text(text)
}

// UseState returns the component-local state at the next hook position
// and a setter. The setter enqueues a functional update and triggers a
// full-tree re-render; the update runs when that render processes the
// hook again. Callable only inside a component function body, with the
// same call order on every render.
func UseState[T any](ctx BuildContext, initial T) (T, func(func(T) T)) {
	state, enqueue := ctx.Hook(initial)
	set := func(update func(T) T) {
		enqueue(func(old any) any {
			return update(old.(T))
		})
	}
	return state.(T), set
}

// App runs one render target on its own scheduling loop. All renderer
// work, including event handlers that call state setters, runs on the
// loop goroutine; use Dispatch to get there from anywhere else.
type App struct {
	renderer *reconciler.Renderer
	loop     *scheduler.Loop
}

// NewApp creates an app rendering into container and starts its loop.
// Call Stop when done.
func NewApp(doc host.Document, container host.Node) *App {
	loop := scheduler.NewLoop(0)
	loop.Start()
	return &App{
		renderer: reconciler.NewRenderer(doc, container, loop),
		loop:     loop,
	}
}

// Render schedules a render of el into the app's container.
func (a *App) Render(el Element) {
	a.Dispatch(func() {
		a.renderer.Render(el)
	})
}

// Dispatch runs fn on the app's loop goroutine. Use it to touch the
// renderer, or any state a component reads, from outside the loop.
func (a *App) Dispatch(fn func()) {
	a.loop.Schedule(func(scheduler.Budget) {
		fn()
	})
}

// WaitIdle blocks until the renderer has no render pending or in flight.
// Intended for demos and tests; a real host reacts to events instead.
func (a *App) WaitIdle() {
	for {
		idle := make(chan bool, 1)
		a.Dispatch(func() {
			idle <- a.renderer.Idle()
		})
		if <-idle {
			return
		}
	}
}

// Renderer exposes the underlying renderer for diagnostics.
func (a *App) Renderer() *reconciler.Renderer {
	return a.renderer
}

// Stop shuts down the app's loop.
func (a *App) Stop() {
	a.loop.Stop()
}
