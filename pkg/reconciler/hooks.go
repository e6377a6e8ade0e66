package reconciler

import (
	"time"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/errors"
)

// buildContext is the hook window handed to a component function. It is
// valid only while its fiber is being processed; using it afterwards (for
// example from a goroutine or an event handler) faults immediately.
type buildContext struct {
	r     *Renderer
	fiber *Fiber
}

// invokeComponent runs f's component function. A panic inside the
// component is reported as a structured render error and re-raised; there
// are no error boundaries.
func (r *Renderer) invokeComponent(f *Fiber) element.Element {
	defer func() {
		if rec := recover(); rec != nil {
			errors.ReportRenderError(&errors.RenderError{
				Component:  componentName(f.fn),
				Recovered:  rec,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			panic(rec)
		}
	}()
	return f.fn(&buildContext{r: r, fiber: f}, f.props)
}

// Hook returns the state cell at the next hook position and an enqueue
// function for update actions. Cells are positional: the Nth call on a
// render resolves against the Nth cell of the alternate fiber. The
// resolved state is the alternate's state with all queued actions
// replayed in order; absent an alternate cell, initial.
//
// The enqueue function appends the action to the cell of the fiber that
// commits (the current tree's queue) and schedules a full-tree re-render
// from the committed root.
func (c *buildContext) Hook(initial any) (any, func(func(any) any)) {
	r := c.r
	if r.wipFiber == nil || r.wipFiber != c.fiber {
		panic(&errors.HookError{
			Op:     "reconciler.UseState",
			Reason: "called outside the component's processing window",
		})
	}

	fiber := r.wipFiber
	var old *hookCell
	if fiber.alternate != nil && r.hookIndex < len(fiber.alternate.hooks) {
		old = fiber.alternate.hooks[r.hookIndex]
	}

	cell := &hookCell{}
	if old != nil {
		cell.state = old.state
		for _, action := range old.queue {
			cell.state = action(cell.state)
		}
	} else {
		cell.state = initial
	}

	fiber.hooks = append(fiber.hooks, cell)
	r.hookIndex++

	enqueue := func(action func(any) any) {
		cell.queue = append(cell.queue, action)
		r.rerender()
	}
	return cell.state, enqueue
}
