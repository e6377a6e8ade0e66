package reconciler

import (
	"fmt"
	"testing"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/errors"
	"github.com/go-didact/didact/pkg/host"
	"github.com/go-didact/didact/pkg/memdom"
	"github.com/go-didact/didact/pkg/scheduler"
)

// counter is the canonical stateful component: one hook, a click handler
// that increments through the setter.
func counter(initial int) element.ComponentFunc {
	return func(ctx element.BuildContext, props element.Props) element.Element {
		state, enqueue := ctx.Hook(initial)
		count := state.(int)
		return element.New("h1", element.Props{
			"onClick": func(host.Event) {
				enqueue(func(old any) any { return old.(int) + 1 })
			},
		}, fmt.Sprintf("Count: %d", count))
	}
}

func TestUseStateInitialValue(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	r.Render(element.New(counter(7), nil))

	if got := container.TextContent(); got != "Count: 7" {
		t.Errorf("text = %q", got)
	}
}

func TestSetterTriggersRerenderWithNewState(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	r.Render(element.New(counter(1), nil))
	h1 := container.Children()[0]

	// Three separate click/commit cycles: state advances 2, 3, 4 with no
	// value lost or duplicated.
	for want := 2; want <= 4; want++ {
		h1.DispatchEvent("click", nil)
		if got := container.TextContent(); got != fmt.Sprintf("Count: %d", want) {
			t.Fatalf("after click: text = %q, want Count: %d", got, want)
		}
	}

	if container.Children()[0] != h1 {
		t.Error("h1 node was re-created across state updates")
	}
	if s := r.Stats(); s.Commits != 4 {
		t.Errorf("commits = %d, want 4", s.Commits)
	}
}

func TestQueuedActionsReplayInOrder(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	sched := &scheduler.Manual{}
	r := NewRenderer(doc, container, sched)

	var enqueue func(func(any) any)
	app := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		state, enq := ctx.Hook("")
		enqueue = enq
		return element.New("p", nil, state.(string))
	})

	r.Render(element.New(app, nil))
	sched.Drain(func() scheduler.Budget { return scheduler.NeverYield })

	// Two actions land on the committed fiber's queue before the next
	// render runs; the replay must apply them in order.
	enqueue(func(old any) any { return old.(string) + "a" })
	enqueue(func(old any) any { return old.(string) + "b" })
	sched.Drain(func() scheduler.Budget { return scheduler.NeverYield })

	if got := container.TextContent(); got != "ab" {
		t.Errorf("text = %q, want ab", got)
	}
}

func TestHooksArePositional(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	var bumpFirst, bumpSecond func(func(any) any)
	app := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		first, enqueueFirst := ctx.Hook(10)
		second, enqueueSecond := ctx.Hook(20)
		bumpFirst, bumpSecond = enqueueFirst, enqueueSecond
		return element.New("p", nil, fmt.Sprintf("%d/%d", first.(int), second.(int)))
	})

	r.Render(element.New(app, nil))
	if got := container.TextContent(); got != "10/20" {
		t.Fatalf("text = %q", got)
	}

	bumpFirst(func(old any) any { return old.(int) + 1 })
	if got := container.TextContent(); got != "11/20" {
		t.Errorf("after first bump: %q", got)
	}

	bumpSecond(func(old any) any { return old.(int) + 1 })
	if got := container.TextContent(); got != "11/21" {
		t.Errorf("after second bump: %q", got)
	}
}

func TestStatePersistsPerFiberPosition(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	var setters []func(func(any) any)
	item := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		state, enqueue := ctx.Hook(0)
		setters = append(setters, enqueue)
		return element.New("li", nil, fmt.Sprint(state.(int)))
	})

	app := element.New("ul", nil, element.New(item, nil), element.New(item, nil))

	r.Render(app)
	firstSetter := setters[0]
	setters = nil

	// Bump only the first position; the second keeps its own cell.
	firstSetter(func(old any) any { return old.(int) + 5 })

	if got := container.TextContent(); got != "50" {
		t.Errorf("text = %q, want 50", got)
	}
}

func TestHookOutsideProcessingWindowFaults(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	var leaked element.BuildContext
	app := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		leaked = ctx
		return element.New("p", nil)
	})
	r.Render(element.New(app, nil))

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic")
		}
		if _, ok := rec.(*errors.HookError); !ok {
			t.Fatalf("recovered %T, want *errors.HookError", rec)
		}
	}()
	leaked.Hook(0)
}

func TestComponentPanicIsReportedAndReraised(t *testing.T) {
	h := &renderErrorRecorder{}
	old := errors.Handler()
	errors.SetHandler(h)
	defer errors.SetHandler(old)

	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := NewRenderer(doc, container, scheduler.Immediate{})

	boom := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		panic("render exploded")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic was swallowed")
			}
		}()
		r.Render(element.New(boom, nil))
	}()

	if len(h.renders) != 1 || h.renders[0].Recovered != "render exploded" {
		t.Fatalf("render errors = %+v", h.renders)
	}
}

func TestSetterBeforeFirstCommitIsHonoredAfterIt(t *testing.T) {
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	sched := &scheduler.Manual{}
	r := NewRenderer(doc, container, sched)

	var enqueue func(func(any) any)
	app := element.ComponentFunc(func(ctx element.BuildContext, props element.Props) element.Element {
		state, enq := ctx.Hook(0)
		if enqueue == nil {
			enqueue = enq
		}
		return element.New("p", nil, fmt.Sprint(state.(int)))
	})

	r.Render(element.New(app, nil))
	// Build the whole tree but do not commit yet: yield right at the end
	// of the work phase by granting exactly the number of fiber units.
	sched.Step(scheduler.YieldAfter(3)) // root, component, p (text pending)

	// The first commit has not happened; the setter must not be lost.
	enqueue(func(old any) any { return old.(int) + 1 })
	sched.Drain(func() scheduler.Budget { return scheduler.NeverYield })

	if got := container.TextContent(); got != "1" {
		t.Errorf("text = %q, want 1", got)
	}
}

type renderErrorRecorder struct {
	renders []*errors.RenderError
}

func (h *renderErrorRecorder) HandleError(*errors.Error)      {}
func (h *renderErrorRecorder) HandlePanic(*errors.PanicError) {}
func (h *renderErrorRecorder) HandleRenderError(err *errors.RenderError) {
	h.renders = append(h.renders, err)
}
