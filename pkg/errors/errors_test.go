package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	underlying := errors.New("boom")
	err := &Error{Op: "reconciler.commitRoot", Kind: KindCommit, Err: underlying}

	if got := err.Error(); !strings.Contains(got, "reconciler.commitRoot") || !strings.Contains(got, "commit") {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, underlying) {
		t.Error("Unwrap chain broken")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindHook, "hook"},
		{KindReconcile, "reconcile"},
		{KindCommit, "commit"},
		{KindHost, "host"},
		{KindPanic, "panic"},
		{KindUnknown, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestHookErrorMessage(t *testing.T) {
	err := &HookError{Op: "reconciler.UseState", Reason: "no component is being processed"}
	want := "reconciler.UseState: no component is being processed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

type captureHandler struct {
	errs    []*Error
	panics  []*PanicError
	renders []*RenderError
}

func (h *captureHandler) HandleError(err *Error)             { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *PanicError)        { h.panics = append(h.panics, err) }
func (h *captureHandler) HandleRenderError(err *RenderError) { h.renders = append(h.renders, err) }

func TestReportUsesGlobalHandler(t *testing.T) {
	h := &captureHandler{}
	old := Handler()
	SetHandler(h)
	defer SetHandler(old)

	Report(&Error{Op: "x", Kind: KindHost, Err: errors.New("nope")})
	if len(h.errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(h.errs))
	}
	if h.errs[0].Timestamp.IsZero() {
		t.Error("Report did not stamp the error")
	}

	ReportRenderError(&RenderError{Component: "Counter", Recovered: "boom"})
	if len(h.renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(h.renders))
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	h := &captureHandler{}
	old := Handler()
	SetHandler(h)
	defer SetHandler(old)

	func() {
		defer Recover("test.op")
		panic("kaboom")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("panics = %d, want 1", len(h.panics))
	}
	if h.panics[0].Op != "test.op" || h.panics[0].Value != "kaboom" {
		t.Errorf("panic = %+v", h.panics[0])
	}
	if h.panics[0].StackTrace == "" {
		t.Error("missing stack trace")
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if Handler() == nil {
		t.Fatal("SetHandler(nil) should restore the default handler, not nil")
	}
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", Handler())
	}
}
