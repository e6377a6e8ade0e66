package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var global struct {
	sync.RWMutex
	handler ErrorHandler
}

func init() {
	global.handler = &LogHandler{}
}

// Handler returns the handler currently receiving reported errors.
func Handler() ErrorHandler {
	global.RLock()
	defer global.RUnlock()
	return global.handler
}

// SetHandler routes subsequent reports to h. Passing nil restores the
// stderr LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	global.Lock()
	global.handler = h
	global.Unlock()
}

// Report stamps err with the current time if it has none and hands it to
// the handler.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// ReportRenderError stamps err with the current time if it has none and
// hands it to the handler.
func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleRenderError(err)
}

// Recover reports a panic in the deferring operation without re-raising
// it. Usage: defer errors.Recover("scheduler.Loop")
func Recover(op string) {
	if v := recover(); v != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      v,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// CaptureStack formats the calling goroutine's stack, starting at the
// caller of CaptureStack.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		b.WriteString(frame.Function)
		b.WriteString("\n\t")
		b.WriteString(frame.File)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(frame.Line))
		b.WriteByte('\n')
		if !more {
			return b.String()
		}
	}
}
