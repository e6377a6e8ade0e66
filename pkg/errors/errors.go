// Package errors provides structured error handling for the Didact
// reconciler. The core assumes well-formed inputs; everything reported
// here is a programming fault, surfaced immediately and never recovered
// from at the render-semantics level.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates misuse of the state hook store.
	KindHook
	// KindReconcile indicates a failure while diffing element lists.
	KindReconcile
	// KindCommit indicates a failure while applying effects to the host.
	KindCommit
	// KindHost indicates a failure inside a host adapter call.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindReconcile:
		return "reconcile"
	case KindCommit:
		return "commit"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the reconciler.
type Error struct {
	// Op is the operation that failed (e.g., "reconciler.commitRoot").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scheduler.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure inside a function component. The
// reconciler reports it and re-raises; there are no error boundaries.
type RenderError struct {
	// Component is the name of the component function that failed.
	Component string
	// Recovered is the panic value.
	Recovered any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("panic in component %s: %v", e.Component, e.Recovered)
}

// HookError represents misuse of the state hook store, such as calling
// UseState outside a component's processing window.
type HookError struct {
	// Op is the hook operation (e.g., "reconciler.UseState").
	Op string
	// Reason describes the misuse.
	Reason string
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ErrorHandler receives errors reported by the reconciler.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a component render fails.
	HandleRenderError(err *RenderError)
}
