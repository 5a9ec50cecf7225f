// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"slices"
	"sync"

	"github.com/stretchr/testify/assert"
)

// CallRecorder captures calls to a function, so that arguments may be
// validated. It is safe to record from the loop goroutine, while asserting
// from the test goroutine.
//
// Example:
//
//	recorder := asynctest.NewCallRecorder()
//	someEvent.AddListener(recorder.Callable())
//	// do stuff ...
//	recorder.AssertCallCount(t, 1)
//	args, _ := recorder.LastArguments()
//	assert.Equal(t, "hammy", args[0])
type CallRecorder struct {
	callable *ListenerFunc
	calls    [][]any
	mu       sync.Mutex
}

// NewCallRecorder returns a recorder with no calls.
func NewCallRecorder() *CallRecorder {
	r := &CallRecorder{}
	r.callable = NewListener(r.record)
	return r
}

// Callable returns the recording handle. The same handle is returned on
// every call, so it may be used for removal, e.g. with
// [MockEvent.RemoveListener].
func (r *CallRecorder) Callable() Listener {
	return r.callable
}

// Func returns the recording function, for APIs that accept a plain
// callback.
func (r *CallRecorder) Func() func(args ...any) {
	return r.callable.fn
}

func (r *CallRecorder) record(args ...any) {
	// copied, as variadic args may alias the caller's slice
	args = slices.Clone(args)
	if args == nil {
		args = []any{}
	}
	r.mu.Lock()
	r.calls = append(r.calls, args)
	r.mu.Unlock()
}

// CallCount returns the number of recorded calls.
func (r *CallRecorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// AssertCallCount asserts that the recorder was called expected times.
func (r *CallRecorder) AssertCallCount(t assert.TestingT, expected int) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	actual := r.CallCount()
	return assert.Equalf(t, expected, actual, "Expected %d call(s), but was %d.", expected, actual)
}

// LastArguments returns the arguments of the most recent call, or false if
// the recorder has not been called.
func (r *CallRecorder) LastArguments() ([]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil, false
	}
	return slices.Clone(r.calls[len(r.calls)-1]), true
}

// Calls returns the arguments of every recorded call, oldest first.
func (r *CallRecorder) Calls() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([][]any, len(r.calls))
	for i, args := range r.calls {
		calls[i] = slices.Clone(args)
	}
	return calls
}
