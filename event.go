// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"reflect"
	"slices"
	"sync"
)

// Listener is a callback registered with a [MockEvent].
//
// Listeners are identified by interface equality, so implementations must
// be comparable, typically a pointer. Functions cannot be compared in Go,
// see [NewListener].
type Listener interface {
	Invoke(args ...any)
}

// ListenerFunc adapts a function to a [Listener]. Each *ListenerFunc is a
// distinct handle, even if it wraps the same function.
type ListenerFunc struct {
	fn func(args ...any)
}

var _ Listener = (*ListenerFunc)(nil)

// NewListener returns a new handle wrapping fn.
func NewListener(fn func(args ...any)) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

// Invoke calls the wrapped function.
func (x *ListenerFunc) Invoke(args ...any) {
	x.fn(args...)
}

// MockEvent simulates a platform event API, e.g. a chrome.Event, with
// listeners dispatched synchronously, in registration order.
//
// Thread Safety:
// MockEvent is safe for concurrent use. Listeners are called without any
// lock held, and may add or remove listeners.
type MockEvent struct {
	listeners []Listener
	mu        sync.Mutex
}

// NewMockEvent returns an event with no listeners.
func NewMockEvent() *MockEvent {
	return &MockEvent{}
}

// AddListener appends a listener. The same listener may be added more than
// once, in which case it will be called once per registration.
func (x *MockEvent) AddListener(listener Listener) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.listeners = append(x.listeners, listener)
}

// RemoveListener removes the first registration of listener, returning
// [ErrUnregisteredListener] if there is none. Listeners of a type that is
// not comparable can never be removed, and also return
// [ErrUnregisteredListener].
func (x *MockEvent) RemoveListener(listener Listener) error {
	if t := reflect.TypeOf(listener); t != nil && !t.Comparable() {
		return ErrUnregisteredListener
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	index := slices.Index(x.listeners, listener)
	if index < 0 {
		return ErrUnregisteredListener
	}
	x.listeners = slices.Delete(x.listeners, index, index+1)
	return nil
}

// HasListeners reports whether any listeners are registered.
func (x *MockEvent) HasListeners() bool {
	return x.ListenerCount() != 0
}

// ListenerCount returns the number of registrations.
func (x *MockEvent) ListenerCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.listeners)
}

// Dispatch calls every listener with args, in registration order.
//
// The listeners are those registered when Dispatch is called. Listeners
// added during the dispatch are not called, and listeners removed during
// the dispatch are still called.
func (x *MockEvent) Dispatch(args ...any) {
	x.mu.Lock()
	listeners := slices.Clone(x.listeners)
	x.mu.Unlock()

	for _, listener := range listeners {
		listener.Invoke(args...)
	}
}
