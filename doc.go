// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package asynctest provides unit test helpers for code built on
// [github.com/joeycumines/go-eventloop], the JavaScript-compatible event
// loop.
//
// # Helpers
//
//   - [ReportPromise] adapts a settled [eventloop.ChainedPromise] to a single
//     callback, receiving true if the promise rejected.
//   - [WaitUntil] polls a predicate on a timer, returning a promise that
//     resolves once the predicate returns true.
//   - [CallRecorder] is a spy, recording the arguments of every call made
//     through its [CallRecorder.Callable] handle.
//   - [MockEvent] is an in-memory listener list, simulating a platform event
//     API (addListener, removeListener, dispatch).
//
// The helpers are independent of each other. [Harness] ties them to a
// running loop, for use from a Go test.
//
// # Execution Model
//
// Promise handlers and poll timers always run on the loop goroutine, which
// is the single execution context the helpers assume. [WaitUntil] evaluates
// its predicate for the first time on the calling goroutine, and so should
// be called from the loop (e.g. within [Harness.Do], or via
// [Harness.WaitUntil]).
//
// By default, a wait never times out. See [WithTimeout] and
// [WithPollBackOff].
//
// # Usage
//
//	func TestWidget(t *testing.T) {
//	    h := asynctest.NewHarness(t)
//
//	    changed := asynctest.NewCallRecorder()
//	    event := asynctest.NewMockEvent()
//	    event.AddListener(changed.Callable())
//
//	    h.Do(func() { event.Dispatch("hammy") })
//
//	    changed.AssertCallCount(t, 1)
//	    args, _ := changed.LastArguments()
//	    assert.Equal(t, []any{"hammy"}, args)
//	}
//
// # Logging
//
// Rejections observed by [ReportPromise] are logged at error level, using
// a [logiface.Logger]. The default writes JSON lines to [os.Stderr], via
// [github.com/joeycumines/stumpy]. See [WithLogger].
package asynctest
