// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/stretchr/testify/require"
)

// shutdownTimeout bounds how long cleanup waits for the loop to stop.
var shutdownTimeout = 5 * time.Second

// Harness runs an [eventloop.Loop] for the duration of a test, providing
// the execution context the other helpers expect.
type Harness struct {
	t       testing.TB
	loop    *eventloop.Loop
	js      *eventloop.JS
	runDone chan struct{}
	runErr  error
	opts    []Option
}

// NewHarness starts a loop, stopped automatically when the test completes.
// The options are used by [Harness.WaitUntil] and [Harness.Report].
func NewHarness(t testing.TB, opts ...Option) *Harness {
	t.Helper()

	loop, err := eventloop.New()
	require.NoError(t, err)

	js, err := eventloop.NewJS(loop)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h := &Harness{
		t:       t,
		loop:    loop,
		js:      js,
		runDone: make(chan struct{}),
		opts:    opts,
	}

	go func() {
		defer close(h.runDone)
		h.runErr = loop.Run(ctx)
	}()

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := loop.Shutdown(shutdownCtx); err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
			t.Errorf(`asynctest: failed to shut down loop: %v`, err)
		}
		cancel()
		<-h.runDone
	})

	return h
}

// Loop returns the running loop.
func (h *Harness) Loop() *eventloop.Loop {
	return h.loop
}

// JS returns the JS adapter bound to the loop.
func (h *Harness) JS() *eventloop.JS {
	return h.js
}

// Do runs fn on the loop goroutine, blocking until it returns. The test
// fails if fn could not be run.
func (h *Harness) Do(fn func()) {
	h.t.Helper()
	done := make(chan struct{})
	require.NoError(h.t, h.loop.Submit(func() {
		defer close(done)
		fn()
	}))
	select {
	case <-done:
	case <-h.runDone:
		require.FailNow(h.t, `asynctest: loop stopped before task ran`, `run error: %v`, h.runErr)
	}
}

// WaitUntil calls [WaitUntil] on the loop goroutine, with the harness
// options, followed by opts.
func (h *Harness) WaitUntil(predicate func() bool, opts ...Option) *eventloop.ChainedPromise {
	h.t.Helper()
	var promise *eventloop.ChainedPromise
	h.Do(func() {
		promise = WaitUntil(h.js, predicate, h.options(opts)...)
	})
	return promise
}

// Report calls [ReportPromise] on the loop goroutine, with the harness
// options, followed by opts.
func (h *Harness) Report(promise *eventloop.ChainedPromise, callback func(failed bool), opts ...Option) {
	h.t.Helper()
	h.Do(func() {
		ReportPromise(promise, callback, h.options(opts)...)
	})
}

// Await blocks until promise settles, or ctx is done. Rejection reasons are
// returned as errors, wrapped in [RejectedError] if necessary.
func (h *Harness) Await(ctx context.Context, promise *eventloop.ChainedPromise) (any, error) {
	select {
	case result := <-promise.ToChannel():
		if promise.State() == eventloop.Rejected {
			return nil, rejectionError(result)
		}
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.runDone:
		if h.runErr != nil {
			return nil, h.runErr
		}
		return nil, errors.New(`asynctest: loop stopped before promise settled`)
	}
}

func (h *Harness) options(opts []Option) []Option {
	if len(opts) == 0 {
		return h.opts
	}
	return append(append(make([]Option, 0, len(h.opts)+len(opts)), h.opts...), opts...)
}
