// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joeycumines/go-eventloop"
)

// WaitUntil returns a promise that resolves (with nil) once predicate
// returns true.
//
// The predicate is evaluated immediately, on the calling goroutine, then
// again after each poll interval (see [DefaultPollInterval]), using
// [eventloop.JS.SetTimeout]. Evaluations never overlap. The calling goroutine
// should be the loop goroutine.
//
// There is no timeout by default: if the predicate never returns true, the
// promise never settles. Use [WithTimeout] or [WithPollBackOff] to bound the
// wait, in which case the promise rejects with [ErrWaitTimeout].
func WaitUntil(js *eventloop.JS, predicate func() bool, opts ...Option) *eventloop.ChainedPromise {
	cfg := resolveOptions(opts)
	promise, resolve, reject := js.NewChainedPromise()

	w := &waiter{
		js:        js,
		predicate: predicate,
		resolve:   resolve,
		reject:    reject,
		policy:    cfg.backOff(),
		timeout:   cfg.timeout,
		start:     time.Now(),
	}
	w.policy.Reset()
	w.poll()

	return promise
}

// waiter is the state of a single WaitUntil call.
type waiter struct {
	start     time.Time
	js        *eventloop.JS
	predicate func() bool
	resolve   eventloop.ResolveFunc
	reject    eventloop.RejectFunc
	policy    backoff.BackOff
	timeout   time.Duration
}

func (w *waiter) poll() {
	if w.predicate() {
		w.resolve(nil)
		return
	}

	delay := w.policy.NextBackOff()
	if delay == backoff.Stop {
		w.reject(ErrWaitTimeout)
		return
	}

	if w.timeout > 0 {
		remaining := w.timeout - time.Since(w.start)
		if remaining <= 0 {
			w.reject(ErrWaitTimeout)
			return
		}
		// one last evaluation, at the deadline
		delay = min(delay, remaining)
	}

	if _, err := w.js.SetTimeout(w.poll, delayMillis(delay)); err != nil {
		w.reject(fmt.Errorf(`asynctest: failed to schedule poll: %w`, err))
	}
}

// maxDelayMillis is the largest delay that converts back to a
// [time.Duration] without overflow, and fits in an int.
const maxDelayMillis int64 = min(math.MaxInt64/int64(time.Millisecond), math.MaxInt)

// delayMillis rounds up, so polls are never closer together than delay.
// Delays beyond maxDelayMillis are clamped.
func delayMillis(delay time.Duration) int {
	if delay <= 0 {
		return 0
	}
	ms := int64(delay / time.Millisecond)
	if delay%time.Millisecond != 0 {
		ms++
	}
	return int(min(ms, maxDelayMillis))
}
