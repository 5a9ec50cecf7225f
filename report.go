// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"fmt"

	"github.com/joeycumines/go-eventloop"
	"github.com/pkg/errors"
)

// ReportPromise calls callback once the promise settles, passing true if it
// rejected. Rejection reasons are logged at error level (see [WithLogger]),
// but are not otherwise propagated.
//
// The callback is called exactly once, on the loop goroutine, and never
// synchronously.
func ReportPromise(promise *eventloop.ChainedPromise, callback func(failed bool), opts ...Option) {
	cfg := resolveOptions(opts)
	promise.Then(
		func(any) any {
			callback(false)
			return nil
		},
		func(reason any) any {
			cfg.logger.Err().
				Str(`reason`, diagnostic(reason)).
				Log(`asynctest: promise rejected`)
			callback(true)
			return nil
		},
	)
}

// stackTracer is implemented by errors created by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// diagnostic formats a rejection reason, including a stack trace if one is
// available.
func diagnostic(reason any) string {
	switch reason := reason.(type) {
	case nil:
		return `<nil>`
	case error:
		var st stackTracer
		if errors.As(reason, &st) {
			return fmt.Sprintf("%s%+v", reason.Error(), st.StackTrace())
		}
		return reason.Error()
	default:
		return fmt.Sprint(reason)
	}
}
