// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnregisteredListener is returned by [MockEvent.RemoveListener] when
	// the listener is not registered.
	ErrUnregisteredListener = errors.New("asynctest: tried to remove an unregistered listener")

	// ErrWaitTimeout is the rejection reason of a [WaitUntil] promise, if it
	// was bounded (see [WithTimeout], [WithPollBackOff]) and gave up.
	ErrWaitTimeout = errors.New("asynctest: timed out waiting for condition")
)

// RejectedError is returned by [Harness.Await] for promises rejected with a
// reason that is not an error.
type RejectedError struct {
	Reason any
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("asynctest: promise rejected: %v", e.Reason)
}

// rejectionError converts a rejection reason to an error.
func rejectionError(reason any) error {
	if err, ok := reason.(error); ok {
		return err
	}
	return &RejectedError{Reason: reason}
}
