// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"io"
	"os"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// defaultLogger writes to stderr, the equivalent of console.error.
var defaultLogger = sync.OnceValue(func() *logiface.Logger[logiface.Event] {
	return NewLogger(os.Stderr)
})

// NewLogger returns a logger writing JSON lines to w, suitable for
// [WithLogger]. The time field is omitted, so output is deterministic.
func NewLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField(``),
		),
	).Logger()
}
