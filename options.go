// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asynctest

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joeycumines/logiface"
)

// DefaultPollInterval is the delay between evaluations of a [WaitUntil]
// predicate, unless configured otherwise.
const DefaultPollInterval = 100 * time.Millisecond

// options holds the resolved configuration shared by the helpers.
type options struct {
	logger       *logiface.Logger[logiface.Event]
	newBackOff   func() backoff.BackOff
	pollInterval time.Duration
	timeout      time.Duration
	loggerSet    bool
}

// Option configures [ReportPromise], [WaitUntil], or a [Harness].
// Options are applied in order, later options overriding earlier ones.
type Option interface {
	apply(*options)
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*options)
}

func (o *optionImpl) apply(opts *options) {
	o.applyFunc(opts)
}

// WithLogger sets the logger used to report promise rejections.
// A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) {
		opts.logger = logger
		opts.loggerSet = true
	}}
}

// WithPollInterval sets the fixed delay between predicate evaluations, for
// [WaitUntil]. Values <= 0 reset to [DefaultPollInterval].
//
// Ignored if [WithPollBackOff] is also provided.
func WithPollInterval(interval time.Duration) Option {
	return &optionImpl{func(opts *options) {
		opts.pollInterval = interval
	}}
}

// WithPollBackOff configures the delay between predicate evaluations, using
// a backoff policy. The factory is called once per [WaitUntil] call, since
// policies are stateful. If the policy returns [backoff.Stop], the wait
// rejects with [ErrWaitTimeout].
//
// A nil factory restores the fixed interval.
func WithPollBackOff(factory func() backoff.BackOff) Option {
	return &optionImpl{func(opts *options) {
		opts.newBackOff = factory
	}}
}

// WithTimeout bounds the total duration of a [WaitUntil] call, after which
// it rejects with [ErrWaitTimeout]. Values <= 0 (the default) wait forever.
func WithTimeout(timeout time.Duration) Option {
	return &optionImpl{func(opts *options) {
		opts.timeout = timeout
	}}
}

func resolveOptions(opts []Option) *options {
	cfg := &options{
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = DefaultPollInterval
	}
	if !cfg.loggerSet {
		cfg.logger = defaultLogger()
	}
	return cfg
}

// backOff returns a fresh poll policy.
func (x *options) backOff() backoff.BackOff {
	if x.newBackOff != nil {
		if b := x.newBackOff(); b != nil {
			return b
		}
	}
	return backoff.NewConstantBackOff(x.pollInterval)
}
