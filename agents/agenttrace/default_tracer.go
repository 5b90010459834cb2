/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer receives completed traces.
type Tracer interface {
	RecordTrace(*Trace)
}

// ByCode adapts a function to the Tracer interface.
type ByCode func(*Trace)

// RecordTrace implements Tracer.
func (f ByCode) RecordTrace(t *Trace) { f(t) }

type tracerKey struct{}

// WithTracer installs tracer on ctx.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the installed tracer, or one that logs through
// clog when none is set.
func TracerFromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok && t != nil {
		return t
	}
	return NewDefaultTracer(ctx)
}

// NewDefaultTracer logs each completed trace at debug level.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(t *Trace) {
		logger.With(
			"trace_id", t.ID,
			"duration_ms", t.Duration().Milliseconds(),
			"tool_calls", len(t.ToolCalls),
			"turns", t.Turns,
		).Debug("Agent trace completed", "trace", t.String())
	})
}
