/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext describes the workflow a session belongs to.
type ExecutionContext struct {
	// Operation is one of the CLI operations, e.g. "fix-issue" or "review".
	Operation string `json:"operation,omitempty"`
	// Repository is "owner/name".
	Repository string `json:"repository,omitempty"`
	// Model is the model name driving the session.
	Model string `json:"model,omitempty"`
}

// SpanAttributes returns the populated fields as span attributes.
func (e ExecutionContext) SpanAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if e.Operation != "" {
		attrs = append(attrs, attribute.String("operation", e.Operation))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("repository", e.Repository))
	}
	if e.Model != "" {
		attrs = append(attrs, attribute.String("model", e.Model))
	}
	return attrs
}

// EnrichAttributes appends the bounded labels (operation and repository) to
// base for use as metric attributes.
func (e ExecutionContext) EnrichAttributes(base []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(base), len(base)+2)
	copy(attrs, base)
	if e.Operation != "" {
		attrs = append(attrs, attribute.String("operation", e.Operation))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("repository", e.Repository))
	}
	return attrs
}

type executionContextKey struct{}

// WithExecutionContext stores execCtx on ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the ExecutionContext stored on ctx, if any.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	execCtx, _ := ctx.Value(executionContextKey{}).(ExecutionContext)
	return execCtx
}
