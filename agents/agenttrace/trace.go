/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agenttrace records what happened during an agent session: the
// seed prompt, each model turn, every tool invocation and the final reply.
// Traces and tool calls are mirrored as OpenTelemetry spans.
package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/sweagent/agents/agenttrace"

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// ToolCall is a single tool invocation within a trace.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	mu    sync.Mutex
	trace *Trace
	span  oteltrace.Span
}

// Usage is the cumulative token consumption of a trace.
type Usage struct {
	Model        string `json:"model,omitempty"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// Trace is one agent session from seed prompt to final reply.
type Trace struct {
	ID          string           `json:"id"`
	Prompt      string           `json:"prompt"`
	ExecContext ExecutionContext `json:"exec_context,omitempty"`
	ToolCalls   []*ToolCall      `json:"tool_calls"`
	Turns       int              `json:"turns"`
	Usage       Usage            `json:"usage"`
	Result      string           `json:"result"`
	Error       error            `json:"error,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Metadata    map[string]any   `json:"metadata,omitempty"`

	mu     sync.Mutex
	tracer Tracer
	ctx    context.Context
	span   oteltrace.Span
}

// StartTrace begins a trace that is handed to the context's Tracer once
// Complete is called.
func StartTrace(ctx context.Context, prompt string) *Trace {
	execCtx := GetExecutionContext(ctx)
	ctx, span := tracer().Start(ctx, "agent.session",
		oteltrace.WithAttributes(execCtx.SpanAttributes()...),
		oteltrace.WithAttributes(attribute.Int("agent.prompt.length", len(prompt))))

	return &Trace{
		ID:          newTraceID(),
		Prompt:      prompt,
		ExecContext: execCtx,
		ToolCalls:   []*ToolCall{},
		StartTime:   time.Now(),
		Metadata:    make(map[string]any),
		tracer:      TracerFromContext(ctx),
		ctx:         ctx,
		span:        span,
	}
}

// Context returns a context carrying the trace's span.
func (t *Trace) Context() context.Context {
	return t.ctx
}

// RecordTurn notes that the model produced another reply.
func (t *Trace) RecordTurn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Turns++
}

// RecordTokenUsage accumulates token counts and mirrors the totals on the span.
func (t *Trace) RecordTokenUsage(model string, input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Usage.Model = model
	t.Usage.InputTokens += input
	t.Usage.OutputTokens += output
	if t.span != nil {
		t.span.SetAttributes(
			attribute.String("model", model),
			attribute.Int64("tokens.input", t.Usage.InputTokens),
			attribute.Int64("tokens.output", t.Usage.OutputTokens),
		)
	}
}

// SetMetadata attaches a free-form key to the trace.
func (t *Trace) SetMetadata(key string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Metadata[key] = value
}

// StartToolCall opens a child span for a tool invocation.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	_, span := tracer().Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a call the session could not dispatch, such as an
// unknown tool name or undecodable arguments.
func (t *Trace) BadToolCall(id, name string, params map[string]any, err error) {
	tc := t.StartToolCall(id, name, params)
	tc.Complete(nil, err)
}

// Complete closes the tool call span and appends it to the trace.
func (tc *ToolCall) Complete(result any, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	span := tc.span
	tc.mu.Unlock()

	endSpan(span, err)

	tc.trace.mu.Lock()
	defer tc.trace.mu.Unlock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
}

// Duration is the elapsed time of the tool call, or the time so far if it is
// still running.
func (tc *ToolCall) Duration() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return elapsed(tc.StartTime, tc.EndTime)
}

// Complete closes the trace and hands it to the tracer.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	span := t.span
	turns := t.Turns
	t.mu.Unlock()

	if span != nil {
		span.SetAttributes(attribute.Int("agent.turns", turns))
	}
	endSpan(span, err)
	t.tracer.RecordTrace(t)
}

// Duration is the elapsed time of the session.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// String renders a human-readable summary for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if t.ExecContext.Operation != "" {
		fmt.Fprintf(&sb, "Operation: %s %s\n", t.ExecContext.Operation, t.ExecContext.Repository)
	}
	fmt.Fprintf(&sb, "Prompt: %q\n", truncate(t.Prompt, 200))
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))
	fmt.Fprintf(&sb, "Turns: %d\n", t.Turns)
	if t.Usage.Model != "" {
		fmt.Fprintf(&sb, "Tokens: %d in, %d out (%s)\n", t.Usage.InputTokens, t.Usage.OutputTokens, t.Usage.Model)
	}

	if len(t.ToolCalls) == 0 {
		sb.WriteString("\nNo tool calls\n")
	} else {
		fmt.Fprintf(&sb, "\nTool Calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s (ID: %s) %v\n", i+1, tc.Name, tc.ID, elapsed(tc.StartTime, tc.EndTime))
			for _, k := range slices.Sorted(maps.Keys(tc.Params)) {
				fmt.Fprintf(&sb, "      %s: %s\n", k, truncate(fmt.Sprint(tc.Params[k]), 120))
			}
			switch {
			case tc.Error != nil:
				fmt.Fprintf(&sb, "      Error: %v\n", tc.Error)
			case tc.Result != nil:
				fmt.Fprintf(&sb, "      Result: %s\n", truncate(fmt.Sprint(tc.Result), 200))
			}
		}
	}

	sb.WriteString("\nCompletion:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "  Result: %s\n", truncate(t.Result, 500))
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// newTraceID returns YYYYMMDD-HHMMSS-RRRRRRRR with a random hex suffix.
func newTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
