/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics holds the counters emitted by agent sessions and workflow
// runs. Model-level usage goes through OpenTelemetry; workflow outcomes are
// exported as Prometheus collectors for the CLI's /metrics endpoint.
package metrics

import (
	"context"
	"log/slog"

	"chainguard.dev/sweagent/agents/agenttrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI counts tokens, turns and tool calls for model sessions. Counters that
// fail to register degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	turns            metric.Int64Counter
}

// NewGenAI registers the counters on the global meter provider.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	return &GenAI{
		promptTokens: counter(meter, meterName, "genai.token.prompt",
			"The number of prompt tokens used", "{tokens}"),
		completionTokens: counter(meter, meterName, "genai.token.completion",
			"The number of completion tokens used", "{tokens}"),
		toolCalls: counter(meter, meterName, "genai.tool.calls",
			"The number of tool calls made during execution", "{calls}"),
		turns: counter(meter, meterName, "genai.turns",
			"The number of model replies within sessions", "{turns}"),
	}
}

func counter(meter metric.Meter, meterName, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		slog.Warn("Failed to create counter, metric disabled", "error", err, "meter", meterName, "counter", name)
		return noop.Int64Counter{}
	}
	return c
}

func attrs(ctx context.Context, base ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(agenttrace.GetExecutionContext(ctx).EnrichAttributes(base)...)
}

// RecordTokens adds prompt and completion token counts for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, prompt, completion int64) {
	opt := attrs(ctx, attribute.String("model", model))
	m.promptTokens.Add(ctx, prompt, opt)
	m.completionTokens.Add(ctx, completion, opt)
}

// RecordToolCall counts one invocation of tool.
func (m *GenAI) RecordToolCall(ctx context.Context, model, tool string) {
	m.toolCalls.Add(ctx, 1, attrs(ctx, attribute.String("model", model), attribute.String("tool", tool)))
}

// RecordTurn counts one model reply.
func (m *GenAI) RecordTurn(ctx context.Context, model string) {
	m.turns.Add(ctx, 1, attrs(ctx, attribute.String("model", model)))
}
