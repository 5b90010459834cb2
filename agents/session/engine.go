/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/sweagent/agents/agenttrace"
	"chainguard.dev/sweagent/agents/metrics"
	"chainguard.dev/sweagent/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

// ErrReplyBudgetExhausted is returned when the model has not produced a
// terminating message within the automatic reply budget.
var ErrReplyBudgetExhausted = errors.New("automatic reply budget exhausted before termination")

// DefaultMaxAutoReplies is the automatic reply budget when none is configured.
const DefaultMaxAutoReplies = 10

const defaultContinuePrompt = "Continue with the task. Use the available tools, and reply with " +
	DefaultSentinel + " once everything on the checklist is done."

// Transcript is the full exchange of a session.
type Transcript struct {
	Messages    []Message
	State       State
	AutoReplies int
}

// Final returns the text of the last assistant message.
func (t *Transcript) Final() string {
	for _, m := range slices.Backward(t.Messages) {
		if m.Role == RoleAssistant {
			return m.Text
		}
	}
	return ""
}

// Engine drives sessions against a single model with a fixed tool set.
type Engine struct {
	model          Model
	tools          map[string]toolcall.Tool
	maxAutoReplies int
	terminate      TerminationFunc
	continuePrompt string
	genaiMetrics   *metrics.GenAI
}

// New creates an Engine. Without options it has no tools, a budget of
// DefaultMaxAutoReplies and terminates on DefaultSentinel.
func New(model Model, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, errors.New("model cannot be nil")
	}
	e := &Engine{
		model:          model,
		tools:          map[string]toolcall.Tool{},
		maxAutoReplies: DefaultMaxAutoReplies,
		terminate:      ContainsSentinel(DefaultSentinel),
		continuePrompt: defaultContinuePrompt,
		genaiMetrics:   metrics.NewGenAI("chainguard.dev/sweagent"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Start runs a session seeded with seed under the system instruction and
// blocks until it terminates, the budget runs out, the model fails or ctx is
// done. The transcript is returned in every case.
func (e *Engine) Start(ctx context.Context, system, seed string) (transcript *Transcript, err error) {
	log := clog.FromContext(ctx).With("model", e.model.Name())

	trace := agenttrace.StartTrace(ctx, seed)
	defer func() {
		trace.SetMetadata("state", transcript.State.String())
		trace.Complete(transcript.Final(), err)
	}()
	ctx = trace.Context()

	defs := e.definitions()
	sm := &machine{state: Running, terminate: e.terminate}
	transcript = &Transcript{
		Messages: []Message{{Role: RoleUser, Text: seed}},
		State:    Running,
	}

	log.With("tools", len(defs), "max_auto_replies", e.maxAutoReplies).Info("Starting agent session")

	for {
		if err := ctx.Err(); err != nil {
			return transcript, err
		}

		resp, err := e.model.Generate(ctx, Request{
			System:   system,
			Messages: transcript.Messages,
			Tools:    defs,
		})
		if err != nil {
			return transcript, fmt.Errorf("generating reply: %w", err)
		}
		reply := resp.Message
		reply.Role = RoleAssistant
		transcript.Messages = append(transcript.Messages, reply)

		trace.RecordTurn()
		e.genaiMetrics.RecordTurn(ctx, e.model.Name())
		if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
			trace.RecordTokenUsage(e.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
			e.genaiMetrics.RecordTokens(ctx, e.model.Name(), resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}

		if sm.observe(reply) {
			transcript.State = sm.state
			log.With("auto_replies", transcript.AutoReplies).Info("Agent session terminated")
			return transcript, nil
		}

		if transcript.AutoReplies >= e.maxAutoReplies {
			log.With("auto_replies", transcript.AutoReplies).Warn("Agent session ran out of automatic replies")
			return transcript, ErrReplyBudgetExhausted
		}
		transcript.AutoReplies++

		if len(reply.ToolCalls) == 0 {
			transcript.Messages = append(transcript.Messages, Message{Role: RoleUser, Text: e.continuePrompt})
			continue
		}
		transcript.Messages = append(transcript.Messages, Message{
			Role:        RoleUser,
			ToolResults: e.dispatch(ctx, trace, reply.ToolCalls),
		})
	}
}

func (e *Engine) dispatch(ctx context.Context, trace *agenttrace.Trace, calls []toolcall.ToolCall) []ToolResult {
	log := clog.FromContext(ctx)

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		log.With("tool", call.Name, "id", call.ID).Info("Executing tool call")
		e.genaiMetrics.RecordToolCall(ctx, e.model.Name(), call.Name)

		var content map[string]any
		if tool, ok := e.tools[call.Name]; ok {
			content = tool.Handler(ctx, call, trace)
		} else {
			err := fmt.Errorf("unknown tool: %q", call.Name)
			log.With("tool", call.Name).Error("Unknown tool requested")
			trace.BadToolCall(call.ID, call.Name, call.Args, err)
			content = map[string]any{"error": err.Error()}
		}
		results = append(results, ToolResult{CallID: call.ID, Name: call.Name, Content: content})
	}
	return results
}

// definitions returns tool definitions sorted by name so requests are stable.
func (e *Engine) definitions() []toolcall.Definition {
	defs := make([]toolcall.Definition, 0, len(e.tools))
	for _, name := range slices.Sorted(maps.Keys(e.tools)) {
		defs = append(defs, e.tools[name].Def)
	}
	return defs
}
