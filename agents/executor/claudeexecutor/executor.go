/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor implements session.Model on the Anthropic
// Messages API.
package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/sweagent/agents/executor/retry"
	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/toolcall/claudetool"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "claude-sonnet-4-5"

// Executor generates replies with a Claude model.
type Executor struct {
	client      anthropic.Client
	modelName   string
	maxTokens   int64
	temperature float64
	retryConfig retry.Config
}

var _ session.Model = (*Executor)(nil)

// New creates an Executor with the given client.
func New(client anthropic.Client, opts ...Option) (*Executor, error) {
	e := &Executor{
		client:      client,
		modelName:   DefaultModel,
		maxTokens:   8192,
		temperature: 0.1,
		retryConfig: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Name implements session.Model.
func (e *Executor) Name() string { return e.modelName }

// Generate implements session.Model.
func (e *Executor) Generate(ctx context.Context, req session.Request) (session.Response, error) {
	messages, err := toParams(req.Messages)
	if err != nil {
		return session.Response{}, err
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.modelName),
		MaxTokens:   e.maxTokens,
		Messages:    messages,
		Tools:       claudetool.Definitions(req.Tools),
		Temperature: anthropic.Float(e.temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := retry.Do(ctx, e.retryConfig, "stream_message", isRetryableClaudeError, func() (anthropic.Message, error) {
		stream := e.client.Messages.NewStreaming(ctx, params)
		var msg anthropic.Message
		for stream.Next() {
			if err := msg.Accumulate(stream.Current()); err != nil {
				return msg, fmt.Errorf("failed to accumulate event: %w", err)
			}
		}
		return msg, stream.Err()
	})
	if err != nil {
		return session.Response{}, fmt.Errorf("failed to stream Claude response: %w", err)
	}

	reply := session.Message{Role: session.RoleAssistant}
	var text []string
	for _, block := range message.Content {
		switch block.Type {
		case "text":
			text = append(text, block.Text)
		case "tool_use":
			call, err := claudetool.FromToolUse(block.ID, block.Name, block.Input)
			if err != nil {
				clog.FromContext(ctx).With("tool", block.Name).With("error", err).Warn("Dropping malformed tool call")
				continue
			}
			reply.ToolCalls = append(reply.ToolCalls, call)
		}
	}
	reply.Text = strings.Join(text, "\n")

	return session.Response{
		Message: reply,
		Usage: session.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
	}, nil
}

// toParams converts the transcript to Anthropic message params. Tool results
// precede any text in a user turn, as the API requires.
func toParams(msgs []session.Message) ([]anthropic.MessageParam, error) {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		var blocks []anthropic.ContentBlockParamUnion
		for _, r := range m.ToolResults {
			block, err := claudetool.Result(r.CallID, r.Content)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
		}
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, c := range m.ToolCalls {
			blocks = append(blocks, claudetool.ToolUse(c))
		}
		if len(blocks) == 0 {
			blocks = append(blocks, anthropic.NewTextBlock("(no content)"))
		}

		switch m.Role {
		case session.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		case session.RoleUser:
			out = append(out, anthropic.NewUserMessage(blocks...))
		default:
			return nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return out, nil
}

// isRetryableClaudeError checks if an error is a retryable Claude API error.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.IsTransientStatus(apiErr.StatusCode)
	}
	return false
}
