/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor implements session.Model on the OpenAI chat
// completions API.
package openaiexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/sweagent/agents/executor/retry"
	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/toolcall/openaitool"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gpt-4-turbo"

// Executor generates replies with an OpenAI chat model.
type Executor struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	retryConfig retry.Config
}

var _ session.Model = (*Executor)(nil)

// New creates an Executor with the given client.
func New(client openai.Client, opts ...Option) (*Executor, error) {
	e := &Executor{
		client:      client,
		model:       DefaultModel,
		temperature: 0.1,
		maxTokens:   4096,
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
func (e *Executor) Name() string { return e.model }

// Generate implements session.Model.
func (e *Executor) Generate(ctx context.Context, req session.Request) (session.Response, error) {
	messages, err := toParams(req.System, req.Messages)
	if err != nil {
		return session.Response{}, err
	}
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.model),
		Messages:            messages,
		Temperature:         openai.Float(e.temperature),
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}
	if len(req.Tools) > 0 {
		params.Tools = openaitool.Definitions(req.Tools)
	}

	completion, err := retry.Do(ctx, e.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return e.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return session.Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return session.Response{}, errors.New("no content generated - no choices")
	}

	choice := completion.Choices[0].Message
	reply := session.Message{Role: session.RoleAssistant, Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		call, err := openaitool.FromToolCall(tc.ID, tc.Function.Name, tc.Function.Arguments)
		if err != nil {
			clog.FromContext(ctx).With("tool", tc.Function.Name).With("error", err).Warn("Dropping malformed tool call")
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, call)
	}

	return session.Response{
		Message: reply,
		Usage: session.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

// toParams converts the transcript to chat messages. Each tool result becomes
// its own tool message.
func toParams(system string, msgs []session.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.SystemMessage(system))
	}
	for _, m := range msgs {
		switch m.Role {
		case session.RoleUser:
			for _, r := range m.ToolResults {
				b, err := json.Marshal(r.Content)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal result for %s: %w", r.Name, err)
				}
				out = append(out, openai.ToolMessage(string(b), r.CallID))
			}
			if m.Text != "" {
				out = append(out, openai.UserMessage(m.Text))
			}
		case session.RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{}
			if m.Text != "" {
				assistant.Content.OfString = openai.String(m.Text)
			}
			for _, c := range m.ToolCalls {
				tc, err := openaitool.ToolCallParam(c)
				if err != nil {
					return nil, err
				}
				assistant.ToolCalls = append(assistant.ToolCalls, tc)
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		default:
			return nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return out, nil
}

// isRetryableOpenAIError checks if an error is a retryable OpenAI API error.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.IsTransientStatus(apiErr.StatusCode)
	}
	return false
}
