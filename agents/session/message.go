/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"

	"chainguard.dev/sweagent/agents/toolcall"
)

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolResult answers one tool call.
type ToolResult struct {
	CallID  string
	Name    string
	Content map[string]any
}

// IsError reports whether the handler returned an error payload.
func (r ToolResult) IsError() bool {
	_, ok := r.Content["error"]
	return ok
}

// Message is one turn of the conversation. Assistant messages may carry
// ToolCalls; user messages may carry ToolResults answering them.
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []toolcall.ToolCall
	ToolResults []ToolResult
}

// Usage is the token accounting for a single model reply.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Request is everything a model needs to produce the next reply.
type Request struct {
	System   string
	Messages []Message
	Tools    []toolcall.Definition
}

// Response is a model reply.
type Response struct {
	Message Message
	Usage   Usage
}

// Model produces the next assistant message. Implementations live under
// agents/executor and translate to a provider SDK.
type Model interface {
	// Name is the provider model identifier, e.g. "gpt-4-turbo".
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}
