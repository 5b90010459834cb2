/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package sessiontest provides a scripted session.Model for tests.
package sessiontest

import (
	"context"
	"fmt"
	"sync"

	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/toolcall"
)

// Model replays a fixed list of replies and records every request it sees.
// Once the script runs out it returns an error.
type Model struct {
	ModelName string
	Replies   []session.Response

	mu       sync.Mutex
	requests []session.Request
}

var _ session.Model = (*Model)(nil)

// Script builds a Model from plain assistant messages.
func Script(msgs ...session.Message) *Model {
	m := &Model{ModelName: "scripted"}
	for _, msg := range msgs {
		m.Replies = append(m.Replies, session.Response{Message: msg})
	}
	return m
}

// Say is an assistant message with text only.
func Say(text string) session.Message {
	return session.Message{Role: session.RoleAssistant, Text: text}
}

// Call is an assistant message that calls one tool.
func Call(id, name string, args map[string]any) session.Message {
	return session.Message{
		Role:      session.RoleAssistant,
		ToolCalls: []toolcall.ToolCall{{ID: id, Name: name, Args: args}},
	}
}

// Name implements session.Model.
func (m *Model) Name() string { return m.ModelName }

// Generate implements session.Model.
func (m *Model) Generate(_ context.Context, req session.Request) (session.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.requests)
	m.requests = append(m.requests, req)
	if n >= len(m.Replies) {
		return session.Response{}, fmt.Errorf("script exhausted after %d replies", len(m.Replies))
	}
	return m.Replies[n], nil
}

// Requests returns the requests received so far.
func (m *Model) Requests() []session.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Request(nil), m.requests...)
}
