/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/sweagent/agents/agenttrace"
	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/session/sessiontest"
	"chainguard.dev/sweagent/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

type echoArgs struct {
	Text string `json:"text" jsonschema:"required"`
}

func echoTool(calls *int) map[string]toolcall.Tool {
	return map[string]toolcall.Tool{
		"echo": {
			Def: toolcall.Define[echoArgs]("echo", "Echo text back."),
			Handler: func(_ context.Context, call toolcall.ToolCall, trace *agenttrace.Trace) map[string]any {
				*calls++
				tc := trace.StartToolCall(call.ID, call.Name, call.Args)
				result := map[string]any{"echo": call.Args["text"]}
				tc.Complete(result, nil)
				return result
			},
		},
	}
}

func TestStartTerminatesOnSentinel(t *testing.T) {
	calls := 0
	model := sessiontest.Script(
		sessiontest.Call("c1", "echo", map[string]any{"text": "hi"}),
		sessiontest.Say("All checklist items are done. TERMINATE"),
	)
	engine, err := session.New(model, session.WithTools(echoTool(&calls)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	tr, err := engine.Start(context.Background(), "system", "seed")
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if tr.State != session.Terminated {
		t.Errorf("State: got = %v, wanted = %v", tr.State, session.Terminated)
	}
	if tr.AutoReplies != 1 {
		t.Errorf("AutoReplies: got = %d, wanted = 1", tr.AutoReplies)
	}
	if calls != 1 {
		t.Errorf("tool calls: got = %d, wanted = 1", calls)
	}
	if !strings.Contains(tr.Final(), "TERMINATE") {
		t.Errorf("Final(): got = %q", tr.Final())
	}

	roles := make([]session.Role, 0, len(tr.Messages))
	for _, m := range tr.Messages {
		roles = append(roles, m.Role)
	}
	want := []session.Role{session.RoleUser, session.RoleAssistant, session.RoleUser, session.RoleAssistant}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"echo": "hi"}, tr.Messages[2].ToolResults[0].Content); diff != "" {
		t.Errorf("tool result mismatch (-want +got):\n%s", diff)
	}

	reqs := model.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests: got = %d, wanted = 2", len(reqs))
	}
	if reqs[0].System != "system" || len(reqs[0].Tools) != 1 || reqs[0].Tools[0].Name != "echo" {
		t.Errorf("first request: got = %+v", reqs[0])
	}
}

func TestStartBudgetExhausted(t *testing.T) {
	model := sessiontest.Script(
		sessiontest.Say("thinking"),
		sessiontest.Say("still thinking"),
		sessiontest.Say("almost"),
		sessiontest.Say("TERMINATE"),
	)
	engine, err := session.New(model, session.WithMaxAutoReplies(2))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	tr, err := engine.Start(context.Background(), "", "seed")
	if !errors.Is(err, session.ErrReplyBudgetExhausted) {
		t.Fatalf("Start() error = %v, wanted %v", err, session.ErrReplyBudgetExhausted)
	}
	if tr.State != session.Running {
		t.Errorf("State: got = %v, wanted = %v", tr.State, session.Running)
	}
	if tr.AutoReplies != 2 {
		t.Errorf("AutoReplies: got = %d, wanted = 2", tr.AutoReplies)
	}
	if got := len(model.Requests()); got != 3 {
		t.Errorf("model requests: got = %d, wanted = 3", got)
	}
	// Continuation prompts are sent when the model neither calls a tool nor terminates.
	if !strings.Contains(tr.Messages[2].Text, "TERMINATE") {
		t.Errorf("continue prompt: got = %q", tr.Messages[2].Text)
	}
}

func TestStartZeroBudget(t *testing.T) {
	engine, err := session.New(sessiontest.Script(sessiontest.Say("hello")), session.WithMaxAutoReplies(0))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := engine.Start(context.Background(), "", "seed"); !errors.Is(err, session.ErrReplyBudgetExhausted) {
		t.Errorf("Start() error = %v, wanted budget exhausted", err)
	}
}

func TestStartTerminatingMessageSkipsTools(t *testing.T) {
	calls := 0
	reply := sessiontest.Call("c1", "echo", map[string]any{"text": "late"})
	reply.Text = "TERMINATE"
	engine, err := session.New(sessiontest.Script(reply), session.WithTools(echoTool(&calls)))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if _, err := engine.Start(context.Background(), "", "seed"); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if calls != 0 {
		t.Errorf("tool calls after termination: got = %d, wanted = 0", calls)
	}
}

func TestStartUnknownTool(t *testing.T) {
	engine, err := session.New(sessiontest.Script(
		sessiontest.Call("c1", "rm_rf", nil),
		sessiontest.Say("TERMINATE"),
	))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	tr, err := engine.Start(context.Background(), "", "seed")
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	res := tr.Messages[2].ToolResults[0]
	if !res.IsError() || res.Content["error"] != `unknown tool: "rm_rf"` {
		t.Errorf("unknown tool result: got = %v", res.Content)
	}
}

func TestStartCustomPredicate(t *testing.T) {
	engine, err := session.New(
		sessiontest.Script(sessiontest.Say("TERMINATE"), sessiontest.Say("DONE")),
		session.WithTermination(session.ContainsSentinel("DONE")),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	tr, err := engine.Start(context.Background(), "", "seed")
	if err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if tr.Final() != "DONE" || tr.AutoReplies != 1 {
		t.Errorf("got final = %q after %d replies, wanted DONE after 1", tr.Final(), tr.AutoReplies)
	}
}

func TestStartModelError(t *testing.T) {
	engine, err := session.New(sessiontest.Script())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	tr, err := engine.Start(context.Background(), "", "seed")
	if err == nil || !strings.Contains(err.Error(), "generating reply") {
		t.Errorf("Start() error = %v, wanted generating reply error", err)
	}
	if tr == nil || len(tr.Messages) != 1 {
		t.Errorf("transcript should hold only the seed, got %+v", tr)
	}
}

func TestStartCanceled(t *testing.T) {
	engine, err := session.New(sessiontest.Script(sessiontest.Say("TERMINATE")))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Start(ctx, "", "seed"); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, wanted context.Canceled", err)
	}
}

func TestOptionValidation(t *testing.T) {
	model := sessiontest.Script()
	tests := []struct {
		name string
		opt  session.Option
	}{
		{"negative budget", session.WithMaxAutoReplies(-1)},
		{"nil predicate", session.WithTermination(nil)},
		{"empty continue prompt", session.WithContinuePrompt("")},
		{"nil handler", session.WithTools(map[string]toolcall.Tool{"x": {Def: toolcall.Definition{Name: "x"}}})},
		{"name mismatch", session.WithTools(map[string]toolcall.Tool{"x": {
			Def:     toolcall.Definition{Name: "y"},
			Handler: func(context.Context, toolcall.ToolCall, *agenttrace.Trace) map[string]any { return nil },
		}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := session.New(model, tt.opt); err == nil {
				t.Error("New() succeeded, wanted error")
			}
		})
	}

	if _, err := session.New(nil); err == nil {
		t.Error("New(nil) succeeded, wanted error")
	}
}

func TestContainsSentinel(t *testing.T) {
	match := session.ContainsSentinel(session.DefaultSentinel)
	tests := []struct {
		msg  session.Message
		want bool
	}{
		{session.Message{Role: session.RoleAssistant, Text: "TERMINATE"}, true},
		{session.Message{Role: session.RoleAssistant, Text: "Opened the PR.\nTERMINATE\n"}, true},
		{session.Message{Role: session.RoleAssistant, Text: "terminate"}, false},
		{session.Message{Role: session.RoleUser, Text: "reply with TERMINATE when done"}, false},
	}
	for _, tt := range tests {
		if got := match(tt.msg); got != tt.want {
			t.Errorf("ContainsSentinel(%q from %s): got = %v, wanted = %v", tt.msg.Text, tt.msg.Role, got, tt.want)
		}
	}
}
