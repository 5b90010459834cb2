/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolexectest provides a recording toolexec.Executor for tests.
package toolexectest

import (
	"context"
	"strings"
	"sync"

	"chainguard.dev/sweagent/toolexec"
)

// Call is one recorded Executor invocation.
type Call struct {
	Op   string
	Args []string
}

// String renders the call as "op arg1 arg2".
func (c Call) String() string {
	return strings.TrimSpace(c.Op + " " + strings.Join(c.Args, " "))
}

// Fake records calls and answers them from per-operation results. Operations
// without a configured result succeed with empty data.
type Fake struct {
	// Results maps an operation name ("ChangeDir", "Diff", "CreatePullRequest",
	// "CreateRepository") or a git subcommand ("git push") to its result.
	Results map[string]toolexec.Result

	mu    sync.Mutex
	calls []Call
}

var _ toolexec.Executor = (*Fake)(nil)

// Calls returns the calls recorded so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns the recorded calls rendered with Call.String.
func (f *Fake) Ops() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}

func (f *Fake) record(key, op string, args ...string) toolexec.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Args: args})
	if r, ok := f.Results[key]; ok {
		return r
	}
	return toolexec.Success("", nil)
}

func (f *Fake) ChangeDir(_ context.Context, path string) toolexec.Result {
	return f.record("ChangeDir", "ChangeDir", path)
}

func (f *Fake) Diff(context.Context) toolexec.Result {
	return f.record("Diff", "Diff")
}

func (f *Fake) Git(_ context.Context, args ...string) toolexec.Result {
	key := "git"
	if len(args) > 0 {
		key += " " + args[0]
	}
	return f.record(key, "git", args...)
}

func (f *Fake) CreateRepository(_ context.Context, name, description string, private bool) toolexec.Result {
	visibility := "public"
	if private {
		visibility = "private"
	}
	return f.record("CreateRepository", "CreateRepository", name, description, visibility)
}

func (f *Fake) CreatePullRequest(_ context.Context, owner, repo, head, base, title, body string) toolexec.Result {
	return f.record("CreatePullRequest", "CreatePullRequest", owner, repo, head, base, title, body)
}
