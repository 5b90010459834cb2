/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package session runs an agent conversation: the model proposes tool calls,
// the engine executes them and replies with their results, and this repeats
// until the termination predicate accepts a model message or the automatic
// reply budget runs out.
//
// A session is a two-state machine. It starts Running and moves to
// Terminated exactly once, when the predicate matches. Exhausting the budget
// returns ErrReplyBudgetExhausted while the session is still Running.
//
//	engine, err := session.New(model,
//		session.WithTools(tools),
//		session.WithMaxAutoReplies(10),
//		session.WithTermination(session.ContainsSentinel("TERMINATE")))
//	transcript, err := engine.Start(ctx, system, seed)
package session
