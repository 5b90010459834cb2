/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
)

// ShellTools wraps a base tools type and adds shell callbacks.
type ShellTools[T any] struct {
	base T
	callbacks.ShellCallbacks
}

// NewShellTools creates a ShellTools wrapping the given base tools.
func NewShellTools[T any](base T, cb callbacks.ShellCallbacks) ShellTools[T] {
	return ShellTools[T]{base: base, ShellCallbacks: cb}
}

type shellToolsProvider[T any] struct {
	base ToolProvider[T]
}

// NewShellToolsProvider adds run_command on top of base.
func NewShellToolsProvider[T any](base ToolProvider[T]) ToolProvider[ShellTools[T]] {
	return shellToolsProvider[T]{base: base}
}

type runCommandArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain what the command is for."`
	Command   string `json:"command" jsonschema:"required,description=A shell command run with sh -c from the repository root"`
}

func (p shellToolsProvider[T]) Tools(cb ShellTools[T]) map[string]Tool {
	tools := p.base.Tools(cb.base)

	tools["run_command"] = newTool("run_command",
		"Run a shell command in the repository (build, test, lint). "+
			"Output is truncated and commands are killed after the configured timeout.",
		func(a runCommandArgs) map[string]any { return map[string]any{"command": a.Command} },
		func(ctx context.Context, a runCommandArgs) (map[string]any, error) {
			res, err := cb.RunCommand(ctx, a.Command)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"command":   a.Command,
				"stdout":    res.Stdout,
				"stderr":    res.Stderr,
				"exit_code": res.ExitCode,
				"timed_out": res.TimedOut,
			}, nil
		})

	return tools
}
