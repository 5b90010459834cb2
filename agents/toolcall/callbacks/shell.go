/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callbacks

import "context"

// CommandResult is the outcome of a shell command. A non-zero ExitCode is not
// an error; errors are reserved for commands that could not be run at all.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

// ShellCallbacks runs commands inside the repository clone.
type ShellCallbacks struct {
	RunCommand func(ctx context.Context, command string) (CommandResult, error)
}
