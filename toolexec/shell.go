/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
	"github.com/chainguard-dev/clog"
)

// maxOutput caps the stdout and stderr returned to the model.
const maxOutput = 16 << 10

// RunCommand runs command with sh -c in the current directory. Commands are
// killed after the configured timeout.
func (l *Local) RunCommand(ctx context.Context, command string) (callbacks.CommandResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(command) == "" {
		return callbacks.CommandResult{}, errors.New("command cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	clog.FromContext(ctx).With("dir", l.dir).With("command", command).Info("Running command")
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	res := callbacks.CommandResult{
		Stdout:   truncate(stdout.String()),
		Stderr:   truncate(stderr.String()),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case res.TimedOut:
		res.ExitCode = -1
	default:
		return res, fmt.Errorf("running command: %w", err)
	}
	return res, nil
}

// ShellCallbacks binds the agent's shell tool to l.
func (l *Local) ShellCallbacks() callbacks.ShellCallbacks {
	return callbacks.ShellCallbacks{RunCommand: l.RunCommand}
}

func truncate(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	return s[:maxOutput] + "\n... (output truncated)"
}
