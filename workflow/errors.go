/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"fmt"

	"chainguard.dev/sweagent/agents/session"
)

// InvalidInputError reports a malformed repository identifier, issue or
// menu selection. It is raised before any collaborator is called.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CollaboratorInitError reports a failure to build a collaborator at
// start-up: missing credentials, bad configuration or a client that could
// not be constructed. It is fatal.
type CollaboratorInitError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorInitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorInitError) Unwrap() error { return e.Err }

// ToolExecutionError reports a tool-execution call that returned an error
// status. It aborts the current operation only.
type ToolExecutionError struct {
	Op      string
	Message string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// SessionError reports an agent session that failed or ran out of automatic
// replies. Transcript holds whatever exchange happened before the failure.
type SessionError struct {
	Err        error
	Transcript *session.Transcript
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("agent session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
