/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

// ToolProvider defines tools for an agent.
// Compose providers by wrapping: Empty -> Worktree -> Shell -> GitHub.
type ToolProvider[CB any] interface {
	// Tools returns the tools keyed by name.
	Tools(cb CB) map[string]Tool
}
