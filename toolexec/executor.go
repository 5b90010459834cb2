/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import "context"

// Executor is the tool-execution interface.
type Executor interface {
	// ChangeDir sets the working directory later calls operate in.
	ChangeDir(ctx context.Context, path string) Result
	// Diff reports the working tree's changes against HEAD, including
	// untracked files, under DataDiff and per-file stats under DataStats.
	Diff(ctx context.Context) Result
	// Git runs one git subcommand. args excludes the leading "git".
	Git(ctx context.Context, args ...string) Result
	// CreateRepository creates name, which may be "org/name", and reports
	// DataOwner, DataName, DataURL and DataDefaultBranch.
	CreateRepository(ctx context.Context, name, description string, private bool) Result
	// CreatePullRequest opens a pull request and reports its DataURL.
	CreatePullRequest(ctx context.Context, owner, repo, head, base, title, body string) Result
}
