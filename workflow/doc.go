/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workflow drives one issue-to-pull-request cycle.
//
// A Driver hands the task to an agent session running in a local clone of
// the target repository. Once the session terminates it inspects the diff
// through a toolexec.Executor and, when there are changes, creates a branch,
// commits, pushes and opens a pull request:
//
//	d, err := workflow.New(model, executor, workflow.ClonedWorkspaces(clones),
//		workflow.WithBaseBranch("main"))
//	...
//	task, err := workflow.NewTask(workflow.KindFixIssue, "octocat/hello-world", "Fix off-by-one in parser", "")
//	...
//	outcome, err := d.Run(ctx, task)
//
// Nothing is retried or rolled back. If the push succeeds but the pull
// request cannot be opened, the branch stays on the remote and the error is
// recorded on the Outcome.
package workflow
