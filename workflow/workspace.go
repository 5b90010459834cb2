/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"context"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"chainguard.dev/sweagent/reconcilers/githubreconciler/clonemanager"
)

// Workspace is an exclusively held local clone.
type Workspace interface {
	// WorkingTree is the absolute path of the clone.
	WorkingTree() string
	WorktreeCallbacks() (callbacks.WorktreeCallbacks, error)
	// Return releases the clone. It is safe to call more than once.
	Return()
}

// Workspaces hands out clones checked out at a branch. Acquire blocks while
// another caller holds the same clone.
type Workspaces interface {
	Acquire(ctx context.Context, owner, repo, ref string) (Workspace, error)
}

// ClonedWorkspaces serves Workspaces from a clonemanager.Manager.
func ClonedWorkspaces(m *clonemanager.Manager) Workspaces {
	return cloneWorkspaces{m: m}
}

type cloneWorkspaces struct {
	m *clonemanager.Manager
}

func (c cloneWorkspaces) Acquire(ctx context.Context, owner, repo, ref string) (Workspace, error) {
	lease, err := c.m.Lease(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// GitHub is the read side of the hosting platform the driver needs beyond
// the tool-execution interface.
type GitHub interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (callbacks.Issue, error)
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*githubreconciler.PullRequest, error)
	// Callbacks returns the agent-facing GitHub callbacks. SubmitReview is
	// only set when reviewing is a pull request number.
	Callbacks(owner, repo string, reviewing int) callbacks.GitHubCallbacks
}

var _ GitHub = (*githubreconciler.Client)(nil)

// ShellFactory returns shell callbacks that run commands in dir.
type ShellFactory func(dir string) (callbacks.ShellCallbacks, error)
