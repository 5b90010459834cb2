/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"
	"slices"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
)

// GitHubTools wraps a base tools type and adds GitHub callbacks.
type GitHubTools[T any] struct {
	base T
	callbacks.GitHubCallbacks
}

// NewGitHubTools creates a GitHubTools wrapping the given base tools.
func NewGitHubTools[T any](base T, cb callbacks.GitHubCallbacks) GitHubTools[T] {
	return GitHubTools[T]{base: base, GitHubCallbacks: cb}
}

type githubToolsProvider[T any] struct {
	base ToolProvider[T]
}

// NewGitHubToolsProvider adds get_issue, plus submit_review when the
// callbacks provide it, on top of base.
func NewGitHubToolsProvider[T any](base ToolProvider[T]) ToolProvider[GitHubTools[T]] {
	return githubToolsProvider[T]{base: base}
}

type getIssueArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain why you need this issue."`
	Number    int    `json:"number" jsonschema:"required,description=The issue number in the target repository"`
}

type submitReviewArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Summarize why you chose this verdict."`
	Body      string `json:"body" jsonschema:"required,description=The review text in Markdown"`
	Event     string `json:"event" jsonschema:"required,enum=COMMENT,enum=APPROVE,enum=REQUEST_CHANGES,description=The review verdict"`
}

var reviewEvents = []string{callbacks.ReviewComment, callbacks.ReviewApprove, callbacks.ReviewRequestChanges}

func (p githubToolsProvider[T]) Tools(cb GitHubTools[T]) map[string]Tool {
	tools := p.base.Tools(cb.base)

	if cb.GetIssue != nil {
		tools["get_issue"] = newTool("get_issue",
			"Fetch an issue from the target repository.",
			func(a getIssueArgs) map[string]any { return map[string]any{"number": a.Number} },
			func(ctx context.Context, a getIssueArgs) (map[string]any, error) {
				issue, err := cb.GetIssue(ctx, a.Number)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"number": issue.Number,
					"title":  issue.Title,
					"body":   issue.Body,
					"state":  issue.State,
					"url":    issue.URL,
					"labels": issue.Labels,
				}, nil
			})
	}

	if cb.SubmitReview != nil {
		tools["submit_review"] = newTool("submit_review",
			"Post your review of the pull request. Call this once, when the review is final.",
			func(a submitReviewArgs) map[string]any { return map[string]any{"event": a.Event} },
			func(ctx context.Context, a submitReviewArgs) (map[string]any, error) {
				if !slices.Contains(reviewEvents, a.Event) {
					return nil, fmt.Errorf("event must be one of %v, got %q", reviewEvents, a.Event)
				}
				url, err := cb.SubmitReview(ctx, a.Body, a.Event)
				if err != nil {
					return nil, err
				}
				return map[string]any{"event": a.Event, "url": url}, nil
			})
	}

	return tools
}
