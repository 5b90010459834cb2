/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callbacks

import "context"

// Issue is the subset of a GitHub issue an agent reads.
type Issue struct {
	Number int      `json:"number" yaml:"number"`
	Title  string   `json:"title" yaml:"title"`
	Body   string   `json:"body" yaml:"body"`
	State  string   `json:"state" yaml:"state"`
	URL    string   `json:"url" yaml:"url"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Review events accepted by SubmitReview.
const (
	ReviewComment        = "COMMENT"
	ReviewApprove        = "APPROVE"
	ReviewRequestChanges = "REQUEST_CHANGES"
)

// GitHubCallbacks exposes read access to the target repository and, for
// review sessions, the ability to post a review.
type GitHubCallbacks struct {
	GetIssue func(ctx context.Context, number int) (Issue, error)
	// SubmitReview is nil outside review sessions.
	SubmitReview func(ctx context.Context, body, event string) (url string, err error)
}
