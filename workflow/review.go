/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"context"
	"fmt"

	"chainguard.dev/sweagent/agents/metrics"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"github.com/chainguard-dev/clog"
)

// ReviewRequest asks for a review of one pull request. With Submit the agent
// may post its review to GitHub.
type ReviewRequest struct {
	Repository Repository
	Number     int
	Submit     bool
}

// Review is the result of a review session.
type Review struct {
	PullRequest *githubreconciler.PullRequest
	Text        string
	// SubmittedURL is set when the agent posted the review.
	SubmittedURL string
}

// Review runs a review session for a pull request. The clone is checked out
// at the pull request's base branch for context; nothing is committed.
func (d *Driver) Review(ctx context.Context, req ReviewRequest) (*Review, error) {
	if _, err := ParseRepository(req.Repository.String()); err != nil {
		return nil, err
	}
	if req.Number <= 0 {
		return nil, &InvalidInputError{Field: "pull request number", Value: fmt.Sprint(req.Number), Reason: "must be positive"}
	}
	if d.github == nil {
		return nil, &InvalidInputError{Field: "pull request", Value: fmt.Sprint(req.Number), Reason: "no GitHub client configured to fetch it"}
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("repository", req.Repository.String(), "pull_request", req.Number))

	run := metrics.StartRun(KindReview.String())
	review, err := d.review(ctx, run, req)
	if err != nil {
		run.Finish(metrics.OutcomeFailed)
		return nil, err
	}
	run.Finish(metrics.OutcomeReview)
	return review, nil
}

func (d *Driver) review(ctx context.Context, run *metrics.Run, req ReviewRequest) (*Review, error) {
	owner, name := req.Repository.Owner, req.Repository.Name

	pr, err := d.github.FetchPullRequest(ctx, owner, name, req.Number)
	if err != nil {
		run.ToolFailure()
		return nil, &ToolExecutionError{Op: "fetch pull request", Message: err.Error()}
	}

	ws, err := d.workspaces.Acquire(ctx, owner, name, pr.BaseRef)
	if err != nil {
		run.ToolFailure()
		return nil, &ToolExecutionError{Op: "clone", Message: err.Error()}
	}
	defer ws.Return()

	seed, err := reviewSeed(pr, req.Submit, d.sentinel)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}
	reviewing := 0
	if req.Submit {
		reviewing = req.Number
	}
	transcript, err := d.session(ctx, ws, req.Repository, reviewing, seed)
	if err != nil {
		return nil, err
	}

	review := &Review{
		PullRequest: pr,
		Text:        summarize(transcript.Final(), d.sentinel),
	}
	for _, m := range transcript.Messages {
		for _, r := range m.ToolResults {
			if r.Name != "submit_review" || r.IsError() {
				continue
			}
			if url, ok := r.Content["url"].(string); ok {
				review.SubmittedURL = url
			}
		}
	}
	return review, nil
}
