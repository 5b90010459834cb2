/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"chainguard.dev/sweagent/report"
	"chainguard.dev/sweagent/workflow"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type styles struct {
	title   lipgloss.Style
	prompt  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	faint   lipgloss.Style
}

// newStyles returns colored styles for a terminal and plain ones otherwise.
func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	if !color {
		return styles{title: plain, prompt: plain, success: plain, failure: plain, faint: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		prompt:  lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		faint:   lipgloss.NewStyle().Faint(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderOutcome(w io.Writer, s styles, out *workflow.Outcome) error {
	if out.RepositoryURL != "" {
		fmt.Fprintln(w, s.success.Render("Repository created: "+out.RepositoryURL))
	}
	switch {
	case out.PullRequestURL != "":
		fmt.Fprintln(w, s.success.Render("Pull request opened: "+out.PullRequestURL))
	case out.Branch != "":
		fmt.Fprintln(w, s.failure.Render("Changes are on branch "+out.Branch+" but no pull request was opened."))
	case out.Diff == "":
		fmt.Fprintln(w, "The agent made no changes.")
	default:
		fmt.Fprintln(w, s.failure.Render("The changes were not pushed."))
	}
	if out.Branch != "" {
		fmt.Fprintln(w, s.faint.Render("Branch: "+out.Branch))
	}
	if out.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", out.Summary)
	}

	table, err := report.DiffStats(out.DiffStats)
	if err != nil {
		return err
	}
	if table != "" {
		fmt.Fprintf(w, "\n%s\n\n%s", report.Summary(out.DiffStats), table)
	}
	for _, e := range out.Errors {
		fmt.Fprintln(w, s.failure.Render("Error: "+e.Error()))
	}
	return nil
}

func renderReview(w io.Writer, s styles, r *workflow.Review) {
	if r.PullRequest != nil {
		fmt.Fprintln(w, s.title.Render(fmt.Sprintf("Review of #%d: %s", r.PullRequest.Number, r.PullRequest.Title)))
	}
	fmt.Fprintf(w, "\n%s\n", r.Text)
	if r.SubmittedURL != "" {
		fmt.Fprintln(w, s.success.Render("Review submitted: "+r.SubmittedURL))
	}
}

// renderError prints a diagnostic for an operation that failed.
func renderError(w io.Writer, s styles, err error) {
	var (
		invalid *workflow.InvalidInputError
		tool    *workflow.ToolExecutionError
		sess    *workflow.SessionError
	)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, s.failure.Render("Operation interrupted."))
	case errors.As(err, &invalid):
		fmt.Fprintln(w, s.failure.Render(invalid.Error()))
	case errors.As(err, &tool):
		fmt.Fprintln(w, s.failure.Render("Tool failure: "+tool.Error()))
	case errors.As(err, &sess):
		msg := "Agent session failed: " + sess.Err.Error()
		if sess.Transcript != nil {
			msg += fmt.Sprintf(" (after %d automatic replies)", sess.Transcript.AutoReplies)
		}
		fmt.Fprintln(w, s.failure.Render(msg))
	default:
		fmt.Fprintln(w, s.failure.Render("Error: "+err.Error()))
	}
}
