/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"chainguard.dev/sweagent/workflow"
	"github.com/spf13/cobra"
)

// runOnce runs a single operation outside the menu. Ctrl-C cancels it.
func runOnce(cmd *cobra.Command, root *rootOptions, fn func(context.Context, operator, styles) error) error {
	return withApp(cmd, root, func(ctx context.Context, a *app) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return fn(ctx, a.driver, newStyles(isTerminal(cmd.OutOrStdout())))
	})
}

func newFixCommand(root *rootOptions) *cobra.Command {
	var repo, issue, base string
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Fix a GitHub issue and open a pull request",
		Example: `  sweagent fix --repo acme/widgets --issue '#12'
  sweagent fix --repo acme/widgets --issue 'Off-by-one in the parser' --base main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := workflow.ParseRepository(repo)
			if err != nil {
				return err
			}
			return runOnce(cmd, root, func(ctx context.Context, op operator, s styles) error {
				text, err := op.ResolveIssue(ctx, r, issue)
				if err != nil {
					return err
				}
				task, err := workflow.NewTask(workflow.KindFixIssue, repo, text, base)
				if err != nil {
					return err
				}
				out, err := op.Run(ctx, task)
				return printOutcome(cmd, s, out, err)
			})
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "repository as owner/name")
	cmd.Flags().StringVar(&issue, "issue", "", "issue number (#12 or 12) or a free-text description")
	cmd.Flags().StringVar(&base, "base", "", "base branch for the pull request (default from BASE_BRANCH)")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("issue")
	return cmd
}

func newWorkCommand(root *rootOptions) *cobra.Command {
	var repo, description, base string
	cmd := &cobra.Command{
		Use:     "work",
		Short:   "Carry out a described piece of work on a repository",
		Example: `  sweagent work --repo acme/widgets --task 'Add a README with build instructions'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			task, err := workflow.NewTask(workflow.KindWork, repo, description, base)
			if err != nil {
				return err
			}
			return runOnce(cmd, root, func(ctx context.Context, op operator, s styles) error {
				out, err := op.Run(ctx, task)
				return printOutcome(cmd, s, out, err)
			})
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "repository as owner/name")
	cmd.Flags().StringVar(&description, "task", "", "description of the work")
	cmd.Flags().StringVar(&base, "base", "", "base branch for the pull request (default from BASE_BRANCH)")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newCreateRepoCommand(root *rootOptions) *cobra.Command {
	var name, description string
	var private bool
	cmd := &cobra.Command{
		Use:     "create-repo",
		Short:   "Create a repository and have the agent scaffold it",
		Example: `  sweagent create-repo --name todo-app --description 'A todo list with a Go API and a React frontend' --private`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, root, func(ctx context.Context, op operator, s styles) error {
				out, err := op.CreateRepository(ctx, name, description, private)
				return printOutcome(cmd, s, out, err)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "repository name")
	cmd.Flags().StringVar(&description, "description", "", "what the project should be")
	cmd.Flags().BoolVar(&private, "private", false, "create a private repository")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newReviewCommand(root *rootOptions) *cobra.Command {
	var repo string
	var number int
	var submit bool
	cmd := &cobra.Command{
		Use:     "review",
		Short:   "Review a pull request",
		Example: `  sweagent review --repo acme/widgets --pr 42 --submit`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := workflow.ParseRepository(repo)
			if err != nil {
				return err
			}
			if number <= 0 {
				return &workflow.InvalidInputError{Field: "pull request", Value: strconv.Itoa(number), Reason: "must be positive"}
			}
			req := workflow.ReviewRequest{Repository: r, Number: number, Submit: submit}
			return runOnce(cmd, root, func(ctx context.Context, op operator, s styles) error {
				rev, err := op.Review(ctx, req)
				if err != nil {
					return err
				}
				renderReview(cmd.OutOrStdout(), s, rev)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "repository as owner/name")
	cmd.Flags().IntVar(&number, "pr", 0, "pull request number")
	cmd.Flags().BoolVar(&submit, "submit", false, "let the agent post the review to GitHub")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("pr")
	return cmd
}

func printOutcome(cmd *cobra.Command, s styles, out *workflow.Outcome, err error) error {
	if out != nil {
		if rerr := renderOutcome(cmd.OutOrStdout(), s, out); rerr != nil {
			return rerr
		}
	}
	return err
}
