/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements sweagent, a command-line agent that turns an
// issue or task description into a pull request.
//
// Without a subcommand it runs an interactive menu. The fix, work,
// create-repo and review subcommands run a single operation and exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chainguard.dev/sweagent/workflow"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error to the process exit status. Invalid arguments exit
// with 2; startup and operation failures exit with 1.
func exitCode(err error) int {
	var invalid *workflow.InvalidInputError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &invalid):
		return 2
	default:
		return 1
	}
}

type rootOptions struct {
	envFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "sweagent",
		Short: "Turn issues and task descriptions into pull requests",
		Long: `sweagent clones a GitHub repository, lets a language model work on it
with file, shell and GitHub tools, and opens a pull request with the result.

Run without a subcommand for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				m := newMenu(a.driver, cmd.InOrStdin(), cmd.OutOrStdout(), newStyles(isTerminal(cmd.OutOrStdout())))
				return m.Run(ctx)
			})
		},
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path of a .env file to load (default .env in the working directory, if present)")

	cmd.AddCommand(
		newFixCommand(opts),
		newWorkCommand(opts),
		newCreateRepoCommand(opts),
		newReviewCommand(opts),
	)
	return cmd
}
