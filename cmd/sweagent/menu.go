/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"chainguard.dev/sweagent/workflow"
	"github.com/chainguard-dev/clog"
)

// operator is the part of workflow.Driver the menu drives.
type operator interface {
	Run(ctx context.Context, task workflow.Task) (*workflow.Outcome, error)
	CreateRepository(ctx context.Context, name, description string, private bool) (*workflow.Outcome, error)
	ResolveIssue(ctx context.Context, repo workflow.Repository, input string) (string, error)
	Review(ctx context.Context, req workflow.ReviewRequest) (*workflow.Review, error)
}

var _ operator = (*workflow.Driver)(nil)

// errExit is returned by ask when the user typed exit or input ended.
var errExit = errors.New("exit requested")

const farewell = "Goodbye!"

type operation struct {
	key   string
	label string
	run   func(context.Context) error
}

// menu is the interactive loop. Typing exit at any prompt ends it.
type menu struct {
	op    operator
	in    *bufio.Scanner
	out   io.Writer
	style styles

	// interruptible derives the context of one operation. Interrupting it
	// cancels the operation and returns to the menu.
	interruptible func(context.Context) (context.Context, context.CancelFunc)
}

func newMenu(op operator, in io.Reader, out io.Writer, style styles) *menu {
	return &menu{
		op:    op,
		in:    bufio.NewScanner(in),
		out:   out,
		style: style,
		interruptible: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
}

func (m *menu) operations() []operation {
	return []operation{
		{key: "1", label: "Create a new repository", run: m.createRepository},
		{key: "2", label: "Work on an existing repository", run: m.work},
		{key: "3", label: "Fix an issue", run: m.fixIssue},
		{key: "4", label: "Review a pull request", run: m.review},
	}
}

// Run shows the menu until the user exits. It returns nil on exit and an
// error only when reading input fails.
func (m *menu) Run(ctx context.Context) error {
	err := m.loop(ctx)
	if errors.Is(err, errExit) {
		fmt.Fprintln(m.out, m.style.title.Render(farewell))
		return nil
	}
	return err
}

func (m *menu) loop(ctx context.Context) error {
	fmt.Fprintln(m.out, m.style.title.Render("sweagent: issues in, pull requests out"))
	ops := m.operations()
	for {
		fmt.Fprintln(m.out)
		for _, o := range ops {
			fmt.Fprintf(m.out, "  %s) %s\n", o.key, o.label)
		}
		fmt.Fprintln(m.out, m.style.faint.Render("Type exit at any prompt to quit."))

		choice, err := m.ask("Select an operation")
		if err != nil {
			return err
		}
		idx := -1
		for i, o := range ops {
			if o.key == choice {
				idx = i
			}
		}
		if idx < 0 {
			renderError(m.out, m.style, &workflow.InvalidInputError{
				Field:  "selection",
				Value:  choice,
				Reason: fmt.Sprintf("choose 1-%d", len(ops)),
			})
			continue
		}

		if err := ops[idx].run(ctx); err != nil {
			if errors.Is(err, errExit) {
				return err
			}
			clog.FromContext(ctx).With("operation", ops[idx].label).With("error", err).Debug("Operation failed")
			renderError(m.out, m.style, err)
		}

		again, err := m.ask("Perform another operation? (y/n)")
		if err != nil {
			return err
		}
		if !yes(again) {
			return errExit
		}
	}
}

// ask prompts for one line of input.
func (m *menu) ask(label string) (string, error) {
	fmt.Fprint(m.out, m.style.prompt.Render(label+": "))
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		fmt.Fprintln(m.out)
		return "", errExit
	}
	text := strings.TrimSpace(m.in.Text())
	if strings.EqualFold(text, "exit") {
		return "", errExit
	}
	return text, nil
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// perform runs fn with a context that Ctrl-C cancels.
func (m *menu) perform(ctx context.Context, fn func(context.Context) error) error {
	ctx, stop := m.interruptible(ctx)
	defer stop()
	fmt.Fprintln(m.out, m.style.faint.Render("Working... press Ctrl-C to cancel."))
	return fn(ctx)
}

func (m *menu) show(out *workflow.Outcome, err error) error {
	if out != nil {
		if rerr := renderOutcome(m.out, m.style, out); rerr != nil {
			return rerr
		}
		if len(out.Errors) > 0 {
			return nil
		}
	}
	return err
}

func (m *menu) createRepository(ctx context.Context) error {
	name, err := m.ask("Repository name")
	if err != nil {
		return err
	}
	description, err := m.ask("Describe the project")
	if err != nil {
		return err
	}
	private, err := m.ask("Private repository? (y/n)")
	if err != nil {
		return err
	}
	return m.perform(ctx, func(ctx context.Context) error {
		return m.show(m.op.CreateRepository(ctx, name, description, yes(private)))
	})
}

func (m *menu) work(ctx context.Context) error {
	repo, err := m.ask("Repository (owner/name)")
	if err != nil {
		return err
	}
	description, err := m.ask("Describe the work")
	if err != nil {
		return err
	}
	base, err := m.ask("Base branch (blank for default)")
	if err != nil {
		return err
	}
	task, err := workflow.NewTask(workflow.KindWork, repo, description, base)
	if err != nil {
		return err
	}
	return m.perform(ctx, func(ctx context.Context) error {
		return m.show(m.op.Run(ctx, task))
	})
}

func (m *menu) fixIssue(ctx context.Context) error {
	repo, err := m.ask("Repository (owner/name)")
	if err != nil {
		return err
	}
	issue, err := m.ask("Issue number (e.g. #12) or description")
	if err != nil {
		return err
	}
	base, err := m.ask("Base branch (blank for default)")
	if err != nil {
		return err
	}
	r, err := workflow.ParseRepository(repo)
	if err != nil {
		return err
	}
	return m.perform(ctx, func(ctx context.Context) error {
		text, err := m.op.ResolveIssue(ctx, r, issue)
		if err != nil {
			return err
		}
		task, err := workflow.NewTask(workflow.KindFixIssue, repo, text, base)
		if err != nil {
			return err
		}
		return m.show(m.op.Run(ctx, task))
	})
}

func (m *menu) review(ctx context.Context) error {
	repo, err := m.ask("Repository (owner/name)")
	if err != nil {
		return err
	}
	number, err := m.ask("Pull request number")
	if err != nil {
		return err
	}
	submit, err := m.ask("Submit the review to GitHub? (y/n)")
	if err != nil {
		return err
	}
	r, err := workflow.ParseRepository(repo)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(number, "#"))
	if err != nil {
		return &workflow.InvalidInputError{Field: "pull request", Value: number, Reason: "must be a number"}
	}
	return m.perform(ctx, func(ctx context.Context) error {
		rev, err := m.op.Review(ctx, workflow.ReviewRequest{Repository: r, Number: n, Submit: yes(submit)})
		if err != nil {
			return err
		}
		renderReview(m.out, m.style, rev)
		return nil
	})
}
