/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Option is a functional option for configuring the driver.
type Option func(*Driver) error

// WithBaseBranch sets the branch pull requests target when a task does not
// name one. The default is "master".
func WithBaseBranch(branch string) Option {
	return func(d *Driver) error {
		if branch == "" || strings.ContainsAny(branch, " \t\n") {
			return fmt.Errorf("invalid base branch %q", branch)
		}
		d.baseBranch = branch
		return nil
	}
}

// WithBranchPrefix sets the prefix of generated branch names.
func WithBranchPrefix(prefix string) Option {
	return func(d *Driver) error {
		if prefix == "" || strings.ContainsAny(prefix, " \t\n~^:?*[\\") {
			return fmt.Errorf("invalid branch prefix %q", prefix)
		}
		d.branchPrefix = prefix
		return nil
	}
}

// WithCommitIdentity sets the author of the commits the driver makes.
func WithCommitIdentity(name, email string) Option {
	return func(d *Driver) error {
		if strings.TrimSpace(name) == "" {
			return errors.New("commit name cannot be empty")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid commit email %q: %w", email, err)
		}
		d.commitName, d.commitEmail = name, email
		return nil
	}
}

// WithMaxAutoReplies bounds the automatic replies of each agent session.
func WithMaxAutoReplies(n int) Option {
	return func(d *Driver) error {
		if n < 0 {
			return fmt.Errorf("max auto replies cannot be negative, got %d", n)
		}
		d.maxAutoReplies = n
		return nil
	}
}

// WithSentinel sets the marker that ends an agent session.
func WithSentinel(sentinel string) Option {
	return func(d *Driver) error {
		if strings.TrimSpace(sentinel) == "" {
			return errors.New("sentinel cannot be empty")
		}
		d.sentinel = sentinel
		return nil
	}
}

// WithShell gives agent sessions the run_command tool.
func WithShell(f ShellFactory) Option {
	return func(d *Driver) error {
		if f == nil {
			return errors.New("shell factory cannot be nil")
		}
		d.shell = f
		return nil
	}
}

// WithGitHub gives the driver read access to issues and pull requests, and
// agent sessions the GitHub tools. Reviews and issue references require it.
func WithGitHub(gh GitHub) Option {
	return func(d *Driver) error {
		if gh == nil {
			return errors.New("github cannot be nil")
		}
		d.github = gh
		return nil
	}
}
