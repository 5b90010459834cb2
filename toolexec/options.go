/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// LocalOption configures a Local.
type LocalOption func(*Local) error

// WithTokenSource authenticates git network subcommands.
func WithTokenSource(ts oauth2.TokenSource) LocalOption {
	return func(l *Local) error {
		if ts == nil {
			return errors.New("token source cannot be nil")
		}
		l.tokenSource = ts
		return nil
	}
}

// WithTimeout bounds each git invocation and shell command.
func WithTimeout(d time.Duration) LocalOption {
	return func(l *Local) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		l.timeout = d
		return nil
	}
}

// WithDir sets the initial working directory.
func WithDir(dir string) LocalOption {
	return func(l *Local) error {
		if dir == "" {
			return errors.New("dir cannot be empty")
		}
		l.dir = dir
		return nil
	}
}
