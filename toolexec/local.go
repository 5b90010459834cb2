/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"github.com/chainguard-dev/clog"
	"golang.org/x/oauth2"
)

// GitHub is the subset of githubreconciler.Client that Local needs.
type GitHub interface {
	CreateRepository(ctx context.Context, org, name, description string, private bool) (githubreconciler.Repository, error)
	CreatePullRequest(ctx context.Context, owner, repo, head, base, title, body string) (string, error)
}

var _ GitHub = (*githubreconciler.Client)(nil)

// networkSubcommands talk to a remote and get the auth header injected.
var networkSubcommands = map[string]bool{
	"clone":     true,
	"fetch":     true,
	"ls-remote": true,
	"pull":      true,
	"push":      true,
}

// Local executes tools on the local machine.
type Local struct {
	github      GitHub
	tokenSource oauth2.TokenSource
	timeout     time.Duration
	gitBinary   string

	mu  sync.Mutex
	dir string
}

var _ Executor = (*Local)(nil)

// NewLocal creates a Local starting in the process working directory.
func NewLocal(gh GitHub, opts ...LocalOption) (*Local, error) {
	if gh == nil {
		return nil, errors.New("github client cannot be nil")
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	l := &Local{
		github:    gh,
		timeout:   5 * time.Minute,
		gitBinary: "git",
		dir:       dir,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return l, nil
}

// ChangeDir implements Executor.
func (l *Local) ChangeDir(_ context.Context, path string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Failuref("change directory: %v", err)
	}
	if !info.IsDir() {
		return Failuref("change directory: %s is not a directory", path)
	}
	l.dir = filepath.Clean(path)
	return Success("changed directory to "+l.dir, map[string]any{DataDir: l.dir})
}

// Diff implements Executor.
func (l *Local) Diff(ctx context.Context) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Record untracked files as intent-to-add so they show up in the diff.
	// This only touches the index; the content is staged later by "add".
	if _, stderr, err := l.git(ctx, "add", "--all", "--intent-to-add"); err != nil {
		return Failuref("diff: %v: %s", err, stderr)
	}
	stdout, stderr, err := l.git(ctx, "diff", "HEAD")
	if err != nil {
		return Failuref("diff: %v: %s", err, stderr)
	}

	stats, err := ParseStats(stdout)
	if err != nil {
		return Failuref("diff: parsing: %v", err)
	}
	msg := fmt.Sprintf("%d file(s) changed", len(stats))
	return Success(msg, map[string]any{DataDiff: stdout, DataStats: stats})
}

// Git implements Executor.
func (l *Local) Git(ctx context.Context, args ...string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(args) == 0 {
		return Failuref("git: no subcommand")
	}
	stdout, stderr, err := l.git(ctx, args...)
	data := map[string]any{DataStdout: stdout, DataStderr: stderr}
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("git %s: %v: %s", args[0], err, strings.TrimSpace(stderr)), Data: data}
	}
	return Success("git "+args[0]+" succeeded", data)
}

// git runs the git CLI in the current directory. Callers hold l.mu.
func (l *Local) git(ctx context.Context, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	argv := args
	if networkSubcommands[args[0]] && l.tokenSource != nil {
		tok, err := l.tokenSource.Token()
		if err != nil {
			return "", "", fmt.Errorf("getting token: %w", err)
		}
		basic := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + tok.AccessToken))
		argv = append([]string{"-c", "http.extraHeader=Authorization: Basic " + basic}, args...)
	}

	clog.FromContext(ctx).With("dir", l.dir).Debugf("Running git %s", args[0])
	cmd := exec.CommandContext(ctx, l.gitBinary, argv...)
	cmd.Dir = l.dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %v", l.timeout)
	}
	return stdout.String(), stderr.String(), err
}

// CreateRepository implements Executor.
func (l *Local) CreateRepository(ctx context.Context, name, description string, private bool) Result {
	org, repoName := "", name
	if i := strings.IndexByte(name, '/'); i >= 0 {
		org, repoName = name[:i], name[i+1:]
	}
	if repoName == "" || strings.Contains(repoName, "/") {
		return Failuref("create repository: invalid name %q", name)
	}
	repo, err := l.github.CreateRepository(ctx, org, repoName, description, private)
	if err != nil {
		return Failure(err)
	}
	return Success("created "+repo.URL, map[string]any{
		DataOwner:         repo.Owner,
		DataName:          repo.Name,
		DataURL:           repo.URL,
		DataDefaultBranch: repo.DefaultBranch,
	})
}

// CreatePullRequest implements Executor.
func (l *Local) CreatePullRequest(ctx context.Context, owner, repo, head, base, title, body string) Result {
	url, err := l.github.CreatePullRequest(ctx, owner, repo, head, base, title, body)
	if err != nil {
		return Failure(err)
	}
	return Success("created "+url, map[string]any{DataURL: url})
}
