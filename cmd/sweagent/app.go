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
	"log/slog"
	"net"
	"net/http"
	"time"

	"chainguard.dev/sweagent/agents/metaagent"
	"chainguard.dev/sweagent/agents/toolcall/callbacks"
	"chainguard.dev/sweagent/config"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"chainguard.dev/sweagent/reconcilers/githubreconciler/clonemanager"
	"chainguard.dev/sweagent/toolexec"
	"chainguard.dev/sweagent/workflow"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// app holds the collaborators shared by every operation of one process.
type app struct {
	cfg     *config.Config
	driver  *workflow.Driver
	metrics net.Listener
}

// withApp builds the collaborators and runs fn, serving metrics alongside
// it when METRICS_ADDR is set.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *app) error) error {
	ctx, a, err := setup(cmd.Context(), opts.envFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return a.serve(ctx, func(ctx context.Context) error { return fn(ctx, a) })
}

func initError(collaborator string, err error) error {
	return &workflow.CollaboratorInitError{Collaborator: collaborator, Err: err}
}

// setup loads the configuration and constructs every collaborator. Any
// failure is a CollaboratorInitError.
func setup(ctx context.Context, envFile string, logs io.Writer) (context.Context, *app, error) {
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return ctx, nil, initError("config", err)
	}
	level, err := cfg.Level()
	if err != nil {
		return ctx, nil, initError("logger", err)
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: level})))
	log := clog.FromContext(ctx)

	model, err := metaagent.New(ctx, cfg.Agent())
	if err != nil {
		return ctx, nil, initError("model", err)
	}

	ts, err := cfg.TokenSource()
	if err != nil {
		return ctx, nil, initError("github credentials", err)
	}
	gh, err := githubreconciler.NewClient(ctx, ts, cfg.GitHubOptions()...)
	if err != nil {
		return ctx, nil, initError("github client", err)
	}

	clones, err := clonemanager.New(cfg.WorkspaceDir, ts, clonemanager.WithBaseURL(cfg.GitHubWebURL()))
	if err != nil {
		return ctx, nil, initError("workspace", err)
	}
	exec, err := toolexec.NewLocal(gh, toolexec.WithTokenSource(ts), toolexec.WithTimeout(cfg.Timeout()))
	if err != nil {
		return ctx, nil, initError("tool executor", err)
	}

	driver, err := workflow.New(model, exec, workflow.ClonedWorkspaces(clones),
		workflow.WithBaseBranch(cfg.BaseBranch),
		workflow.WithBranchPrefix(cfg.BranchPrefix),
		workflow.WithCommitIdentity(cfg.CommitName, cfg.CommitEmail),
		workflow.WithMaxAutoReplies(cfg.MaxAutoReplies),
		workflow.WithSentinel(cfg.TerminationSentinel),
		workflow.WithShell(shellFactory(gh, ts, cfg.Timeout())),
		workflow.WithGitHub(gh),
	)
	if err != nil {
		return ctx, nil, initError("workflow", err)
	}

	a := &app{cfg: cfg, driver: driver}
	if cfg.MetricsAddr != "" {
		l, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return ctx, nil, initError("metrics server", err)
		}
		a.metrics = l
	}

	log.With("model", model.Name()).With("workspace", cfg.WorkspaceDir).Debug("Collaborators ready")
	return ctx, a, nil
}

// shellFactory gives every session a command runner rooted at its clone.
func shellFactory(gh toolexec.GitHub, ts oauth2.TokenSource, timeout time.Duration) workflow.ShellFactory {
	return func(dir string) (callbacks.ShellCallbacks, error) {
		l, err := toolexec.NewLocal(gh, toolexec.WithTokenSource(ts), toolexec.WithTimeout(timeout), toolexec.WithDir(dir))
		if err != nil {
			return callbacks.ShellCallbacks{}, err
		}
		return l.ShellCallbacks(), nil
	}
}

// serve runs work, with the metrics endpoint up for its duration.
func (a *app) serve(ctx context.Context, work func(context.Context) error) error {
	if a.metrics == nil {
		return work(ctx)
	}

	srv := &http.Server{
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(a.metrics); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving metrics: %w", err)
		}
		return nil
	})
	clog.FromContext(ctx).With("addr", a.metrics.Addr().String()).Info("Serving metrics")

	workErr := work(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Shutting down metrics server")
	}
	return errors.Join(workErr, g.Wait())
}
