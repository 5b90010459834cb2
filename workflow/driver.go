/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"chainguard.dev/sweagent/agents/metrics"
	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/toolcall"
	"chainguard.dev/sweagent/report"
	"chainguard.dev/sweagent/toolexec"
	"github.com/chainguard-dev/clog"
)

// Defaults applied by New.
const (
	DefaultBaseBranch  = "master"
	DefaultCommitName  = "sweagent"
	DefaultCommitEmail = "sweagent@users.noreply.github.com"
)

// Outcome summarizes one run. Branch and PullRequestURL are empty when the
// agent made no changes or a step failed before they were created.
type Outcome struct {
	Repository     Repository
	RepositoryURL  string
	Branch         string
	Diff           string
	DiffStats      []toolexec.FileStat
	PullRequestURL string
	// Summary is the agent's final message without the sentinel.
	Summary string
	// Errors holds failures from the git sequence or pull request creation.
	Errors []error
}

// Driver runs workflows. Its methods may be called concurrently. Agent
// sessions on different repositories proceed in parallel and runs on the same
// repository serialize on the clone. The executor keeps a single working
// directory, so the steps from ChangeDir through the pull request hold execMu.
type Driver struct {
	model      session.Model
	exec       toolexec.Executor
	execMu     sync.Mutex
	workspaces Workspaces
	github     GitHub
	shell      ShellFactory

	baseBranch     string
	branchPrefix   string
	commitName     string
	commitEmail    string
	maxAutoReplies int
	sentinel       string
}

// New creates a Driver.
func New(model session.Model, exec toolexec.Executor, workspaces Workspaces, opts ...Option) (*Driver, error) {
	switch {
	case model == nil:
		return nil, errors.New("model cannot be nil")
	case exec == nil:
		return nil, errors.New("executor cannot be nil")
	case workspaces == nil:
		return nil, errors.New("workspaces cannot be nil")
	}
	d := &Driver{
		model:          model,
		exec:           exec,
		workspaces:     workspaces,
		baseBranch:     DefaultBaseBranch,
		branchPrefix:   DefaultBranchPrefix,
		commitName:     DefaultCommitName,
		commitEmail:    DefaultCommitEmail,
		maxAutoReplies: session.DefaultMaxAutoReplies,
		sentinel:       session.DefaultSentinel,
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return d, nil
}

// Run executes one issue-to-pull-request cycle for task.
func (d *Driver) Run(ctx context.Context, task Task) (*Outcome, error) {
	if err := task.validate(); err != nil {
		return nil, err
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("repository", task.Repository.String(), "operation", task.Kind.String()))

	run := metrics.StartRun(task.Kind.String())
	outcome, err := d.run(ctx, run, task)
	switch {
	case err != nil:
		run.Finish(metrics.OutcomeFailed)
	case outcome.PullRequestURL == "":
		run.Finish(metrics.OutcomeNoChanges)
	default:
		run.Finish(metrics.OutcomePullRequest)
	}
	return outcome, err
}

func (d *Driver) run(ctx context.Context, run *metrics.Run, task Task) (*Outcome, error) {
	base := cmp.Or(task.BaseBranch, d.baseBranch)
	owner, name := task.Repository.Owner, task.Repository.Name

	ws, err := d.workspaces.Acquire(ctx, owner, name, base)
	if err != nil {
		run.ToolFailure()
		return nil, &ToolExecutionError{Op: "clone", Message: err.Error()}
	}
	defer ws.Return()

	seed, err := taskPrompt(task, base, d.sentinel)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}
	transcript, err := d.session(ctx, ws, task.Repository, 0, seed)
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		Repository: task.Repository,
		Summary:    summarize(transcript.Final(), d.sentinel),
	}
	return out, d.publish(ctx, run, task, ws, base, out)
}

// publish diffs the working tree of ws and, when the agent changed something,
// commits it to a fresh branch and opens a pull request against base.
func (d *Driver) publish(ctx context.Context, run *metrics.Run, task Task, ws Workspace, base string, out *Outcome) error {
	d.execMu.Lock()
	defer d.execMu.Unlock()

	log := clog.FromContext(ctx)
	owner, name := task.Repository.Owner, task.Repository.Name

	if r := d.exec.ChangeDir(ctx, ws.WorkingTree()); !r.OK() {
		run.ToolFailure()
		return &ToolExecutionError{Op: "change directory", Message: r.Message}
	}
	diff := d.exec.Diff(ctx)
	if !diff.OK() {
		run.ToolFailure()
		return &ToolExecutionError{Op: "diff", Message: diff.Message}
	}
	out.Diff, out.DiffStats = diff.String(toolexec.DataDiff), diff.Stats()
	if strings.TrimSpace(out.Diff) == "" {
		log.Info("Agent session made no changes")
		return nil
	}
	if len(out.DiffStats) == 0 {
		stats, err := toolexec.ParseStats(out.Diff)
		if err != nil {
			log.With("error", err).Warn("Failed to compute diff stats")
		}
		out.DiffStats = stats
	}

	branch := BranchName(d.branchPrefix)
	for _, args := range [][]string{
		{"checkout", "-b", branch},
		{"add", "--all"},
		{"config", "user.name", d.commitName},
		{"config", "user.email", d.commitEmail},
		{"commit", "-m", CommitMessage(task.Issue)},
		{"push", "-u", "origin", branch},
	} {
		if r := d.exec.Git(ctx, args...); !r.OK() {
			run.ToolFailure()
			err := &ToolExecutionError{Op: "git " + args[0], Message: r.Message}
			out.Errors = append(out.Errors, err)
			return err
		}
		if args[0] == "checkout" {
			out.Branch = branch
		}
	}
	log.With("branch", branch).Info("Pushed branch")

	pr := d.exec.CreatePullRequest(ctx, owner, name, branch, base, PullRequestTitle(task.Issue), pullRequestBody(task, out))
	if !pr.OK() {
		run.ToolFailure()
		err := &ToolExecutionError{Op: "create pull request", Message: pr.Message}
		out.Errors = append(out.Errors, err)
		return err
	}
	out.PullRequestURL = pr.String(toolexec.DataURL)
	log.With("url", out.PullRequestURL).Info("Opened pull request")
	return nil
}

// CreateRepository creates name ("repo" or "org/repo"), then runs a
// KindCreateRepository task against its default branch that scaffolds a
// project matching description.
func (d *Driver) CreateRepository(ctx context.Context, name, description string, private bool) (*Outcome, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" || strings.Count(name, "/") > 1 || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.ContainsAny(name, " \t\n") {
		return nil, &InvalidInputError{Field: "repository name", Value: name, Reason: "expected name or org/name"}
	}
	if description == "" {
		return nil, &InvalidInputError{Field: "description", Value: description, Reason: "must not be empty"}
	}

	r := d.exec.CreateRepository(ctx, name, description, private)
	if !r.OK() {
		return nil, &ToolExecutionError{Op: "create repository", Message: r.Message}
	}

	task := Task{
		Kind:       KindCreateRepository,
		Repository: Repository{Owner: r.String(toolexec.DataOwner), Name: r.String(toolexec.DataName)},
		Issue:      description,
		BaseBranch: r.String(toolexec.DataDefaultBranch),
	}
	out, err := d.Run(ctx, task)
	if out != nil {
		out.RepositoryURL = r.String(toolexec.DataURL)
	}
	return out, err
}

// ResolveIssue turns user input into issue text. "#123" or "123" is
// fetched from the repository; anything else is returned as is.
func (d *Driver) ResolveIssue(ctx context.Context, repo Repository, input string) (string, error) {
	input = strings.TrimSpace(input)
	n, err := strconv.Atoi(strings.TrimPrefix(input, "#"))
	if err != nil {
		if input == "" {
			return "", &InvalidInputError{Field: "issue", Value: input, Reason: "must not be empty"}
		}
		return input, nil
	}
	if n <= 0 {
		return "", &InvalidInputError{Field: "issue", Value: input, Reason: "issue numbers are positive"}
	}
	if d.github == nil {
		return "", &InvalidInputError{Field: "issue", Value: input, Reason: "no GitHub client configured to fetch it"}
	}
	issue, err := d.github.GetIssue(ctx, repo.Owner, repo.Name, n)
	if err != nil {
		return "", &ToolExecutionError{Op: "get issue", Message: err.Error()}
	}
	text := issue.Title
	if body := strings.TrimSpace(issue.Body); body != "" {
		text += "\n\n" + body
	}
	if issue.URL != "" {
		text += "\n\nFixes " + issue.URL
	}
	return text, nil
}

// session runs one agent session in ws.
func (d *Driver) session(ctx context.Context, ws Workspace, repo Repository, reviewing int, seed string) (*session.Transcript, error) {
	tools, err := d.tools(ws, repo, reviewing)
	if err != nil {
		return nil, err
	}
	engine, err := session.New(d.model,
		session.WithTools(tools),
		session.WithMaxAutoReplies(d.maxAutoReplies),
		session.WithTermination(session.ContainsSentinel(d.sentinel)),
		session.WithContinuePrompt(fmt.Sprintf("Continue with the task. Use the available tools, and reply with %s once everything on the checklist is done.", d.sentinel)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	transcript, err := engine.Start(ctx, systemPrompt, seed)
	if err != nil {
		return nil, &SessionError{Err: err, Transcript: transcript}
	}
	return transcript, nil
}

func (d *Driver) tools(ws Workspace, repo Repository, reviewing int) (map[string]toolcall.Tool, error) {
	wt, err := ws.WorktreeCallbacks()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	tools := toolcall.NewWorktreeToolsProvider(toolcall.NewEmptyToolsProvider()).
		Tools(toolcall.NewWorktreeTools(toolcall.EmptyTools{}, wt))

	if d.shell != nil {
		sh, err := d.shell(ws.WorkingTree())
		if err != nil {
			return nil, fmt.Errorf("creating shell: %w", err)
		}
		maps.Copy(tools, toolcall.NewShellToolsProvider(toolcall.NewEmptyToolsProvider()).
			Tools(toolcall.NewShellTools(toolcall.EmptyTools{}, sh)))
	}

	if d.github != nil {
		maps.Copy(tools, toolcall.NewGitHubToolsProvider(toolcall.NewEmptyToolsProvider()).
			Tools(toolcall.NewGitHubTools(toolcall.EmptyTools{}, d.github.Callbacks(repo.Owner, repo.Name, reviewing))))
	}
	return tools, nil
}

func pullRequestBody(task Task, out *Outcome) string {
	var sb strings.Builder
	if out.Summary != "" {
		sb.WriteString(out.Summary)
		sb.WriteString("\n\n")
	}
	sb.WriteString("<details><summary>Task</summary>\n\n")
	sb.WriteString(task.Issue)
	sb.WriteString("\n\n</details>\n")
	table, err := report.DiffStats(out.DiffStats)
	if err != nil {
		return sb.String()
	}
	if table != "" {
		sb.WriteString("\n")
		sb.WriteString(report.Summary(out.DiffStats))
		sb.WriteString("\n\n")
		sb.WriteString(table)
	}
	return sb.String()
}
