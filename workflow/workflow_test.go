/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/session/sessiontest"
	"chainguard.dev/sweagent/agents/toolcall/callbacks"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
	"chainguard.dev/sweagent/reconcilers/githubreconciler/clonemanager"
	"chainguard.dev/sweagent/toolexec"
	"chainguard.dev/sweagent/toolexec/toolexectest"
	"chainguard.dev/sweagent/workflow"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-cmp/cmp"
)

const samplePatch = `diff --git a/parser.go b/parser.go
index 3b18e51..a2c1d4f 100644
--- a/parser.go
+++ b/parser.go
@@ -1,3 +1,3 @@
 package parser
 
-const start = 1
+const start = 0
`

// fakeWorkspaces hands out a temporary directory per repository and records
// what was acquired. dir is the directory of the first repository.
type fakeWorkspaces struct {
	t   *testing.T
	err error

	mu       sync.Mutex
	acquired []string
	returned int
	dir      string
	dirs     map[string]string
}

func (f *fakeWorkspaces) Acquire(_ context.Context, owner, repo, ref string) (workflow.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquired = append(f.acquired, owner+"/"+repo+"@"+ref)
	if f.err != nil {
		return nil, f.err
	}
	if f.dirs == nil {
		f.dirs = make(map[string]string)
	}
	dir, ok := f.dirs[owner+"/"+repo]
	if !ok {
		dir = f.t.TempDir()
		f.dirs[owner+"/"+repo] = dir
	}
	if f.dir == "" {
		f.dir = dir
	}
	return &fakeWorkspace{parent: f, dir: dir}, nil
}

// cwdExecutor keeps one working directory like toolexec.Local and reports a
// diff that names the directory Diff ran in.
type cwdExecutor struct {
	*toolexectest.Fake

	mu  sync.Mutex
	dir string
}

func (e *cwdExecutor) ChangeDir(ctx context.Context, path string) toolexec.Result {
	e.mu.Lock()
	e.dir = path
	e.mu.Unlock()
	return e.Fake.ChangeDir(ctx, path)
}

func (e *cwdExecutor) Diff(ctx context.Context) toolexec.Result {
	e.Fake.Diff(ctx)
	// Leave room for another run to change directory.
	time.Sleep(20 * time.Millisecond)
	e.mu.Lock()
	defer e.mu.Unlock()
	path := filepath.Base(e.dir) + ".go"
	patch := "diff --git a/" + path + " b/" + path + "\n--- a/" + path + "\n+++ b/" + path + "\n@@ -1,1 +1,1 @@\n-x\n+y\n"
	return toolexec.Success("", map[string]any{toolexec.DataDiff: patch})
}

type fakeWorkspace struct {
	parent *fakeWorkspaces
	dir    string
}

func (w *fakeWorkspace) WorkingTree() string { return w.dir }

func (w *fakeWorkspace) WorktreeCallbacks() (callbacks.WorktreeCallbacks, error) {
	return clonemanager.WorktreeCallbacks(w.dir)
}

func (w *fakeWorkspace) Return() {
	w.parent.mu.Lock()
	defer w.parent.mu.Unlock()
	w.parent.returned++
}

type fakeGitHub struct {
	pr      *githubreconciler.PullRequest
	issue   callbacks.Issue
	reviews []string
}

func (f *fakeGitHub) GetIssue(_ context.Context, _, _ string, n int) (callbacks.Issue, error) {
	if n != f.issue.Number {
		return callbacks.Issue{}, errors.New("404 Not Found")
	}
	return f.issue, nil
}

func (f *fakeGitHub) FetchPullRequest(_ context.Context, _, _ string, n int) (*githubreconciler.PullRequest, error) {
	if f.pr == nil || n != f.pr.Number {
		return nil, errors.New("404 Not Found")
	}
	return f.pr, nil
}

func (f *fakeGitHub) Callbacks(_, _ string, reviewing int) callbacks.GitHubCallbacks {
	cb := callbacks.GitHubCallbacks{
		GetIssue: func(ctx context.Context, n int) (callbacks.Issue, error) {
			return f.GetIssue(ctx, "", "", n)
		},
	}
	if reviewing != 0 {
		cb.SubmitReview = func(_ context.Context, body, event string) (string, error) {
			f.reviews = append(f.reviews, event+": "+body)
			return "https://github.com/octocat/hello-world/pull/7#pullrequestreview-1", nil
		}
	}
	return cb
}

func newDriver(t *testing.T, model session.Model, exec toolexec.Executor, ws *fakeWorkspaces, opts ...workflow.Option) *workflow.Driver {
	t.Helper()
	d, err := workflow.New(model, exec, ws, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return d
}

func fixTask(t *testing.T) workflow.Task {
	t.Helper()
	task, err := workflow.NewTask(workflow.KindFixIssue, "octocat/hello-world", "Fix off-by-one in parser", "")
	if err != nil {
		t.Fatalf("NewTask() = %v", err)
	}
	return task
}

func TestRunOpensPullRequest(t *testing.T) {
	model := sessiontest.Script(sessiontest.Say("Changed start to 0 so the first token is parsed. TERMINATE"))
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"Diff":              toolexec.Success("1 file(s) changed", map[string]any{toolexec.DataDiff: samplePatch}),
		"CreatePullRequest": toolexec.Success("created", map[string]any{toolexec.DataURL: "https://github.com/octocat/hello-world/pull/1"}),
	}}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, exec, ws)

	out, err := d.Run(context.Background(), fixTask(t))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if !strings.HasPrefix(out.Branch, workflow.DefaultBranchPrefix) || len(out.Branch) != len(workflow.DefaultBranchPrefix)+12 {
		t.Errorf("Branch: got = %q", out.Branch)
	}
	if out.PullRequestURL != "https://github.com/octocat/hello-world/pull/1" {
		t.Errorf("PullRequestURL: got = %q", out.PullRequestURL)
	}
	if out.Diff != samplePatch || len(out.Errors) != 0 {
		t.Errorf("Outcome: got = %+v", out)
	}
	// The executor reported no stats, so they come from the diff itself.
	wantStats := []toolexec.FileStat{{Path: "parser.go", Change: "modified", Additions: 1, Deletions: 1}}
	if diff := cmp.Diff(wantStats, out.DiffStats); diff != "" {
		t.Errorf("DiffStats mismatch (-want +got):\n%s", diff)
	}
	if out.Summary != "Changed start to 0 so the first token is parsed." {
		t.Errorf("Summary: got = %q", out.Summary)
	}

	want := []string{
		"ChangeDir " + ws.dir,
		"Diff",
		"git checkout -b " + out.Branch,
		"git add --all",
		"git config user.name " + workflow.DefaultCommitName,
		"git config user.email " + workflow.DefaultCommitEmail,
		"git commit -m Fix off-by-one in parser",
		"git push -u origin " + out.Branch,
	}
	calls := exec.Calls()
	if len(calls) != len(want)+1 {
		t.Fatalf("calls: got = %v", exec.Ops())
	}
	if diff := cmp.Diff(want, exec.Ops()[:len(want)]); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}

	pr := calls[len(want)]
	if pr.Op != "CreatePullRequest" {
		t.Fatalf("last call: got = %s", pr.Op)
	}
	owner, repo, head, base, title, body := pr.Args[0], pr.Args[1], pr.Args[2], pr.Args[3], pr.Args[4], pr.Args[5]
	if owner != "octocat" || repo != "hello-world" || head != out.Branch || base != "master" {
		t.Errorf("pull request target: got = %v", pr.Args[:4])
	}
	if !strings.Contains(title, "Fix off-by-one in parser") {
		t.Errorf("title: got = %q", title)
	}
	if !strings.Contains(body, "Changed start to 0") || !strings.Contains(body, "`parser.go`") {
		t.Errorf("body: got = %q", body)
	}

	if diff := cmp.Diff([]string{"octocat/hello-world@master"}, ws.acquired); diff != "" {
		t.Errorf("acquired mismatch (-want +got):\n%s", diff)
	}
	if ws.returned != 1 {
		t.Errorf("workspace returned %d times, wanted 1", ws.returned)
	}

	reqs := model.Requests()
	if !strings.Contains(reqs[0].Messages[0].Text, "Fix off-by-one in parser") ||
		!strings.Contains(reqs[0].Messages[0].Text, "octocat/hello-world") {
		t.Errorf("seed: got = %q", reqs[0].Messages[0].Text)
	}
}

func TestRunDiffErrorStopsBeforeMutating(t *testing.T) {
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"Diff": toolexec.Failuref("diff: not a git repository"),
	}}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, sessiontest.Script(sessiontest.Say("TERMINATE")), exec, ws)

	out, err := d.Run(context.Background(), fixTask(t))
	var toolErr *workflow.ToolExecutionError
	if !errors.As(err, &toolErr) || toolErr.Op != "diff" || !strings.Contains(err.Error(), "not a git repository") {
		t.Fatalf("Run() error = %v, wanted diff ToolExecutionError", err)
	}
	if out.Branch != "" || out.PullRequestURL != "" {
		t.Errorf("Outcome: got = %+v", out)
	}
	if diff := cmp.Diff([]string{"ChangeDir " + ws.dir, "Diff"}, exec.Ops()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNoChanges(t *testing.T) {
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"Diff": toolexec.Success("0 file(s) changed", map[string]any{toolexec.DataDiff: ""}),
	}}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, sessiontest.Script(sessiontest.Say("Nothing to change. TERMINATE")), exec, ws)

	out, err := d.Run(context.Background(), fixTask(t))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if out.Branch != "" || out.PullRequestURL != "" {
		t.Errorf("Outcome: got = %+v", out)
	}
	if got := len(exec.Calls()); got != 2 {
		t.Errorf("calls: got = %v", exec.Ops())
	}
}

func TestRunPushFailureIsRecorded(t *testing.T) {
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"Diff":     toolexec.Success("", map[string]any{toolexec.DataDiff: samplePatch}),
		"git push": toolexec.Failuref("git push: exit status 128: permission denied"),
	}}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, sessiontest.Script(sessiontest.Say("TERMINATE")), exec, ws,
		workflow.WithBaseBranch("main"),
		workflow.WithBranchPrefix("fix/"),
		workflow.WithCommitIdentity("Octo Bot", "bot@example.com"))

	out, err := d.Run(context.Background(), fixTask(t))
	var toolErr *workflow.ToolExecutionError
	if !errors.As(err, &toolErr) || toolErr.Op != "git push" {
		t.Fatalf("Run() error = %v, wanted git push failure", err)
	}
	if !strings.HasPrefix(out.Branch, "fix/") {
		t.Errorf("Branch: got = %q", out.Branch)
	}
	if len(out.Errors) != 1 || !errors.Is(out.Errors[0], err) {
		t.Errorf("Errors: got = %v", out.Errors)
	}
	ops := exec.Ops()
	if last := ops[len(ops)-1]; !strings.HasPrefix(last, "git push") {
		t.Errorf("last call: got = %q, wanted no pull request after a failed push", last)
	}
	if !slices.Contains(ops, "git config user.name Octo Bot") || !slices.Contains(ops, "git config user.email bot@example.com") {
		t.Errorf("commit identity not applied: %v", ops)
	}
	if diff := cmp.Diff([]string{"octocat/hello-world@main"}, ws.acquired); diff != "" {
		t.Errorf("acquired mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPullRequestFailureKeepsBranch(t *testing.T) {
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"Diff":              toolexec.Success("", map[string]any{toolexec.DataDiff: samplePatch}),
		"CreatePullRequest": toolexec.Failuref("422 Validation Failed"),
	}}
	d := newDriver(t, sessiontest.Script(sessiontest.Say("TERMINATE")), exec, &fakeWorkspaces{t: t})

	out, err := d.Run(context.Background(), fixTask(t))
	if err == nil || out.Branch == "" || out.PullRequestURL != "" || len(out.Errors) != 1 {
		t.Errorf("Run() = %+v, %v", out, err)
	}
}

func TestRunSessionFailures(t *testing.T) {
	tests := []struct {
		name   string
		model  *sessiontest.Model
		wantIs error
	}{{
		name:   "budget exhausted",
		model:  sessiontest.Script(sessiontest.Say("thinking"), sessiontest.Say("still thinking"), sessiontest.Say("TERMINATE")),
		wantIs: session.ErrReplyBudgetExhausted,
	}, {
		name:  "model error",
		model: sessiontest.Script(),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &toolexectest.Fake{}
			ws := &fakeWorkspaces{t: t}
			d := newDriver(t, tt.model, exec, ws, workflow.WithMaxAutoReplies(1))

			_, err := d.Run(context.Background(), fixTask(t))
			var sessErr *workflow.SessionError
			if !errors.As(err, &sessErr) {
				t.Fatalf("Run() error = %v, wanted SessionError", err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Run() error = %v, wanted %v", err, tt.wantIs)
			}
			if sessErr.Transcript == nil {
				t.Error("SessionError carries no transcript")
			}
			if len(exec.Calls()) != 0 {
				t.Errorf("tool calls after session failure: %v", exec.Ops())
			}
			if ws.returned != 1 {
				t.Errorf("workspace returned %d times, wanted 1", ws.returned)
			}
		})
	}
}

func TestRunInvalidTaskMakesNoCalls(t *testing.T) {
	model := sessiontest.Script(sessiontest.Say("TERMINATE"))
	exec := &toolexectest.Fake{}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, exec, ws)

	for _, task := range []workflow.Task{
		{Repository: workflow.Repository{Owner: "octocat"}, Issue: "x"},
		{Repository: workflow.Repository{Owner: "octocat", Name: "a/b"}, Issue: "x"},
		{Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"}, Issue: "  "},
		{Kind: workflow.KindReview, Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"}, Issue: "Review #7"},
		{Kind: workflow.Kind(42), Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"}, Issue: "x"},
	} {
		_, err := d.Run(context.Background(), task)
		var inputErr *workflow.InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("Run(%+v) error = %v, wanted InvalidInputError", task, err)
		}
	}
	if len(exec.Calls()) != 0 || len(ws.acquired) != 0 || len(model.Requests()) != 0 {
		t.Errorf("collaborators called: exec = %v, acquired = %v, requests = %d", exec.Ops(), ws.acquired, len(model.Requests()))
	}
}

func TestRunConcurrentRepositories(t *testing.T) {
	model := sessiontest.Script(sessiontest.Say("Done. TERMINATE"), sessiontest.Say("Done. TERMINATE"))
	exec := &cwdExecutor{Fake: &toolexectest.Fake{}}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, exec, ws)

	repos := []string{"octocat/hello-world", "octocat/spoon-knife"}
	outs := make([]*workflow.Outcome, len(repos))
	errs := make([]error, len(repos))
	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := workflow.NewTask(workflow.KindWork, repo, "Tidy up", "")
			if err != nil {
				errs[i] = err
				return
			}
			outs[i], errs[i] = d.Run(context.Background(), task)
		}()
	}
	wg.Wait()

	for i, repo := range repos {
		if errs[i] != nil {
			t.Fatalf("Run(%s) = %v", repo, errs[i])
		}
		want := filepath.Base(ws.dirs[repo]) + ".go"
		if len(outs[i].DiffStats) != 1 || outs[i].DiffStats[0].Path != want {
			t.Errorf("Run(%s) DiffStats: got = %+v, wanted %s", repo, outs[i].DiffStats, want)
		}
	}

	// Each run's executor steps must not interleave with the other's.
	calls := exec.Calls()
	if len(calls) != 2*9 {
		t.Fatalf("calls: got = %v", exec.Ops())
	}
	for start := 0; start < len(calls); start += 9 {
		block := calls[start : start+9]
		if block[0].Op != "ChangeDir" || block[1].Op != "Diff" || block[8].Op != "CreatePullRequest" {
			t.Fatalf("calls interleaved: got = %v", exec.Ops())
		}
		repo := block[8].Args[0] + "/" + block[8].Args[1]
		if block[0].Args[0] != ws.dirs[repo] {
			t.Errorf("pull request for %s opened from %s", repo, block[0].Args[0])
		}
	}
}

func TestRunCloneFailure(t *testing.T) {
	exec := &toolexectest.Fake{}
	ws := &fakeWorkspaces{t: t, err: errors.New("authentication required")}
	d := newDriver(t, sessiontest.Script(), exec, ws)

	_, err := d.Run(context.Background(), fixTask(t))
	var toolErr *workflow.ToolExecutionError
	if !errors.As(err, &toolErr) || toolErr.Op != "clone" {
		t.Errorf("Run() error = %v, wanted clone failure", err)
	}
}

func TestRunToolWiring(t *testing.T) {
	model := sessiontest.Script(
		sessiontest.Call("c1", "write_file", map[string]any{"reasoning": "fix", "path": "parser.go", "content": "package parser\n"}),
		sessiontest.Call("c2", "run_command", map[string]any{"reasoning": "test", "command": "go test ./..."}),
		sessiontest.Say("TERMINATE"),
	)
	var commands []string
	shell := func(dir string) (callbacks.ShellCallbacks, error) {
		return callbacks.ShellCallbacks{RunCommand: func(_ context.Context, cmd string) (callbacks.CommandResult, error) {
			commands = append(commands, dir+": "+cmd)
			return callbacks.CommandResult{Stdout: "ok"}, nil
		}}, nil
	}
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, &toolexectest.Fake{}, ws,
		workflow.WithShell(shell),
		workflow.WithGitHub(&fakeGitHub{}))

	if _, err := d.Run(context.Background(), fixTask(t)); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	var names []string
	for _, def := range model.Requests()[0].Tools {
		names = append(names, def.Name)
	}
	want := []string{"delete_file", "get_issue", "list_directory", "read_file", "run_command", "search_codebase", "write_file"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("tools mismatch (-want +got):\n%s", diff)
	}

	read, err := clonemanager.WorktreeCallbacks(ws.dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := read.ReadFile(context.Background(), "parser.go"); err != nil || got != "package parser\n" {
		t.Errorf("written file: got = %q, %v", got, err)
	}
	if diff := cmp.Diff([]string{ws.dir + ": go test ./..."}, commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateRepository(t *testing.T) {
	exec := &toolexectest.Fake{Results: map[string]toolexec.Result{
		"CreateRepository": toolexec.Success("created", map[string]any{
			toolexec.DataOwner:         "acme",
			toolexec.DataName:          "todo",
			toolexec.DataURL:           "https://github.com/acme/todo",
			toolexec.DataDefaultBranch: "main",
		}),
		"Diff":              toolexec.Success("", map[string]any{toolexec.DataDiff: samplePatch}),
		"CreatePullRequest": toolexec.Success("", map[string]any{toolexec.DataURL: "https://github.com/acme/todo/pull/1"}),
	}}
	model := sessiontest.Script(sessiontest.Say("Scaffolded a Go API and a React UI. TERMINATE"))
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, exec, ws)

	var logs bytes.Buffer
	ctx := clog.WithLogger(context.Background(), clog.New(slog.NewTextHandler(&logs, nil)))
	out, err := d.CreateRepository(ctx, "acme/todo", "A todo app with a Go API and a React front end", true)
	if err != nil {
		t.Fatalf("CreateRepository() = %v", err)
	}
	if out.RepositoryURL != "https://github.com/acme/todo" || out.PullRequestURL != "https://github.com/acme/todo/pull/1" {
		t.Errorf("Outcome: got = %+v", out)
	}
	if diff := cmp.Diff([]string{"acme/todo@main"}, ws.acquired); diff != "" {
		t.Errorf("acquired mismatch (-want +got):\n%s", diff)
	}
	calls := exec.Calls()
	if got := calls[0].String(); got != "CreateRepository acme/todo A todo app with a Go API and a React front end private" {
		t.Errorf("first call: got = %q", got)
	}
	if pr := calls[len(calls)-1]; pr.Op != "CreatePullRequest" || pr.Args[3] != "main" {
		t.Errorf("pull request: got = %v", pr)
	}
	if seed := model.Requests()[0].Messages[0].Text; !strings.Contains(seed, "full-stack project structure") {
		t.Errorf("seed lacks the scaffolding checklist: %q", seed)
	}
	// The GitHub client logs the creation itself.
	if strings.Contains(logs.String(), "Created repository") {
		t.Errorf("driver logged the repository creation: %s", logs.String())
	}
}

func TestCreateRepositoryInvalidInput(t *testing.T) {
	exec := &toolexectest.Fake{}
	d := newDriver(t, sessiontest.Script(), exec, &fakeWorkspaces{t: t})

	for _, tt := range []struct{ name, desc string }{
		{"", "desc"},
		{"a/b/c", "desc"},
		{"/todo", "desc"},
		{"todo", ""},
	} {
		var inputErr *workflow.InvalidInputError
		if _, err := d.CreateRepository(context.Background(), tt.name, tt.desc, false); !errors.As(err, &inputErr) {
			t.Errorf("CreateRepository(%q, %q) error = %v, wanted InvalidInputError", tt.name, tt.desc, err)
		}
	}
	if len(exec.Calls()) != 0 {
		t.Errorf("calls: got = %v", exec.Ops())
	}

	exec.Results = map[string]toolexec.Result{"CreateRepository": toolexec.Failuref("name already exists on this account")}
	var toolErr *workflow.ToolExecutionError
	if _, err := d.CreateRepository(context.Background(), "todo", "desc", false); !errors.As(err, &toolErr) {
		t.Errorf("CreateRepository() error = %v, wanted ToolExecutionError", err)
	}
}

func TestResolveIssue(t *testing.T) {
	gh := &fakeGitHub{issue: callbacks.Issue{
		Number: 12,
		Title:  "Fix off-by-one in parser",
		Body:   "The first token is skipped.",
		URL:    "https://github.com/octocat/hello-world/issues/12",
	}}
	d := newDriver(t, sessiontest.Script(), &toolexectest.Fake{}, &fakeWorkspaces{t: t}, workflow.WithGitHub(gh))
	repo := workflow.Repository{Owner: "octocat", Name: "hello-world"}
	ctx := context.Background()

	for _, in := range []string{"#12", "12", " 12 "} {
		got, err := d.ResolveIssue(ctx, repo, in)
		if err != nil {
			t.Fatalf("ResolveIssue(%q) = %v", in, err)
		}
		want := "Fix off-by-one in parser\n\nThe first token is skipped.\n\nFixes https://github.com/octocat/hello-world/issues/12"
		if got != want {
			t.Errorf("ResolveIssue(%q): got = %q", in, got)
		}
	}

	if got, err := d.ResolveIssue(ctx, repo, "Fix the README typo"); err != nil || got != "Fix the README typo" {
		t.Errorf("free text: got = %q, %v", got, err)
	}

	var toolErr *workflow.ToolExecutionError
	if _, err := d.ResolveIssue(ctx, repo, "#13"); !errors.As(err, &toolErr) {
		t.Errorf("missing issue: error = %v", err)
	}
	var inputErr *workflow.InvalidInputError
	for _, in := range []string{"", "#0", "-4"} {
		if _, err := d.ResolveIssue(ctx, repo, in); !errors.As(err, &inputErr) {
			t.Errorf("ResolveIssue(%q) error = %v, wanted InvalidInputError", in, err)
		}
	}
}

func TestReview(t *testing.T) {
	gh := &fakeGitHub{pr: &githubreconciler.PullRequest{
		Number:  7,
		Title:   "Fix off-by-one in parser",
		BaseRef: "master",
		HeadRef: "sweagent/abc",
		Diff:    samplePatch,
	}}
	model := sessiontest.Script(
		sessiontest.Call("c1", "submit_review", map[string]any{"reasoning": "small fix", "body": "Looks right.", "event": "APPROVE"}),
		sessiontest.Say("**Approve.** The fix is correct. TERMINATE"),
	)
	ws := &fakeWorkspaces{t: t}
	d := newDriver(t, model, &toolexectest.Fake{}, ws, workflow.WithGitHub(gh))

	review, err := d.Review(context.Background(), workflow.ReviewRequest{
		Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"},
		Number:     7,
		Submit:     true,
	})
	if err != nil {
		t.Fatalf("Review() = %v", err)
	}
	if review.Text != "**Approve.** The fix is correct." {
		t.Errorf("Text: got = %q", review.Text)
	}
	if review.SubmittedURL == "" {
		t.Error("SubmittedURL is empty after submit_review")
	}
	if diff := cmp.Diff([]string{"APPROVE: Looks right."}, gh.reviews); diff != "" {
		t.Errorf("reviews mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"octocat/hello-world@master"}, ws.acquired); diff != "" {
		t.Errorf("acquired mismatch (-want +got):\n%s", diff)
	}
	seed := model.Requests()[0].Messages[0].Text
	if !strings.Contains(seed, "+const start = 0") || !strings.Contains(seed, "submit_review") {
		t.Errorf("seed: got = %q", seed)
	}
}

func TestReviewWithoutSubmit(t *testing.T) {
	gh := &fakeGitHub{pr: &githubreconciler.PullRequest{Number: 7, BaseRef: "master"}}
	model := sessiontest.Script(sessiontest.Say("Needs tests. TERMINATE"))
	d := newDriver(t, model, &toolexectest.Fake{}, &fakeWorkspaces{t: t}, workflow.WithGitHub(gh))

	review, err := d.Review(context.Background(), workflow.ReviewRequest{
		Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"},
		Number:     7,
	})
	if err != nil {
		t.Fatalf("Review() = %v", err)
	}
	if review.SubmittedURL != "" || review.Text != "Needs tests." {
		t.Errorf("Review: got = %+v", review)
	}
	for _, def := range model.Requests()[0].Tools {
		if def.Name == "submit_review" {
			t.Error("submit_review offered without Submit")
		}
	}

	if _, err := d.Review(context.Background(), workflow.ReviewRequest{
		Repository: workflow.Repository{Owner: "octocat", Name: "hello-world"},
		Number:     8,
	}); err == nil {
		t.Error("Review() of a missing pull request succeeded")
	}
}

func TestNewValidation(t *testing.T) {
	model, exec, ws := sessiontest.Script(), &toolexectest.Fake{}, &fakeWorkspaces{t: t}
	if _, err := workflow.New(nil, exec, ws); err == nil {
		t.Error("New() accepted a nil model")
	}
	if _, err := workflow.New(model, nil, ws); err == nil {
		t.Error("New() accepted a nil executor")
	}
	for _, opt := range []workflow.Option{
		workflow.WithBaseBranch(""),
		workflow.WithBranchPrefix("bad prefix/"),
		workflow.WithCommitIdentity("", "bot@example.com"),
		workflow.WithCommitIdentity("bot", "not-an-email"),
		workflow.WithMaxAutoReplies(-1),
		workflow.WithSentinel(" "),
		workflow.WithShell(nil),
		workflow.WithGitHub(nil),
	} {
		if _, err := workflow.New(model, exec, ws, opt); err == nil {
			t.Error("New() accepted an invalid option")
		}
	}
}
