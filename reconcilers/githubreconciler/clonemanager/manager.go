/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

// Manager owns the clones under a workspace directory, one per repository.
type Manager struct {
	root        string
	tokenSource oauth2.TokenSource
	// remoteURL resolves the git URL of owner/repo.
	remoteURL func(owner, repo string) string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lease is exclusive access to a prepared clone. Callers must invoke Return
// once they are done with the working tree.
type Lease struct {
	lock *sync.Mutex
	path string
	ref  string
	sha  string
}

// New constructs a Manager rooted at root. The token source may be nil for
// public repositories; otherwise it must allow cloning the targeted repositories.
// Repositories are cloned from github.com unless WithBaseURL says otherwise.
func New(root string, tokenSource oauth2.TokenSource, opts ...Option) (*Manager, error) {
	if root == "" {
		return nil, errors.New("workspace root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace root: %w", err)
	}
	m := &Manager{
		root:        abs,
		tokenSource: tokenSource,
		remoteURL:   remoteUnder(DefaultBaseURL),
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return m, nil
}

// Path returns where the clone of owner/repo lives, whether or not it exists yet.
func (m *Manager) Path(owner, repo string) string {
	return filepath.Join(m.root, owner, repo)
}

// Lease prepares the clone of owner/repo at branch ref and returns a handle
// holding the clone's lock. Lease blocks while another lease on the same repository is outstanding.
func (m *Manager) Lease(ctx context.Context, owner, repo, ref string) (*Lease, error) {
	switch {
	case owner == "":
		return nil, errors.New("owner cannot be empty")
	case repo == "":
		return nil, errors.New("repo cannot be empty")
	case ref == "":
		return nil, errors.New("ref cannot be empty")
	}

	path := m.Path(owner, repo)
	lock := m.lockFor(path)
	lock.Lock()

	l, err := m.prepare(ctx, path, owner, repo, ref)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	l.lock = lock
	return l, nil
}

func (m *Manager) lockFor(path string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[path] = lock
	}
	return lock
}

func (m *Manager) prepare(ctx context.Context, path, owner, repoName, ref string) (*Lease, error) {
	log := clog.FromContext(ctx)

	auth, err := m.authForRemote()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	repo, err := git.PlainOpen(path)
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		remote := m.remoteURL(owner, repoName)
		log.Infof("Cloning repository %s into %s", remote, path)
		repo, err = git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
			URL:           remote,
			ReferenceName: plumbing.NewBranchReferenceName(ref),
			Auth:          auth,
		})
		if err != nil {
			os.RemoveAll(path)
			return nil, fmt.Errorf("cloning repository: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("opening repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return nil, fmt.Errorf("resetting worktree: %w", err)
	}
	if err := worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return nil, fmt.Errorf("cleaning worktree: %w", err)
	}

	log.Infof("Fetching ref %s", ref)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", ref, ref))},
		Auth:     auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("fetching ref %s: %w", ref, err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", ref), true)
	if err != nil {
		return nil, fmt.Errorf("getting remote ref %s: %w", ref, err)
	}

	// Point the local branch at the remote tip and check it out, discarding
	// whatever an earlier run left behind.
	local := plumbing.NewBranchReferenceName(ref)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(local, remoteRef.Hash())); err != nil {
		return nil, fmt.Errorf("setting branch reference: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Branch: local, Force: true}); err != nil {
		return nil, fmt.Errorf("checking out ref %s: %w", ref, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("getting worktree status: %w", err)
	}
	if !status.IsClean() {
		return nil, errors.New("worktree is not clean after checkout")
	}

	return &Lease{path: path, ref: ref, sha: remoteRef.Hash().String()}, nil
}

func (m *Manager) authForRemote() (transport.AuthMethod, error) {
	if m.tokenSource == nil {
		return nil, nil
	}
	token, err := m.tokenSource.Token()
	if err != nil {
		return nil, err
	}
	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}

// WorkingTree returns the absolute path to the clone's working directory.
func (l *Lease) WorkingTree() string {
	return l.path
}

// Ref returns the branch checked out by the lease.
func (l *Lease) Ref() string {
	return l.ref
}

// SHA returns the commit hash the branch pointed at when the lease was taken.
func (l *Lease) SHA() string {
	return l.sha
}

// Return releases the clone's lock. The working tree is left as is; the next
// lease resets it. Return is safe to call more than once.
func (l *Lease) Return() {
	if l.lock == nil {
		return
	}
	l.lock.Unlock()
	l.lock = nil
}
