/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"strings"
)

// Kind selects the checklist an agent session works through.
type Kind int

const (
	// KindFixIssue resolves a reported issue.
	KindFixIssue Kind = iota
	// KindWork carries out a free-form development task.
	KindWork
	// KindCreateRepository scaffolds a freshly created repository.
	KindCreateRepository
	// KindReview reviews an open pull request.
	KindReview
)

func (k Kind) String() string {
	switch k {
	case KindFixIssue:
		return "fix_issue"
	case KindWork:
		return "work"
	case KindCreateRepository:
		return "create_repository"
	case KindReview:
		return "review"
	default:
		return "unknown"
	}
}

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository splits "owner/name". Exactly one slash and two non-empty
// components are accepted.
func ParseRepository(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	owner, name, ok := strings.Cut(s, "/")
	switch {
	case !ok:
		return Repository{}, &InvalidInputError{Field: "repository", Value: s, Reason: "expected owner/name"}
	case strings.Contains(name, "/"):
		return Repository{}, &InvalidInputError{Field: "repository", Value: s, Reason: "too many slashes"}
	case owner == "" || name == "":
		return Repository{}, &InvalidInputError{Field: "repository", Value: s, Reason: "owner and name must both be non-empty"}
	case strings.ContainsAny(s, " \t\n"):
		return Repository{}, &InvalidInputError{Field: "repository", Value: s, Reason: "must not contain whitespace"}
	}
	return Repository{Owner: owner, Name: name}, nil
}

// Task is one request for the driver. BaseBranch may be empty, in which case
// the driver's configured base branch is used.
type Task struct {
	Kind       Kind
	Repository Repository
	Issue      string
	BaseBranch string
}

// NewTask validates its inputs and builds a Task.
func NewTask(kind Kind, repo, issue, base string) (Task, error) {
	r, err := ParseRepository(repo)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		Kind:       kind,
		Repository: r,
		Issue:      strings.TrimSpace(issue),
		BaseBranch: strings.TrimSpace(base),
	}
	if err := t.validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) validate() error {
	switch t.Kind {
	case KindFixIssue, KindWork, KindCreateRepository:
	case KindReview:
		return &InvalidInputError{Field: "task kind", Value: t.Kind.String(), Reason: "pull requests are reviewed with Review"}
	default:
		return &InvalidInputError{Field: "task kind", Value: t.Kind.String(), Reason: "unsupported"}
	}
	if _, err := ParseRepository(t.Repository.String()); err != nil {
		return err
	}
	if strings.TrimSpace(t.Issue) == "" {
		return &InvalidInputError{Field: "issue", Value: t.Issue, Reason: "must not be empty"}
	}
	if strings.ContainsAny(t.BaseBranch, " \t\n") {
		return &InvalidInputError{Field: "base branch", Value: t.BaseBranch, Reason: "must not contain whitespace"}
	}
	return nil
}
