/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubreconciler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client talks to the GitHub REST and GraphQL APIs with one token source.
type Client struct {
	gh  *github.Client
	gql *githubv4.Client
}

// Option configures a Client.
type Option func(*clientConfig) error

type clientConfig struct {
	restURL    string
	graphqlURL string
}

// WithBaseURL points the client at another API host, such as GitHub
// Enterprise Server or a test server. restURL is the REST root and graphqlURL
// the GraphQL endpoint.
func WithBaseURL(restURL, graphqlURL string) Option {
	return func(c *clientConfig) error {
		if restURL == "" || graphqlURL == "" {
			return errors.New("base URLs cannot be empty")
		}
		c.restURL = restURL
		c.graphqlURL = graphqlURL
		return nil
	}
}

// NewClient builds a Client authenticating with ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...Option) (*Client, error) {
	if ts == nil {
		return nil, errors.New("token source cannot be nil")
	}
	var cfg clientConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	httpClient := oauth2.NewClient(ctx, ts)
	gh := github.NewClient(httpClient)
	gql := githubv4.NewClient(httpClient)
	if cfg.restURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.restURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing REST URL: %w", err)
		}
		gh.BaseURL = base
		gql = githubv4.NewEnterpriseClient(cfg.graphqlURL, httpClient)
	}

	return &Client{gh: gh, gql: gql}, nil
}

// GetIssue fetches an issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (callbacks.Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return callbacks.Issue{}, fmt.Errorf("fetch issue: %w", err)
	}
	out := callbacks.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}
	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out, nil
}

// Repository is a newly created repository.
type Repository struct {
	Owner         string
	Name          string
	URL           string
	CloneURL      string
	DefaultBranch string
}

// CreateRepository creates a repository, initialized with a README so that
// it can be cloned right away. An empty org creates it for the authenticated user.
func (c *Client) CreateRepository(ctx context.Context, org, name, description string, private bool) (Repository, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, org, &github.Repository{
		Name:        github.Ptr(name),
		Description: github.Ptr(description),
		Private:     github.Ptr(private),
		AutoInit:    github.Ptr(true),
	})
	if err != nil {
		return Repository{}, fmt.Errorf("create repository: %w", err)
	}
	clog.FromContext(ctx).With("repo", repo.GetFullName()).Info("Created repository")
	return Repository{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		URL:           repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
		DefaultBranch: repo.GetDefaultBranch(),
	}, nil
}

// CreatePullRequest opens a pull request from head into base and returns its URL.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, head, base, title, body string) (string, error) {
	pr, _, err := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return "", fmt.Errorf("create pull request: %w", err)
	}
	clog.FromContext(ctx).With("pr_url", pr.GetHTMLURL()).Info("Created pull request")
	return pr.GetHTMLURL(), nil
}

// SubmitReview posts a review on a pull request and returns its URL.
func (c *Client) SubmitReview(ctx context.Context, owner, repo string, number int, body, event string) (string, error) {
	review, _, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, &github.PullRequestReviewRequest{
		Body:  github.Ptr(body),
		Event: github.Ptr(event),
	})
	if err != nil {
		return "", fmt.Errorf("submit review: %w", err)
	}
	return review.GetHTMLURL(), nil
}

// Callbacks binds the agent's GitHub tools to owner/repo. SubmitReview is
// only set when reviewing is non-zero, the pull request under review.
func (c *Client) Callbacks(owner, repo string, reviewing int) callbacks.GitHubCallbacks {
	cb := callbacks.GitHubCallbacks{
		GetIssue: func(ctx context.Context, number int) (callbacks.Issue, error) {
			return c.GetIssue(ctx, owner, repo, number)
		},
	}
	if reviewing != 0 {
		cb.SubmitReview = func(ctx context.Context, body, event string) (string, error) {
			return c.SubmitReview(ctx, owner, repo, reviewing, body, event)
		}
	}
	return cb
}
