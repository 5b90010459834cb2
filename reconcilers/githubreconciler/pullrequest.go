/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubreconciler

import (
	"context"
	"fmt"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
)

// maxDiffBytes caps the diff handed to a review session.
const maxDiffBytes = 200_000

// PullRequest is the review context for a pull request.
type PullRequest struct {
	Number    int               `yaml:"number"`
	Title     string            `yaml:"title"`
	Body      string            `yaml:"body,omitempty"`
	URL       string            `yaml:"url"`
	State     string            `yaml:"state"`
	Author    string            `yaml:"author"`
	BaseRef   string            `yaml:"base"`
	HeadRef   string            `yaml:"head"`
	Additions int               `yaml:"additions"`
	Deletions int               `yaml:"deletions"`
	Files     []PullRequestFile `yaml:"files"`
	Commits   []string          `yaml:"commits"`
	// Diff is the unified diff, truncated when very large.
	Diff string `yaml:"-"`
}

// PullRequestFile summarizes one changed file.
type PullRequestFile struct {
	Path      string `yaml:"path"`
	Additions int    `yaml:"additions"`
	Deletions int    `yaml:"deletions"`
}

type gqlPullRequest struct {
	Number      int
	Title       string
	Body        string
	Url         string
	State       string
	BaseRefName string
	HeadRefName string
	Additions   int
	Deletions   int
	Author      struct {
		Login string
	}
	Files struct {
		Nodes []struct {
			Path      string
			Additions int
			Deletions int
		}
	} `graphql:"files(first: 100)"`
	Commits struct {
		Nodes []struct {
			Commit struct {
				Oid             string
				MessageHeadline string
			}
		}
	} `graphql:"commits(last: 30)"`
}

// FetchPullRequest reads the metadata of a pull request in one GraphQL query
// and its diff through the REST API.
func (c *Client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var query struct {
		Repository struct {
			PullRequest gqlPullRequest `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}
	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"repo":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("graphql query: %w", err)
	}

	gpr := query.Repository.PullRequest
	pr := &PullRequest{
		Number:    gpr.Number,
		Title:     gpr.Title,
		Body:      gpr.Body,
		URL:       gpr.Url,
		State:     gpr.State,
		Author:    gpr.Author.Login,
		BaseRef:   gpr.BaseRefName,
		HeadRef:   gpr.HeadRefName,
		Additions: gpr.Additions,
		Deletions: gpr.Deletions,
	}
	for _, f := range gpr.Files.Nodes {
		pr.Files = append(pr.Files, PullRequestFile{Path: f.Path, Additions: f.Additions, Deletions: f.Deletions})
	}
	for _, n := range gpr.Commits.Nodes {
		oid := n.Commit.Oid
		if len(oid) > 7 {
			oid = oid[:7]
		}
		pr.Commits = append(pr.Commits, oid+" "+n.Commit.MessageHeadline)
	}

	diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return nil, fmt.Errorf("fetch diff: %w", err)
	}
	if len(diff) > maxDiffBytes {
		diff = diff[:maxDiffBytes] + "\n... (diff truncated)\n"
	}
	pr.Diff = diff
	return pr, nil
}
