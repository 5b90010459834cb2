/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubreconciler is the GitHub side of the agent: authentication
// (personal token or GitHub App installation), issue and pull request reads,
// repository and pull request creation, and review submission.
//
// REST calls go through go-github; pull request context for reviews is read
// with a single GraphQL query through githubv4.
package githubreconciler
