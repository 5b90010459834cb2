/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolexec is the tool-execution interface the workflow driver
// finalizes its work through: changing the working directory, reading the
// diff, running git, and creating repositories and pull requests.
//
// Every operation reports a Result rather than a Go error. Callers branch on
// Result.Status and read the few known Data keys (DataDiff, DataURL, ...).
//
// Local is the implementation used by the CLI. It keeps a single implicit
// working directory, runs the git CLI, and calls GitHub through
// githubreconciler. Its operations are serialized, so one Local must not be
// shared between runs that expect different working directories.
package toolexec
