/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultBranchPrefix prefixes every generated branch name.
const DefaultBranchPrefix = "sweagent/"

const (
	suffixLen   = 12
	maxTitleLen = 72
)

// BranchName returns prefix followed by 12 hex characters drawn from a
// random (version 4) UUID.
func BranchName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + id[:suffixLen]
}

// PullRequestTitle derives a title from the first non-blank line of the issue
// text, truncated to 72 runes.
func PullRequestTitle(issue string) string {
	return subject(issue)
}

// CommitMessage derives a commit message from the issue text: the subject
// line of PullRequestTitle, then the rest of the issue as the body. A first
// line too long for the subject is repeated in full in the body.
func CommitMessage(issue string) string {
	subj := subject(issue)
	rest := body(issue)
	if rest == "" {
		return subj
	}
	return subj + "\n\n" + rest
}

func firstLine(issue string) (string, string) {
	issue = strings.TrimSpace(issue)
	line, rest, _ := strings.Cut(issue, "\n")
	return strings.TrimSpace(line), strings.TrimSpace(rest)
}

func subject(issue string) string {
	line, _ := firstLine(issue)
	if r := []rune(line); len(r) > maxTitleLen {
		line = strings.TrimSpace(string(r[:maxTitleLen-3])) + "..."
	}
	return line
}

func body(issue string) string {
	line, rest := firstLine(issue)
	if utf8.RuneCountInString(line) > maxTitleLen {
		return strings.TrimSpace(line + "\n\n" + rest)
	}
	return rest
}
