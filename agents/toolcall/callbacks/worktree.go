/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callbacks

import "context"

// Match represents a search result from SearchCodebase.
type Match struct {
	// Path is the file path relative to the worktree root
	Path string `json:"path"`
	// Line is the line number (1-based)
	Line int `json:"line"`
	// Content is the matching line content
	Content string `json:"content"`
}

// WorktreeCallbacks provides file operations on a repository clone. Paths are
// relative to the clone root and may not escape it.
type WorktreeCallbacks struct {
	ReadFile       func(ctx context.Context, path string) (content string, err error)
	WriteFile      func(ctx context.Context, path, content string, executable bool) error
	DeleteFile     func(ctx context.Context, path string) error
	ListDirectory  func(ctx context.Context, path string) (entries []string, err error)
	SearchCodebase func(ctx context.Context, pattern string) (matches []Match, err error)
}
