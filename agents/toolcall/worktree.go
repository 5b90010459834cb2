/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
)

// WorktreeTools wraps a base tools type and adds worktree callbacks.
type WorktreeTools[T any] struct {
	base T
	callbacks.WorktreeCallbacks
}

// NewWorktreeTools creates a WorktreeTools wrapping the given base tools.
func NewWorktreeTools[T any](base T, cb callbacks.WorktreeCallbacks) WorktreeTools[T] {
	return WorktreeTools[T]{base: base, WorktreeCallbacks: cb}
}

type worktreeToolsProvider[T any] struct {
	base ToolProvider[T]
}

var _ ToolProvider[WorktreeTools[EmptyTools]] = worktreeToolsProvider[EmptyTools]{}

// NewWorktreeToolsProvider adds file tools on top of base.
func NewWorktreeToolsProvider[T any](base ToolProvider[T]) ToolProvider[WorktreeTools[T]] {
	return worktreeToolsProvider[T]{base: base}
}

type readFileArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain why you are reading this file."`
	Path      string `json:"path" jsonschema:"required,description=The path to the file to read (relative to repository root)"`
}

type writeFileArgs struct {
	Reasoning  string `json:"reasoning" jsonschema:"required,description=Explain why you are writing this file."`
	Path       string `json:"path" jsonschema:"required,description=The path to the file to write (relative to repository root)"`
	Content    string `json:"content" jsonschema:"required,description=The complete content to write to the file"`
	Executable bool   `json:"executable,omitempty" jsonschema:"description=Whether the file should be executable"`
}

type deleteFileArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain why you are deleting this file."`
	Path      string `json:"path" jsonschema:"required,description=The path to the file to delete (relative to repository root)"`
}

type listDirectoryArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain why you are listing this directory."`
	Path      string `json:"path" jsonschema:"required,description=The directory to list (relative to repository root; use . for the root)"`
}

type searchCodebaseArgs struct {
	Reasoning string `json:"reasoning" jsonschema:"required,description=Explain what you are looking for."`
	Pattern   string `json:"pattern" jsonschema:"required,description=A regular expression matched against each line of every tracked file"`
}

func (p worktreeToolsProvider[T]) Tools(cb WorktreeTools[T]) map[string]Tool {
	tools := p.base.Tools(cb.base)

	tools["read_file"] = newTool("read_file",
		"Read the complete content of a file from the repository.",
		func(a readFileArgs) map[string]any { return map[string]any{"path": a.Path} },
		func(ctx context.Context, a readFileArgs) (map[string]any, error) {
			content, err := cb.ReadFile(ctx, a.Path)
			if err != nil {
				return nil, err
			}
			return map[string]any{"path": a.Path, "content": content, "size": len(content)}, nil
		})

	tools["write_file"] = newTool("write_file",
		"Create or overwrite a file in the repository.",
		func(a writeFileArgs) map[string]any { return map[string]any{"path": a.Path} },
		func(ctx context.Context, a writeFileArgs) (map[string]any, error) {
			if err := cb.WriteFile(ctx, a.Path, a.Content, a.Executable); err != nil {
				return nil, err
			}
			return map[string]any{"path": a.Path, "bytes_written": len(a.Content)}, nil
		})

	tools["delete_file"] = newTool("delete_file",
		"Delete a file from the repository.",
		func(a deleteFileArgs) map[string]any { return map[string]any{"path": a.Path} },
		func(ctx context.Context, a deleteFileArgs) (map[string]any, error) {
			if err := cb.DeleteFile(ctx, a.Path); err != nil {
				return nil, err
			}
			return map[string]any{"path": a.Path, "deleted": true}, nil
		})

	tools["list_directory"] = newTool("list_directory",
		"List the entries of a directory. Subdirectories end with a slash.",
		func(a listDirectoryArgs) map[string]any { return map[string]any{"path": a.Path} },
		func(ctx context.Context, a listDirectoryArgs) (map[string]any, error) {
			entries, err := cb.ListDirectory(ctx, a.Path)
			if err != nil {
				return nil, err
			}
			return map[string]any{"path": a.Path, "entries": entries, "count": len(entries)}, nil
		})

	tools["search_codebase"] = newTool("search_codebase",
		"Search every file in the repository for lines matching a regular expression.",
		func(a searchCodebaseArgs) map[string]any { return map[string]any{"pattern": a.Pattern} },
		func(ctx context.Context, a searchCodebaseArgs) (map[string]any, error) {
			matches, err := cb.SearchCodebase(ctx, a.Pattern)
			if err != nil {
				return nil, err
			}
			return map[string]any{"pattern": a.Pattern, "matches": matches, "count": len(matches)}, nil
		})

	return tools
}
