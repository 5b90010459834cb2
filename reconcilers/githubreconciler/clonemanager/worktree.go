/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"chainguard.dev/sweagent/agents/toolcall/callbacks"
)

// maxMatches caps SearchCodebase results.
const maxMatches = 200

// WorktreeCallbacks creates callbacks.WorktreeCallbacks bound to the lease's
// working tree. All file operations are confined to the clone root and never
// touch the .git directory.
func (l *Lease) WorktreeCallbacks() (callbacks.WorktreeCallbacks, error) {
	return WorktreeCallbacks(l.path)
}

// WorktreeCallbacks creates callbacks.WorktreeCallbacks rooted at dir.
func WorktreeCallbacks(dir string) (callbacks.WorktreeCallbacks, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return callbacks.WorktreeCallbacks{}, fmt.Errorf("opening worktree root: %w", err)
	}

	// clean normalizes a model-supplied path and rejects the git directory.
	// Escapes outside the root are rejected by os.Root itself.
	clean := func(path string) (string, error) {
		p := filepath.Clean(strings.TrimPrefix(path, "/"))
		if p == ".git" || strings.HasPrefix(p, ".git"+string(filepath.Separator)) {
			return "", fmt.Errorf("path %q is inside the git directory", path)
		}
		return p, nil
	}

	return callbacks.WorktreeCallbacks{
		ReadFile: func(_ context.Context, path string) (string, error) {
			p, err := clean(path)
			if err != nil {
				return "", err
			}
			data, err := root.ReadFile(p)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		WriteFile: func(_ context.Context, path, content string, executable bool) error {
			p, err := clean(path)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(p); dir != "." {
				if err := root.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			mode := os.FileMode(0o644)
			if executable {
				mode = 0o755
			}
			if err := root.WriteFile(p, []byte(content), mode); err != nil {
				return err
			}
			// WriteFile keeps the mode of existing files.
			return root.Chmod(p, mode)
		},
		DeleteFile: func(_ context.Context, path string) error {
			p, err := clean(path)
			if err != nil {
				return err
			}
			return root.Remove(p)
		},
		ListDirectory: func(_ context.Context, path string) ([]string, error) {
			p, err := clean(path)
			if err != nil {
				return nil, err
			}
			entries, err := fs.ReadDir(root.FS(), filepath.ToSlash(p))
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				name := e.Name()
				if name == ".git" {
					continue
				}
				if e.IsDir() {
					name += "/"
				}
				names = append(names, name)
			}
			return names, nil
		},
		SearchCodebase: func(_ context.Context, pattern string) ([]callbacks.Match, error) {
			return grepWorktree(root.FS(), pattern)
		},
	}, nil
}

// grepWorktree searches for a pattern in all text files of fsys.
func grepWorktree(fsys fs.FS, pattern string) ([]callbacks.Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var matches []callbacks.Match
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if d.IsDir() {
			if path != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if isBinaryFile(path) {
			return nil
		}

		fileMatches, err := searchFile(fsys, path, re)
		if err != nil {
			return nil // Skip files we can't read
		}
		matches = append(matches, fileMatches...)
		if len(matches) >= maxMatches {
			matches = matches[:maxMatches]
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func searchFile(fsys fs.FS, path string, re *regexp.Regexp) ([]callbacks.Match, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []callbacks.Match
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, callbacks.Match{
				Path:    path,
				Line:    lineNum,
				Content: line,
			})
		}
	}
	return matches, scanner.Err()
}

func isBinaryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".dll", ".so", ".dylib",
		".zip", ".tar", ".gz", ".bz2",
		".png", ".jpg", ".jpeg", ".gif", ".ico",
		".pdf", ".doc", ".docx",
		".bin", ".dat":
		return true
	}
	return false
}
