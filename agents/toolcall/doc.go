/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the tools an agent session can call, independent
// of the model provider.
//
// Tool sets are composed by wrapping providers, each layer adding tools on
// top of its base:
//
//	provider := toolcall.NewGitHubToolsProvider(
//		toolcall.NewShellToolsProvider(
//			toolcall.NewWorktreeToolsProvider(toolcall.NewEmptyToolsProvider())))
//
//	tools := provider.Tools(toolcall.NewGitHubTools(
//		toolcall.NewShellTools(
//			toolcall.NewWorktreeTools(toolcall.EmptyTools{}, worktreeCB),
//			shellCB),
//		githubCB))
//
// Input schemas are reflected from argument structs, and the provider
// adapters under agents/model translate Definitions into SDK types.
package toolcall
