/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package callbacks holds the function tables that back agent tools. It has
// no SDK dependencies so the clone manager, the tool executor and the GitHub
// client can provide implementations without importing any model SDK.
package callbacks
