/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params validates tool-call arguments and formats the error
// responses handed back to the model. Tool handlers report failures as
// {"error": ...} payloads rather than Go errors so the model can correct
// itself on the next turn.
package params
