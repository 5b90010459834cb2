/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"strings"

	"chainguard.dev/sweagent/agents/executor/retry"
	"google.golang.org/genai"
)

// isRetryableVertexError checks if an error is a retryable Gemini or Vertex AI
// error. The SDK does not always surface a typed error, so the message is
// matched as a fallback.
func isRetryableVertexError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.IsTransientStatus(apiErr.Code)
	}
	errStr := err.Error()
	for _, marker := range []string{
		"Resource exhausted",
		"RESOURCE_EXHAUSTED",
		"429",
		"rate limit",
		"Overloaded",
		"503",
		"quota exceeded",
		"Internal error",
		"server error",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
