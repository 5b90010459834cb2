/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import "time"

// Config carries provider credentials and generation settings. Only the
// credentials for the selected provider need to be set.
type Config struct {
	// Model is the provider model identifier. Defaults to DefaultModel.
	Model string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	// GCPProject and GCPRegion route Claude and Gemini through Vertex AI
	// when no API key is set for them.
	GCPProject string
	GCPRegion  string

	// Timeout bounds each model request. Zero means no limit.
	Timeout time.Duration

	// Temperature is passed to the executor when non-nil.
	Temperature *float64
}

func (c Config) vertex() bool {
	return c.GCPProject != "" && c.GCPRegion != ""
}
