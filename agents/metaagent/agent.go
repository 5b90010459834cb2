/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/sweagent/agents/session"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4-turbo"

// ErrMissingCredentials is returned when the selected provider has no
// usable credentials in the Config.
var ErrMissingCredentials = errors.New("missing model credentials")

// Provider names a model vendor.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
)

// ProviderFor returns the provider serving the given model name.
func ProviderFor(model string) (Provider, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "gemini-"):
		return ProviderGoogle, nil
	case strings.HasPrefix(m, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "chatgpt-"), isOSeries(m):
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-* or gpt-*)", model)
	}
}

// isOSeries matches OpenAI reasoning models such as o1, o3-mini and o4-mini.
func isOSeries(m string) bool {
	if len(m) < 2 || m[0] != 'o' || m[1] < '1' || m[1] > '9' {
		return false
	}
	return len(m) == 2 || m[2] == '-'
}

// New creates the session.Model for cfg.Model.
func New(ctx context.Context, cfg Config) (session.Model, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	provider, err := ProviderFor(cfg.Model)
	if err != nil {
		return nil, err
	}
	switch provider {
	case ProviderAnthropic:
		return newClaudeModel(ctx, cfg)
	case ProviderGoogle:
		return newGoogleModel(ctx, cfg)
	default:
		return newOpenAIModel(cfg)
	}
}
