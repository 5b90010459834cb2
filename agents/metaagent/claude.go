/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"

	"chainguard.dev/sweagent/agents/executor/claudeexecutor"
	"chainguard.dev/sweagent/agents/session"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

func newClaudeModel(ctx context.Context, cfg Config) (session.Model, error) {
	var opts []option.RequestOption
	switch {
	case cfg.AnthropicAPIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.AnthropicAPIKey))
	case cfg.vertex():
		opts = append(opts, vertex.WithGoogleAuth(ctx, cfg.GCPRegion, cfg.GCPProject))
	default:
		return nil, fmt.Errorf("%w: %s needs ANTHROPIC_API_KEY or a Google Cloud project", ErrMissingCredentials, cfg.Model)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	executorOpts := []claudeexecutor.Option{
		claudeexecutor.WithModel(cfg.Model),
		claudeexecutor.WithMaxTokens(32000),
	}
	if cfg.Temperature != nil {
		executorOpts = append(executorOpts, claudeexecutor.WithTemperature(*cfg.Temperature))
	}
	executor, err := claudeexecutor.New(anthropic.NewClient(opts...), executorOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating Claude executor: %w", err)
	}
	return executor, nil
}
