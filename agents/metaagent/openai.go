/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"fmt"

	"chainguard.dev/sweagent/agents/executor/openaiexecutor"
	"chainguard.dev/sweagent/agents/session"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func newOpenAIModel(cfg Config) (session.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: %s needs OPENAI_API_KEY", ErrMissingCredentials, cfg.Model)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	executorOpts := []openaiexecutor.Option{openaiexecutor.WithModel(cfg.Model)}
	if cfg.Temperature != nil {
		executorOpts = append(executorOpts, openaiexecutor.WithTemperature(*cfg.Temperature))
	}
	executor, err := openaiexecutor.New(openai.NewClient(opts...), executorOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI executor: %w", err)
	}
	return executor, nil
}
