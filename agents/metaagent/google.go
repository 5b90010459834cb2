/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"
	"net/http"

	"chainguard.dev/sweagent/agents/executor/googleexecutor"
	"chainguard.dev/sweagent/agents/session"
	"google.golang.org/genai"
)

func newGoogleModel(ctx context.Context, cfg Config) (session.Model, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.GeminiAPIKey != "":
		cc.APIKey = cfg.GeminiAPIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.vertex():
		cc.Project = cfg.GCPProject
		cc.Location = cfg.GCPRegion
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("%w: %s needs GEMINI_API_KEY or a Google Cloud project", ErrMissingCredentials, cfg.Model)
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}

	executorOpts := []googleexecutor.Option{
		googleexecutor.WithModel(cfg.Model),
		googleexecutor.WithMaxOutputTokens(32768),
	}
	if cfg.Temperature != nil {
		executorOpts = append(executorOpts, googleexecutor.WithTemperature(float32(*cfg.Temperature)))
	}
	executor, err := googleexecutor.New(client, executorOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google executor: %w", err)
	}
	return executor, nil
}
