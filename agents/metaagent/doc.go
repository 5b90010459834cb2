/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metaagent selects and constructs the model provider for a model
// name, returning a session.Model ready to drive an agent session.
//
// # Model Support
//
//   - Models starting with "claude-" use Anthropic's SDK, with an API key or
//     through Vertex AI when a Google Cloud project is configured
//   - Models starting with "gemini-" use Google's Gen AI SDK, against either
//     the Gemini API or Vertex AI
//   - Models starting with "gpt-", "chatgpt-" or an "o" series prefix such
//     as "o3-" use OpenAI's SDK
//
// # Usage
//
//	model, err := metaagent.New(ctx, metaagent.Config{
//	    Model:        "gpt-4-turbo",
//	    OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//	engine, err := session.New(model, session.WithTools(tools))
package metaagent
