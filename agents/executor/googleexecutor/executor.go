/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleexecutor implements session.Model on Gemini, through either
// the Gemini API or Vertex AI.
package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/sweagent/agents/executor/retry"
	"chainguard.dev/sweagent/agents/session"
	"chainguard.dev/sweagent/agents/toolcall/googletool"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.5-flash"

// Executor generates replies with a Gemini model.
type Executor struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	retryConfig     retry.Config
}

var _ session.Model = (*Executor)(nil)

// New creates an Executor with the given client.
func New(client *genai.Client, opts ...Option) (*Executor, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	e := &Executor{
		client:          client,
		model:           DefaultModel,
		temperature:     0.1,
		maxOutputTokens: 8192,
		retryConfig:     retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Name implements session.Model.
func (e *Executor) Name() string { return e.model }

// Generate implements session.Model.
func (e *Executor) Generate(ctx context.Context, req session.Request) (session.Response, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &e.temperature,
		MaxOutputTokens: e.maxOutputTokens,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{
			FunctionDeclarations: googletool.Declarations(req.Tools),
		}}
	}

	response, err := retry.Do(ctx, e.retryConfig, "generate_content", isRetryableVertexError, func() (*genai.GenerateContentResponse, error) {
		return e.client.Models.GenerateContent(ctx, e.model, toContents(req.Messages), config)
	})
	if err != nil {
		return session.Response{}, fmt.Errorf("failed to generate Gemini response: %w", err)
	}
	return fromResponse(ctx, response, len(req.Messages))
}

func fromResponse(ctx context.Context, response *genai.GenerateContentResponse, turn int) (session.Response, error) {
	var out session.Response
	if response.UsageMetadata != nil {
		out.Usage = session.Usage{
			InputTokens:  int64(response.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(response.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(response.Candidates) == 0 {
		return out, errors.New("no content generated - no candidates")
	}

	candidate := response.Candidates[0]
	reply := session.Message{Role: session.RoleAssistant}
	if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
		// Leave the reply without tool calls so the session prompts again.
		clog.FromContext(ctx).With("finish_message", candidate.FinishMessage).
			Warn("Model attempted a malformed function call")
		reply.Text = "(malformed function call)"
		out.Message = reply
		return out, nil
	}
	if candidate.Content == nil {
		return out, errors.New("no content generated - candidate content is nil")
	}

	var text []string
	for i, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			reply.ToolCalls = append(reply.ToolCalls, googletool.FromFunctionCall(part.FunctionCall, fmt.Sprintf("call-%d-%d", turn, i)))
		case part.Text != "" && !part.Thought:
			text = append(text, part.Text)
		}
	}
	reply.Text = strings.Join(text, "")
	out.Message = reply
	return out, nil
}

// toContents converts the transcript to Gemini contents. Gemini calls the
// assistant role "model".
func toContents(msgs []session.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		if m.Role == session.RoleAssistant {
			role = genai.RoleModel
		}
		var parts []*genai.Part
		for _, r := range m.ToolResults {
			parts = append(parts, &genai.Part{FunctionResponse: googletool.Response(r.CallID, r.Name, r.Content)})
		}
		if m.Text != "" {
			parts = append(parts, &genai.Part{Text: m.Text})
		}
		for _, c := range m.ToolCalls {
			parts = append(parts, &genai.Part{FunctionCall: googletool.FunctionCall(c)})
		}
		if len(parts) == 0 {
			parts = append(parts, &genai.Part{Text: "(no content)"})
		}
		out = append(out, &genai.Content{Role: string(role), Parts: parts})
	}
	return out
}
