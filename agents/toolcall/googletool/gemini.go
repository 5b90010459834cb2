/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googletool translates provider-independent tool definitions,
// calls and results to and from Gemini function calling.
package googletool

import (
	"maps"

	"chainguard.dev/sweagent/agents/toolcall"
	"google.golang.org/genai"
)

// Declarations converts tool definitions to Gemini function declarations.
// The reflected JSON schema is passed through as-is.
func Declarations(defs []toolcall.Definition) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		params := map[string]any{
			"type":       "object",
			"properties": def.Input.Properties,
		}
		if len(def.Input.Required) > 0 {
			params["required"] = def.Input.Required
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:                 def.Name,
			Description:          def.Description,
			ParametersJsonSchema: params,
		})
	}
	return out
}

// FromFunctionCall converts a Gemini function call. Gemini does not always
// assign call IDs, so fallbackID is used when the call has none.
func FromFunctionCall(fc *genai.FunctionCall, fallbackID string) toolcall.ToolCall {
	id := fc.ID
	if id == "" {
		id = fallbackID
	}
	args := maps.Clone(fc.Args)
	if args == nil {
		args = map[string]any{}
	}
	return toolcall.ToolCall{ID: id, Name: fc.Name, Args: args}
}

// FunctionCall re-encodes a call for conversation history.
func FunctionCall(call toolcall.ToolCall) *genai.FunctionCall {
	return &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Args}
}

// Response wraps a handler response as a function response part.
func Response(callID, name string, content map[string]any) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: callID, Name: name, Response: content}
}
