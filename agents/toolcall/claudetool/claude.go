/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudetool translates provider-independent tool definitions,
// calls and results to and from the Anthropic Messages API.
package claudetool

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/sweagent/agents/toolcall"
	"github.com/anthropics/anthropic-sdk-go"
)

// Definitions converts tool definitions to Anthropic tool params.
func Definitions(defs []toolcall.Definition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: def.Input.Properties,
				Required:   def.Input.Required,
			},
		}})
	}
	return out
}

// FromToolUse decodes a tool_use content block.
func FromToolUse(id, name string, input json.RawMessage) (toolcall.ToolCall, error) {
	call := toolcall.ToolCall{ID: id, Name: name, Args: map[string]any{}}
	if len(input) == 0 {
		return call, nil
	}
	if err := json.Unmarshal(input, &call.Args); err != nil {
		return call, fmt.Errorf("failed to parse tool input for %s: %w", name, err)
	}
	return call, nil
}

// ToolUse re-encodes a call as an assistant tool_use block for history.
func ToolUse(call toolcall.ToolCall) anthropic.ContentBlockParamUnion {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	return anthropic.NewToolUseBlock(call.ID, args, call.Name)
}

// Result encodes a handler response as a tool_result block. Responses with
// an "error" key are flagged as errors.
func Result(callID string, content map[string]any) (anthropic.ContentBlockParamUnion, error) {
	b, err := json.Marshal(content)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	_, isErr := content["error"]
	return anthropic.NewToolResultBlock(callID, string(b), isErr), nil
}
