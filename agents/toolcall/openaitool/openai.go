/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaitool translates provider-independent tool definitions and
// calls to and from OpenAI chat-completions function calling.
package openaitool

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/sweagent/agents/toolcall"
	"github.com/openai/openai-go"
)

// Definitions converts tool definitions to OpenAI function tools.
func Definitions(defs []toolcall.Definition) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		params := openai.FunctionParameters{
			"type":       "object",
			"properties": def.Input.Properties,
		}
		if len(def.Input.Required) > 0 {
			params["required"] = def.Input.Required
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  params,
			},
		})
	}
	return out
}

// FromToolCall decodes the JSON-encoded arguments of a function tool call.
func FromToolCall(id, name, arguments string) (toolcall.ToolCall, error) {
	call := toolcall.ToolCall{ID: id, Name: name, Args: map[string]any{}}
	if arguments == "" {
		return call, nil
	}
	if err := json.Unmarshal([]byte(arguments), &call.Args); err != nil {
		return call, fmt.Errorf("failed to parse arguments for %s: %w", name, err)
	}
	return call, nil
}

// ToolCallParam re-encodes a call for the assistant message in history.
func ToolCallParam(call toolcall.ToolCall) (openai.ChatCompletionMessageToolCallParam, error) {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return openai.ChatCompletionMessageToolCallParam{}, fmt.Errorf("failed to marshal arguments for %s: %w", call.Name, err)
	}
	return openai.ChatCompletionMessageToolCallParam{
		ID: call.ID,
		Function: openai.ChatCompletionMessageToolCallFunctionParam{
			Name:      call.Name,
			Arguments: string(b),
		},
	}, nil
}
