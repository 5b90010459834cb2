/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googletool

import (
	"testing"

	"chainguard.dev/sweagent/agents/schema"
	"chainguard.dev/sweagent/agents/toolcall"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestDeclarations(t *testing.T) {
	decls := Declarations([]toolcall.Definition{{
		Name:  "list_directory",
		Input: schema.Object{Properties: map[string]any{"path": map[string]any{"type": "string"}}},
	}, {
		Name: "run_command",
		Input: schema.Object{
			Properties: map[string]any{"command": map[string]any{"type": "string"}},
			Required:   []string{"command"},
		},
	}})

	if len(decls) != 2 {
		t.Fatalf("Declarations() returned %d entries", len(decls))
	}
	first, ok := decls[0].ParametersJsonSchema.(map[string]any)
	if !ok {
		t.Fatalf("ParametersJsonSchema: got = %T", decls[0].ParametersJsonSchema)
	}
	if _, ok := first["required"]; ok {
		t.Error("required emitted for a schema with no required fields")
	}
	second := decls[1].ParametersJsonSchema.(map[string]any)
	if diff := cmp.Diff([]string{"command"}, second["required"]); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFunctionCall(t *testing.T) {
	got := FromFunctionCall(&genai.FunctionCall{Name: "read_file", Args: map[string]any{"path": "a"}}, "call-0-0")
	want := toolcall.ToolCall{ID: "call-0-0", Name: "read_file", Args: map[string]any{"path": "a"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromFunctionCall() mismatch (-want +got):\n%s", diff)
	}

	withID := FromFunctionCall(&genai.FunctionCall{ID: "fc-9", Name: "x"}, "fallback")
	if withID.ID != "fc-9" || withID.Args == nil {
		t.Errorf("FromFunctionCall() = %+v", withID)
	}
}
