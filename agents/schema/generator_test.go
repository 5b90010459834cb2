/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"testing"

	"chainguard.dev/sweagent/agents/schema"
	"github.com/google/go-cmp/cmp"
)

type writeFileArgs struct {
	Path    string `json:"path" jsonschema:"required,description=File path relative to the repository root"`
	Content string `json:"content" jsonschema:"required"`
	Append  bool   `json:"append,omitempty"`
}

func TestFor(t *testing.T) {
	obj, err := schema.For[writeFileArgs]()
	if err != nil {
		t.Fatalf("For() = %v", err)
	}
	if diff := cmp.Diff([]string{"path", "content"}, obj.Required); diff != "" {
		t.Errorf("Required mismatch (-want +got):\n%s", diff)
	}

	path, ok := obj.Properties["path"].(map[string]any)
	if !ok {
		t.Fatalf("path property: got = %#v", obj.Properties["path"])
	}
	if diff := cmp.Diff(map[string]any{
		"type":        "string",
		"description": "File path relative to the repository root",
	}, path); diff != "" {
		t.Errorf("path property mismatch (-want +got):\n%s", diff)
	}

	appendProp, ok := obj.Properties["append"].(map[string]any)
	if !ok || appendProp["type"] != "boolean" {
		t.Errorf("append property: got = %#v", obj.Properties["append"])
	}
}

func TestForEmptyStruct(t *testing.T) {
	obj := schema.MustFor[struct{}]()
	if obj.Properties == nil {
		t.Error("Properties should be non-nil for an empty struct")
	}
	if len(obj.Required) != 0 {
		t.Errorf("Required: got = %v, wanted none", obj.Required)
	}
}

func TestForAnonymousStruct(t *testing.T) {
	if _, err := schema.For[struct{ Path string }](); err == nil {
		t.Error("For(anonymous struct) succeeded, wanted error")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustFor(anonymous struct) did not panic")
		}
	}()
	schema.MustFor[struct {
		Path string `json:"path"`
	}]()
}

func TestReflectTopLevel(t *testing.T) {
	s := schema.Reflect(&writeFileArgs{})
	if s.Type != "object" {
		t.Errorf("Type: got = %q, wanted = object", s.Type)
	}
}
