/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMissing(t *testing.T) {
	args := map[string]any{"path": "a.go", "reasoning": ""}
	got := Missing(args, []string{"reasoning", "path", "content", "mode"})
	if diff := cmp.Diff([]string{"content", "mode"}, got); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
	if got := Missing(args, nil); got != nil {
		t.Errorf("Missing(nil): got = %v, wanted = nil", got)
	}
}

func TestDecodeInto(t *testing.T) {
	type args struct {
		Number  int    `json:"number"`
		Comment string `json:"comment"`
	}

	var got args
	if err := DecodeInto(map[string]any{"number": float64(42), "comment": "hi"}, &got); err != nil {
		t.Fatalf("DecodeInto() = %v", err)
	}
	if diff := cmp.Diff(args{Number: 42, Comment: "hi"}, got); diff != "" {
		t.Errorf("DecodeInto() mismatch (-want +got):\n%s", diff)
	}

	if err := DecodeInto(map[string]any{"number": "forty-two"}, &got); err == nil {
		t.Error("DecodeInto() with a string for an int field succeeded")
	}
}

func TestErrorResponses(t *testing.T) {
	if diff := cmp.Diff(map[string]any{"error": "path parameter is required"},
		Error("%s parameter is required", "path")); diff != "" {
		t.Errorf("Error() mismatch (-want +got):\n%s", diff)
	}

	got := ErrorWithContext(errors.New("no such file"), map[string]any{"path": "missing.go"})
	if diff := cmp.Diff(map[string]any{"error": "no such file", "path": "missing.go"}, got); diff != "" {
		t.Errorf("ErrorWithContext() mismatch (-want +got):\n%s", diff)
	}
}
