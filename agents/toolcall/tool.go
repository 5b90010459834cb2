/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/sweagent/agents/agenttrace"
	"chainguard.dev/sweagent/agents/schema"
	"chainguard.dev/sweagent/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// ToolCall is a provider-independent representation of a tool call.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Definition describes a tool's name, purpose and input schema.
type Definition struct {
	Name        string
	Description string
	Input       schema.Object
}

// Handler executes a tool call and returns the payload sent back to the model.
type Handler func(ctx context.Context, call ToolCall, trace *agenttrace.Trace) map[string]any

// Tool pairs a definition with its handler.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Define builds a Definition whose input schema is reflected from Args.
func Define[Args any](name, description string) Definition {
	return Definition{
		Name:        name,
		Description: description,
		Input:       schema.MustFor[Args](),
	}
}

// Decode validates the call against the schema of Args and decodes it. On
// failure the call is recorded as bad on the trace and the returned map is
// the response to hand back to the model.
func Decode[Args any](call ToolCall, trace *agenttrace.Trace) (Args, map[string]any) {
	var args Args
	if missing := params.Missing(call.Args, schema.MustFor[Args]().Required); len(missing) > 0 {
		err := fmt.Errorf("%s parameter is required", strings.Join(missing, ", "))
		trace.BadToolCall(call.ID, call.Name, call.Args, err)
		return args, params.Error("%s", err)
	}
	if err := params.DecodeInto(call.Args, &args); err != nil {
		trace.BadToolCall(call.ID, call.Name, call.Args, err)
		return args, params.Error("%s", err)
	}
	return args, nil
}

// newTool wires the common handler sequence: decode the arguments, log the
// model's stated reasoning, open a tool-call span, run exec and record its
// result. describe selects the inputs echoed on the trace and on errors.
func newTool[Args any](
	name, description string,
	describe func(Args) map[string]any,
	exec func(ctx context.Context, args Args) (map[string]any, error),
) Tool {
	return Tool{
		Def: Define[Args](name, description),
		Handler: func(ctx context.Context, call ToolCall, trace *agenttrace.Trace) map[string]any {
			log := clog.FromContext(ctx).With("tool", call.Name)

			args, errResp := Decode[Args](call, trace)
			if errResp != nil {
				return errResp
			}
			if reasoning, ok := call.Args["reasoning"].(string); ok {
				log.With("reasoning", reasoning).Info("Tool call reasoning")
			}

			inputs := describe(args)
			tc := trace.StartToolCall(call.ID, call.Name, inputs)
			result, err := exec(ctx, args)
			if err != nil {
				log.With("error", err).Error("Tool call failed")
				result = params.ErrorWithContext(err, inputs)
			}
			tc.Complete(result, err)
			return result
		},
	}
}
