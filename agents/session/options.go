/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"errors"
	"fmt"
	"maps"

	"chainguard.dev/sweagent/agents/toolcall"
)

// Option is a functional option for configuring the engine.
type Option func(*Engine) error

// WithTools sets the tools available to the model.
func WithTools(tools map[string]toolcall.Tool) Option {
	return func(e *Engine) error {
		for name, tool := range tools {
			if tool.Handler == nil {
				return fmt.Errorf("tool %q has no handler", name)
			}
			if tool.Def.Name != name {
				return fmt.Errorf("tool registered as %q is defined as %q", name, tool.Def.Name)
			}
		}
		e.tools = maps.Clone(tools)
		return nil
	}
}

// WithMaxAutoReplies bounds the number of automatic replies (tool results or
// continuation prompts) the engine sends before giving up.
func WithMaxAutoReplies(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("max auto replies cannot be negative, got %d", n)
		}
		e.maxAutoReplies = n
		return nil
	}
}

// WithTermination replaces the termination predicate.
func WithTermination(fn TerminationFunc) Option {
	return func(e *Engine) error {
		if fn == nil {
			return errors.New("termination predicate cannot be nil")
		}
		e.terminate = fn
		return nil
	}
}

// WithContinuePrompt sets the message sent when the model replies without
// calling a tool and without terminating.
func WithContinuePrompt(prompt string) Option {
	return func(e *Engine) error {
		if prompt == "" {
			return errors.New("continue prompt cannot be empty")
		}
		e.continuePrompt = prompt
		return nil
	}
}
