/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles agent instructions from literal templates.
//
// Templates contain {{name}} placeholders. Developer-controlled text is bound
// with BindLiteral, which only accepts untyped string constants. Anything that
// originates from a user or a remote system (issue bodies, pull request
// descriptions, file contents) must be bound through BindXML, BindJSON or
// BindYAML so it reaches the model as escaped, structured data.
package promptbuilder

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// stringLiteral can only be satisfied by an untyped string constant from
// outside the package, which keeps runtime strings out of templates.
type stringLiteral string

// segment is either a run of literal text or a placeholder reference.
type segment struct {
	text        string
	placeholder string
}

// Prompt is an immutable template together with its current bindings.
type Prompt struct {
	segments []segment
	bindings map[string]binding
}

// NewPrompt parses a template literal.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	segments, err := parse(string(template))
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]binding)
	for _, s := range segments {
		if s.placeholder != "" {
			bindings[s.placeholder] = nil
		}
	}
	return &Prompt{segments: segments, bindings: bindings}, nil
}

// Placeholders returns the sorted names of every placeholder in the template.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// BindLiteral binds a developer-provided constant.
func (p *Prompt) BindLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.with(name, literalBinding(value))
}

// BindXML binds data marshaled with encoding/xml.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.with(name, xmlBinding{data: data})
}

// BindJSON binds data marshaled with encoding/json.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.with(name, jsonBinding{data: data})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.with(name, yamlBinding{data: data})
}

func (p *Prompt) with(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if current != nil {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{
		segments: p.segments,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = b
	return next, nil
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	rendered := make(map[string]string, len(p.bindings))
	for _, name := range p.Placeholders() {
		b := p.bindings[name]
		if b == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := b.render()
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", name, err)
		}
		rendered[name] = v
	}

	var sb strings.Builder
	for _, s := range p.segments {
		if s.placeholder != "" {
			sb.WriteString(rendered[s.placeholder])
			continue
		}
		sb.WriteString(s.text)
	}
	return sb.String(), nil
}

func parse(template string) ([]segment, error) {
	var out []segment
	for template != "" {
		start := strings.Index(template, "{{")
		if start < 0 {
			out = append(out, segment{text: template})
			break
		}
		if start > 0 {
			out = append(out, segment{text: template[:start]})
		}
		end := strings.Index(template[start:], "}}")
		if end < 0 {
			return nil, errors.New("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(template[start+2 : start+end])
		if !validName(name) {
			return nil, fmt.Errorf("invalid placeholder name %q", name)
		}
		out = append(out, segment{placeholder: name})
		template = template[start+end+2:]
	}
	return out, nil
}

// validName reports whether s starts with a letter and is followed only by
// letters, digits and underscores.
func validName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
