/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives tool input schemas from Go argument structs.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Object is the top-level shape every tool input schema takes: a JSON object
// with named properties, some of them required.
type Object struct {
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required,omitempty"`
}

var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// Reflect returns the full JSON schema of v.
func Reflect(v any) *jsonschema.Schema {
	return reflector.Reflect(v)
}

// For returns the input schema for argument struct T. Fields are required
// only when tagged `jsonschema:"required"`. T must be a named type unless it
// is the empty struct, which takes no arguments.
func For[T any]() (Object, error) {
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Struct && t.Name() == "" {
		if t.NumField() == 0 {
			return Object{Properties: map[string]any{}}, nil
		}
		return Object{}, fmt.Errorf("schema for %v: argument structs must be named types", t)
	}
	var zero T
	raw, err := json.Marshal(Reflect(&zero))
	if err != nil {
		return Object{}, fmt.Errorf("marshal schema for %T: %w", zero, err)
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Object{}, fmt.Errorf("decode schema for %T: %w", zero, err)
	}
	if obj.Properties == nil {
		obj.Properties = map[string]any{}
	}
	return obj, nil
}

// MustFor is For that panics, for package-level tool definitions.
func MustFor[T any]() Object {
	obj, err := For[T]()
	if err != nil {
		panic(err)
	}
	return obj
}
