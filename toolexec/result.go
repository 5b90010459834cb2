/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"errors"
	"fmt"
)

// Status is the outcome of a tool call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Well-known Data keys.
const (
	DataDiff          = "diff"
	DataStats         = "stats"
	DataStdout        = "stdout"
	DataStderr        = "stderr"
	DataURL           = "url"
	DataOwner         = "owner"
	DataName          = "name"
	DataDefaultBranch = "default_branch"
	DataDir           = "dir"
)

// Result is returned by every Executor operation.
type Result struct {
	Status  Status
	Message string
	Data    map[string]any
}

// Success builds a successful Result.
func Success(message string, data map[string]any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds an error Result from err.
func Failure(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}

// Failuref builds an error Result from a format string.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Errorf(format, args...))
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Err returns nil for a successful Result and an error carrying Message otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	if r.Message == "" {
		return errors.New("tool call failed")
	}
	return errors.New(r.Message)
}

// String returns the Data value under key, or "" when absent.
func (r Result) String(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
