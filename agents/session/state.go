/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import "strings"

// State is the lifecycle state of a session.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// DefaultSentinel is the marker the agent is instructed to emit when done.
const DefaultSentinel = "TERMINATE"

// TerminationFunc decides whether a model message ends the session.
type TerminationFunc func(Message) bool

// ContainsSentinel matches assistant messages whose text contains sentinel.
func ContainsSentinel(sentinel string) TerminationFunc {
	return func(m Message) bool {
		return m.Role == RoleAssistant && strings.Contains(m.Text, sentinel)
	}
}

// machine enforces the single Running -> Terminated transition.
type machine struct {
	state     State
	terminate TerminationFunc
}

// observe feeds a model message to the predicate and reports whether the
// session is now terminated.
func (m *machine) observe(msg Message) bool {
	if m.state == Running && m.terminate(msg) {
		m.state = Terminated
	}
	return m.state == Terminated
}
