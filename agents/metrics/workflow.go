/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow outcome labels.
const (
	OutcomePullRequest = "pull_request"
	OutcomeNoChanges   = "no_changes"
	OutcomeReview      = "review"
	OutcomeFailed      = "failed"
)

var (
	workflowRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweagent_workflow_runs_total",
			Help: "Workflow runs by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	workflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sweagent_workflow_duration_seconds",
			Help:    "Wall-clock duration of workflow runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"operation"},
	)

	toolFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweagent_tool_failures_total",
			Help: "Tool-execution results that reported an error status",
		},
		[]string{"operation"},
	)
)

// Run tracks one workflow run of a single operation.
type Run struct {
	operation string
	start     time.Time
}

// StartRun begins timing a run of operation.
func StartRun(operation string) *Run {
	return &Run{operation: operation, start: time.Now()}
}

// ToolFailure counts a tool call that returned an error status.
func (r *Run) ToolFailure() {
	toolFailures.WithLabelValues(r.operation).Inc()
}

// Finish records the outcome and elapsed time.
func (r *Run) Finish(outcome string) {
	workflowRuns.WithLabelValues(r.operation, outcome).Inc()
	workflowDuration.WithLabelValues(r.operation).Observe(time.Since(r.start).Seconds())
}
