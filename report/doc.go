/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders the results of a workflow run as markdown.

# Overview

The same tables appear in two places: the body of the pull request a run
opens, and the terminal after an operation finishes. Both render through
one table configuration so the output is identical.

# Usage

	table, err := report.DiffStats(outcome.DiffStats)
	if err != nil {
		return err
	}
	fmt.Fprint(w, table)

	// Totals for a one-line summary.
	files, added, deleted := report.Totals(outcome.DiffStats)

# Thread Safety

All functions are pure and safe for concurrent use.
*/
package report
