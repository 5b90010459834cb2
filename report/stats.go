/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/sweagent/toolexec"
)

var statsHeaders = []string{"File", "Change", "+", "-"}

// DiffStats renders per-file diff stats as a markdown table. It returns an
// empty string when there are no stats.
func DiffStats(stats []toolexec.FileStat) (string, error) {
	if len(stats) == 0 {
		return "", nil
	}
	var sb strings.Builder
	table := createStandardTable(statsHeaders, &sb)
	for _, s := range stats {
		row := []string{"`" + s.Path + "`", s.Change, strconv.Itoa(s.Additions), strconv.Itoa(s.Deletions)}
		if err := table.Append(row); err != nil {
			return "", fmt.Errorf("appending row for %s: %w", s.Path, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering diff stats: %w", err)
	}
	return sb.String(), nil
}

// Totals sums the stats across files.
func Totals(stats []toolexec.FileStat) (files, additions, deletions int) {
	for _, s := range stats {
		additions += s.Additions
		deletions += s.Deletions
	}
	return len(stats), additions, deletions
}

// Summary is a one-line description such as "3 files changed, +10 -2".
func Summary(stats []toolexec.FileStat) string {
	files, add, del := Totals(stats)
	noun := "files"
	if files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s changed, +%d -%d", files, noun, add, del)
}
