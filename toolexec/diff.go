/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolexec

import (
	"strings"

	"github.com/waigani/diffparser"
)

// FileStat summarizes the changes to one file in a diff.
type FileStat struct {
	Path      string
	Change    string // added, deleted or modified
	Additions int
	Deletions int
}

// ParseStats computes per-file stats from a unified diff. An empty diff has
// no stats.
func ParseStats(diff string) ([]FileStat, error) {
	if strings.TrimSpace(diff) == "" {
		return nil, nil
	}
	parsed, err := diffparser.Parse(diff)
	if err != nil {
		return nil, err
	}

	stats := make([]FileStat, 0, len(parsed.Files))
	for _, f := range parsed.Files {
		st := FileStat{Path: f.NewName, Change: "modified"}
		switch f.Mode {
		case diffparser.NEW:
			st.Change = "added"
		case diffparser.DELETED:
			st.Change = "deleted"
			st.Path = f.OrigName
		}
		for _, h := range f.Hunks {
			for _, line := range h.NewRange.Lines {
				if line.Mode == diffparser.ADDED {
					st.Additions++
				}
			}
			for _, line := range h.OrigRange.Lines {
				if line.Mode == diffparser.REMOVED {
					st.Deletions++
				}
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// Stats returns the per-file stats of a Diff result.
func (r Result) Stats() []FileStat {
	stats, _ := r.Data[DataStats].([]FileStat)
	return stats
}
