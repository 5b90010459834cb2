/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the web host repositories are cloned from by default.
const DefaultBaseURL = "https://github.com"

// Option configures a Manager.
type Option func(*Manager) error

// WithBaseURL clones repositories from a GitHub Enterprise host, for example
// "https://ghe.example.com".
func WithBaseURL(base string) Option {
	return func(m *Manager) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parsing base URL %q: %w", base, err)
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			return fmt.Errorf("base URL %q must use http or https", base)
		}
		if u.Host == "" {
			return fmt.Errorf("base URL %q has no host", base)
		}
		m.remoteURL = remoteUnder(base)
		return nil
	}
}

func remoteUnder(base string) func(owner, repo string) string {
	base = strings.TrimSuffix(base, "/")
	return func(owner, repo string) string {
		return base + "/" + owner + "/" + repo
	}
}
