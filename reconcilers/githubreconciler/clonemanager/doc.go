/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package clonemanager keeps one local git clone per GitHub repository under
// a workspace directory. A Manager is configured with the token source used
// for cloning and exposes Lease handles that:
//   - Hydrate the repository and check out a fresh copy of a base branch.
//   - Hold an exclusive lock on the clone's working directory until Return.
//   - Offer WorktreeCallbacks, file operations confined to the clone root.
//
// Clones are reused across leases. Each lease hard-resets and cleans the
// working tree before checking out the requested ref, so leftovers from an
// earlier run never leak into the next one.
package clonemanager
