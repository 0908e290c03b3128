// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side chat session state.
//
// # Key Types
//
//   - Orchestrator: which conversation is active, whether the session is
//     fresh, and which of the four top-level views should render
//   - Controller: conversation list mutations (create, rename, delete) with
//     two-step delete confirmation and per-row interaction modes
//
// The Orchestrator is the single source of truth for selection: the list
// controller mutates the conversation set and reports back; the feed and
// composer are driven by the Orchestrator's selected id.
//
// The conversation list is re-fetched in full after every mutation rather
// than patched locally. Expected list sizes are tens of rows, and a full
// refetch stays correct when other sessions mutate the same account.
package session
