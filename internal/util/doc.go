// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the synapse TUI.
//
// # Contents
//
//   - Display-width aware string truncation and padding (CJK safe)
//   - Atomic file writes with fsync for crash-safe persistence
package util
