// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the UI components for the synapse TUI.
//
// Components are plain structs updated by the chat model; none of them run
// goroutines of their own. Rendering goes through the shared styles.Theme
// so every component adapts to the terminal background automatically.
package components
