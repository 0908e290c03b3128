// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the synapse TUI.
//
// Colors are defined as Lip Gloss AdaptiveColor pairs so every style works
// on both light and dark terminal backgrounds without configuration. The
// Theme struct bundles the composed styles for each screen region; one
// Theme is created at startup and shared by all views.
package styles
