// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the TUI.
//
// The Model composes everything: the auth form shown before a session
// exists, the conversation sidebar, the transcript viewport, the composer
// input, and the status bar. State lives in the domain packages (session,
// feed, composer); this package translates keystrokes into their operations
// and their Bubble Tea messages back into screen updates.
//
// The main area shows exactly one of four views: the welcome screen for a
// fresh session, a loading indicator while the feed waits for its first
// snapshot, an empty-conversation hint, or the message transcript.
package chat
