// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed tracks the live message feed for the selected conversation.
//
// A Feed owns at most one open subscription at a time. Switching
// conversations closes the previous subscription and opens a new one; any
// deliveries still in flight from the old subscription are tagged with
// their conversation id so the UI can discard them. Each delivery is the
// server's complete ordered message list for the conversation, not a delta,
// so a snapshot simply replaces whatever was displayed before.
//
// The feed also decides when the transcript viewport should snap to the
// bottom: only when the message count strictly increased since the previous
// snapshot. Re-deliveries with the same count (edits, reorderings) leave
// the user's scroll position alone.
package feed
