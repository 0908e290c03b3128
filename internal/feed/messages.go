// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea messages and commands that pump live
// subscription deliveries into the UI loop. Each WaitCmd blocks on one
// delivery; the update handler applies it and issues the next WaitCmd,
// keeping exactly one reader per subscription.
package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/synapsechat/synapse-tui/internal/api"
)

// =============================================================================
// FEED MESSAGES
// =============================================================================

// SubscribedMsg reports the result of opening a subscription.
type SubscribedMsg struct {
	ChatID string
	Sub    api.Subscription
	Err    error
}

// SnapshotMsg delivers one complete message list from the live feed.
type SnapshotMsg struct {
	Snapshot api.Snapshot
}

// EndedMsg signals that a subscription's delivery channel closed. Err is
// nil for a clean close (Detach or server complete).
type EndedMsg struct {
	ChatID string
	Err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// SubscribeCmd opens a subscription for a conversation off the UI loop.
func SubscribeCmd(ctx context.Context, subscriber api.Subscriber, chatID string) tea.Cmd {
	return func() tea.Msg {
		sub, err := subscriber.Subscribe(ctx, chatID)
		return SubscribedMsg{ChatID: chatID, Sub: sub, Err: err}
	}
}

// WaitCmd blocks until the subscription delivers the next snapshot. When
// the channel closes it reports EndedMsg instead.
func WaitCmd(chatID string, sub api.Subscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.Snapshots()
		if !ok {
			return EndedMsg{ChatID: chatID, Err: sub.Err()}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}
